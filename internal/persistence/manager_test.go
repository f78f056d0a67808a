package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvhouse/internal/database"
	"kvhouse/internal/object"
)

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ks := database.New(2)
	ks.DB(0).Set("k", object.NewString([]byte("k")), object.NewString([]byte("v")))

	m := NewManager(dir, ks, DefaultSaveRules())
	require.NoError(t, m.Save())
	assert.FileExists(t, filepath.Join(dir, "dump.rdb"))
	assert.Zero(t, m.Dirty())

	fresh := database.New(2)
	m2 := NewManager(dir, fresh, DefaultSaveRules())
	require.NoError(t, m2.Load())

	v, ok := fresh.DB(0).Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v.Bytes())
}

func TestLoadWithNoDumpFileIsNotAnError(t *testing.T) {
	ks := database.New(1)
	m := NewManager(t.TempDir(), ks, DefaultSaveRules())
	assert.NoError(t, m.Load())
}

func TestBGSaveRejectsConcurrentInvocation(t *testing.T) {
	ks := database.New(1)
	m := NewManager(t.TempDir(), ks, DefaultSaveRules())
	atomicBlockBGSave(m)
	assert.Error(t, m.BGSave())
}

// atomicBlockBGSave marks the manager as mid-save without going through a
// real goroutine, isolating the "reject concurrent BGSAVE" behavior from
// filesystem timing.
func atomicBlockBGSave(m *Manager) {
	m.bgInProgress = 1
}

func TestDueRuleHonorsChangesAndElapsed(t *testing.T) {
	ks := database.New(1)
	m := NewManager(t.TempDir(), ks, []SaveRule{{Seconds: 60, Changes: 5}})
	m.lastSaveUnix = time.Now().Add(-90 * time.Second).Unix()

	assert.False(t, m.DueRule(time.Now()))

	m.MarkDirty(5)
	assert.True(t, m.DueRule(time.Now()))
}

func TestDueRuleFalseWhileBGSaveRunning(t *testing.T) {
	ks := database.New(1)
	m := NewManager(t.TempDir(), ks, []SaveRule{{Seconds: 0, Changes: 0}})
	atomicBlockBGSave(m)
	assert.False(t, m.DueRule(time.Now()))
}
