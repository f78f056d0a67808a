// Package persistence implements SAVE/BGSAVE orchestration and save-rule
// evaluation on top of internal/snapshot's RDB-0000 codec.
//
// A naive background save would race the single dispatcher goroutine
// that owns the keyspace if it read live container spines from a second
// goroutine, so instead: capture a flat, independent snapshot.Image
// synchronously on the dispatcher goroutine (the moment BGSAVE is
// invoked), then hand that image to a background goroutine for the disk
// write — the dispatcher is free to keep mutating the live keyspace the
// instant Capture returns.
package persistence

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"kvhouse/internal/database"
	"kvhouse/internal/logger"
	"kvhouse/internal/snapshot"
)

// SaveRule is one (seconds, changes) entry from a `save` config directive:
// a save fires once at least Changes mutations have accumulated AND at
// least Seconds have elapsed since the last successful save.
type SaveRule struct {
	Seconds int
	Changes int
}

// DefaultSaveRules returns the built-in default `save` directives.
func DefaultSaveRules() []SaveRule {
	return []SaveRule{
		{Seconds: 3600, Changes: 1},
		{Seconds: 300, Changes: 100},
		{Seconds: 60, Changes: 10000},
	}
}

// Manager owns the dump file path, the dirty/last-save counters, and the
// in-progress flag.
type Manager struct {
	dir       string
	keyspace  *database.Keyspace
	saveRules []SaveRule

	dirty        int64
	lastSaveUnix int64
	bgInProgress int32 // 0 = idle, 1 = running, via atomic CompareAndSwap
}

// NewManager wires a Manager to ks, writing/reading dump.rdb under dir.
func NewManager(dir string, ks *database.Keyspace, rules []SaveRule) *Manager {
	return &Manager{
		dir:          dir,
		keyspace:     ks,
		saveRules:    rules,
		lastSaveUnix: time.Now().Unix(),
	}
}

func (m *Manager) dumpPath() string {
	return filepath.Join(m.dir, "dump.rdb")
}

// Load restores the keyspace from dump.rdb if present. Called once at
// startup, before the dispatcher begins serving clients.
func (m *Manager) Load() error {
	img, err := snapshot.Read(m.dumpPath())
	if err != nil {
		return fmt.Errorf("persistence: load: %w", err)
	}
	snapshot.Restore(m.keyspace, img)
	logger.Infof("loaded %d databases from %s", len(img.DBs), m.dumpPath())
	return nil
}

// MarkDirty records n mutations since the last successful save, feeding
// the save-rule evaluation in Cron.
func (m *Manager) MarkDirty(n int) {
	atomic.AddInt64(&m.dirty, int64(n))
}

// Dirty reports the current change counter.
func (m *Manager) Dirty() int64 { return atomic.LoadInt64(&m.dirty) }

// LastSaveUnix reports the unix timestamp of the last successful save,
// satisfying command.Persister (LASTSAVE).
func (m *Manager) LastSaveUnix() int64 { return atomic.LoadInt64(&m.lastSaveUnix) }

// BGSaveInProgress reports whether a background save is currently writing.
func (m *Manager) BGSaveInProgress() bool { return atomic.LoadInt32(&m.bgInProgress) == 1 }

// Save performs a synchronous, in-dispatcher-goroutine snapshot: capture
// and write both happen before returning.
func (m *Manager) Save() error {
	img := snapshot.Capture(m.keyspace)
	if err := snapshot.Write(m.dumpPath(), img); err != nil {
		return err
	}
	m.recordSaveSuccess()
	return nil
}

// BGSave captures the image synchronously (so the result reflects exactly
// the keyspace state at invocation time) then writes it from a background
// goroutine, satisfying command.Persister (BGSAVE). A concurrent BGSAVE
// is rejected with an error rather than queued.
func (m *Manager) BGSave() error {
	if !atomic.CompareAndSwapInt32(&m.bgInProgress, 0, 1) {
		return fmt.Errorf("background save already in progress")
	}
	img := snapshot.Capture(m.keyspace)
	go func() {
		defer atomic.StoreInt32(&m.bgInProgress, 0)
		if err := snapshot.Write(m.dumpPath(), img); err != nil {
			logger.Errorf("background save failed: %v", err)
			return
		}
		m.recordSaveSuccess()
		logger.Info("background save completed")
	}()
	return nil
}

func (m *Manager) recordSaveSuccess() {
	atomic.StoreInt64(&m.dirty, 0)
	atomic.StoreInt64(&m.lastSaveUnix, time.Now().Unix())
}

// DueRule reports whether any configured save rule is currently
// satisfied, for the cron's periodic save-rule evaluation.
func (m *Manager) DueRule(now time.Time) bool {
	if m.BGSaveInProgress() {
		return false
	}
	dirty := m.Dirty()
	elapsed := int(now.Unix() - m.LastSaveUnix())
	for _, rule := range m.saveRules {
		if dirty >= int64(rule.Changes) && elapsed >= rule.Seconds {
			return true
		}
	}
	return false
}
