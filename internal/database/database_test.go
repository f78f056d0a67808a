package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kvhouse/internal/object"
)

func TestSetGetOverwrite(t *testing.T) {
	ks := New(1)
	db := ks.DB(0)

	db.Set("k", object.NewString([]byte("k")), object.NewString([]byte("v1")))
	v, ok := db.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v1", string(v.Bytes()))

	db.Set("k", object.NewString([]byte("k")), object.NewString([]byte("v2")))
	v, ok = db.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v2", string(v.Bytes()))
	assert.Equal(t, 1, db.Len())
}

func TestDelReportsExistence(t *testing.T) {
	ks := New(1)
	db := ks.DB(0)
	db.Set("k", object.NewString([]byte("k")), object.NewString([]byte("v")))

	assert.True(t, db.Del("k"))
	assert.False(t, db.Del("k"))
	assert.False(t, db.Exists("k"))
}

func TestRenameMovesValueAndOverwritesDst(t *testing.T) {
	ks := New(1)
	db := ks.DB(0)
	db.Set("src", object.NewString([]byte("src")), object.NewString([]byte("v1")))
	db.Set("dst", object.NewString([]byte("dst")), object.NewString([]byte("stale")))

	ok := db.Rename("src", "dst", object.NewString([]byte("dst")))
	assert.True(t, ok)
	assert.False(t, db.Exists("src"))
	v, exists := db.Get("dst")
	assert.True(t, exists)
	assert.Equal(t, "v1", string(v.Bytes()))
	assert.Equal(t, 1, db.Len())
}

func TestRenameMissingSrcFails(t *testing.T) {
	ks := New(1)
	db := ks.DB(0)
	assert.False(t, db.Rename("nope", "dst", object.NewString([]byte("dst"))))
}

func TestRandomKeyEmptyDatabase(t *testing.T) {
	ks := New(1)
	db := ks.DB(0)
	_, ok := db.RandomKey()
	assert.False(t, ok)
}

func TestShrinkPolicyThreshold(t *testing.T) {
	db := newDatabase()
	db.highWater = shrinkFloor + 1
	assert.True(t, db.ShouldShrink()) // empty dict: highWater exceeds the floor AND fill is 0% (< 10%)
	for i := 0; i < 10; i++ {
		db.dict["k"+string(rune('a'+i))] = entry{}
	}
	assert.True(t, db.ShouldShrink())
}

func TestFlushReleasesEverything(t *testing.T) {
	ks := New(1)
	db := ks.DB(0)
	db.Set("a", object.NewString([]byte("a")), object.NewString([]byte("1")))
	db.Set("b", object.NewString([]byte("b")), object.NewString([]byte("2")))
	db.Flush()
	assert.Equal(t, 0, db.Len())
	assert.False(t, db.Exists("a"))
}
