package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvhouse/internal/database"
	"kvhouse/internal/object"
)

func TestCaptureSkipsEmptyDatabases(t *testing.T) {
	ks := database.New(3)
	ks.DB(1).Set("k", object.NewString([]byte("k")), object.NewString([]byte("v")))

	img := Capture(ks)
	require.Len(t, img.DBs, 1)
	assert.Equal(t, 1, img.DBs[0].Index)
	assert.Equal(t, []byte("v"), img.DBs[0].Strings["k"])
}

func TestCaptureFlattensListsAndSets(t *testing.T) {
	ks := database.New(1)
	db := ks.DB(0)

	lst := object.NewList()
	lst.LPushBack(object.NewString([]byte("a")))
	lst.LPushBack(object.NewString([]byte("b")))
	db.Set("mylist", object.NewString([]byte("mylist")), lst)

	set := object.NewSet()
	set.SAdd("x", object.NewString([]byte("x")))
	db.Set("myset", object.NewString([]byte("myset")), set)

	img := Capture(ks)
	require.Len(t, img.DBs, 1)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, img.DBs[0].Lists["mylist"])
	assert.Equal(t, [][]byte{[]byte("x")}, img.DBs[0].Sets["myset"])
}

func TestWriteReadRoundTrip(t *testing.T) {
	ks := database.New(2)
	ks.DB(0).Set("s", object.NewString([]byte("s")), object.NewString([]byte("hello")))
	lst := object.NewList()
	lst.LPushBack(object.NewString([]byte("one")))
	ks.DB(1).Set("l", object.NewString([]byte("l")), lst)

	img := Capture(ks)
	path := filepath.Join(t.TempDir(), "dump.rdb")
	require.NoError(t, Write(path, img))

	loaded, err := Read(path)
	require.NoError(t, err)
	require.Len(t, loaded.DBs, 2)

	var db0, db1 *DBImage
	for i := range loaded.DBs {
		switch loaded.DBs[i].Index {
		case 0:
			db0 = &loaded.DBs[i]
		case 1:
			db1 = &loaded.DBs[i]
		}
	}
	require.NotNil(t, db0)
	require.NotNil(t, db1)
	assert.Equal(t, []byte("hello"), db0.Strings["s"])
	assert.Equal(t, [][]byte{[]byte("one")}, db1.Lists["l"])
}

func TestReadMissingFileReturnsEmptyImage(t *testing.T) {
	img, err := Read(filepath.Join(t.TempDir(), "nope.rdb"))
	require.NoError(t, err)
	assert.Empty(t, img.DBs)
}

func TestReadRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.rdb")
	require.NoError(t, writeRaw(path, []byte("NOTAREALDUMP")))
	_, err := Read(path)
	assert.Error(t, err)
}

func TestRestorePopulatesKeyspace(t *testing.T) {
	img := &Image{DBs: []DBImage{
		{
			Index:   0,
			Strings: map[string][]byte{"k": []byte("v")},
			Lists:   map[string][][]byte{"l": {[]byte("x"), []byte("y")}},
			Sets:    map[string][][]byte{"s": {[]byte("m")}},
		},
	}}
	ks := database.New(1)
	Restore(ks, img)

	v, ok := ks.DB(0).Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v.Bytes())

	l, ok := ks.DB(0).Get("l")
	require.True(t, ok)
	assert.Equal(t, 2, l.LLen())

	s, ok := ks.DB(0).Get("s")
	require.True(t, ok)
	assert.True(t, s.SIsMember("m"))
}

func writeRaw(path string, b []byte) error {
	return os.WriteFile(path, b, 0o644)
}
