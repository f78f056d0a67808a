package snapshot

import "kvhouse/internal/database"
import "kvhouse/internal/object"

// DBImage is an immutable, point-in-time view of one logical database:
// every STRING/LIST/SET value flattened into plain byte slices. LIST and
// SET spines are copied (a fresh slice of element references) so a
// concurrent command on the live dispatcher can keep mutating the real
// container without racing the background writer; the leaf byte payloads
// themselves are shared by reference since this protocol never mutates a
// STRING's bytes in place (SET/LSET/etc. always install a brand new
// object), so strings may be shared immutably.
type DBImage struct {
	Index   int
	Strings map[string][]byte
	Lists   map[string][][]byte
	Sets    map[string][][]byte
}

// Image is the full keyspace capture a Save/BGSave writes to disk.
type Image struct {
	DBs []DBImage
}

// Capture walks ks and builds an Image. It must run on the single goroutine
// that owns the keyspace so the copy it produces is a consistent snapshot
// of the state at the instant the save was initiated. Databases with no
// keys are omitted.
func Capture(ks *database.Keyspace) *Image {
	img := &Image{}
	for i := 0; i < ks.Len(); i++ {
		db := ks.DB(i)
		dbImg := DBImage{Index: i}
		db.ForEach(func(key string, val *object.Object) {
			switch val.Type() {
			case object.String:
				if dbImg.Strings == nil {
					dbImg.Strings = make(map[string][]byte)
				}
				dbImg.Strings[key] = val.Bytes()
			case object.List:
				n := val.LLen()
				elems := make([][]byte, 0, n)
				if n > 0 {
					for _, e := range val.LRange(0, n-1) {
						elems = append(elems, e.Bytes())
					}
				}
				if dbImg.Lists == nil {
					dbImg.Lists = make(map[string][][]byte)
				}
				dbImg.Lists[key] = elems
			case object.Set:
				members := val.SMembers()
				elems := make([][]byte, 0, len(members))
				for _, m := range members {
					elems = append(elems, m.Bytes())
				}
				if dbImg.Sets == nil {
					dbImg.Sets = make(map[string][][]byte)
				}
				dbImg.Sets[key] = elems
			}
		})
		if len(dbImg.Strings)+len(dbImg.Lists)+len(dbImg.Sets) > 0 {
			img.DBs = append(img.DBs, dbImg)
		}
	}
	return img
}

// Restore populates ks from img, used at startup load. ks must already be
// sized to accommodate every DBImage.Index (internal/config's `databases`
// directive governs that).
func Restore(ks *database.Keyspace, img *Image) {
	for _, dbImg := range img.DBs {
		db := ks.DB(dbImg.Index)
		for k, v := range dbImg.Strings {
			db.Set(k, object.NewString(copyOf(k)), object.NewString(copyOf2(v)))
		}
		for k, elems := range dbImg.Lists {
			lst := object.NewList()
			for _, e := range elems {
				lst.LPushBack(object.NewString(copyOf2(e)))
			}
			db.Set(k, object.NewString(copyOf(k)), lst)
		}
		for k, members := range dbImg.Sets {
			s := object.NewSet()
			for _, m := range members {
				s.SAdd(string(m), object.NewString(copyOf2(m)))
			}
			db.Set(k, object.NewString(copyOf(k)), s)
		}
	}
}

func copyOf(s string) []byte {
	b := make([]byte, len(s))
	copy(b, s)
	return b
}

func copyOf2(b []byte) []byte {
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
