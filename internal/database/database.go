// Package database implements the keyspace: a fixed-size array of
// independent logical databases, each mapping a STRING key object to a
// Value Object.
//
// Every method here assumes it is called from the single goroutine that
// owns the keyspace — there is deliberately no locking anywhere in this
// package.
package database

import (
	"math/rand"

	"kvhouse/internal/object"
)

// shrinkFloor and shrinkFillFactor govern the shrink-rehash policy: a
// database is a shrink-rehash candidate once its backing map is larger
// than shrinkFloor entries of capacity and less than shrinkFillFactor
// full.
const (
	shrinkFloor      = 16384
	shrinkFillFactor = 0.10
)

// entry pairs the owned key object with its value object. Keeping the key
// object alive (rather than just its Go string) lets RandomKey and
// iteration return a value with the same identity semantics as the rest
// of the Value Object model.
type entry struct {
	key *object.Object
	val *object.Object
}

// Database is one of the N logical databases sharing the process.
type Database struct {
	dict map[string]entry
	// highWater tracks the largest size this dict has reached since its
	// last shrink, used to compute the fill-factor shrink trigger without
	// needing Go map internals (which don't expose real capacity).
	highWater int
}

func newDatabase() *Database {
	return &Database{dict: make(map[string]entry)}
}

// Keyspace is the fixed-size array of N databases sharing the process.
type Keyspace struct {
	dbs []*Database
}

// New allocates a Keyspace of n logical databases (default 16).
func New(n int) *Keyspace {
	ks := &Keyspace{dbs: make([]*Database, n)}
	for i := range ks.dbs {
		ks.dbs[i] = newDatabase()
	}
	return ks
}

// Len reports the number of logical databases.
func (ks *Keyspace) Len() int { return len(ks.dbs) }

// DB returns database i. The caller (the dispatcher) is responsible for
// validating i is in range; SELECT does that validation explicitly so it
// can return an `-ERR` reply instead of panicking.
func (ks *Keyspace) DB(i int) *Database { return ks.dbs[i] }

// Get looks up key, returning its value object (a borrowed reference) and
// whether it exists.
func (d *Database) Get(key string) (*object.Object, bool) {
	e, ok := d.dict[key]
	if !ok {
		return nil, false
	}
	return e.val, true
}

// Set installs val under key, overwriting any existing entry. It takes
// ownership of one reference to val (the caller must have IncrRef'd it for
// this call) and, if key is new, takes ownership of keyObj the same way.
// On overwrite, the previous value is released.
func (d *Database) Set(key string, keyObj, val *object.Object) {
	if e, exists := d.dict[key]; exists {
		object.DecrRef(e.val)
		d.dict[key] = entry{key: e.key, val: val}
		object.DecrRef(keyObj) // caller's new key object isn't needed; old one is kept
		return
	}
	d.dict[key] = entry{key: keyObj, val: val}
	d.trackGrowth()
}

// Del removes key, releasing both the key and value references, reporting
// whether the key had existed.
func (d *Database) Del(key string) bool {
	e, ok := d.dict[key]
	if !ok {
		return false
	}
	delete(d.dict, key)
	object.DecrRef(e.key)
	object.DecrRef(e.val)
	d.maybeShrink()
	return true
}

// Exists reports whether key is present.
func (d *Database) Exists(key string) bool {
	_, ok := d.dict[key]
	return ok
}

// Len reports the database's cardinality (DBSIZE).
func (d *Database) Len() int { return len(d.dict) }

// Keys returns every key currently present. Order is unspecified —
// insertion order is not observed.
func (d *Database) Keys() []string {
	out := make([]string, 0, len(d.dict))
	for k := range d.dict {
		out = append(out, k)
	}
	return out
}

// RandomKey returns a uniformly random existing key, or "" if the database
// is empty (RANDOMKEY). It draws a random position with rand.Intn and walks
// the map to that position, without building an auxiliary index.
func (d *Database) RandomKey() (string, bool) {
	if len(d.dict) == 0 {
		return "", false
	}
	n := rand.Intn(len(d.dict))
	i := 0
	for k := range d.dict {
		if i == n {
			return k, true
		}
		i++
	}
	// Unreachable for n < len(d.dict).
	return "", false
}

// Rename moves the value at src onto dst, taking ownership of dstKey as
// the new key object for that slot (the caller creates it with refcount 1,
// since it carries the destination's own bytes, not src's). If dst already
// held a value, that old key and value are released. Returns false if src
// is missing.
func (d *Database) Rename(src, dst string, dstKey *object.Object) bool {
	e, ok := d.dict[src]
	if !ok {
		return false
	}
	delete(d.dict, src)
	object.DecrRef(e.key)
	if old, exists := d.dict[dst]; exists {
		object.DecrRef(old.key)
		object.DecrRef(old.val)
	} else {
		d.trackGrowth()
	}
	d.dict[dst] = entry{key: dstKey, val: e.val}
	return true
}

// trackGrowth/maybeShrink implement the high-water/fill-factor shrink
// policy. Go's builtin map never exposes its real bucket count, so "size"
// here is approximated by the high-water mark reached since the last
// shrink — good enough to decide when a rebuild is worth the log line and
// the reallocation.
func (d *Database) trackGrowth() {
	if len(d.dict) > d.highWater {
		d.highWater = len(d.dict)
	}
}

// ShouldShrink reports whether this database is a shrink-rehash candidate:
// used/size < 10% and size > 16384.
func (d *Database) ShouldShrink() bool {
	if d.highWater <= shrinkFloor {
		return false
	}
	fill := float64(len(d.dict)) / float64(d.highWater)
	return fill < shrinkFillFactor
}

func (d *Database) maybeShrink() {
	if !d.ShouldShrink() {
		return
	}
	d.Shrink()
}

// Shrink rebuilds the backing map at its current size, releasing whatever
// extra capacity the runtime was holding, and resets the high-water mark.
func (d *Database) Shrink() {
	fresh := make(map[string]entry, len(d.dict))
	for k, e := range d.dict {
		fresh[k] = e
	}
	d.dict = fresh
	d.highWater = len(d.dict)
}

// ForEach visits every key/value pair currently present, in unspecified
// order. Used by internal/snapshot to walk a database for writing; fn must
// not mutate the database.
func (d *Database) ForEach(fn func(key string, val *object.Object)) {
	for k, e := range d.dict {
		fn(k, e.val)
	}
}

// Flush removes every key, releasing all references. Not exposed as a
// command but used by snapshot load to reset a database before restoring
// it.
func (d *Database) Flush() {
	for _, e := range d.dict {
		object.DecrRef(e.key)
		object.DecrRef(e.val)
	}
	d.dict = make(map[string]entry)
	d.highWater = 0
}
