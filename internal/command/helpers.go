package command

import (
	"strconv"

	"kvhouse/internal/object"
	"kvhouse/internal/protocol"
)

// frag wraps a raw wire fragment in a freshly allocated STRING object
// (refcount 1) so it can be enqueued on a client's reply queue like any
// other Value Object.
func frag(b []byte) *object.Object { return object.NewString(b) }

func one(b []byte) []*object.Object { return []*object.Object{frag(b)} }

func simpleOK(ctx *Context) []*object.Object { return []*object.Object{object.Use(ctx.Shared.OK)} }

func nilReply(ctx *Context) []*object.Object { return []*object.Object{object.Use(ctx.Shared.Nil)} }

func zero(ctx *Context) []*object.Object { return []*object.Object{object.Use(ctx.Shared.Zero)} }

func oneReply(ctx *Context) []*object.Object { return []*object.Object{object.Use(ctx.Shared.One)} }

func errReply(msg string) []*object.Object { return one(protocol.ErrorReply(msg)) }

func numReply(n int64) []*object.Object { return one(protocol.Number(n)) }

func bulkReply(payload []byte) []*object.Object { return one(protocol.Bulk(payload)) }

// newKey builds an owned (refcount 1) STRING key object from b without
// copying it. Every argv slot is allocated fresh per parsed command
// (protocol.copyFields, or the parser's copy of a bulk payload), so a
// plain reference to a key argument is safe to keep.
func newKey(b []byte) *object.Object { return object.NewString(b) }

// lookupTyped fetches key and verifies it is either absent or of typ,
// returning the object (nil if absent) and whether a WRONGTYPE reply was
// already produced (in which case the caller must return immediately).
func lookupTyped(ctx *Context, key string, typ object.Type) (*object.Object, []*object.Object) {
	v, ok := ctx.DB.Get(key)
	if !ok {
		return nil, nil
	}
	if v.Type() != typ {
		return nil, wrongType(ctx)
	}
	return v, nil
}

// parseInt parses a base-10 signed integer argument, the way every numeric
// command argument (INCRBY's increment, LRANGE's indices, ...) is read.
func parseInt(b []byte) (int64, error) {
	return strconv.ParseInt(string(b), 10, 64)
}

// resolveIndex converts a possibly-negative, list-relative index (as used
// by LINDEX/LSET/LRANGE/LTRIM) into a 0-based head-relative index, or
// reports it is out of range.
func resolveIndex(i int64, length int) (int, bool) {
	if i < 0 {
		i += int64(length)
	}
	if i < 0 || i >= int64(length) {
		return 0, false
	}
	return int(i), true
}
