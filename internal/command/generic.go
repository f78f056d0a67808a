package command

import (
	"strconv"

	"kvhouse/internal/object"
	"kvhouse/internal/protocol"
)

// registerGeneric wires the type-agnostic key commands: DEL, EXISTS,
// SELECT, RANDOMKEY, KEYS, DBSIZE, TYPE, RENAME, RENAMENX, MOVE.
func registerGeneric(r *Registry) {
	r.register(&Command{Name: "del", Arity: 2, Framing: Inline, Handler: delCmd})
	r.register(&Command{Name: "exists", Arity: 2, Framing: Inline, Handler: existsCmd})
	r.register(&Command{Name: "select", Arity: 2, Framing: Inline, Handler: selectCmd})
	r.register(&Command{Name: "randomkey", Arity: 1, Framing: Inline, Handler: randomKeyCmd})
	r.register(&Command{Name: "keys", Arity: 2, Framing: Inline, Handler: keysCmd})
	r.register(&Command{Name: "dbsize", Arity: 1, Framing: Inline, Handler: dbsizeCmd})
	r.register(&Command{Name: "type", Arity: 2, Framing: Inline, Handler: typeCmd})
	r.register(&Command{Name: "rename", Arity: 3, Framing: Inline, Handler: renameCmd})
	r.register(&Command{Name: "renamenx", Arity: 3, Framing: Inline, Handler: renamenxCmd})
	r.register(&Command{Name: "move", Arity: 3, Framing: Inline, Handler: moveCmd})
}

func delCmd(ctx *Context) []*object.Object {
	if ctx.DB.Del(string(ctx.Argv[1])) {
		return oneReply(ctx)
	}
	return zero(ctx)
}

func existsCmd(ctx *Context) []*object.Object {
	if ctx.DB.Exists(string(ctx.Argv[1])) {
		return oneReply(ctx)
	}
	return zero(ctx)
}

func selectCmd(ctx *Context) []*object.Object {
	idx, err := strconv.Atoi(string(ctx.Argv[1]))
	if err != nil || idx < 0 || idx >= ctx.Keyspace.Len() {
		return errReply("ERR invalid DB index")
	}
	ctx.SelectDB(idx)
	return simpleOK(ctx)
}

// randomKeyCmd replies with the raw key bytes followed by CRLF — unlike
// every other key-returning reply, RANDOMKEY's success case carries no
// length prefix.
func randomKeyCmd(ctx *Context) []*object.Object {
	k, ok := ctx.DB.RandomKey()
	if !ok {
		return []*object.Object{object.Use(ctx.Shared.CRLF)}
	}
	return one([]byte(k + "\r\n"))
}

func keysCmd(ctx *Context) []*object.Object {
	pattern := ctx.Argv[1]
	star := len(pattern) == 1 && pattern[0] == '*'
	var matched [][]byte
	for _, k := range ctx.DB.Keys() {
		kb := []byte(k)
		if star || MatchPattern(pattern, kb) {
			matched = append(matched, kb)
		}
	}
	return one(protocol.KeysLine(matched))
}

func dbsizeCmd(ctx *Context) []*object.Object { return numReply(int64(ctx.DB.Len())) }

// typeCmd replies with the bare type name followed by CRLF (no length
// prefix).
func typeCmd(ctx *Context) []*object.Object {
	name := "none"
	if v, ok := ctx.DB.Get(string(ctx.Argv[1])); ok {
		name = v.Type().String()
	}
	return one([]byte(name + "\r\n"))
}

// renameCmd always overwrites dst if present; only a missing src or
// src==dst are errors.
func renameCmd(ctx *Context) []*object.Object {
	src, dst := string(ctx.Argv[1]), string(ctx.Argv[2])
	if src == dst {
		return errReply("ERR src and dest key are the same")
	}
	if !ctx.DB.Exists(src) {
		return errReply("ERR no such key")
	}
	ctx.DB.Rename(src, dst, newKey(copyBytes(ctx.Argv[2])))
	return simpleOK(ctx)
}

// renamenxCmd fails (0) if dst already exists, using the sentinel replies
// for the same-key and missing-src cases.
func renamenxCmd(ctx *Context) []*object.Object {
	src, dst := string(ctx.Argv[1]), string(ctx.Argv[2])
	if src == dst {
		return []*object.Object{object.Use(ctx.Shared.SameKey)}
	}
	if !ctx.DB.Exists(src) {
		return []*object.Object{object.Use(ctx.Shared.NoSuchKey)}
	}
	if ctx.DB.Exists(dst) {
		return zero(ctx)
	}
	ctx.DB.Rename(src, dst, newKey(copyBytes(ctx.Argv[2])))
	return oneReply(ctx)
}

// moveCmd transfers key from the current database to dbN: failing (0) if
// src is missing, the destination db already holds the key, or (sentinel
// -3) if src and dst name the same database; an invalid db index is the
// out-of-range sentinel (-4).
func moveCmd(ctx *Context) []*object.Object {
	dstIdx, err := strconv.Atoi(string(ctx.Argv[2]))
	if err != nil || dstIdx < 0 || dstIdx >= ctx.Keyspace.Len() {
		return []*object.Object{object.Use(ctx.Shared.OutOfRange)}
	}
	if dstIdx == ctx.DBIndex {
		return []*object.Object{object.Use(ctx.Shared.SameKey)}
	}
	key := string(ctx.Argv[1])
	v, ok := ctx.DB.Get(key)
	if !ok {
		return zero(ctx)
	}
	dstDB := ctx.Keyspace.DB(dstIdx)
	if dstDB.Exists(key) {
		return zero(ctx)
	}
	object.IncrRef(v)
	dstDB.Set(key, newKey(copyBytes(ctx.Argv[1])), v)
	ctx.DB.Del(key)
	return oneReply(ctx)
}

func copyBytes(b []byte) []byte {
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
