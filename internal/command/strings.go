package command

import (
	"strconv"

	"kvhouse/internal/object"
)

// registerStrings wires SET, SETNX, GET, INCR, DECR, INCRBY, DECRBY.
func registerStrings(r *Registry) {
	r.register(&Command{Name: "set", Arity: 3, Framing: Bulk, Handler: setCmd})
	r.register(&Command{Name: "setnx", Arity: 3, Framing: Bulk, Handler: setnxCmd})
	r.register(&Command{Name: "get", Arity: 2, Framing: Inline, Handler: getCmd})
	r.register(&Command{Name: "incr", Arity: 2, Framing: Inline, Handler: incrCmd})
	r.register(&Command{Name: "decr", Arity: 2, Framing: Inline, Handler: decrCmd})
	r.register(&Command{Name: "incrby", Arity: 3, Framing: Inline, Handler: incrbyCmd})
	r.register(&Command{Name: "decrby", Arity: 3, Framing: Inline, Handler: decrbyCmd})
}

// setCmd unconditionally installs argv[2] under argv[1], replacing any
// existing entry of any type.
func setCmd(ctx *Context) []*object.Object {
	key := string(ctx.Argv[1])
	val := object.NewString(ctx.Argv[2])
	keyObj := newKey(ctx.Argv[1])
	ctx.DB.Set(key, keyObj, val)
	return simpleOK(ctx)
}

// setnxCmd installs only if key is currently absent.
func setnxCmd(ctx *Context) []*object.Object {
	key := string(ctx.Argv[1])
	if ctx.DB.Exists(key) {
		return zero(ctx)
	}
	val := object.NewString(ctx.Argv[2])
	keyObj := newKey(ctx.Argv[1])
	ctx.DB.Set(key, keyObj, val)
	return oneReply(ctx)
}

// getCmd returns the value as bulk if STRING, nil if absent, or a
// wrong-type sentinel otherwise.
func getCmd(ctx *Context) []*object.Object {
	key := string(ctx.Argv[1])
	v, ok := ctx.DB.Get(key)
	if !ok {
		return nilReply(ctx)
	}
	if v.Type() != object.String {
		return wrongType(ctx)
	}
	return bulkReply(v.Bytes())
}

func incrCmd(ctx *Context) []*object.Object { return incrDecr(ctx, 1) }
func decrCmd(ctx *Context) []*object.Object { return incrDecr(ctx, -1) }

func incrbyCmd(ctx *Context) []*object.Object {
	n, err := strconv.Atoi(string(ctx.Argv[2]))
	if err != nil {
		n = 0
	}
	return incrDecr(ctx, int64(n))
}

func decrbyCmd(ctx *Context) []*object.Object {
	n, err := strconv.Atoi(string(ctx.Argv[2]))
	if err != nil {
		n = 0
	}
	return incrDecr(ctx, -int64(n))
}

// incrDecr reads the current value as a signed 64-bit decimal (treating a
// missing key or a non-numeric STRING as 0), adds delta, and writes the
// result back as a fresh STRING — replacing whatever was there, including
// a previous LIST or SET, atomically.
func incrDecr(ctx *Context, delta int64) []*object.Object {
	key := string(ctx.Argv[1])
	var current int64
	if v, ok := ctx.DB.Get(key); ok && v.Type() == object.String {
		if n, err := parseInt(v.Bytes()); err == nil {
			current = n
		}
	}
	result := current + delta
	val := object.NewString([]byte(strconv.FormatInt(result, 10)))
	keyObj := newKey(ctx.Argv[1])
	ctx.DB.Set(key, keyObj, val)
	return numReply(result)
}
