package command

import (
	"kvhouse/internal/object"
	"kvhouse/internal/protocol"
)

// registerLists wires LPUSH, RPUSH, LPOP, RPOP, LLEN, LINDEX, LSET,
// LRANGE, LTRIM.
func registerLists(r *Registry) {
	r.register(&Command{Name: "lpush", Arity: 3, Framing: Bulk, Handler: lpushCmd})
	r.register(&Command{Name: "rpush", Arity: 3, Framing: Bulk, Handler: rpushCmd})
	r.register(&Command{Name: "lpop", Arity: 2, Framing: Inline, Handler: lpopCmd})
	r.register(&Command{Name: "rpop", Arity: 2, Framing: Inline, Handler: rpopCmd})
	r.register(&Command{Name: "llen", Arity: 2, Framing: Inline, Handler: llenCmd})
	r.register(&Command{Name: "lindex", Arity: 3, Framing: Inline, Handler: lindexCmd})
	r.register(&Command{Name: "lset", Arity: 4, Framing: Bulk, Handler: lsetCmd})
	r.register(&Command{Name: "lrange", Arity: 4, Framing: Inline, Handler: lrangeCmd})
	r.register(&Command{Name: "ltrim", Arity: 4, Framing: Inline, Handler: ltrimCmd})
}

// getOrCreateList fetches key's list, creating an empty one if absent.
// Returns nil plus a wrong-type reply if key holds a non-list value.
func getOrCreateList(ctx *Context, key string) (*object.Object, []*object.Object) {
	v, ok := ctx.DB.Get(key)
	if !ok {
		lst := object.NewList()
		ctx.DB.Set(key, newKey(copyBytes([]byte(key))), lst)
		object.IncrRef(lst) // DB.Set consumed one ref; handler keeps a borrowed one
		return lst, nil
	}
	if v.Type() != object.List {
		return nil, wrongType(ctx)
	}
	object.IncrRef(v) // caller balances with a DecrRef, same as the new-list branch
	return v, nil
}

func lpushCmd(ctx *Context) []*object.Object { return pushCmd(ctx, true) }
func rpushCmd(ctx *Context) []*object.Object { return pushCmd(ctx, false) }

func pushCmd(ctx *Context, front bool) []*object.Object {
	key := string(ctx.Argv[1])
	lst, errReply := getOrCreateList(ctx, key)
	if errReply != nil {
		return errReply
	}
	el := object.NewString(copyBytes(ctx.Argv[2]))
	if front {
		lst.LPushFront(el)
	} else {
		lst.LPushBack(el)
	}
	object.DecrRef(lst) // release the borrowed reference from getOrCreateList
	return simpleOK(ctx)
}

func lpopCmd(ctx *Context) []*object.Object { return popCmd(ctx, true) }
func rpopCmd(ctx *Context) []*object.Object { return popCmd(ctx, false) }

func popCmd(ctx *Context, front bool) []*object.Object {
	key := string(ctx.Argv[1])
	v, wt := lookupTyped(ctx, key, object.List)
	if wt != nil {
		return wt
	}
	if v == nil {
		return nilReply(ctx)
	}
	var el *object.Object
	var ok bool
	if front {
		el, ok = v.LPopFront()
	} else {
		el, ok = v.LPopBack()
	}
	if !ok {
		return nilReply(ctx)
	}
	defer object.DecrRef(el)
	return bulkReply(el.Bytes())
}

func llenCmd(ctx *Context) []*object.Object {
	v, wt := lookupTyped(ctx, string(ctx.Argv[1]), object.List)
	if wt != nil {
		return wt
	}
	if v == nil {
		return zero(ctx)
	}
	return numReply(int64(v.LLen()))
}

func lindexCmd(ctx *Context) []*object.Object {
	v, wt := lookupTyped(ctx, string(ctx.Argv[1]), object.List)
	if wt != nil {
		return wt
	}
	if v == nil {
		return nilReply(ctx)
	}
	n, err := parseInt(ctx.Argv[2])
	if err != nil {
		return nilReply(ctx)
	}
	idx, ok := resolveIndex(n, v.LLen())
	if !ok {
		return nilReply(ctx)
	}
	el, _ := v.LIndex(idx)
	return bulkReply(el.Bytes())
}

func lsetCmd(ctx *Context) []*object.Object {
	v, wt := lookupTyped(ctx, string(ctx.Argv[1]), object.List)
	if wt != nil {
		return wt
	}
	if v == nil {
		return []*object.Object{object.Use(ctx.Shared.NoSuchKey)}
	}
	n, err := parseInt(ctx.Argv[2])
	if err != nil {
		return []*object.Object{object.Use(ctx.Shared.InvalidIndex)}
	}
	idx, ok := resolveIndex(n, v.LLen())
	if !ok {
		return []*object.Object{object.Use(ctx.Shared.InvalidIndex)}
	}
	el := object.NewString(copyBytes(ctx.Argv[3]))
	v.LSet(idx, el)
	return simpleOK(ctx)
}

// clampRange implements the negative-index normalization shared by LRANGE
// and LTRIM: idx<0 -> len+idx, then floor at 0.
func clampRange(start, end int64, length int) (int, int) {
	if start < 0 {
		start += int64(length)
	}
	if end < 0 {
		end += int64(length)
	}
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = 0
	}
	return int(start), int(end)
}

func lrangeCmd(ctx *Context) []*object.Object {
	v, wt := lookupTyped(ctx, string(ctx.Argv[1]), object.List)
	if wt != nil {
		return wt
	}
	if v == nil {
		return nilReply(ctx)
	}
	startArg, err1 := parseInt(ctx.Argv[2])
	endArg, err2 := parseInt(ctx.Argv[3])
	if err1 != nil || err2 != nil {
		return zero(ctx)
	}
	length := v.LLen()
	start, end := clampRange(startArg, endArg, length)
	if start > end || start >= length {
		return zero(ctx)
	}
	if end >= length {
		end = length - 1
	}
	els := v.LRange(start, end)
	out := make([]*object.Object, 0, len(els)+1)
	out = append(out, frag(protocol.CountLine(len(els))))
	for _, el := range els {
		out = append(out, frag(protocol.Bulk(el.Bytes())))
	}
	return out
}

func ltrimCmd(ctx *Context) []*object.Object {
	v, wt := lookupTyped(ctx, string(ctx.Argv[1]), object.List)
	if wt != nil {
		return wt
	}
	if v == nil {
		return []*object.Object{object.Use(ctx.Shared.NoSuchKey)}
	}
	startArg, err1 := parseInt(ctx.Argv[2])
	endArg, err2 := parseInt(ctx.Argv[3])
	if err1 != nil || err2 != nil {
		return simpleOK(ctx)
	}
	start, end := clampRange(startArg, endArg, v.LLen())
	v.LTrim(start, end)
	return simpleOK(ctx)
}
