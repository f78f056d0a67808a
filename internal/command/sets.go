package command

import (
	"sort"

	"kvhouse/internal/object"
	"kvhouse/internal/protocol"
)

// registerSets wires SADD, SREM, SISMEMBER, SCARD, SINTER, and the
// `smembers` alias (aliases sinter with arity 2, since SMEMBERS always
// takes exactly one key).
func registerSets(r *Registry) {
	r.register(&Command{Name: "sadd", Arity: 3, Framing: Bulk, Handler: saddCmd})
	r.register(&Command{Name: "srem", Arity: 3, Framing: Bulk, Handler: sremCmd})
	r.register(&Command{Name: "sismember", Arity: 3, Framing: Bulk, Handler: sismemberCmd})
	r.register(&Command{Name: "scard", Arity: 2, Framing: Inline, Handler: scardCmd})
	sinter := &Command{Name: "sinter", Arity: -2, Framing: Inline, Handler: sinterCmd}
	r.register(sinter)
	r.alias("smembers", 2, sinter)
}

func getOrCreateSet(ctx *Context, key string) (*object.Object, []*object.Object) {
	v, ok := ctx.DB.Get(key)
	if !ok {
		s := object.NewSet()
		ctx.DB.Set(key, newKey(copyBytes([]byte(key))), s)
		object.IncrRef(s)
		return s, nil
	}
	if v.Type() != object.Set {
		return nil, wrongType(ctx)
	}
	object.IncrRef(v)
	return v, nil
}

func saddCmd(ctx *Context) []*object.Object {
	key := string(ctx.Argv[1])
	s, errReply := getOrCreateSet(ctx, key)
	if errReply != nil {
		return errReply
	}
	defer object.DecrRef(s)
	member := string(ctx.Argv[2])
	if s.SIsMember(member) {
		return zero(ctx)
	}
	s.SAdd(member, object.NewString(copyBytes(ctx.Argv[2])))
	return oneReply(ctx)
}

func sremCmd(ctx *Context) []*object.Object {
	v, wt := lookupTyped(ctx, string(ctx.Argv[1]), object.Set)
	if wt != nil {
		return wt
	}
	if v == nil {
		return zero(ctx)
	}
	if v.SRem(string(ctx.Argv[2])) {
		return oneReply(ctx)
	}
	return zero(ctx)
}

func sismemberCmd(ctx *Context) []*object.Object {
	v, wt := lookupTyped(ctx, string(ctx.Argv[1]), object.Set)
	if wt != nil {
		return wt
	}
	if v == nil {
		return zero(ctx)
	}
	if v.SIsMember(string(ctx.Argv[2])) {
		return oneReply(ctx)
	}
	return zero(ctx)
}

func scardCmd(ctx *Context) []*object.Object {
	v, wt := lookupTyped(ctx, string(ctx.Argv[1]), object.Set)
	if wt != nil {
		return wt
	}
	if v == nil {
		return zero(ctx)
	}
	return numReply(int64(v.SCard()))
}

// sinterCmd implements sort-by-cardinality intersection: gather every
// named set's handle, sort smallest-first, then walk the smallest testing
// membership in the rest. SMEMBERS reaches this handler via the
// `smembers` alias with a single key, which degenerates to "every member
// of that set".
func sinterCmd(ctx *Context) []*object.Object {
	keys := ctx.Argv[1:]
	sets := make([]*object.Object, 0, len(keys))
	for _, k := range keys {
		v, ok := ctx.DB.Get(string(k))
		if !ok {
			return nilReply(ctx)
		}
		if v.Type() != object.Set {
			return wrongType(ctx)
		}
		sets = append(sets, v)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].SCard() < sets[j].SCard() })

	smallest := sets[0].SMembers()
	var out [][]byte
outer:
	for _, member := range smallest {
		for _, s := range sets[1:] {
			if !s.SIsMember(string(member.Bytes())) {
				continue outer
			}
		}
		out = append(out, member.Bytes())
	}

	reply := make([]*object.Object, 0, len(out)+1)
	reply = append(reply, frag(protocol.CountLine(len(out))))
	for _, m := range out {
		reply = append(reply, frag(protocol.Bulk(m)))
	}
	return reply
}
