package command

import "kvhouse/internal/object"

// registerConnection wires the liveness/diagnostic commands PING and ECHO.
// QUIT is not registered here: it short-circuits at the dispatcher before
// a table lookup ever happens, and is handled by internal/server.
func registerConnection(r *Registry) {
	r.register(&Command{Name: "ping", Arity: 1, Framing: Inline, Handler: pingCmd})
	r.register(&Command{Name: "echo", Arity: 2, Framing: Bulk, Handler: echoCmd})
}

func pingCmd(ctx *Context) []*object.Object { return []*object.Object{object.Use(ctx.Shared.Pong)} }

func echoCmd(ctx *Context) []*object.Object { return bulkReply(ctx.Argv[1]) }
