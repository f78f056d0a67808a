package command

import (
	"os"

	"kvhouse/internal/object"
)

// registerPersistence wires SAVE, BGSAVE, LASTSAVE, SHUTDOWN.
func registerPersistence(r *Registry) {
	r.register(&Command{Name: "save", Arity: 1, Framing: Inline, Handler: saveCmd})
	r.register(&Command{Name: "bgsave", Arity: 1, Framing: Inline, Handler: bgsaveCmd})
	r.register(&Command{Name: "lastsave", Arity: 1, Framing: Inline, Handler: lastsaveCmd})
	r.register(&Command{Name: "shutdown", Arity: 1, Framing: Inline, Handler: shutdownCmd})
}

func saveCmd(ctx *Context) []*object.Object {
	if err := ctx.Persist.Save(); err != nil {
		return errReply("ERR " + err.Error())
	}
	return simpleOK(ctx)
}

func bgsaveCmd(ctx *Context) []*object.Object {
	if err := ctx.Persist.BGSave(); err != nil {
		return errReply("ERR background save already in progress")
	}
	return simpleOK(ctx)
}

func lastsaveCmd(ctx *Context) []*object.Object {
	return numReply(ctx.Persist.LastSaveUnix())
}

// shutdownCmd attempts a synchronous save and, on success, terminates the
// process immediately with status 1 — there is no reply to send, since the
// process is gone. On failure the client stays connected and sees an
// error instead of the process exiting.
func shutdownCmd(ctx *Context) []*object.Object {
	if err := ctx.Persist.Save(); err != nil {
		return errReply("ERR can't shutdown, problems saving the DB")
	}
	os.Exit(1)
	return nil
}
