// Package command implements the static command dispatch table and the
// handlers for every command this server understands.
package command

import (
	"kvhouse/internal/database"
	"kvhouse/internal/object"
)

// Framing distinguishes how a command's final argument is read off the
// wire.
type Framing int

const (
	Inline Framing = iota
	Bulk
)

// Handler executes one command invocation against ctx and returns the
// ordered reply fragments to enqueue.
type Handler func(ctx *Context) []*object.Object

// Command is one entry of the static dispatch table: {name, handler,
// arity, framing}. Arity > 0 requires an exact argc match (including the
// command name itself); arity < 0 requires argc >= |arity| (variadic).
type Command struct {
	Name    string
	Arity   int
	Framing Framing
	Handler Handler
}

// Registry is the name -> Command table, matched case-insensitively.
type Registry struct {
	table map[string]*Command
}

// NewRegistry builds a Registry with every command this system supports
// already registered.
func NewRegistry() *Registry {
	r := &Registry{table: make(map[string]*Command, 32)}
	registerStrings(r)
	registerGeneric(r)
	registerLists(r)
	registerSets(r)
	registerPersistence(r)
	registerConnection(r)
	return r
}

func (r *Registry) register(c *Command) {
	r.table[c.Name] = c
}

// alias registers an additional name that dispatches to the same Command
// as target (used for `smembers` aliasing `sinter`, with its own arity
// since SMEMBERS takes exactly one key).
func (r *Registry) alias(name string, arity int, target *Command) {
	r.table[name] = &Command{Name: name, Arity: arity, Framing: target.Framing, Handler: target.Handler}
}

// lookup finds a command by its exact name; callers lowercase the name
// first (Dispatch in place, IsBulk on a copy).
func (r *Registry) lookup(name string) (*Command, bool) {
	c, ok := r.table[name]
	return c, ok
}

// IsBulk reports whether name's command takes bulk framing — wired into
// protocol.Parser so the parser knows whether to strip and interpret a
// trailing bulk-length token.
func (r *Registry) IsBulk(name string) bool {
	c, ok := r.lookup(bytesToLowerString([]byte(name)))
	return ok && c.Framing == Bulk
}

// Error is a command-level error: it produces a `-ERR ...` reply and the
// client stays connected — distinct from a protocol error, which closes
// the connection.
type Error struct{ Message string }

func (e *Error) Error() string { return e.Message }

// Dispatch resolves argv[0] (lowercased in place) against the table,
// validates arity, and invokes the handler. Unknown command and
// arity-mismatch are returned as reply fragments directly (the client
// stays connected); QUIT is handled by the caller (internal/server) before
// Dispatch is ever reached, since it must close the connection rather than
// produce a reply.
func (r *Registry) Dispatch(ctx *Context) []*object.Object {
	lowerInPlace(ctx.Argv[0])
	name := string(ctx.Argv[0])

	cmd, ok := r.lookup(name)
	if !ok {
		return []*object.Object{object.NewString(errUnknownCommand(name))}
	}
	argc := len(ctx.Argv)
	if (cmd.Arity >= 0 && argc != cmd.Arity) || (cmd.Arity < 0 && argc < -cmd.Arity) {
		return []*object.Object{object.NewString(errWrongArity(name))}
	}
	return cmd.Handler(ctx)
}

func lowerInPlace(b []byte) {
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
}

func bytesToLowerString(b []byte) string {
	lower := make([]byte, len(b))
	copy(lower, b)
	lowerInPlace(lower)
	return string(lower)
}

func errUnknownCommand(name string) []byte {
	return []byte("-ERR unknown command '" + name + "'\r\n")
}

func errWrongArity(name string) []byte {
	return []byte("-ERR wrong number of arguments for '" + name + "' command\r\n")
}

// matchPattern implements shell-style glob matching: `*`, `?`, character
// classes `[...]` with `^` negation and `a-z` ranges, and `\` escapes.
func matchPattern(pattern, s []byte) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			for len(pattern) > 1 && pattern[1] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if matchPattern(pattern[1:], s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 {
				return false
			}
			s = s[1:]
			pattern = pattern[1:]
		case '[':
			if len(s) == 0 {
				return false
			}
			pattern = pattern[1:]
			not := false
			if len(pattern) > 0 && pattern[0] == '^' {
				not = true
				pattern = pattern[1:]
			}
			match := false
			for len(pattern) > 0 && pattern[0] != ']' {
				if len(pattern) >= 3 && pattern[1] == '-' {
					lo, hi := pattern[0], pattern[2]
					if lo > hi {
						lo, hi = hi, lo
					}
					if s[0] >= lo && s[0] <= hi {
						match = true
					}
					pattern = pattern[3:]
				} else if pattern[0] == '\\' && len(pattern) >= 2 {
					if pattern[1] == s[0] {
						match = true
					}
					pattern = pattern[2:]
				} else {
					if pattern[0] == s[0] {
						match = true
					}
					pattern = pattern[1:]
				}
			}
			if len(pattern) > 0 {
				pattern = pattern[1:] // skip ']'
			}
			if not {
				match = !match
			}
			if !match {
				return false
			}
			s = s[1:]
		case '\\':
			if len(pattern) >= 2 {
				pattern = pattern[1:]
			}
			if len(s) == 0 || s[0] != pattern[0] {
				return false
			}
			s = s[1:]
			pattern = pattern[1:]
		default:
			if len(s) == 0 || s[0] != pattern[0] {
				return false
			}
			s = s[1:]
			pattern = pattern[1:]
		}
	}
	return len(s) == 0
}

// MatchPattern exports matchPattern for use by the KEYS handler and tests.
func MatchPattern(pattern, s []byte) bool { return matchPattern(pattern, s) }

// Context is the per-invocation state a Handler needs: the current
// database (already resolved from the client's selected index), the full
// keyspace (for MOVE/SELECT), the argv, the shared reply pool, and the
// callbacks a handler needs to reach outside the keyspace (switching the
// client's selected DB, or triggering a save).
type Context struct {
	Keyspace *database.Keyspace
	DB       *database.Database
	DBIndex  int
	Argv     [][]byte
	Shared   *object.Shared

	// SelectDB switches the calling client's selected database index.
	// Returns false if idx is out of range. Used by SELECT.
	SelectDB func(idx int) bool

	Persist Persister
}

// Persister is the subset of internal/persistence's Manager a command
// handler needs — kept as an interface here so internal/command never
// imports internal/persistence (persistence imports database/object, and
// command is invoked by internal/server, which wires the concrete
// *persistence.Manager in).
type Persister interface {
	Save() error
	BGSave() error
	LastSaveUnix() int64
}

func wrongType(ctx *Context) []*object.Object {
	return []*object.Object{object.Use(ctx.Shared.WrongType)}
}
