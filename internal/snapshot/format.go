// Package snapshot implements the RDB-0000 binary dump format: a
// from-scratch fixed-width codec (see DESIGN.md for the tradeoffs
// against an off-the-shelf RDB decoder), split into a Writer and Reader.
package snapshot

// magic is the 9-byte file header.
var magic = []byte("REDIS0000")

// Record and control opcodes.
const (
	opString   = 0
	opList     = 1
	opSet      = 2
	opHash     = 3 // reserved, never written
	opSelectDB = 254
	opEOF      = 255
)
