// Package cliclient implements an interactive line client: history
// recall, raw-mode editing, and file/pipe-driven batch interaction over
// this server's inline/bulk text protocol.
package cliclient

import "strings"

// shape tells the reply reader how to consume the bytes that follow a
// command's first line, since this protocol's bare number line ("N\r\n")
// is, by design, indistinguishable on the wire from a bulk length or a
// multi-bulk count — a generic client has to already know what each
// command replies with, same as the server has to know which commands
// take bulk framing on the way in.
type shape int

const (
	shapeLine       shape = iota // whole reply is the first line: status, error, bare number, or bare text (TYPE, RANDOMKEY)
	shapeBulkOrNil               // length line + payload + blank line, or the literal "nil" line
	shapeKeys                    // length line + a single line of space-joined keys
	shapeBulkArray               // count line + that many bulk fragments
	shapeNone                    // no reply at all (SHUTDOWN)
)

var shapes = map[string]shape{
	"ping":      shapeLine,
	"echo":      shapeBulkOrNil,
	"set":       shapeLine,
	"setnx":     shapeLine,
	"get":       shapeBulkOrNil,
	"incr":      shapeLine,
	"decr":      shapeLine,
	"incrby":    shapeLine,
	"decrby":    shapeLine,
	"del":       shapeLine,
	"exists":    shapeLine,
	"select":    shapeLine,
	"randomkey": shapeLine,
	"keys":      shapeKeys,
	"dbsize":    shapeLine,
	"type":      shapeLine,
	"rename":    shapeLine,
	"renamenx":  shapeLine,
	"move":      shapeLine,
	"lpush":     shapeLine,
	"rpush":     shapeLine,
	"lpop":      shapeBulkOrNil,
	"rpop":      shapeBulkOrNil,
	"llen":      shapeLine,
	"lindex":    shapeBulkOrNil,
	"lset":      shapeLine,
	"lrange":    shapeBulkArray,
	"ltrim":     shapeLine,
	"sadd":      shapeLine,
	"srem":      shapeLine,
	"sismember": shapeLine,
	"scard":     shapeLine,
	"sinter":    shapeBulkArray,
	"smembers":  shapeBulkArray,
	"save":      shapeLine,
	"bgsave":    shapeLine,
	"lastsave":  shapeLine,
	"shutdown":  shapeNone,
}

// shapeFor looks up the reply shape for a command name, defaulting to
// shapeLine (status/error/number) for anything unrecognized.
func shapeFor(cmd string) shape {
	if s, ok := shapes[strings.ToLower(cmd)]; ok {
		return s
	}
	return shapeLine
}
