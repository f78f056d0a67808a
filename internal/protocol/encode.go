package protocol

import "strconv"

// The encoders below build the wire's reply fragments. Each returns a
// single []byte fragment; callers (command handlers, via internal/server's
// reply queue) wrap each fragment in a STRING object and enqueue it — the
// wire format is just the concatenation of enqueued fragments in order.

// SimpleString encodes a status reply: "+TEXT\r\n".
func SimpleString(s string) []byte {
	b := make([]byte, 0, len(s)+3)
	b = append(b, '+')
	b = append(b, s...)
	return append(b, '\r', '\n')
}

// ErrorReply encodes an error reply: "-TEXT\r\n".
func ErrorReply(s string) []byte {
	b := make([]byte, 0, len(s)+3)
	b = append(b, '-')
	b = append(b, s...)
	return append(b, '\r', '\n')
}

// Number encodes a bare single-number reply: "N\r\n" (no type sigil, unlike
// RESP's ":N\r\n" — this protocol's integers are indistinguishable on the
// wire from a bulk length line, by design: GET/LRANGE/LINDEX deliberately
// mix length-prefixed and in-band framing).
func Number(n int64) []byte {
	b := strconv.AppendInt(nil, n, 10)
	return append(b, '\r', '\n')
}

// Nil encodes the literal nil bulk reply: "nil\r\n".
func Nil() []byte { return []byte("nil\r\n") }

// Bulk encodes a length-prefixed payload: "N\r\n<payload>\r\n\r\n". The
// trailing blank line is not a typo: GET/LRANGE/LINDEX mix a length-
// prefixed bulk reply style with in-band CRLF that conflates payload and
// framing, and this second CRLF is part of the literal wire contract —
// keep the bytes as-is rather than collapsing it.
func Bulk(payload []byte) []byte {
	head := strconv.AppendInt(nil, int64(len(payload)), 10)
	b := make([]byte, 0, len(head)+2+len(payload)+4)
	b = append(b, head...)
	b = append(b, '\r', '\n')
	b = append(b, payload...)
	b = append(b, '\r', '\n')
	return append(b, '\r', '\n')
}

// CountLine encodes a bare multi-bulk count line ("N\r\n") preceding N
// bulk-string fragments.
func CountLine(n int) []byte { return Number(int64(n)) }

// KeysLine implements the KEYS reply's exception to the usual framing: a
// byte-length line followed by the keys themselves separated by single
// spaces, followed by CRLF. This buffers the payload first and prepends
// the computed length rather than back-patching a reserved length slot —
// either approach satisfies the same wire contract.
func KeysLine(keys [][]byte) []byte {
	var payload []byte
	for i, k := range keys {
		if i > 0 {
			payload = append(payload, ' ')
		}
		payload = append(payload, k...)
	}
	head := strconv.AppendInt(nil, int64(len(payload)), 10)
	b := make([]byte, 0, len(head)+2+len(payload)+2)
	b = append(b, head...)
	b = append(b, '\r', '\n')
	b = append(b, payload...)
	return append(b, '\r', '\n')
}
