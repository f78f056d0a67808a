package cliclient

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// bulkFramed mirrors command.Registry.IsBulk's table (internal/command's
// registerStrings/registerLists/registerSets) — the client has to know the
// same thing the server's parser does, since the wire gives it no signal.
var bulkFramed = map[string]bool{
	"set": true, "setnx": true, "echo": true,
	"lpush": true, "rpush": true, "lset": true,
	"sadd": true, "srem": true, "sismember": true,
}

// encodeCommand builds the wire bytes for one command invocation: inline
// commands are a single whitespace-joined line, bulk-framed commands
// replace their last argument with its length and append the payload on
// the next line.
func encodeCommand(fields []string) []byte {
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	if !bulkFramed[name] || len(fields) < 2 {
		return []byte(strings.Join(fields, " ") + "\r\n")
	}
	head := fields[:len(fields)-1]
	payload := fields[len(fields)-1]
	var b strings.Builder
	b.WriteString(strings.Join(head, " "))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(len(payload)))
	b.WriteString("\r\n")
	b.WriteString(payload)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// readLine reads one CRLF- or LF-terminated line, stripped of its
// terminator.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	return line, nil
}

// readBulkBody reads n bytes of payload followed by the CRLF and the
// blank-line terminator internal/protocol.Bulk appends.
func readBulkBody(r *bufio.Reader, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := readFull(r, buf); err != nil {
		return "", err
	}
	if _, err := readLine(r); err != nil { // consumes the payload's CRLF
		return "", err
	}
	if _, err := readLine(r); err != nil { // consumes the trailing blank line
		return "", err
	}
	return string(buf), nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// readReply decodes one full reply for cmd from r, returning its
// human-readable rendering.
func readReply(r *bufio.Reader, cmd string) (string, error) {
	if shapeFor(cmd) == shapeNone {
		return "", nil
	}

	line, err := readLine(r)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") || line == "nil" {
		return line, nil
	}

	n, convErr := strconv.Atoi(line)
	if convErr != nil {
		return line, nil // not a length-prefixed reply after all; show it verbatim
	}

	switch shapeFor(cmd) {
	case shapeBulkOrNil:
		payload, err := readBulkBody(r, n)
		if err != nil {
			return "", err
		}
		return strconv.Quote(payload), nil

	case shapeKeys:
		keysLine, err := readLine(r)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "(empty keyspace)", nil
		}
		return keysLine, nil

	case shapeBulkArray:
		items := make([]string, 0, n)
		for i := 0; i < n; i++ {
			lenLine, err := readLine(r)
			if err != nil {
				return "", err
			}
			ln, err := strconv.Atoi(lenLine)
			if err != nil {
				return "", fmt.Errorf("malformed bulk-array element length %q", lenLine)
			}
			payload, err := readBulkBody(r, ln)
			if err != nil {
				return "", err
			}
			items = append(items, fmt.Sprintf("%d) %s", i+1, strconv.Quote(payload)))
		}
		if len(items) == 0 {
			return "(empty list or set)", nil
		}
		return strings.Join(items, "\n"), nil

	default: // shapeLine
		return line, nil
	}
}
