package server

import (
	"bufio"
	"errors"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"kvhouse/internal/object"
	"kvhouse/internal/protocol"
)

const readChunk = 4096

// Client is the per-connection state: the query buffer and parser state
// live inside parser, the reply queue is replyCh, and reply-cursor /
// partial-write tracking is simply "however far conn.Write got", since
// net.Conn's Write already loops to completion or error — there is no
// separate resume point to track.
type Client struct {
	conn   net.Conn
	server *Server
	parser *protocol.Parser

	dbIndex int // touched only by the dispatcher goroutine (run/execute)

	replyCh chan []*object.Object

	lastActivity atomic.Int64 // unix nanos, written by readLoop, read by cron
	closeOnce    sync.Once
	closed       chan struct{}
}

func newClient(conn net.Conn, s *Server) *Client {
	c := &Client{
		conn:    conn,
		server:  s,
		replyCh: make(chan []*object.Object, 64),
		closed:  make(chan struct{}),
	}
	c.parser = protocol.New(s.registry.IsBulk)
	c.touch()
	return c
}

func (c *Client) touch() { c.lastActivity.Store(time.Now().UnixNano()) }

// idleFor reports how long it has been since the last byte was read from
// this connection, for the cron's idle-client reaping.
func (c *Client) idleFor(now time.Time) time.Duration {
	last := time.Unix(0, c.lastActivity.Load())
	return now.Sub(last)
}

// Close tears the connection down and unblocks writeLoop. Safe to call
// more than once (readLoop and writeLoop can both hit a fatal error on the
// same connection).
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.conn.Close()
	})
}

// enqueue hands reply fragments to the writer goroutine, preserving
// per-connection response order. Called only from the dispatcher
// goroutine.
func (c *Client) enqueue(frags []*object.Object) {
	select {
	case c.replyCh <- frags:
	case <-c.closed:
		for _, f := range frags {
			object.DecrRef(f)
		}
	}
}

// readLoop is the per-connection reader: it feeds raw bytes to the
// protocol parser and, for every complete invocation, either short-
// circuits QUIT or forwards the argv to the dispatcher. It never reads
// or mutates the keyspace.
func (c *Client) readLoop() {
	defer func() {
		select {
		case c.server.removeCh <- c:
		case <-c.server.stopCh:
		}
		c.Close()
	}()

	buf := make([]byte, readChunk)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			c.touch()
			c.parser.Feed(buf[:n])
			if !c.drainParsed() {
				return
			}
		}
		if err != nil {
			return // EOF or any other read error: destroy the client
		}
	}
}

// drainParsed pulls every fully-buffered command out of the parser,
// tolerating pipelined requests, and forwards each to the dispatcher.
// Returns false if the connection must be torn down.
func (c *Client) drainParsed() bool {
	for {
		argv, ok, err := c.parser.Next()
		if err != nil {
			if errors.Is(err, protocol.ErrQueryTooBig) || errors.Is(err, protocol.ErrTooManyArgs) || errors.Is(err, protocol.ErrInvalidBulkLen) {
				return false // protocol error: close the connection
			}
			return false
		}
		if !ok {
			return true // need more bytes
		}
		if len(argv) == 0 {
			continue
		}
		if strings.EqualFold(string(argv[0]), "quit") {
			return false // QUIT closes the client with no reply
		}
		select {
		case c.server.cmdCh <- invocation{client: c, argv: argv}:
		case <-c.server.stopCh:
			return false
		}
	}
}

// writeLoop drains replyCh in order, writing each fragment's bytes to the
// connection and releasing its reference once written. The "writable
// handler" is just this goroutine parked on the channel when idle,
// instead of being installed/uninstalled per fd readiness event.
func (c *Client) writeLoop() {
	w := bufio.NewWriter(c.conn)
	for {
		select {
		case frags := <-c.replyCh:
			writeErr := false
			for _, f := range frags {
				if !writeErr {
					if b := f.Bytes(); len(b) > 0 {
						if _, err := w.Write(b); err != nil {
							writeErr = true
						}
					}
				}
				object.DecrRef(f)
			}
			if writeErr {
				c.Close()
				return
			}
			if err := w.Flush(); err != nil {
				c.Close()
				return
			}
		case <-c.closed:
			return
		}
	}
}
