// Package server implements the event-driven client I/O core: a single
// logical thread of control owns the keyspace and every command handler,
// while the network edges (accepting connections, reading bytes, writing
// replies) run concurrently around it.
//
// Go exposes no raw-epoll callback API (net.Conn is blocking, and the
// runtime's netpoller isn't surfaced as fd callbacks), so each connection
// gets a reader goroutine (parses bytes, produces command invocations)
// and a writer goroutine (drains that client's reply queue), but neither
// ever touches the keyspace. Both only hand values to a single dispatcher
// goroutine (Server.run) that is the sole owner of the database.Keyspace,
// the shared-object pool, and the persistence counters — no locks on the
// keyspace, ever.
package server

import (
	"net"
	"sync"
	"time"

	"kvhouse/internal/command"
	"kvhouse/internal/database"
	"kvhouse/internal/logger"
	"kvhouse/internal/object"
	"kvhouse/internal/persistence"
)

// Default server tuning values.
const (
	DefaultDatabases   = 16
	DefaultIdleTimeout = 300 * time.Second
	cronInterval       = time.Second
	idleReapEveryTicks = 10
)

// Config collects the directives that govern one server instance, sourced
// from internal/config's directive file or from test code.
type Config struct {
	Addr        string // listen address, e.g. "127.0.0.1:6379"
	Databases   int
	IdleTimeout time.Duration
	Dir         string
	SaveRules   []persistence.SaveRule
}

func (c Config) withDefaults() Config {
	if c.Databases <= 0 {
		c.Databases = DefaultDatabases
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.Dir == "" {
		c.Dir = "."
	}
	if c.SaveRules == nil {
		c.SaveRules = persistence.DefaultSaveRules()
	}
	return c
}

// invocation is one parsed command handed from a client's reader goroutine
// to the dispatcher goroutine over cmdCh.
type invocation struct {
	client *Client
	argv   [][]byte
}

// writeCommands names every command that can mutate a database, used to
// feed persistence.Manager's dirty counter. There is no flag on
// command.Command for this today, since internal/command deliberately
// has no notion of persistence; this table reproduces the write set by
// name instead.
var writeCommands = map[string]bool{
	"set": true, "setnx": true, "incr": true, "decr": true,
	"incrby": true, "decrby": true, "del": true,
	"lpush": true, "rpush": true, "lpop": true, "rpop": true,
	"lset": true, "ltrim": true, "sadd": true, "srem": true,
	"rename": true, "renamenx": true, "move": true,
}

// Server owns the listener and the single dispatcher goroutine that is the
// sole mutator of the keyspace.
type Server struct {
	cfg      Config
	ln       net.Listener
	addr     string
	registry *command.Registry
	shared   *object.Shared
	keyspace *database.Keyspace
	Persist  *persistence.Manager

	cmdCh      chan invocation
	registerCh chan *Client
	removeCh   chan *Client
	stopCh     chan struct{}
	wg         sync.WaitGroup

	clients map[*Client]struct{}
}

// New builds a Server. The keyspace is empty until Start calls
// Persist.Load.
func New(cfg Config) *Server {
	cfg = cfg.withDefaults()
	ks := database.New(cfg.Databases)
	return &Server{
		cfg:      cfg,
		registry: command.NewRegistry(),
		shared:   object.NewShared(),
		keyspace: ks,
		Persist:  persistence.NewManager(cfg.Dir, ks, cfg.SaveRules),

		cmdCh:      make(chan invocation, 256),
		registerCh: make(chan *Client),
		removeCh:   make(chan *Client),
		stopCh:     make(chan struct{}),
		clients:    make(map[*Client]struct{}),
	}
}

// Addr reports the actual listening address (useful when Config.Addr asks
// for an ephemeral port).
func (s *Server) Addr() string { return s.addr }

// Start loads dump.rdb (if present), binds the listener, and launches the
// dispatcher and accept loop. A load failure is fatal.
func (s *Server) Start() error {
	if err := s.Persist.Load(); err != nil {
		logger.Fatalf("startup: %v", err)
	}

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.addr = ln.Addr().String()

	s.wg.Add(1)
	go s.run()

	go s.acceptLoop()

	logger.Infof("server listening on %s (%d databases)", s.addr, s.cfg.Databases)
	return nil
}

// Close stops accepting new connections, tells the dispatcher to close
// every live client, and waits for it to exit.
func (s *Server) Close() error {
	if s.ln != nil {
		s.ln.Close()
	}
	close(s.stopCh)
	s.wg.Wait()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return // listener closed by Close()
		}
		c := newClient(conn, s)
		go c.readLoop()
		go c.writeLoop()
		select {
		case s.registerCh <- c:
		case <-s.stopCh:
			c.Close()
			return
		}
	}
}

// run is the dispatcher goroutine: the single logical thread of control
// for this server. It is the only goroutine that ever touches
// s.keyspace, s.Persist's counters, or s.clients.
func (s *Server) run() {
	defer s.wg.Done()
	ticker := time.NewTicker(cronInterval)
	defer ticker.Stop()
	tick := 0

	for {
		select {
		case c := <-s.registerCh:
			s.clients[c] = struct{}{}

		case c := <-s.removeCh:
			delete(s.clients, c)

		case inv := <-s.cmdCh:
			s.execute(inv)

		case <-ticker.C:
			tick++
			s.cronTick(tick)

		case <-s.stopCh:
			for c := range s.clients {
				c.Close()
			}
			return
		}
	}
}

// execute runs one invocation's handler and enqueues its reply fragments
// on the submitting client, then accounts for the dirty counter.
func (s *Server) execute(inv invocation) {
	c := inv.client
	ctx := &command.Context{
		Keyspace: s.keyspace,
		DB:       s.keyspace.DB(c.dbIndex),
		DBIndex:  c.dbIndex,
		Argv:     inv.argv,
		Shared:   s.shared,
		SelectDB: func(idx int) bool {
			if idx < 0 || idx >= s.keyspace.Len() {
				return false
			}
			c.dbIndex = idx
			return true
		},
		Persist: s.Persist,
	}
	frags := s.registry.Dispatch(ctx)
	if name := string(inv.argv[0]); writeCommands[lowerASCII(name)] && !isErrorReply(frags) {
		s.Persist.MarkDirty(1)
	}
	c.enqueue(frags)
}

func isErrorReply(frags []*object.Object) bool {
	if len(frags) == 0 {
		return false
	}
	b := frags[0].Bytes()
	return len(b) > 0 && b[0] == '-'
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}
