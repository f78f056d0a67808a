package server

import (
	"time"

	"kvhouse/internal/logger"
)

// cronTick runs the periodic maintenance pass once per second, from the
// dispatcher goroutine's select loop in run() so every responsibility
// below executes with exclusive access to the keyspace — no locking
// needed, same as every command handler.
func (s *Server) cronTick(tick int) {
	s.shrinkCheck()

	if tick%idleReapEveryTicks == 0 {
		s.reapIdleClients()
	}

	if !s.Persist.BGSaveInProgress() {
		if s.Persist.DueRule(time.Now()) {
			logger.Info("cron: save rule satisfied, starting background save")
			if err := s.Persist.BGSave(); err != nil {
				logger.Warnf("cron: background save failed to start: %v", err)
			}
		}
	}
	// The background save runs as a goroutine that clears its own
	// in-progress flag and logs its own outcome
	// (internal/persistence.Manager.BGSave) the instant it finishes, so
	// there is nothing left for cron to reap here.
}

// shrinkCheck triggers (and logs) a shrink rehash for each database whose
// fill factor has fallen below the floor.
// database.Database already runs the same check on every Del; this pass
// catches databases whose key count dropped without a Del (RENAME onto an
// existing key).
func (s *Server) shrinkCheck() {
	for i := 0; i < s.keyspace.Len(); i++ {
		db := s.keyspace.DB(i)
		if db.ShouldShrink() {
			before := db.Len()
			db.Shrink()
			logger.Debugf("cron: shrank db %d (%d keys)", i, before)
		}
	}
}

// reapIdleClients closes clients idle longer than the configured
// timeout. Run every 10th tick.
func (s *Server) reapIdleClients() {
	now := time.Now()
	for c := range s.clients {
		if c.idleFor(now) > s.cfg.IdleTimeout {
			logger.Debugf("cron: closing idle client %s", c.conn.RemoteAddr())
			c.Close()
			delete(s.clients, c)
		}
	}
}
