package store

import (
	"context"
	"log/slog"
	"sync"
)

// Journal appends entries for a single session. Write failures are logged
// at Warn and otherwise ignored.
type Journal struct {
	store   *Store
	session string
	logger  *slog.Logger

	mu  sync.Mutex
	seq int64
}

// NewJournal writes the session record and returns a journal bound to it.
// A nil store yields a journal that drops everything.
func NewJournal(ctx context.Context, s *Store, sess Session, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	j := &Journal{store: s, session: sess.Token, logger: logger}
	if s == nil {
		return j
	}
	if err := s.WriteSession(ctx, sess); err != nil {
		logger.Warn("journal unavailable", "session", sess.Token, "error", err)
		j.store = nil
	}
	return j
}

// Session returns the session token.
func (j *Journal) Session() string {
	return j.session
}

// Record appends one entry.
func (j *Journal) Record(ctx context.Context, kind string, fields map[string]any) {
	if j == nil || j.store == nil {
		return
	}
	j.mu.Lock()
	j.seq++
	seq := j.seq
	j.mu.Unlock()

	if err := j.store.WriteEntry(ctx, j.session, seq, kind, fields); err != nil {
		j.logger.Warn("journal write failed", "kind", kind, "seq", seq, "error", err)
	}
}
