package store

import (
	"context"
	"fmt"
)

// ReadSessions returns all sessions ordered by start tick, then token.
// Returns an empty slice (not nil) when the journal is empty.
func (s *Store) ReadSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, module, available, started_tick
		FROM sessions
		ORDER BY started_tick ASC, token COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		var available int
		if err := rows.Scan(&sess.Token, &sess.Module, &available, &sess.StartedTick); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.Available = available != 0
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadEntries returns a session's entries ordered by seq ASC, id ASC.
// A non-empty kind restricts the result to that kind.
func (s *Store) ReadEntries(ctx context.Context, session, kind string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session, seq, kind, payload
		FROM entries
		WHERE session = ? AND (? = '' OR kind = ?)
		ORDER BY seq ASC, id ASC
	`, session, kind, kind)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Session, &e.Seq, &e.Kind, &e.Payload); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}
