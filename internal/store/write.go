package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Session is one campaign session as seen by the journal.
type Session struct {
	Token       string `json:"token"`
	Module      string `json:"module"`
	Available   bool   `json:"available"`
	StartedTick int64  `json:"started_tick"`
}

// Entry is one journaled event.
type Entry struct {
	Session string `json:"session"`
	Seq     int64  `json:"seq"`
	Kind    string `json:"kind"`
	Payload string `json:"payload"` // JSON object, keys sorted
}

// WriteSession inserts a session record.
// Uses ON CONFLICT(token) DO NOTHING for idempotency.
func (s *Store) WriteSession(ctx context.Context, sess Session) error {
	available := 0
	if sess.Available {
		available = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, module, available, started_tick)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, sess.Token, sess.Module, available, sess.StartedTick)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WriteEntry inserts an entry. A second entry with the same session and seq
// is silently ignored. The session must exist (foreign key constraint).
func (s *Store) WriteEntry(ctx context.Context, session string, seq int64, kind string, fields map[string]any) error {
	payload, err := marshalFields(fields)
	if err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entries (session, seq, kind, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session, seq) DO NOTHING
	`, session, seq, kind, payload)
	if err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

// marshalFields encodes fields as a JSON object with sorted keys and HTML
// escaping disabled.
func marshalFields(fields map[string]any) (string, error) {
	if len(fields) == 0 {
		return "{}", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fields); err != nil {
		return "", fmt.Errorf("marshal fields: %w", err)
	}
	// Encoder adds a trailing newline
	return strings.TrimSpace(buf.String()), nil
}
