// Package ui defines what the bridge asks of the host's user interface:
// informational toasts and a multi-select keep/discard dialog.
package ui

import (
	"log/slog"
	"sync"
)

// Entry is one selectable line of a multi-select dialog.
type Entry struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// MultiSelectRequest asks the player to pick entries.
//
// Exactly one of OnAccept and OnReject is called when the dialog closes.
type MultiSelectRequest struct {
	Title       string
	Description string
	Entries     []Entry
	Min         int
	Max         int
	OnAccept    func(selected []string)
	OnReject    func()
}

// Presenter displays UI requests.
type Presenter interface {
	Toast(message string)
	ShowMultiSelect(req MultiSelectRequest)
}

// Policy answers a dialog automatically: the selected entry ids and whether
// the dialog was accepted.
type Policy func(req MultiSelectRequest) (selected []string, accept bool)

// KeepAll accepts every enabled entry.
func KeepAll(req MultiSelectRequest) ([]string, bool) {
	var ids []string
	for _, e := range req.Entries {
		if e.Enabled {
			ids = append(ids, e.ID)
		}
	}
	return ids, true
}

// RejectAll rejects the dialog.
func RejectAll(MultiSelectRequest) ([]string, bool) {
	return nil, false
}

// Keep accepts the entries with the given ids.
func Keep(ids ...string) Policy {
	return func(MultiSelectRequest) ([]string, bool) {
		return append([]string(nil), ids...), true
	}
}

// Recorder is a Presenter that records requests and, when it has a policy,
// answers dialogs immediately. Without a policy dialogs stay open until
// Accept or Reject is called.
type Recorder struct {
	policy Policy
	logger *slog.Logger

	mu      sync.Mutex
	toasts  []string
	dialogs []MultiSelectRequest
	open    *MultiSelectRequest
}

// NewRecorder creates a recorder. policy may be nil.
func NewRecorder(policy Policy, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{policy: policy, logger: logger}
}

// Toast implements Presenter.
func (r *Recorder) Toast(message string) {
	r.mu.Lock()
	r.toasts = append(r.toasts, message)
	r.mu.Unlock()
	r.logger.Info("toast", "message", message)
}

// ShowMultiSelect implements Presenter.
func (r *Recorder) ShowMultiSelect(req MultiSelectRequest) {
	r.mu.Lock()
	r.dialogs = append(r.dialogs, req)
	r.open = &r.dialogs[len(r.dialogs)-1]
	policy := r.policy
	r.mu.Unlock()

	if policy == nil {
		return
	}
	if ids, ok := policy(req); ok {
		r.Accept(ids...)
	} else {
		r.Reject()
	}
}

// Accept closes the open dialog with a selection. It reports false when no
// dialog is open.
func (r *Recorder) Accept(ids ...string) bool {
	req, ok := r.take()
	if !ok {
		return false
	}
	if req.OnAccept != nil {
		req.OnAccept(ids)
	}
	return true
}

// Reject closes the open dialog without a selection.
func (r *Recorder) Reject() bool {
	req, ok := r.take()
	if !ok {
		return false
	}
	if req.OnReject != nil {
		req.OnReject()
	}
	return true
}

func (r *Recorder) take() (MultiSelectRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open == nil {
		return MultiSelectRequest{}, false
	}
	req := *r.open
	r.open = nil
	return req, true
}

// Toasts returns the toasts shown so far.
func (r *Recorder) Toasts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.toasts...)
}

// Dialogs returns the dialogs requested so far.
func (r *Recorder) Dialogs() []MultiSelectRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]MultiSelectRequest(nil), r.dialogs...)
}

// Open reports whether a dialog awaits an answer.
func (r *Recorder) Open() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open != nil
}
