package engine

import (
	"errors"
	"fmt"
)

// SchedulerError represents an error detected while registering or polling.
type SchedulerError struct {
	// Code identifies the error category.
	Code SchedulerErrorCode

	// Message is a human-readable description.
	Message string

	// Poller identifies the affected poller.
	Poller string
}

// SchedulerErrorCode categorizes scheduler errors.
type SchedulerErrorCode string

const (
	// ErrCodeDuplicatePoller indicates a poller name is already registered.
	ErrCodeDuplicatePoller SchedulerErrorCode = "DUPLICATE_POLLER"

	// ErrCodePollerFault indicates a poller panicked.
	ErrCodePollerFault SchedulerErrorCode = "POLLER_FAULT"
)

// Error implements the error interface.
func (e *SchedulerError) Error() string {
	if e.Poller != "" {
		return fmt.Sprintf("%s: %s (poller=%s)", e.Code, e.Message, e.Poller)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDuplicatePollerError returns true if err is a duplicate registration.
// Uses errors.As to handle wrapped errors.
func IsDuplicatePollerError(err error) bool {
	var se *SchedulerError
	if errors.As(err, &se) {
		return se.Code == ErrCodeDuplicatePoller
	}
	return false
}

// IsPollerFaultError returns true if err reports a poller panic.
func IsPollerFaultError(err error) bool {
	var se *SchedulerError
	if errors.As(err, &se) {
		return se.Code == ErrCodePollerFault
	}
	return false
}

// NewDuplicatePollerError creates a SchedulerError for a duplicate name.
func NewDuplicatePollerError(name string) *SchedulerError {
	return &SchedulerError{
		Code:    ErrCodeDuplicatePoller,
		Message: "poller already registered",
		Poller:  name,
	}
}

// NewPollerFaultError creates a SchedulerError for a poller panic.
func NewPollerFaultError(name string, r any) *SchedulerError {
	return &SchedulerError{
		Code:    ErrCodePollerFault,
		Message: fmt.Sprintf("poller panicked: %v", r),
		Poller:  name,
	}
}

// QuotaExceededError is reported when a poller is abandoned after reaching
// the scheduler's poll limit.
type QuotaExceededError struct {
	Poller string
	Polls  int
	Limit  int
}

// Error implements the error interface.
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("poller %s exceeded poll quota: %d polls >= %d limit", e.Poller, e.Polls, e.Limit)
}

// IsQuotaExceededError returns true if err is a QuotaExceededError.
// Uses errors.As to handle wrapped errors.
func IsQuotaExceededError(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}
