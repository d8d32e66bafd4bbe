package bridge

import (
	"errors"
	"fmt"

	"github.com/roach88/necroqol/internal/capability"
)

// Code categorizes bridge faults.
type Code string

const (
	// CodeAbsent means the module is not loaded, the capability was not
	// found or its arguments could not be bound. Expected; not an error.
	CodeAbsent Code = "ABSENT"

	// CodeInvocation means the capability panicked or returned an error.
	CodeInvocation Code = "INVOCATION"

	// CodeShapeMismatch means the result matched no known encoding.
	CodeShapeMismatch Code = "SHAPE_MISMATCH"

	// CodePatchInstall means scanning or replacing a UI callback failed.
	CodePatchInstall Code = "PATCH_INSTALL"

	// CodeInvariant means an internal consistency check failed.
	CodeInvariant Code = "INVARIANT"
)

// Fault is the error type of every bridge operation.
type Fault struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", f.Code, f.Op, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", f.Code, f.Op, f.Message)
}

// Unwrap returns the cause.
func (f *Fault) Unwrap() error {
	return f.Cause
}

// NewFault creates a Fault.
func NewFault(code Code, op, message string, cause error) *Fault {
	return &Fault{Code: code, Op: op, Message: message, Cause: cause}
}

// CodeOf returns the code of the first Fault in err's chain, or "".
func CodeOf(err error) Code {
	var f *Fault
	if errors.As(err, &f) {
		return f.Code
	}
	return ""
}

// IsAbsent reports whether err is an expected absence.
func IsAbsent(err error) bool {
	return CodeOf(err) == CodeAbsent
}

// IsInvocation reports whether err is an invocation fault.
func IsInvocation(err error) bool {
	return CodeOf(err) == CodeInvocation
}

// IsShapeMismatch reports whether err is an unrecognized result shape.
func IsShapeMismatch(err error) bool {
	return CodeOf(err) == CodeShapeMismatch
}

// IsPatchInstall reports whether err is a patch installation fault.
func IsPatchInstall(err error) bool {
	return CodeOf(err) == CodePatchInstall
}

// IsInvariant reports whether err is an invariant violation.
func IsInvariant(err error) bool {
	return CodeOf(err) == CodeInvariant
}

// Fallback reports whether the caller should substitute a local value: the
// module could not produce one for an expected reason.
func Fallback(err error) bool {
	switch CodeOf(err) {
	case CodeAbsent, CodeShapeMismatch, CodeInvocation:
		return true
	}
	return false
}

// classify maps resolver errors onto fault codes.
func classify(op string, err error) *Fault {
	var inv *capability.InvocationError
	switch {
	case errors.Is(err, capability.ErrNotFound), errors.Is(err, capability.ErrUnbindable):
		return NewFault(CodeAbsent, op, "capability not found", err)
	case errors.Is(err, capability.ErrUnusable):
		return NewFault(CodeShapeMismatch, op, "capability result not recognized", err)
	case errors.As(err, &inv):
		return NewFault(CodeInvocation, op, "capability faulted", err)
	default:
		return NewFault(CodeInvariant, op, "unexpected resolver error", err)
	}
}
