package primitive

import (
	"errors"
	"fmt"
)

// ErrRejected matches every RejectionError via errors.Is.
var ErrRejected = errors.New("primitive rejected")

// Result represents the outcome of validating a raw value (value type).
type Result struct {
	Valid  bool
	Reason string // Populated only if Valid=false
}

// OK returns an accepting result.
func OK() Result {
	return Result{Valid: true}
}

// Reject returns a rejecting result with the given reason.
func Reject(reason string) Result {
	return Result{Valid: false, Reason: reason}
}

// Rejectf returns a rejecting result with a formatted reason.
func Rejectf(format string, args ...any) Result {
	return Reject(fmt.Sprintf(format, args...))
}

// Err converts the result into a RejectionError, or nil when valid.
func (r Result) Err(name string) error {
	if r.Valid {
		return nil
	}
	return &RejectionError{Primitive: name, Reason: r.Reason}
}

// RejectionError is returned when a raw value does not satisfy a primitive's rule.
type RejectionError struct {
	Primitive string
	Reason    string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Primitive, e.Reason)
}

// Is makes every RejectionError match ErrRejected.
func (e *RejectionError) Is(target error) bool {
	return target == ErrRejected
}

// Rejection builds a RejectionError for use inside check-style rules.
func Rejection(reason string) error {
	return &RejectionError{Reason: reason}
}

// Rejectionf builds a RejectionError with a formatted reason.
func Rejectionf(format string, args ...any) error {
	return &RejectionError{Reason: fmt.Sprintf(format, args...)}
}

// Style identifies how a primitive's rule reports failure.
type Style int

const (
	// StyleResult rules return a Result.
	StyleResult Style = iota + 1
	// StyleError rules return an error.
	StyleError
)

func (s Style) String() string {
	switch s {
	case StyleResult:
		return "result"
	case StyleError:
		return "error"
	}
	return "unknown"
}
