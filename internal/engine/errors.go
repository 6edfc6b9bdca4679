package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/pulsenet/internal/circuit"
)

// RuntimeError represents an error detected while draining pulses.
//
// Runtime errors include:
//   - Missing memory: a Conjunction received a pulse from a non-input
//   - Unknown module: an entry or scope member is not declared
//   - Quota exceeded: a period search ran past its press limit
//
// RuntimeError includes structured fields for diagnostics.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Module names the module involved, if any.
	Module string

	// Press is the 1-based press during which the error occurred, or 0.
	Press int64

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeMissingMemory indicates a Conjunction has no memory entry for
	// the sending module.
	ErrCodeMissingMemory RuntimeErrorCode = "MISSING_MEMORY"

	// ErrCodeUnknownModule indicates a name that is not a declared module.
	ErrCodeUnknownModule RuntimeErrorCode = "UNKNOWN_MODULE"

	// ErrCodeQuotaExceeded indicates a search exceeded its press limit.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Module != "" && e.Press > 0 {
		return fmt.Sprintf("%s: %s (module=%s, press=%d)", e.Code, e.Message, e.Module, e.Press)
	}
	if e.Module != "" {
		return fmt.Sprintf("%s: %s (module=%s)", e.Code, e.Message, e.Module)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error { return e.Err }

// IsMissingMemory returns true if the error is a missing memory error.
// Uses errors.As to handle wrapped errors.
func IsMissingMemory(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeMissingMemory
	}
	return false
}

// IsUnknownModule returns true if the error is an unknown module error.
func IsUnknownModule(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeUnknownModule
	}
	return false
}

// IsQuotaError returns true if the error is a quota exceeded error.
// Uses errors.As to handle wrapped errors.
func IsQuotaError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeQuotaExceeded
	}
	return false
}

// NewMissingMemoryError creates a RuntimeError for a pulse from src that
// dest has no memory entry for.
func NewMissingMemoryError(src, dest string, press int64) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeMissingMemory,
		Message: fmt.Sprintf("no memory entry for input %s", src),
		Module:  dest,
		Press:   press,
		Err:     circuit.ErrMissingMemory,
	}
}

// NewUnknownModuleError creates a RuntimeError for an undeclared module.
func NewUnknownModuleError(name string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnknownModule,
		Message: "not a declared module",
		Module:  name,
		Err:     circuit.ErrUnknownModule,
	}
}

// NewQuotaError creates a RuntimeError for quota exceeded.
func NewQuotaError(entry string, presses, maxPresses int64) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeQuotaExceeded,
		Message: fmt.Sprintf("search exceeded max presses (%d > %d)", presses, maxPresses),
		Module:  entry,
		Press:   presses,
	}
}
