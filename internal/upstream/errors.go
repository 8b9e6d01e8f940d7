// Package upstream describes failures of the record-fetching collaborators
// (the legacy database or the fixture store).
package upstream

import (
	"errors"
	"fmt"
)

// ErrFetch matches any failure of a fetch collaborator via errors.Is.
var ErrFetch = errors.New("upstream fetch failed")

// Error reports a failed collaborator call. RawID is zero when the call was
// not scoped to a single raw identity.
type Error struct {
	Op    string
	RawID int64
	Err   error
}

func (e *Error) Error() string {
	if e.RawID != 0 {
		return fmt.Sprintf("%s for raw id %d: %v", e.Op, e.RawID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	return []error{ErrFetch, e.Err}
}

// Wrap returns err wrapped as an upstream failure, or nil when err is nil.
// Errors that already are upstream failures are returned unchanged.
func Wrap(op string, rawID int64, err error) error {
	if err == nil {
		return nil
	}
	var ue *Error
	if errors.As(err, &ue) {
		return err
	}
	return &Error{Op: op, RawID: rawID, Err: err}
}
