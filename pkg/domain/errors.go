package domain

import (
	"errors"
	"fmt"
)

// ErrChildCountTooHigh is returned when an object reports more children than
// the configured threshold. The build is replaced by a diagnostic report.
var ErrChildCountTooHigh = errors.New("child count is too high")

// ErrFoldInvariant is returned when the fold phase cannot reassemble exactly
// one root from the scanned records.
var ErrFoldInvariant = errors.New("fold invariant violated")

// ErrRemote marks failures of a call to the remote accessibility service.
var ErrRemote = errors.New("remote call failed")

// RemoteError describes a failed remote operation on one object.
type RemoteError struct {
	Op  string
	Ref NodeRef
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Ref, e.Err)
}

// Unwrap exposes both the ErrRemote marker and the transport cause.
func (e *RemoteError) Unwrap() []error {
	return []error{ErrRemote, e.Err}
}

// ChildCountError is the distinguished outcome of a threshold breach.
// Report is nil when the diagnostic inspection itself failed; Cause then
// holds that failure.
type ChildCountError struct {
	Ref       NodeRef
	Count     int
	Threshold int
	Report    *Diagnostic
	Cause     error
}

func (e *ChildCountError) Error() string {
	msg := fmt.Sprintf("%s: %s reports %d children (threshold %d)", ErrChildCountTooHigh, e.Ref, e.Count, e.Threshold)
	if e.Cause != nil {
		msg += fmt.Sprintf("; inspection failed: %v", e.Cause)
	}
	return msg
}

func (e *ChildCountError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrChildCountTooHigh, e.Cause}
	}
	return []error{ErrChildCountTooHigh}
}
