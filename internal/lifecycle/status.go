// Package lifecycle owns the Application state machine.
//
// Usual status graph:
//
//	pending ──► applied ──► interviewing ──► offered ──► accepted
//	    │           │              │             │
//	    └───────────┴──────────────┴─────────────┴──► rejected
//
// accepted and rejected are terminal in normal operation, but the manager does
// not block transitions outside this graph: reopening a rejected application
// is a legitimate need, so off-graph updates are logged rather than refused.
package lifecycle

import "fmt"

// Status values mirror the status strings stored on applications.
type Status string

const (
	StatusPending      Status = "pending"
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusRejected     Status = "rejected"
	StatusOffered      Status = "offered"
	StatusAccepted     Status = "accepted"
)

// usualTransitions lists the expected (from → to) pairs. Advisory only.
var usualTransitions = map[Status][]Status{
	StatusPending:      {StatusApplied, StatusRejected},
	StatusApplied:      {StatusInterviewing, StatusRejected},
	StatusInterviewing: {StatusOffered, StatusRejected},
	StatusOffered:      {StatusAccepted, StatusRejected},
}

// ParseStatus converts a raw string to a Status, returning an error for
// values outside the closed enum.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusApplied, StatusInterviewing,
		StatusRejected, StatusOffered, StatusAccepted:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTerminal reports whether s is an end state of the normal flow.
func IsTerminal(s Status) bool {
	return s == StatusAccepted || s == StatusRejected
}

// Usual reports whether from → to follows the expected graph. Setting the
// same status twice counts as usual (idempotent update).
func Usual(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range usualTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
