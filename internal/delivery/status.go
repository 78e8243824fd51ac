// Package delivery models the lifecycle of job-application deliveries:
// planning a batch from a cart snapshot, tracking per-delivery status, and
// aggregating collections into summaries and daily trends.
//
// Valid status graph:
//
//	pending ──► sent ──► delivered ──► viewed ──► replied ──► interview ──► hired
//	                                      │                        │
//	                                      └────────────────────────┴──► rejected
//
// hired and rejected are terminal states.
package delivery

import "fmt"

// Status values mirror the deliveries.status column.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusViewed    Status = "viewed"
	StatusReplied   Status = "replied"
	StatusInterview Status = "interview"
	StatusHired     Status = "hired"
	StatusRejected  Status = "rejected"
)

// validTransitions lists every allowed from/to pair. A reply commits the
// recruiter to an interview decision, so rejection is reachable only from
// viewed and interview.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusSent},
	StatusSent:      {StatusDelivered},
	StatusDelivered: {StatusViewed},
	StatusViewed:    {StatusReplied, StatusRejected},
	StatusReplied:   {StatusInterview},
	StatusInterview: {StatusHired, StatusRejected},
	// hired and rejected are terminal, no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusSent, StatusDelivered, StatusViewed, StatusReplied, StatusInterview, StatusHired, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown delivery status %q", s)
}

// IsTransitionAllowed reports whether the state machine permits moving
// between the two statuses.
func IsTransitionAllowed(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state, no outgoing transitions
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true when the status has no outgoing transitions.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}
