package valueobjects

import (
	"fmt"
	"strings"
)

// State is the processing state of a reported incident.
type State string

const (
	StatePending     State = "PENDING"
	StateUnderReview State = "UNDER_REVIEW"
	StateResolved    State = "RESOLVED"
)

var validStates = map[State]bool{
	StatePending:     true,
	StateUnderReview: true,
	StateResolved:    true,
}

// OpenStates lists the states in which an incident is still being handled.
func OpenStates() []State {
	return []State{StatePending, StateUnderReview}
}

// AllStates lists every defined state in pipeline order.
func AllStates() []State {
	return []State{StatePending, StateUnderReview, StateResolved}
}

// ParseState accepts the canonical names case-insensitively, with '-' or ' '
// allowed in place of '_'.
func ParseState(s string) (State, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	state := State(normalized)
	if !state.IsValid() {
		return "", fmt.Errorf("invalid incident state: %q", s)
	}
	return state, nil
}

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	return validStates[s]
}

// IsOpen reports whether the incident still counts for duplicate detection.
func (s State) IsOpen() bool {
	return s == StatePending || s == StateUnderReview
}
