package workflow

import "strings"

// State is the publication stage of a curated prayer entry.
type State string

const (
	StateDraft     State = "DRAFT"
	StateReview    State = "REVIEW"
	StatePublished State = "PUBLISHED"
	StateArchived  State = "ARCHIVED"
)

// States lists every state in workflow order. The database enum is declared
// in the same order, so sorting by state groups entries by stage.
var States = []State{StateDraft, StateReview, StatePublished, StateArchived}

// ParseState accepts a state name in any case.
func ParseState(s string) (State, bool) {
	st := State(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range States {
		if st == known {
			return st, true
		}
	}
	return "", false
}

func (s State) Valid() bool {
	for _, known := range States {
		if s == known {
			return true
		}
	}
	return false
}

func (s State) String() string {
	return string(s)
}
