package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden means the actor lacks the role or ownership required.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition means the target state is unknown or not
	// reachable from the current state.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Actor is the authenticated caller of a workflow operation.
type Actor struct {
	ID   int
	Role Role
}

// Entry is the part of a curated prayer the workflow needs to decide on.
type Entry struct {
	CreatedBy int
	State     State
}

func (a Actor) owns(e Entry) bool {
	return a.ID == e.CreatedBy
}

// edge describes who may move an entry into a target state and from where.
// A nil from list means any current state.
type edge struct {
	from         []State
	ownerAllowed bool
}

var transitions = map[State]edge{
	StateReview:    {from: []State{StateDraft}, ownerAllowed: true},
	StatePublished: {from: []State{StateDraft, StateReview}},
	StateArchived:  {},
}

func (e edge) allows(from State) bool {
	if e.from == nil {
		return true
	}
	for _, s := range e.from {
		if s == from {
			return true
		}
	}
	return false
}

// Authorize decides whether actor may move entry to target. Role and
// ownership are checked before the source state.
func Authorize(actor Actor, entry Entry, target State) error {
	e, ok := transitions[target]
	if !ok {
		return fmt.Errorf("%w: %q is not a valid target state", ErrInvalidTransition, target)
	}

	if !Elevated(actor.Role) && !(e.ownerAllowed && actor.owns(entry)) {
		return fmt.Errorf("%w: %s may not move this entry to %s", ErrForbidden, actor.Role, target)
	}

	if !e.allows(entry.State) {
		return fmt.Errorf("%w: cannot move entry from %s to %s", ErrInvalidTransition, entry.State, target)
	}

	return nil
}

// AuthorizeEdit decides whether actor may change the content of entry.
// Archived entries are frozen for everyone; editors may only touch their own
// entries before publication.
func AuthorizeEdit(actor Actor, entry Entry) error {
	if entry.State == StateArchived {
		return fmt.Errorf("%w: archived entries cannot be edited", ErrForbidden)
	}
	if Elevated(actor.Role) {
		return nil
	}
	if !actor.owns(entry) {
		return fmt.Errorf("%w: only the owner may edit this entry", ErrForbidden)
	}
	if entry.State != StateDraft && entry.State != StateReview {
		return fmt.Errorf("%w: %s entries cannot be edited by %s", ErrForbidden, entry.State, actor.Role)
	}
	return nil
}

// AuthorizeDelete decides whether actor may delete entry.
func AuthorizeDelete(actor Actor, entry Entry) error {
	if Elevated(actor.Role) {
		return nil
	}
	if !actor.owns(entry) {
		return fmt.Errorf("%w: only the owner may delete this entry", ErrForbidden)
	}
	if entry.State != StateDraft {
		return fmt.Errorf("%w: only drafts can be deleted by %s", ErrForbidden, actor.Role)
	}
	return nil
}
