package navcore

import "slices"

// State is the externally observable navigation snapshot.
// ShowChrome and CanGoBack are derived from Current and Stack on every
// mutation and are never set directly.
type State struct {
	Current    Location   `json:"current"`
	Previous   *Location  `json:"previous,omitempty"`
	Stack      []Location `json:"stack"`
	ModalOpen  bool       `json:"modalOpen"`
	ShowChrome bool       `json:"showChrome"`
	CanGoBack  bool       `json:"canGoBack"`
}

func newState(root Location) State {
	s := State{Current: root, Stack: []Location{root}}
	s.derive()
	return s
}

func (s *State) derive() {
	s.CanGoBack = len(s.Stack) > 1
	s.ShowChrome = !s.Current.Immersive()
}

// Clone returns a deep copy of s. Snapshots handed to subscribers and history
// entries are clones, so holding one never observes later mutation.
func (s State) Clone() State {
	out := s
	out.Stack = slices.Clone(s.Stack)
	if s.Previous != nil {
		prev := *s.Previous
		out.Previous = &prev
	}
	return out
}

// Equal reports structural equality of two snapshots.
func (s State) Equal(other State) bool {
	if s.Current != other.Current || s.ModalOpen != other.ModalOpen ||
		s.ShowChrome != other.ShowChrome || s.CanGoBack != other.CanGoBack {
		return false
	}
	if (s.Previous == nil) != (other.Previous == nil) {
		return false
	}
	if s.Previous != nil && *s.Previous != *other.Previous {
		return false
	}
	return slices.Equal(s.Stack, other.Stack)
}

// Validate checks the invariants a restorable snapshot must satisfy.
func (s State) Validate() error {
	if len(s.Stack) == 0 {
		return &NavigationError{Op: "restore", Value: "empty stack", Err: ErrInvalidState}
	}
	for i, loc := range s.Stack {
		if err := loc.Validate(); err != nil {
			return &NavigationError{Op: "restore", Value: loc.String(), Err: err}
		}
		if i > 0 && s.Stack[i-1] == loc {
			return &NavigationError{Op: "restore", Value: "adjacent duplicate " + loc.String(), Err: ErrInvalidState}
		}
	}
	if s.Stack[len(s.Stack)-1] != s.Current {
		return &NavigationError{Op: "restore", Value: "top " + s.Stack[len(s.Stack)-1].String() + " is not current " + s.Current.String(), Err: ErrInvalidState}
	}
	return nil
}
