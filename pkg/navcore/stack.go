package navcore

import "github.com/BrandonKowalski/navcore/pkg/navcore/constants"

// Stack manages navigation history for back navigation.
// It is never empty, never holds the same Location twice and holds at most
// maxDepth entries, evicting the oldest from the front.
type Stack struct {
	entries  []Location
	maxDepth int
}

// NewStack creates a stack holding only root.
// A maxDepth below 1 selects constants.DefaultMaxDepth.
func NewStack(root Location, maxDepth int) *Stack {
	if maxDepth < 1 {
		maxDepth = constants.DefaultMaxDepth
	}
	entries := make([]Location, 1, maxDepth+1)
	entries[0] = root
	return &Stack{entries: entries, maxDepth: maxDepth}
}

// Push moves loc to the top of the stack. An existing occurrence is removed
// first, so revisits keep recency order without growing the stack.
func (s *Stack) Push(loc Location) {
	if i := s.indexOf(loc); i >= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}
	s.entries = append(s.entries, loc)
	if len(s.entries) > s.maxDepth {
		s.entries = append(s.entries[:0], s.entries[len(s.entries)-s.maxDepth:]...)
	}
}

// Pop removes the top entry and returns it.
// The last remaining entry is never removed; ok is false in that case.
func (s *Stack) Pop() (popped Location, ok bool) {
	if len(s.entries) <= 1 {
		return Location{}, false
	}
	popped = s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return popped, true
}

// Peek returns the top entry without removing it.
func (s *Stack) Peek() Location {
	return s.entries[len(s.entries)-1]
}

// Len returns the number of entries in the stack.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Reset replaces the whole history with a single entry.
func (s *Stack) Reset(root Location) {
	s.entries = append(s.entries[:0], root)
}

// Replace overwrites the history with a copy of entries, trimmed to the
// configured depth. entries must not be empty.
func (s *Stack) Replace(entries []Location) {
	if len(entries) > s.maxDepth {
		entries = entries[len(entries)-s.maxDepth:]
	}
	s.entries = append(s.entries[:0], entries...)
}

// Entries returns a copy of the history, oldest first.
func (s *Stack) Entries() []Location {
	out := make([]Location, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Stack) indexOf(loc Location) int {
	for i, e := range s.entries {
		if e == loc {
			return i
		}
	}
	return -1
}
