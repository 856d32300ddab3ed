package navcore

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/navcore/pkg/navcore/internal"
)

// Store is the single source of truth for navigation State.
//
// Every mutation publishes the new snapshot to all subscribers synchronously,
// in registration order, before the mutating call returns. The store lock is
// released before subscribers run, so a subscriber may navigate again; that
// nested call completes, including its own fan-out, before control returns to
// the outer one, which then skips the subscribers it had not reached yet.
// Unbounded navigate-from-notify cycles are the caller's responsibility.
type Store struct {
	mu             sync.Mutex
	current        Location
	previous       *Location
	modalOpen      bool
	stack          *Stack
	defaultSection Section

	// version counts committed mutations; a fan-out stops once it is stale.
	version atomic.Uint64

	subsMu sync.Mutex
	subs   []subscription
	nextID uint64

	logger *slog.Logger
}

type subscription struct {
	id uint64
	fn func(State)
}

// NewStore creates a store positioned at the main screen of defaultSection.
// A maxDepth below 1 selects the default depth. A nil logger uses the navcore logger.
func NewStore(defaultSection Section, maxDepth int, logger *slog.Logger) *Store {
	if !defaultSection.Valid() {
		panic(&NavigationError{Op: "new store", Value: defaultSection.String(), Err: ErrUnknownSection})
	}
	if logger == nil {
		logger = internal.GetLogger()
	}
	root := Root(defaultSection)
	return &Store{
		current:        root,
		stack:          NewStack(root, maxDepth),
		defaultSection: defaultSection,
		logger:         logger,
	}
}

// DefaultSection returns the section the store collapses to on back.
func (s *Store) DefaultSection() Section {
	return s.defaultSection
}

// NavigateTo makes loc the current location and moves it to the top of the
// stack. It panics with a *NavigationError if loc names an undeclared Section
// or Screen.
func (s *Store) NavigateTo(loc Location) {
	if err := loc.Validate(); err != nil {
		s.logger.Error("Navigation to undeclared location", "error", err)
		panic(err)
	}

	s.mu.Lock()
	s.moveToLocked(loc)
	snap, version := s.commitLocked()
	s.mu.Unlock()

	s.logger.Debug("Navigated", "location", loc.String(), "depth", len(snap.Stack))
	s.publish(snap, version)
}

// NavigateToSection navigates to section at the given screen, or its main
// screen when no screen is given.
func (s *Store) NavigateToSection(section Section, screen ...Screen) {
	loc := Root(section)
	if len(screen) > 0 {
		loc.Screen = screen[0]
	}
	s.NavigateTo(loc)
}

// NavigateToScreen navigates to screen within the current section.
func (s *Store) NavigateToScreen(screen Screen) {
	s.mu.Lock()
	section := s.current.Section
	s.mu.Unlock()

	s.NavigateTo(Location{Section: section, Screen: screen})
}

// GoBack resolves one back action. It returns false only when the store is
// already at the main screen of the default section with nothing to pop.
//
// Resolution order: an open modal is closed and nothing else happens; otherwise
// the top of the stack is popped; otherwise a non-main screen collapses to its
// section's main screen; otherwise a non-default section collapses to the
// default section. A collapse replaces the whole history with that single
// main screen, so CanGoBack is false afterwards.
func (s *Store) GoBack() bool {
	s.mu.Lock()
	action := "pop"
	switch {
	case s.modalOpen:
		action = "close modal"
		s.modalOpen = false
	case s.stack.Len() > 1:
		popped, _ := s.stack.Pop()
		s.previous = &popped
		s.current = s.stack.Peek()
	case s.current.Screen != ScreenMain:
		action = "collapse screen"
		s.collapseLocked(Root(s.current.Section))
	case s.current.Section != s.defaultSection:
		action = "collapse section"
		s.collapseLocked(Root(s.defaultSection))
	default:
		s.mu.Unlock()
		s.logger.Debug("Back at root with nothing to resolve")
		return false
	}
	snap, version := s.commitLocked()
	s.mu.Unlock()

	s.logger.Debug("Back resolved", "action", action, "location", snap.Current.String())
	s.publish(snap, version)
	return true
}

// SetModalOpen records whether a modal is showing. The stack is untouched.
func (s *Store) SetModalOpen(open bool) {
	s.mu.Lock()
	s.modalOpen = open
	snap, version := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap, version)
}

// Restore replaces the store contents with a previously published snapshot,
// verbatim apart from the derived fields, which are recomputed.
func (s *Store) Restore(state State) error {
	if err := state.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = state.Current
	s.previous = nil
	if state.Previous != nil {
		prev := *state.Previous
		s.previous = &prev
	}
	s.modalOpen = state.ModalOpen
	s.stack.Replace(state.Stack)
	snap, version := s.commitLocked()
	s.mu.Unlock()

	s.logger.Debug("Restored state", "location", snap.Current.String(), "depth", len(snap.Stack))
	s.publish(snap, version)
	return nil
}

// State returns a snapshot of the current navigation state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ModalOpen reports whether a modal is currently showing.
func (s *Store) ModalOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modalOpen
}

// Subscribe registers fn to receive every published state. The returned
// function removes the subscription and is safe to call more than once.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subsMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) moveToLocked(loc Location) {
	prev := s.current
	s.previous = &prev
	s.current = loc
	s.stack.Push(loc)
}

// collapseLocked replaces the whole history with root; the collapsed screen
// must not remain reachable by a further back.
func (s *Store) collapseLocked(root Location) {
	prev := s.current
	s.previous = &prev
	s.current = root
	s.stack.Reset(root)
}

func (s *Store) commitLocked() (State, uint64) {
	return s.snapshotLocked(), s.version.Inc()
}

func (s *Store) snapshotLocked() State {
	st := State{
		Current:   s.current,
		Stack:     s.stack.Entries(),
		ModalOpen: s.modalOpen,
	}
	if s.previous != nil {
		prev := *s.previous
		st.Previous = &prev
	}
	st.derive()
	return st
}

// publish delivers st to every subscriber. If a subscriber mutates the store,
// the nested publish reaches all subscribers with the newer state and this
// one stops, so every subscriber's last delivery is the current state.
func (s *Store) publish(st State, version uint64) {
	s.subsMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()

	for _, sub := range subs {
		if s.version.Load() != version {
			return
		}
		s.deliver(sub.fn, st.Clone())
	}
}

func (s *Store) deliver(fn func(State), st State) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Navigation subscriber panicked",
				"panic", r,
				"location", st.Current.String(),
				"trace", string(debug.Stack()))
		}
	}()
	fn(st)
}
