package navcore

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/BrandonKowalski/navcore/pkg/navcore/internal"
)

// DeriveURL returns the canonical path of loc:
//
//	/                  default section, main screen
//	/{screen}          default section, other screen
//	/{section}         other section, main screen
//	/{section}/{screen}
func DeriveURL(loc Location, defaultSection Section) string {
	var parts []string
	if loc.Section != defaultSection {
		parts = append(parts, loc.Section.String())
	}
	if loc.Screen != ScreenMain {
		parts = append(parts, loc.Screen.String())
	}
	return "/" + strings.Join(parts, "/")
}

// ParseURL is the inverse of DeriveURL. Absolute URLs are accepted; query and
// fragment are ignored.
func ParseURL(raw string, defaultSection Section) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, &NavigationError{Op: "parse url", Value: raw, Err: ErrInvalidURL}
	}

	trimmed := strings.Trim(u.Path, "/")
	if trimmed == "" {
		return Root(defaultSection), nil
	}

	segments := strings.Split(trimmed, "/")
	switch len(segments) {
	case 1:
		if section, err := ParseSection(segments[0]); err == nil {
			return Root(section), nil
		}
		if screen, err := ParseScreen(segments[0]); err == nil {
			return Location{Section: defaultSection, Screen: screen}, nil
		}
	case 2:
		section, err := ParseSection(segments[0])
		if err != nil {
			break
		}
		screen, err := ParseScreen(segments[1])
		if err != nil {
			break
		}
		return Location{Section: section, Screen: screen}, nil
	}
	return Location{}, &NavigationError{Op: "parse url", Value: raw, Err: ErrInvalidURL}
}

// Synchronizer keeps a History in step with the store. For every published
// state whose canonical URL differs from the history's current URL it pushes
// a new entry carrying that state, so a later pop can restore it exactly.
type Synchronizer struct {
	history        History
	defaultSection Section
	logger         *slog.Logger
	unsubscribe    func()
}

// NewSynchronizer subscribes to store and starts pushing history entries.
func NewSynchronizer(store *Store, history History, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = internal.GetLogger()
	}
	s := &Synchronizer{
		history:        history,
		defaultSection: store.DefaultSection(),
		logger:         logger,
	}
	s.unsubscribe = store.Subscribe(s.sync)
	return s
}

func (s *Synchronizer) sync(state State) {
	target := DeriveURL(state.Current, s.defaultSection)
	if s.history.CurrentURL() == target {
		return
	}
	s.logger.Debug("Pushing history entry", "url", target)
	s.history.Push(target, state)
}

// Close stops following the store.
func (s *Synchronizer) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
