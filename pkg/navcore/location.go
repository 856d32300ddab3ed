package navcore

import "fmt"

// Section is a top-level destination of the app, the equivalent of a tab.
type Section int

const (
	SectionHome Section = iota
	SectionDailyTasks
	SectionProgress
	SectionAchievements
	SectionStore
	SectionSimulator
	SectionEvents

	sectionCount
)

var sectionSlugs = [...]string{
	SectionHome:         "home",
	SectionDailyTasks:   "daily-tasks",
	SectionProgress:     "progress",
	SectionAchievements: "achievements",
	SectionStore:        "store",
	SectionSimulator:    "ecg-simulator",
	SectionEvents:       "events",
}

// Sections returns every known section in declaration order.
func Sections() []Section {
	out := make([]Section, 0, sectionCount)
	for s := SectionHome; s < sectionCount; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether s is one of the declared sections.
func (s Section) Valid() bool {
	return s >= SectionHome && s < sectionCount
}

// String returns the URL slug of the section.
func (s Section) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Section(%d)", int(s))
	}
	return sectionSlugs[s]
}

func (s Section) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, &NavigationError{Op: "marshal", Value: s.String(), Err: ErrUnknownSection}
	}
	return []byte(sectionSlugs[s]), nil
}

func (s *Section) UnmarshalText(text []byte) error {
	parsed, err := ParseSection(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSection converts a URL slug into a Section.
func ParseSection(slug string) (Section, error) {
	for s, name := range sectionSlugs {
		if name == slug {
			return Section(s), nil
		}
	}
	return 0, &NavigationError{Op: "parse", Value: slug, Err: ErrUnknownSection}
}

// Screen is a presentation mode layered under a Section.
type Screen int

const (
	ScreenMain Screen = iota
	ScreenLesson
	ScreenQuiz
	ScreenSimulator
	ScreenResults
	ScreenProfile
	ScreenSettings

	screenCount
)

var screenSlugs = [...]string{
	ScreenMain:      "main",
	ScreenLesson:    "lesson",
	ScreenQuiz:      "quiz",
	ScreenSimulator: "simulator",
	ScreenResults:   "results",
	ScreenProfile:   "profile",
	ScreenSettings:  "settings",
}

// Valid reports whether s is one of the declared screens.
func (s Screen) Valid() bool {
	return s >= ScreenMain && s < screenCount
}

func (s Screen) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Screen(%d)", int(s))
	}
	return screenSlugs[s]
}

func (s Screen) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, &NavigationError{Op: "marshal", Value: s.String(), Err: ErrUnknownScreen}
	}
	return []byte(screenSlugs[s]), nil
}

func (s *Screen) UnmarshalText(text []byte) error {
	parsed, err := ParseScreen(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseScreen converts a URL slug into a Screen.
func ParseScreen(slug string) (Screen, error) {
	for s, name := range screenSlugs {
		if name == slug {
			return Screen(s), nil
		}
	}
	return 0, &NavigationError{Op: "parse", Value: slug, Err: ErrUnknownScreen}
}

// Immersive reports whether the screen hides the app chrome.
func (s Screen) Immersive() bool {
	switch s {
	case ScreenLesson, ScreenQuiz, ScreenSimulator:
		return true
	default:
		return false
	}
}

// Location is a (Section, Screen) pair, the atomic unit of navigation.
// Locations are compared with ==.
type Location struct {
	Section Section `json:"section"`
	Screen  Screen  `json:"screen"`
}

// Root returns the main screen of the given section.
func Root(section Section) Location {
	return Location{Section: section, Screen: ScreenMain}
}

// Immersive reports whether chrome is hidden at this location.
func (l Location) Immersive() bool {
	return l.Screen.Immersive() || l.Section == SectionSimulator
}

// Validate returns a *NavigationError when either half is not a declared value.
func (l Location) Validate() error {
	if !l.Section.Valid() {
		return &NavigationError{Op: "validate", Value: l.Section.String(), Err: ErrUnknownSection}
	}
	if !l.Screen.Valid() {
		return &NavigationError{Op: "validate", Value: l.Screen.String(), Err: ErrUnknownScreen}
	}
	return nil
}

func (l Location) String() string {
	return l.Section.String() + "/" + l.Screen.String()
}
