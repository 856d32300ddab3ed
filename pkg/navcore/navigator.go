package navcore

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/BrandonKowalski/navcore/pkg/navcore/constants"
	"github.com/BrandonKowalski/navcore/pkg/navcore/internal"
)

// Options configures a Navigator. The zero value is usable: home is the
// default section, the exit window is two seconds and no platform
// integrations are wired.
type Options struct {
	DefaultSection Section       // Section back collapses to (default SectionHome)
	MaxDepth       int           // Stack bound (default 10)
	ExitWindow     time.Duration // Double-back confirmation window (default 2s)
	Locale         string        // Language of toast text and tab labels (default "en")

	Notifier     Notifier   // Toast capability; nil logs instead
	Terminate    func()     // App-exit capability; nil only logs the exit
	HardwareBack BackSource // Native back button; nil when the platform has none
	History      History    // Location/history capability; nil disables deep links
	Clock        Clock      // Timer source for the exit window (default wall clock)

	Logger   *slog.Logger // Overrides the navcore logger
	LogLevel string       // "debug", "info", "warn" or "error"; NAVCORE_LOG_LEVEL if empty
	LogPath  string       // Log file path in addition to stderr; NAVCORE_LOG_PATH if empty
}

// Navigator is the navigation core: one Store, the ExitGuard, the Arbitrator
// for back intents and the Synchronizer for deep links, wired together.
// Create one at startup and pass it to whoever needs it.
type Navigator struct {
	store        *Store
	guard        *ExitGuard
	arbitrator   *Arbitrator
	synchronizer *Synchronizer
	binding      *Binding
	messages     *Messages
	logger       *slog.Logger

	cancelOnMove func()
	closeOnce    sync.Once
}

// New builds a Navigator from opts.
func New(opts Options) (*Navigator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = configureLogger(opts)
	}

	if !opts.DefaultSection.Valid() {
		return nil, &NavigationError{Op: "new", Value: opts.DefaultSection.String(), Err: ErrUnknownSection}
	}

	locale := opts.Locale
	if locale == "" {
		locale = os.Getenv(constants.LocaleEnvVar)
	}
	if locale == "" {
		locale = constants.DefaultLocale
	}
	messages, err := NewMessages(locale)
	if err != nil {
		return nil, fmt.Errorf("navcore: load messages: %w", err)
	}

	terminate := opts.Terminate
	if terminate == nil {
		terminate = func() {
			logger.Warn("Exit confirmed but no terminate capability is wired")
		}
	}

	var sources []BackSource
	if opts.HardwareBack != nil {
		sources = append(sources, opts.HardwareBack)
	}
	if opts.History != nil {
		sources = append(sources, popIntents{history: opts.History})
	}
	if opts.Notifier == nil {
		logger.Debug("No notifier wired, exit warnings will be logged")
	}

	n := &Navigator{
		store:    NewStore(opts.DefaultSection, opts.MaxDepth, logger),
		messages: messages,
		logger:   logger,
	}
	n.guard = NewExitGuard(ExitGuardOptions{
		Window:    opts.ExitWindow,
		Notifier:  opts.Notifier,
		Terminate: terminate,
		Sources:   sources,
		Clock:     opts.Clock,
		Messages:  messages,
		Logger:    logger,
	})
	// Any state change leaves the exit window.
	n.cancelOnMove = n.store.Subscribe(func(State) { n.guard.Cancel() })
	n.arbitrator = NewArbitrator(n.store, n.guard, opts.HardwareBack, opts.History, logger)
	if opts.History != nil {
		n.synchronizer = NewSynchronizer(n.store, opts.History, logger)
	}
	n.binding = newBinding(n)

	logger.Info("Navigator initialized",
		"default_section", opts.DefaultSection.String(),
		"locale", messages.Language().String(),
		"hardware_back", opts.HardwareBack != nil,
		"history", opts.History != nil)
	return n, nil
}

func configureLogger(opts Options) *slog.Logger {
	path := opts.LogPath
	if path == "" {
		path = os.Getenv(constants.LogPathEnvVar)
	}
	if path != "" {
		internal.SetLogPath(path)
	}

	level := opts.LogLevel
	if level == "" {
		level = os.Getenv(constants.LogLevelEnvVar)
	}
	if level == "" && constants.IsDevMode() {
		level = "debug"
	}
	if level == "" {
		level = constants.DefaultLogLevel
	}
	internal.SetRawLogLevel(level)
	return internal.GetLogger()
}

// CloseLogFile closes the log file opened for Options.LogPath, if any. Call
// it once at process exit, after every Navigator is closed.
func CloseLogFile() {
	internal.CloseLogger()
}

// NavigateTo goes to loc. It panics on an undeclared Section or Screen.
func (n *Navigator) NavigateTo(loc Location) {
	n.store.NavigateTo(loc)
}

// NavigateToSection goes to section at screen, or at its main screen.
func (n *Navigator) NavigateToSection(section Section, screen ...Screen) {
	n.store.NavigateToSection(section, screen...)
}

// NavigateToScreen goes to screen within the current section.
func (n *Navigator) NavigateToScreen(screen Screen) {
	n.store.NavigateToScreen(screen)
}

// GoBack handles a back action from presentation code exactly as a hardware
// back press would be handled. It returns false when nothing was left to go
// back to, in which case the exit guard has been engaged.
func (n *Navigator) GoBack() bool {
	return n.arbitrator.HandleBackIntent(nil)
}

// SetModalOpen records modal visibility; a back while open only closes it.
func (n *Navigator) SetModalOpen(open bool) {
	n.store.SetModalOpen(open)
}

// Subscribe registers fn for every published state.
func (n *Navigator) Subscribe(fn func(State)) (unsubscribe func()) {
	return n.store.Subscribe(fn)
}

// CurrentState returns a snapshot of the navigation state.
func (n *Navigator) CurrentState() State {
	return n.store.State()
}

// Open navigates to the location named by a deep-link URL.
func (n *Navigator) Open(rawURL string) error {
	loc, err := ParseURL(rawURL, n.store.DefaultSection())
	if err != nil {
		return err
	}
	n.store.NavigateTo(loc)
	return nil
}

// Logger returns the logger the navigator writes to.
func (n *Navigator) Logger() *slog.Logger {
	return n.logger
}

// Binding returns the presentation-facing adapter.
func (n *Navigator) Binding() *Binding {
	return n.binding
}

// ExitGuard returns the double-back-to-exit guard.
func (n *Navigator) ExitGuard() *ExitGuard {
	return n.guard
}

// Messages returns the localized strings in use.
func (n *Navigator) Messages() *Messages {
	return n.messages
}

// Tabs returns the tab bar configuration in the navigator's language.
func (n *Navigator) Tabs() []TabConfig {
	return DefaultTabs(n.messages)
}

// Close removes every listener the navigator registered and stops any
// pending exit timer. The navigator must not be used afterwards.
func (n *Navigator) Close() {
	n.closeOnce.Do(func() {
		n.guard.Cancel()
		n.arbitrator.Close()
		if n.synchronizer != nil {
			n.synchronizer.Close()
		}
		n.binding.Close()
		n.cancelOnMove()
		n.logger.Debug("Navigator closed")
	})
}
