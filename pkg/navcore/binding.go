package navcore

import (
	"sync"

	"go.uber.org/atomic"
)

// Binding exposes a Navigator to presentation code as an observable value
// plus imperative actions. Render loops that poll every frame can compare
// Version instead of subscribing.
type Binding struct {
	nav *Navigator

	mu    sync.RWMutex
	value State

	version     atomic.Uint64
	unsubscribe func()
}

// Integration describes how a screen hooks into back handling while it is
// showing.
type Integration struct {
	Location      Location    // Navigated to on Attach
	OnBackPressed func() bool // Return true if the screen handled the back itself
	PreventBack   bool        // Swallow back intents the screen did not handle
}

func newBinding(nav *Navigator) *Binding {
	b := &Binding{nav: nav, value: nav.store.State()}
	b.unsubscribe = nav.store.Subscribe(b.update)
	return b
}

func (b *Binding) update(state State) {
	b.mu.Lock()
	b.value = state
	b.mu.Unlock()
	b.version.Inc()
}

// Value returns the latest published state.
func (b *Binding) Value() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value.Clone()
}

// Version increases by one with every published state.
func (b *Binding) Version() uint64 {
	return b.version.Load()
}

// Changed reports whether a state was published after version seen.
func (b *Binding) Changed(seen uint64) bool {
	return b.version.Load() != seen
}

// Watch calls fn with every published state until the returned function is called.
func (b *Binding) Watch(fn func(State)) (unwatch func()) {
	return b.nav.store.Subscribe(fn)
}

func (b *Binding) CurrentSection() Section { return b.Value().Current.Section }
func (b *Binding) CurrentScreen() Screen   { return b.Value().Current.Screen }
func (b *Binding) CanGoBack() bool         { return b.Value().CanGoBack }
func (b *Binding) ShowChrome() bool        { return b.Value().ShowChrome }

// Navigate goes to section at screen, or its main screen.
func (b *Binding) Navigate(section Section, screen ...Screen) {
	b.nav.NavigateToSection(section, screen...)
}

func (b *Binding) NavigateToScreen(screen Screen) {
	b.nav.NavigateToScreen(screen)
}

func (b *Binding) GoBack() bool {
	return b.nav.GoBack()
}

func (b *Binding) SetModalOpen(open bool) {
	b.nav.SetModalOpen(open)
}

// Attach navigates to in.Location and installs its back handling. The
// returned function removes the handling; it does not navigate.
func (b *Binding) Attach(in Integration) (detach func()) {
	b.nav.NavigateTo(in.Location)

	if in.OnBackPressed == nil && !in.PreventBack {
		return func() {}
	}

	handler := in.OnBackPressed
	prevent := in.PreventBack
	d := b.nav.arbitrator.Intercept(func() bool {
		if handler != nil && handler() {
			return true
		}
		return prevent
	})
	return d.Dispose
}

// Close stops the binding from following the store.
func (b *Binding) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}
