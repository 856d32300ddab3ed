// Package history provides an in-process implementation of the navcore
// History capability with browser semantics: Push truncates forward entries,
// Back and Forward move through the list and fire pop listeners with the
// state stored on the entry they land on.
package history

import (
	"sync"

	"github.com/BrandonKowalski/navcore/pkg/navcore"
)

type entry struct {
	url   string
	state *navcore.State
}

type listener struct {
	id uint64
	fn func(navcore.PopEvent)
}

// Memory is a history list held in memory.
type Memory struct {
	mu        sync.Mutex
	entries   []entry
	index     int
	listeners []listener
	nextID    uint64
}

// NewMemory creates a history whose only entry is initialURL with no state,
// like a page that was just loaded.
func NewMemory(initialURL string) *Memory {
	if initialURL == "" {
		initialURL = "/"
	}
	return &Memory{entries: []entry{{url: initialURL}}}
}

// Push adds an entry after the current one, dropping any forward entries.
// Listeners are not notified.
func (m *Memory) Push(url string, state navcore.State) {
	stored := state.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries[:m.index+1], entry{url: url, state: &stored})
	m.index++
}

// CurrentURL returns the URL of the current entry.
func (m *Memory) CurrentURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index].url
}

// OnPop registers fn for Back, Forward and Go moves.
func (m *Memory) OnPop(fn func(navcore.PopEvent)) navcore.Disposer {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listener{id: id, fn: fn})
	m.mu.Unlock()

	return navcore.DisposeFunc(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	})
}

// Back moves one entry back. It returns false at the first entry.
func (m *Memory) Back() bool {
	return m.Go(-1)
}

// Forward moves one entry forward. It returns false at the last entry.
func (m *Memory) Forward() bool {
	return m.Go(1)
}

// Go moves delta entries and fires one pop event. Moves outside the list are
// ignored and return false.
func (m *Memory) Go(delta int) bool {
	m.mu.Lock()
	target := m.index + delta
	if delta == 0 || target < 0 || target >= len(m.entries) {
		m.mu.Unlock()
		return false
	}
	m.index = target
	ev := navcore.PopEvent{URL: m.entries[target].url}
	if st := m.entries[target].state; st != nil {
		restored := st.Clone()
		ev.State = &restored
	}
	listeners := make([]listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l.fn(ev)
	}
	return true
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// URLs returns the URL of every entry, oldest first, and the current index.
func (m *Memory) URLs() (urls []string, current int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	urls = make([]string, len(m.entries))
	for i, e := range m.entries {
		urls[i] = e.url
	}
	return urls, m.index
}
