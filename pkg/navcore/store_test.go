package navcore_test

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/navcore/pkg/navcore"
)

func newTestStore() *navcore.Store {
	return navcore.NewStore(navcore.SectionHome, 10, discardLogger())
}

func requireInvariants(t *testing.T, st navcore.State) {
	t.Helper()
	require.NotEmpty(t, st.Stack)
	require.LessOrEqual(t, len(st.Stack), 10)
	require.Equal(t, st.Current, st.Stack[len(st.Stack)-1], "top of stack must mirror current")
	require.Equal(t, len(st.Stack) > 1, st.CanGoBack)
	require.Equal(t, !st.Current.Immersive(), st.ShowChrome)

	seen := make(map[navcore.Location]bool)
	for _, l := range st.Stack {
		require.False(t, seen[l], "duplicate entry %s", l)
		seen[l] = true
	}
}

func TestStoreInitialState(t *testing.T) {
	st := newTestStore().State()

	want := navcore.State{
		Current:    navcore.Root(navcore.SectionHome),
		Stack:      []navcore.Location{navcore.Root(navcore.SectionHome)},
		ShowChrome: true,
	}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Errorf("initial state mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreOpenLessonHidesChrome(t *testing.T) {
	s := newTestStore()

	s.NavigateToScreen(navcore.ScreenLesson)

	st := s.State()
	assert.Equal(t, loc(navcore.SectionHome, navcore.ScreenLesson), st.Current)
	assert.True(t, st.CanGoBack)
	assert.False(t, st.ShowChrome)
	require.NotNil(t, st.Previous)
	assert.Equal(t, navcore.Root(navcore.SectionHome), *st.Previous)
}

func TestStoreBackFromLesson(t *testing.T) {
	s := newTestStore()
	s.NavigateToScreen(navcore.ScreenLesson)

	require.True(t, s.GoBack())

	st := s.State()
	assert.Equal(t, navcore.Root(navcore.SectionHome), st.Current)
	assert.False(t, st.CanGoBack)
	assert.True(t, st.ShowChrome)
	require.NotNil(t, st.Previous)
	assert.Equal(t, loc(navcore.SectionHome, navcore.ScreenLesson), *st.Previous)
}

func TestStoreBackAtRootReturnsFalse(t *testing.T) {
	s := newTestStore()
	before := s.State()

	assert.False(t, s.GoBack())
	assert.True(t, before.Equal(s.State()))
}

func TestStoreModalClosesFirst(t *testing.T) {
	s := newTestStore()
	s.NavigateToSection(navcore.SectionProgress, navcore.ScreenResults)
	s.SetModalOpen(true)
	before := s.State()
	require.True(t, before.ModalOpen)

	require.True(t, s.GoBack())

	after := s.State()
	assert.False(t, after.ModalOpen)
	assert.Equal(t, before.Current, after.Current)
	if diff := cmp.Diff(before.Stack, after.Stack); diff != "" {
		t.Errorf("modal dismissal must not touch the stack (-before +after):\n%s", diff)
	}
}

func TestStoreSimulatorSectionHidesChrome(t *testing.T) {
	s := newTestStore()
	s.NavigateToSection(navcore.SectionSimulator)

	assert.False(t, s.State().ShowChrome)
}

func TestStoreNavigateTwiceIsIdempotent(t *testing.T) {
	s := newTestStore()
	x := loc(navcore.SectionStore, navcore.ScreenProfile)

	s.NavigateTo(x)
	first := s.State().Stack
	s.NavigateTo(x)
	second := s.State().Stack

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second navigate changed the stack (-first +second):\n%s", diff)
	}
	count := 0
	for _, l := range second {
		if l == x {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, x, second[len(second)-1])
}

func TestStoreRevisitMovesToTop(t *testing.T) {
	s := newTestStore()
	x := navcore.Root(navcore.SectionProgress)
	y := navcore.Root(navcore.SectionStore)

	s.NavigateTo(x)
	s.NavigateTo(y)
	s.NavigateTo(x)

	want := []navcore.Location{navcore.Root(navcore.SectionHome), y, x}
	if diff := cmp.Diff(want, s.State().Stack); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreBoundedHistory(t *testing.T) {
	s := newTestStore()
	var pushed []navcore.Location
	for _, l := range allLocations()[1:16] {
		pushed = append(pushed, l)
		s.NavigateTo(l)
	}

	st := s.State()
	require.Len(t, st.Stack, 10)
	if diff := cmp.Diff(pushed[5:], st.Stack); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreCollapsesScreenThenSection(t *testing.T) {
	s := newTestStore()
	results := loc(navcore.SectionProgress, navcore.ScreenResults)
	require.NoError(t, s.Restore(navcore.State{
		Current: results,
		Stack:   []navcore.Location{results},
	}))

	require.True(t, s.GoBack())
	st := s.State()
	assert.Equal(t, navcore.Root(navcore.SectionProgress), st.Current)
	assert.Equal(t, []navcore.Location{navcore.Root(navcore.SectionProgress)}, st.Stack)
	assert.Equal(t, results, *st.Previous)

	require.True(t, s.GoBack())
	st = s.State()
	assert.Equal(t, navcore.Root(navcore.SectionHome), st.Current)
	assert.Len(t, st.Stack, 1)

	assert.False(t, s.GoBack())
}

func TestStoreRandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	locations := allLocations()
	s := newTestStore()
	s.Subscribe(func(st navcore.State) { requireInvariants(t, st) })

	for i := 0; i < 500; i++ {
		switch rng.IntN(5) {
		case 0, 1:
			s.NavigateTo(locations[rng.IntN(len(locations))])
		case 2:
			s.NavigateToScreen(navcore.Screen(rng.IntN(7)))
		case 3:
			s.GoBack()
		case 4:
			s.SetModalOpen(rng.IntN(2) == 0)
		}
		requireInvariants(t, s.State())
	}
}

func TestStoreUnknownValuesPanic(t *testing.T) {
	s := newTestStore()

	err := recoverError(func() { s.NavigateTo(loc(navcore.Section(99), navcore.ScreenMain)) })
	require.Error(t, err)
	assert.ErrorIs(t, err, navcore.ErrUnknownSection)
	assert.True(t, navcore.IsNavigationError(err))

	err = recoverError(func() { s.NavigateToScreen(navcore.Screen(-1)) })
	assert.ErrorIs(t, err, navcore.ErrUnknownScreen)

	assert.Equal(t, navcore.Root(navcore.SectionHome), s.State().Current)
}

func TestStoreNotifiesInRegistrationOrder(t *testing.T) {
	s := newTestStore()
	var calls []string
	s.Subscribe(func(navcore.State) { calls = append(calls, "first") })
	s.Subscribe(func(navcore.State) { calls = append(calls, "second") })
	s.Subscribe(func(navcore.State) { calls = append(calls, "third") })

	s.NavigateToSection(navcore.SectionEvents)

	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestStoreUnsubscribe(t *testing.T) {
	s := newTestStore()
	calls := 0
	unsubscribe := s.Subscribe(func(navcore.State) { calls++ })

	s.SetModalOpen(true)
	unsubscribe()
	unsubscribe()
	s.SetModalOpen(false)

	assert.Equal(t, 1, calls)
}

func TestStorePanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	s := newTestStore()
	var got []navcore.Location
	s.Subscribe(func(navcore.State) { panic("boom") })
	s.Subscribe(func(st navcore.State) { got = append(got, st.Current) })

	require.NotPanics(t, func() { s.NavigateToSection(navcore.SectionStore) })
	assert.Equal(t, []navcore.Location{navcore.Root(navcore.SectionStore)}, got)
}

func TestStoreReentrantNavigation(t *testing.T) {
	s := newTestStore()
	lesson := loc(navcore.SectionHome, navcore.ScreenLesson)
	quiz := loc(navcore.SectionHome, navcore.ScreenQuiz)

	var before, after []navcore.Location
	s.Subscribe(func(st navcore.State) { before = append(before, st.Current) })
	s.Subscribe(func(st navcore.State) {
		if st.Current == lesson {
			s.NavigateTo(quiz)
		}
	})
	s.Subscribe(func(st navcore.State) {
		requireInvariants(t, st)
		after = append(after, st.Current)
	})

	s.NavigateTo(lesson)

	assert.Equal(t, []navcore.Location{lesson, quiz}, before)
	assert.Equal(t, []navcore.Location{quiz}, after, "superseded state must not be delivered")
	assert.Equal(t, quiz, s.State().Current)
}

func TestStoreReentrantNavigationLastDeliveryIsCurrent(t *testing.T) {
	s := newTestStore()
	lesson := loc(navcore.SectionHome, navcore.ScreenLesson)
	results := loc(navcore.SectionProgress, navcore.ScreenResults)

	s.Subscribe(func(st navcore.State) {
		switch {
		case st.Current == lesson && !st.ModalOpen:
			s.SetModalOpen(true)
		case st.Current == results && st.ModalOpen:
			s.GoBack()
		}
	})
	var last []navcore.State
	for range 3 {
		i := len(last)
		last = append(last, navcore.State{})
		s.Subscribe(func(st navcore.State) { last[i] = st })
	}

	s.NavigateTo(lesson)
	s.NavigateTo(results)

	current := s.State()
	require.Equal(t, results, current.Current)
	require.False(t, current.ModalOpen)
	for i, st := range last {
		assert.True(t, current.Equal(st), "subscriber %d last saw %s, store is at %s", i, st.Current, current.Current)
	}
}

func TestStoreSnapshotsAreIndependent(t *testing.T) {
	s := newTestStore()
	var held navcore.State
	s.Subscribe(func(st navcore.State) {
		st.Stack[0] = navcore.Root(navcore.SectionStore)
		held = st
	})
	s.NavigateToSection(navcore.SectionProgress)

	assert.Equal(t, navcore.Root(navcore.SectionHome), s.State().Stack[0])
	assert.Equal(t, navcore.Root(navcore.SectionStore), held.Stack[0])
}

func TestStoreRestoreRejectsInvalidState(t *testing.T) {
	s := newTestStore()
	lesson := loc(navcore.SectionHome, navcore.ScreenLesson)

	tests := []struct {
		name  string
		state navcore.State
		want  error
	}{
		{"empty stack", navcore.State{Current: lesson}, navcore.ErrInvalidState},
		{"top differs", navcore.State{Current: lesson, Stack: []navcore.Location{navcore.Root(navcore.SectionHome)}}, navcore.ErrInvalidState},
		{"unknown screen", navcore.State{Current: lesson, Stack: []navcore.Location{loc(navcore.SectionHome, 42), lesson}}, navcore.ErrUnknownScreen},
		{"adjacent duplicate", navcore.State{Current: lesson, Stack: []navcore.Location{lesson, lesson}}, navcore.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Restore(tt.state)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, navcore.Root(navcore.SectionHome), s.State().Current)
}

func TestStoreRestoreRecomputesDerivedFields(t *testing.T) {
	s := newTestStore()
	quiz := loc(navcore.SectionHome, navcore.ScreenQuiz)

	require.NoError(t, s.Restore(navcore.State{
		Current:    quiz,
		Stack:      []navcore.Location{navcore.Root(navcore.SectionHome), quiz},
		ShowChrome: true,
		CanGoBack:  false,
	}))

	st := s.State()
	assert.False(t, st.ShowChrome)
	assert.True(t, st.CanGoBack)
}

func TestNewStoreRejectsUnknownDefault(t *testing.T) {
	err := recoverError(func() { navcore.NewStore(navcore.Section(-3), 10, discardLogger()) })
	assert.ErrorIs(t, err, navcore.ErrUnknownSection)
}
