package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/navcore/pkg/navcore"
	"github.com/BrandonKowalski/navcore/pkg/navcore/constants"
	"github.com/BrandonKowalski/navcore/pkg/navcore/history"
)

func TestDemoSession(t *testing.T) {
	t.Setenv(constants.HardwareDeviceEnvVar, "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("screen lesson\nback\nback\nback\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.toml"), "--log-level", "error"})

	require.NoError(t, cmd.Execute())

	got := out.String()
	assert.Contains(t, got, "home/main url=/ modal=false chrome=true back=false stack=[home/main]\n")
	assert.Contains(t, got, "home/lesson url=/lesson modal=false chrome=false back=true stack=[home/main home/lesson]\n")
	assert.Contains(t, got, "handled: true\n")
	assert.Contains(t, got, "[toast 2000ms] Exit App: Press back again to exit\n")
	assert.Contains(t, got, "exiting\n")
	assert.Equal(t, 2, strings.Count(got, "handled: false"))
}

func TestDemoLanguageFlag(t *testing.T) {
	t.Setenv(constants.HardwareDeviceEnvVar, "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("tabs\nquit\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.toml"), "--lang", "es", "--log-level", "error"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Aprender")
	assert.NotContains(t, out.String(), "Logros")
}

func TestExecute(t *testing.T) {
	hist := history.NewMemory("/")
	nav, err := navcore.New(navcore.Options{
		History: hist,
		Logger:  slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)
	defer nav.Close()

	var out bytes.Buffer
	run := func(line string) (bool, error) {
		return execute(strings.Fields(line), &out, nav, hist)
	}

	_, err = run("go progress results")
	require.NoError(t, err)
	assert.Equal(t, "/progress/results", hist.CurrentURL())

	_, err = run("modal")
	require.NoError(t, err)
	assert.True(t, nav.CurrentState().ModalOpen)
	_, err = run("modal off")
	require.NoError(t, err)
	assert.False(t, nav.CurrentState().ModalOpen)

	_, err = run("open /store/profile")
	require.NoError(t, err)
	assert.Equal(t, navcore.Location{Section: navcore.SectionStore, Screen: navcore.ScreenProfile}, nav.CurrentState().Current)

	_, err = run("browser-back")
	require.NoError(t, err)
	assert.Equal(t, navcore.Location{Section: navcore.SectionProgress, Screen: navcore.ScreenResults}, nav.CurrentState().Current)

	_, err = run("forward")
	require.NoError(t, err)
	assert.Equal(t, "/store/profile", hist.CurrentURL())

	_, err = run("go lobby")
	assert.ErrorIs(t, err, navcore.ErrUnknownSection)
	_, err = run("screen")
	assert.Error(t, err)
	_, err = run("dance")
	assert.ErrorContains(t, err, "unknown command")

	quit, err := run("quit")
	require.NoError(t, err)
	assert.True(t, quit)

	quit, err = run("")
	require.NoError(t, err)
	assert.False(t, quit)
}

func TestLoopSourceDispatchesOnCaller(t *testing.T) {
	loop := newLoopSource()
	calls := 0
	d := loop.OnBackIntent(func() { calls++ })

	done := make(chan struct{})
	go func() {
		loop.Signal()
		close(done)
	}()
	<-done

	select {
	case <-loop.Pending():
		loop.Dispatch()
	case <-time.After(time.Second):
		t.Fatal("no press queued")
	}
	assert.Equal(t, 1, calls)

	d.Dispose()
	loop.Dispatch()
	assert.Equal(t, 1, calls)
}

func TestLoopSourceDropsOverflow(t *testing.T) {
	loop := newLoopSource()
	for range 20 {
		loop.Signal()
	}
	assert.Equal(t, cap(loop.pending), len(loop.pending))
}

func TestReplDeliversHardwareBack(t *testing.T) {
	loop := newLoopSource()
	hist := history.NewMemory("/")
	nav, err := navcore.New(navcore.Options{
		History:      hist,
		HardwareBack: loop,
		Logger:       slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)
	defer nav.Close()
	nav.NavigateToScreen(navcore.ScreenLesson)

	in, w := io.Pipe()
	var out bytes.Buffer
	errc := make(chan error, 1)
	go func() { errc <- repl(context.Background(), in, &out, nav, hist, loop) }()

	loop.Signal()
	require.Eventually(t, func() bool {
		return nav.CurrentState().Current == navcore.Root(navcore.SectionHome)
	}, time.Second, time.Millisecond)

	require.NoError(t, w.Close())
	require.NoError(t, <-errc)
	assert.Contains(t, out.String(), "hardware back\n")
	assert.Equal(t, "/", hist.CurrentURL())
}

type failingHardware struct {
	navcore.NopBackSource
	err error
}

func (f failingHardware) Run(context.Context) error { return f.err }
func (f failingHardware) Close() error              { return nil }

func TestRunHardwareLogsReadFailure(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	runHardware(context.Background(), failingHardware{err: errors.New("evdev: read: no such device")}, logger)

	assert.Contains(t, logs.String(), "Hardware back source stopped")
	assert.Contains(t, logs.String(), "no such device")
}

func TestRunHardwareQuietOnCleanStop(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	runHardware(context.Background(), failingHardware{}, logger)

	assert.Empty(t, logs.String())
}
