// Package main provides navdemo, an interactive driver for the navigation
// core. It reads commands from stdin, runs them against a Navigator wired to
// an in-memory history and prints the resulting state after every command.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/navcore/pkg/navcore"
	"github.com/BrandonKowalski/navcore/pkg/navcore/history"
)

var (
	configPath string
	langFlag   string
	logLevel   string
	deviceFlag string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "navdemo",
		Short:         "Drive the navigation core from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDemo,
	}

	rootCmd.Flags().StringVar(&configPath, "config", defaultConfigPath(), "path to a TOML config file")
	rootCmd.Flags().StringVar(&langFlag, "lang", "", "language for messages (overrides config)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	rootCmd.Flags().StringVar(&deviceFlag, "device", "", "Linux input device carrying the back key (overrides config)")

	return rootCmd
}

func defaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return "navcore.toml"
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "navcore", "config.toml")
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, err := navcore.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts, err := cfg.Options()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cmd.Flags().Changed("lang") {
		opts.Locale = langFlag
	}
	if cmd.Flags().Changed("log-level") {
		opts.LogLevel = logLevel
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	out := cmd.OutOrStdout()
	hist := history.NewMemory("/")
	opts.History = hist
	opts.Notifier = navcore.NotifierFunc(func(title, description string, durationMs int) {
		fmt.Fprintf(out, "[toast %dms] %s: %s\n", durationMs, title, description)
	})
	opts.Terminate = func() {
		fmt.Fprintln(out, "exiting")
		cancel()
	}

	device := cfg.HardwareDevice()
	if cmd.Flags().Changed("device") {
		device = deviceFlag
	}
	loop := newLoopSource()
	var hw hardwareSource
	if device != "" {
		hw, err = openHardwareBack(device, cfg.HardwareKeyCode())
		if err != nil {
			return err
		}
		hw.OnBackIntent(loop.Signal)
		opts.HardwareBack = loop
	}

	nav, err := navcore.New(opts)
	if err != nil {
		if hw != nil {
			_ = hw.Close()
		}
		return err
	}
	defer navcore.CloseLogFile()
	defer nav.Close()

	if hw != nil {
		// Run closes the device once ctx is cancelled.
		go runHardware(ctx, hw, nav.Logger())
	}
	return repl(ctx, cmd.InOrStdin(), out, nav, hist, loop)
}

func repl(ctx context.Context, in io.Reader, out io.Writer, nav *navcore.Navigator, hist *history.Memory, loop *loopSource) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	printState(out, nav.CurrentState(), hist)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-loop.Pending():
			fmt.Fprintln(out, "hardware back")
			loop.Dispatch()
			if ctx.Err() == nil {
				printState(out, nav.CurrentState(), hist)
			}
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := execute(strings.Fields(line), out, nav, hist)
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			if quit {
				return nil
			}
			if ctx.Err() == nil {
				printState(out, nav.CurrentState(), hist)
			}
		}
	}
}

func execute(args []string, out io.Writer, nav *navcore.Navigator, hist *history.Memory) (quit bool, err error) {
	if len(args) == 0 {
		return false, nil
	}

	switch args[0] {
	case "go":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: go <section> [screen]")
		}
		section, err := navcore.ParseSection(args[1])
		if err != nil {
			return false, err
		}
		screen := navcore.ScreenMain
		if len(args) > 2 {
			if screen, err = navcore.ParseScreen(args[2]); err != nil {
				return false, err
			}
		}
		nav.NavigateToSection(section, screen)
	case "screen":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: screen <screen>")
		}
		screen, err := navcore.ParseScreen(args[1])
		if err != nil {
			return false, err
		}
		nav.NavigateToScreen(screen)
	case "open":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: open <url>")
		}
		return false, nav.Open(args[1])
	case "back":
		fmt.Fprintln(out, "handled:", nav.GoBack())
	case "browser-back":
		if !hist.Back() {
			fmt.Fprintln(out, "no earlier history entry")
		}
	case "forward":
		if !hist.Forward() {
			fmt.Fprintln(out, "no later history entry")
		}
	case "modal":
		nav.SetModalOpen(len(args) < 2 || args[1] != "off")
	case "tabs":
		for _, t := range navcore.VisibleTabs(nav.Tabs()) {
			fmt.Fprintf(out, "  %-14s %s\n", t.Section, t.Label)
		}
	case "help":
		fmt.Fprintln(out, "commands: go <section> [screen], screen <screen>, open <url>, back, browser-back, forward, modal [on|off], tabs, quit")
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (try help)", args[0])
	}
	return false, nil
}

func printState(out io.Writer, st navcore.State, hist *history.Memory) {
	stack := make([]string, len(st.Stack))
	for i, loc := range st.Stack {
		stack[i] = loc.String()
	}
	fmt.Fprintf(out, "%s url=%s modal=%t chrome=%t back=%t stack=[%s]\n",
		st.Current, hist.CurrentURL(), st.ModalOpen, st.ShowChrome, st.CanGoBack, strings.Join(stack, " "))
}
