package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/octoberswimmer/console"
	"github.com/octoberswimmer/console/config"
	"github.com/octoberswimmer/console/demos"
	"github.com/octoberswimmer/console/internal/ctxlog"
)

// app holds what every subcommand needs once the configuration is loaded.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Resolved
	logger *slog.Logger
	reg    *console.Registry

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "console",
		Short:         "Run language feature demos in a log console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), a.logger))
			return nil
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to console.yaml (default: ./console.yaml if present)")
	flags.StringVar(&a.logLevel, "log-level", "", "Diagnostics level: debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "Diagnostics format: text or json")

	root.AddCommand(
		newListCmd(a),
		newRunCmd(a),
		newTUICmd(a),
		newWatchCmd(a),
		newServeCmd(a),
	)

	return root
}

func (a *app) load(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.Load(a.configPath)
	} else {
		cfg, err = config.LoadOptional(".")
	}
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}

	resolved, err := cfg.Resolve()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = resolved
	a.logger = ctxlog.New(resolved.LogLevel, resolved.LogFormat, a.stderr)
	a.reg = demos.NewRegistry(resolved.HiddenDemos...)
	return nil
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available demos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, e := range a.reg.Entries() {
				fmt.Fprintf(a.stdout, "%-22s %s\n", e.ID, e.DisplayName)
			}
			return nil
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	var tail int
	cmd := &cobra.Command{
		Use:   "run <id>...",
		Short: "Run demos headlessly and print the log",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tail < 0 {
				return errors.New("--tail must not be negative")
			}
			fmt.Fprint(a.stdout, runHeadless(a.reg, args, tail, ctxlog.FromContext(cmd.Context())))
			return nil
		},
	}
	cmd.Flags().IntVarP(&tail, "tail", "n", 0, "Only print the last N lines, as a scrolled view would show them")
	return cmd
}

// runHeadless runs each demo in order on a private looper and returns the
// resulting log text. With tail > 0 the text is what a view of tail lines
// pinned to the newest line shows.
func runHeadless(reg *console.Registry, ids []string, tail int, logger *slog.Logger) string {
	l := console.NewLooper(console.WithLooperLogger(logger))
	defer l.Close()

	sink := console.NewLogSink(l)
	d := console.NewDispatcher(reg, sink, console.WithDispatcherLogger(logger))

	var vp *console.Viewport
	if tail > 0 {
		vp = console.NewViewport(0, tail)
		p := console.NewScrollPresenter(sink, vp, l)
		defer p.Close()
	}

	for _, id := range ids {
		d.Run(id)
	}
	// Appends, then the scroll step each publish schedules.
	l.Sync()
	l.Sync()

	if vp == nil {
		return sink.CurrentSnapshot().Text
	}
	var out string
	l.Post(func() {
		lines := vp.VisibleLines()
		if len(lines) > 0 {
			out = strings.Join(lines, "\n") + "\n"
		}
	})
	l.Sync()
	return out
}
