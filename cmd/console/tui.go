package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/octoberswimmer/console"
	"github.com/octoberswimmer/console/internal/ctxlog"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive console, reading commands from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			screen := a.newScreen(ctx)

			src := &console.LineSource{
				Reader:  a.stdin,
				OnError: reportTo(screen.Log()),
			}
			go func() {
				if err := src.Run(ctx, screen.Send); err != nil && !errors.Is(err, context.Canceled) {
					ctxlog.FromContext(ctx).Error("reading commands", "error", err)
				}
				screen.QuitWhenIdle()
			}()

			return ignoreKilled(screen.Run())
		},
	}
}

func (a *app) newScreen(ctx context.Context) *console.Screen {
	return console.NewScreen(a.reg, console.ScreenConfig{
		Title:       a.cfg.Title,
		Banner:      a.cfg.Banner,
		Width:       a.cfg.ScreenWidth,
		Height:      a.cfg.ScreenHeight,
		ScrollDelay: a.cfg.ScrollDelay,
	},
		console.WithContext(ctx),
		console.WithOutput(a.stdout),
		console.WithFPS(a.cfg.FPS),
		console.WithLogger(ctxlog.FromContext(ctx)),
	)
}

// reportTo turns malformed input lines into log lines.
func reportTo(log console.Log) func(string, error) {
	return func(line string, err error) {
		log.Append(fmt.Sprintf("ignored %q: %v", line, err))
	}
}

// ignoreKilled treats an interrupted screen as a normal exit.
func ignoreKilled(err error) error {
	if errors.Is(err, console.ErrProgramKilled) {
		return nil
	}
	return err
}
