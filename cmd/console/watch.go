package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/octoberswimmer/console"
	"github.com/octoberswimmer/console/internal/ctxlog"
)

const debounceDelay = 500 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <script>",
		Short: "Replay a command script in the console whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			script := args[0]
			if _, err := os.Stat(script); err != nil {
				return fmt.Errorf("invalid script: %w", err)
			}

			logger := ctxlog.FromContext(ctx)
			screen := a.newScreen(ctx)
			replay := func() error { return replayScript(ctx, screen, script) }

			if err := replay(); err != nil {
				return err
			}
			go func() {
				if err := watchFile(ctx, script, debounceDelay, logger, replay); err != nil {
					logger.Error("watch error", "error", err)
				}
			}()

			return ignoreKilled(screen.Run())
		},
	}
}

// replayScript clears the screen's log and sends every command in the
// script.
func replayScript(ctx context.Context, screen *console.Screen, script string) error {
	f, err := os.Open(script)
	if err != nil {
		return fmt.Errorf("error opening script: %w", err)
	}
	defer f.Close()

	screen.Send(console.ClearLog{})
	src := &console.LineSource{Reader: f, OnError: reportTo(screen.Log())}
	return src.Run(ctx, screen.Send)
}

// watchFile calls onChange once writes to path have settled for delay. The
// parent directory is watched so editors that replace the file on save are
// noticed too.
func watchFile(ctx context.Context, path string, delay time.Duration, logger *slog.Logger, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error setting up file watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("error watching %s: %w", filepath.Dir(abs), err)
	}

	// Debounce mechanism for replays
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("script changed, scheduling replay", "path", event.Name, "op", event.Op.String())
			// Reset the timer to debounce multiple rapid changes
			if !timer.Stop() && pending {
				<-timer.C
			}
			timer.Reset(delay)
			pending = true

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := onChange(); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("error during replay", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
