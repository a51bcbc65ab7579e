package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/fixnums/internal/logging"
	"github.com/Nomadcxx/fixnums/internal/naming"
	"github.com/Nomadcxx/fixnums/internal/organizer"
	"github.com/Nomadcxx/fixnums/internal/scanner"
	"github.com/Nomadcxx/fixnums/internal/watcher"
)

func (a *app) watchCmd() *cobra.Command {
	var (
		recursive bool
		initial   bool
		settle    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Rename playable files as they appear in directories",
		Long: `Watch directories and rename every playable file that appears in them,
using the same flags and config as a normal run. A file is picked up once it
has stopped changing for the settle period.

Examples:
  fixnums watch ~/Downloads/tv -o ~/TV
  fixnums watch --recursive --settle 10s /srv/incoming
  fixnums watch --initial ~/Downloads/tv`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &usageError{err: errors.New("watch needs at least one directory"), usage: cmd.UsageString()}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, inf, logger, err := a.setup(cmd)
			if err != nil {
				return err
			}

			sink := a.openSink(cfg)
			defer sink.Close()

			h := &renameHandler{
				inf:      inf,
				org:      a.newOrganizer(cfg, sink, logger),
				logger:   logger,
				produced: make(map[string]bool),
			}

			w, err := watcher.NewWatcher(h, cfg.Extensions,
				watcher.WithRecursive(recursive),
				watcher.WithSettle(settle),
				watcher.WithLogger(logger))
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.Watch(args); err != nil {
				return err
			}

			if initial {
				if err := a.renameExisting(h, args, cfg.Extensions, recursive, logger); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("watch", "fixnums is watching. Press Ctrl+C to stop.")
			return w.Start(ctx)
		},
	}

	cmd.Flags().BoolVar(&recursive, "recursive", false, "also watch subdirectories")
	cmd.Flags().BoolVar(&initial, "initial", false, "rename playable files already present before watching")
	cmd.Flags().DurationVar(&settle, "settle", watcher.DefaultSettle, "quiet period before a new file is renamed")

	return cmd
}

// renameExisting hands every playable file already in dirs to h. A failed
// file is logged and the rest are still handled.
func (a *app) renameExisting(h watcher.Handler, dirs, exts []string, recursive bool, logger *logging.Logger) error {
	for _, dir := range dirs {
		var (
			files []string
			err   error
		)
		if recursive {
			files, err = scanner.Walk(a.fs, dir, exts)
		} else {
			files, err = scanner.Discover(a.fs, dir, exts)
		}
		if err != nil {
			return err
		}

		for _, f := range files {
			if err := h.HandleFileEvent(watcher.FileEvent{Type: watcher.EventCreate, Path: f}); err != nil {
				logger.Error("watch", "Error handling existing file", err, logging.F("path", f))
			}
		}
	}
	return nil
}

// renameHandler infers and applies a new name for each settled file.
type renameHandler struct {
	inf    *naming.Inferencer
	org    *organizer.Organizer
	logger *logging.Logger

	// produced holds destinations written by this handler, so a file landing
	// back inside a watched directory is not renamed again.
	produced map[string]bool
}

func (h *renameHandler) HandleFileEvent(event watcher.FileEvent) error {
	path := filepath.Clean(event.Path)
	if h.produced[path] {
		delete(h.produced, path)
		return nil
	}

	out := h.org.ProcessOne(h.inf.Infer(event.Path))
	if out.Kind == organizer.KindDone && out.Target != "" {
		h.produced[filepath.Clean(out.Target)] = true
	}

	h.logger.Debug("watch", "Processed file",
		logging.F("file", event.Path),
		logging.F("outcome", out.Kind.String()))

	if out.Kind == organizer.KindFailed {
		return out.Err
	}
	return nil
}
