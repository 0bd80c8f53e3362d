// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler receives the reloaded config after each debounced change.
// err is non-nil when the file was removed or no longer decodes.
type ChangeHandler func(cfg PlotConfig, err error)

// WatcherOptions configures the Watcher.
type WatcherOptions struct {
	// DebounceWindow is how long to wait for more events before reloading.
	// Default: 100ms
	DebounceWindow time.Duration
}

// DefaultWatcherOptions returns the defaults.
func DefaultWatcherOptions() WatcherOptions {
	return WatcherOptions{DebounceWindow: 100 * time.Millisecond}
}

// Watcher reloads a config file whenever it changes on disk.
//
// # Description
//
// The directory holding the file is watched rather than the file itself,
// so that editors and Save, which replace the file by renaming a temp
// file over it, keep being observed. Events for other files are ignored.
// Bursts of events are collapsed into one reload per debounce window.
//
// # Thread Safety
//
// Run must be called once. The handler is called from Run's goroutine.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	handler  ChangeHandler
	debounce time.Duration
}

// NewWatcher creates a watcher for path. Call Run to start watching.
func NewWatcher(path string, handler ChangeHandler, opts *WatcherOptions) (*Watcher, error) {
	if opts == nil {
		defaults := DefaultWatcherOptions()
		opts = &defaults
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		watcher:  watcher,
		handler:  handler,
		debounce: opts.DebounceWindow,
	}, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Run watches until ctx is cancelled, then closes the watcher and returns
// ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Config watcher error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		slog.Debug("Config reload failed", "path", w.path, "error", err)
	}
	if w.handler != nil {
		w.handler(cfg, err)
	}
}
