// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package classify

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce batches the event bursts editors and atomic-rename
// writers produce for a single logical save.
const defaultDebounce = 250 * time.Millisecond

// Watcher reloads bank definition files when they change on disk.
//
// Description:
//
//	Watches one directory for *.yaml / *.yml writes, debounces the
//	event stream, and recompiles changed files through the service. A
//	file that fails to compile is logged and skipped; the previously
//	registered bank stays live.
//
// Thread Safety: Start and Stop must be called from one goroutine.
type Watcher struct {
	svc      *Service
	dir      string
	debounce time.Duration
	log      *slog.Logger

	fsw  *fsnotify.Watcher
	done chan struct{}
}

// NewWatcher creates a watcher over dir. A non-positive debounce uses the
// default.
func NewWatcher(svc *Service, dir string, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if log == nil {
		log = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		svc:      svc,
		dir:      dir,
		debounce: debounce,
		log:      log,
		fsw:      fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the event loop until Stop is called or the context ends.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Stop shuts the watcher down and releases the inotify handle.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !isBankFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("fs watcher error", "dir", w.dir, "error", err)

		case <-fire:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			fire = nil
			w.reloadPaths(ctx, paths)
		}
	}
}

// reloadPaths recompiles each changed file. Split out of the loop so the
// reload behavior is testable without filesystem timing.
func (w *Watcher) reloadPaths(ctx context.Context, paths []string) {
	for _, p := range paths {
		if _, err := w.svc.LoadFile(ctx, p); err != nil {
			w.log.Error("bank reload failed", "path", p, "error", err)
			continue
		}
		w.log.Info("bank reloaded", "path", p)
	}
}

func isBankFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
