package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/whiteash/scratchpad/pkg/core"
)

// debounceWindow is the quiet period applied to filesystem events before a
// change is reported.
const debounceWindow = 50 * time.Millisecond

type watchWorker struct {
	*worker.BaseWorker
	store     *Store
	pattern   string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(store *Store, pattern string, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		store:      store,
		pattern:    pattern,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(w.store.Path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.store.Path, err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(debounceWindow)
	w.store.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// mapEventType translates fsnotify operations to store event types. Unknown
// operations (chmod) map to the empty string and are skipped.
func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		return core.EventSet
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

// processFilesystemEvent handles filtering, mapping, and debouncing of
// filesystem events. Returns true if the event was accepted.
func (w *watchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) (processed bool) {
	w.store.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	key := w.store.eventKey(event.Name, w.pattern)
	if key == "" {
		return false
	}

	eType := mapEventType(event)
	if eType == "" {
		return false
	}

	if eType == core.EventDelete {
		w.sendEvent(ctx, core.Event{
			Type:      core.EventDelete,
			Key:       key,
			Timestamp: time.Now().Unix(),
		})
		return true
	}

	data, err := os.ReadFile(w.store.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			// Created and removed inside one burst.
			w.sendEvent(ctx, core.Event{
				Type:      core.EventDelete,
				Key:       key,
				Timestamp: time.Now().Unix(),
			})
			return true
		}
		w.handleWatcherError(fmt.Errorf("failed to read %s: %w", key, err))
		return false
	}

	if w.store.selfWrite(key, data) {
		w.store.config.Logger.Debug("suppressed own write", "key", key)
		return false
	}

	w.sendEvent(ctx, core.Event{
		Type:      core.EventSet,
		Key:       key,
		Value:     string(data),
		Timestamp: time.Now().Unix(),
	})
	return true
}

// sendEvent enqueues an event via the debouncer, protecting against channel
// closure during shutdown.
func (w *watchWorker) sendEvent(ctx context.Context, event core.Event) {
	w.debouncer.add(event, func(e core.Event) {
		defer func() {
			// Recover from panic if channel was closed (worker stopping)
			_ = recover()
		}()
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

// handleWatcherError processes errors from the fsnotify watcher.
func (w *watchWorker) handleWatcherError(err error) (shouldContinue bool) {
	w.store.config.Logger.Error("fsnotify error", "error", err)
	if w.store.config.ErrorHandler != nil {
		w.store.config.ErrorHandler(err)
	}
	return true // Continue processing
}

// run is the main event loop for the watcher worker.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)
			err = panicErr

			// Stack capture only when debug logging is on, following the
			// lifecycle v1.5.1+ convention.
			var stack string
			if w.store.config.Logger.Enabled(ctx, slog.LevelDebug) {
				stack = string(debug.Stack())
			}

			if stack != "" {
				w.store.config.Logger.Error("watcher panic",
					"error", panicErr,
					"stack", stack,
				)
			} else {
				w.store.config.Logger.Error("watcher panic", "error", panicErr)
			}
		}
	}()
	defer func() {
		// Only an intentional stop closes the channel: after a failure
		// exit a supervisor may restart the worker against it.
		if w.StopRequested || ctx.Err() != nil {
			close(w.events)
		}
	}()
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()
	// Debouncer shutdown is explicit, not deferred: every in-flight timer
	// must finish before the events channel closes.

	err = w.eventLoop(ctx)

	w.debouncer.stopAndWait(5 * time.Second)

	return err
}

// eventLoop is the core select loop that processes filesystem and watcher
// error events until the context ends.
func (w *watchWorker) eventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}
