package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
)

// Timing defaults for the save cycle.
const (
	// DefaultDebounce is the quiet period between the last change and
	// the write it schedules.
	DefaultDebounce = 500 * time.Millisecond

	// DefaultStatusHold is how long the saved indicator lingers before
	// returning to idle.
	DefaultStatusHold = 2 * time.Second

	// DefaultEventBuffer is the capacity of the session event channel.
	DefaultEventBuffer = 100
)

// SessionEventKind discriminates the updates a session publishes.
type SessionEventKind string

const (
	// SessionStatus signals a save-status transition.
	SessionStatus SessionEventKind = "STATUS"

	// SessionContent signals that content was replaced by a change made
	// in another instance of the same profile.
	SessionContent SessionEventKind = "CONTENT"

	// SessionAlert signals a condition that deserves a user-facing
	// notice beyond the status indicator.
	SessionAlert SessionEventKind = "ALERT"
)

// Alert identifies the notice behind a SessionAlert event.
type Alert string

const (
	// AlertUnavailable means the storage probe failed: nothing is being
	// persisted.
	AlertUnavailable Alert = "STORAGE_UNAVAILABLE"

	// AlertQuotaExceeded means the last save was rejected because the
	// profile is full. Distinct from generic write failures, which only
	// flip the status.
	AlertQuotaExceeded Alert = "QUOTA_EXCEEDED"
)

// SessionEvent is delivered on Session.Events().
type SessionEvent struct {
	Kind    SessionEventKind
	Status  Status
	Content string
	Alert   Alert
	Err     error
}

// Session is a single editing session over one profile store. It owns
// the note content, the save status, and exactly two scheduled-task
// slots: the pending save and the pending status reset. Each slot holds
// at most one live timer; arming a slot always cancels its predecessor
// first, and a generation counter voids callbacks that were already in
// flight when cancelled.
//
// The session takes ownership of the store: Close releases it.
type Session struct {
	mu    sync.RWMutex
	store Store

	content string
	status  Status
	lastErr error

	saveTimer *time.Timer
	saveGen   uint64

	resetTimer *time.Timer
	resetGen   uint64

	debounce   time.Duration
	statusHold time.Duration

	events      chan SessionEvent
	eventBuffer int

	watchCancel context.CancelFunc
	logger      *slog.Logger
	loaded      bool
	closed      bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDebounce overrides the quiet period before a save. Zero keeps the
// default.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithStatusHold overrides how long the saved indicator lingers. Zero
// keeps the default.
func WithStatusHold(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.statusHold = d
		}
	}
}

// WithEventBuffer sets the capacity of the event channel. Zero means
// default (100).
func WithEventBuffer(size int) SessionOption {
	return func(s *Session) {
		if size > 0 {
			s.eventBuffer = size
		}
	}
}

// WithSessionLogger sets the logger for the session.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a session over store. Call Load before anything
// else; until then the session refuses input.
func NewSession(store Store, opts ...SessionOption) *Session {
	s := &Session{
		store:       store,
		status:      StatusIdle,
		debounce:    DefaultDebounce,
		statusHold:  DefaultStatusHold,
		eventBuffer: DefaultEventBuffer,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events = make(chan SessionEvent, s.eventBuffer)
	return s
}

// Load gates the session on storage health and reads the persisted
// note. On probe failure the session enters StatusError, raises the
// unavailable alert and refuses to read or schedule anything; editing
// is pointless until the profile is fixed.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	if err := s.store.Probe(ctx); err != nil {
		s.mu.Lock()
		s.status = StatusError
		s.lastErr = err
		s.mu.Unlock()

		s.logger.Warn("storage probe failed", "error", err)
		s.publish(SessionEvent{Kind: SessionStatus, Status: StatusError})
		s.publish(SessionEvent{Kind: SessionAlert, Alert: AlertUnavailable, Err: err})
		return fmt.Errorf("storage probe failed: %w", err)
	}

	value, err := s.store.Get(ctx, KeyNotes)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.mu.Lock()
		s.status = StatusError
		s.lastErr = err
		s.mu.Unlock()
		return fmt.Errorf("failed to read note: %w", err)
	}

	s.mu.Lock()
	s.content = value // empty when the key has never been written
	s.status = StatusIdle
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("session loaded", "bytes", len(value))
	s.publish(SessionEvent{Kind: SessionStatus, Status: StatusIdle})

	s.startWatch()
	return nil
}

// SetContent records a content change and schedules the save that
// follows the quiet period. The status flips to saving immediately; any
// pending save or status reset is superseded. A value equal to the
// current content is ignored, so callers may forward every editor
// update without churning the cycle.
func (s *Session) SetContent(text string) {
	s.mu.Lock()
	if s.closed || !s.loaded || text == s.content {
		s.mu.Unlock()
		return
	}
	s.content = text
	s.status = StatusSaving
	s.lastErr = nil

	s.stopResetLocked()
	s.stopSaveLocked()
	gen := s.saveGen
	s.saveTimer = time.AfterFunc(s.debounce, func() { s.saveFired(gen) })
	s.mu.Unlock()

	s.publish(SessionEvent{Kind: SessionStatus, Status: StatusSaving})
}

// Flush commits any outstanding change immediately, as when the view is
// hidden or about to close: the pending save timer is cancelled and its
// write happens now. Without a pending save it is a no-op.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.saveTimer == nil {
		s.mu.Unlock()
		return nil
	}
	s.stopSaveLocked()
	evs, err := s.commitLocked(ctx)
	s.mu.Unlock()

	for _, ev := range evs {
		s.publish(ev)
	}
	return err
}

// Close flushes outstanding work, voids both timer slots, stops the
// change pump and releases the store. The session is unusable
// afterwards; Events keeps its channel open but silent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	var evs []SessionEvent
	if s.saveTimer != nil {
		s.stopSaveLocked()
		evs, _ = s.commitLocked(context.Background())
	}
	s.stopResetLocked()
	s.saveGen++ // voids any callback still in flight
	s.resetGen++
	s.closed = true
	cancel := s.watchCancel
	s.mu.Unlock()

	for _, ev := range evs {
		s.publish(ev)
	}
	if cancel != nil {
		cancel()
	}
	return s.store.Close()
}

// Status returns the current save status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Content returns the current note text.
func (s *Session) Content() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// Err returns the failure behind the current error status, if any.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Events returns the session's update stream. The channel is buffered;
// when a consumer falls behind, the oldest update is dropped in favor
// of the newest. It is never closed.
func (s *Session) Events() <-chan SessionEvent {
	return s.events
}

// Theme reads the persisted appearance preference. An absent or
// unreadable value falls back to light.
func (s *Session) Theme(ctx context.Context) Theme {
	v, err := s.store.Get(ctx, KeyTheme)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Debug("theme read failed, falling back to light", "error", err)
		}
		return ThemeLight
	}
	return ParseTheme(v)
}

// SetTheme persists the appearance preference. Theme writes share the
// store but not the autosave machinery: they are immediate and leave
// the save status alone.
func (s *Session) SetTheme(ctx context.Context, t Theme) error {
	if err := s.store.Set(ctx, KeyTheme, string(t)); err != nil {
		return fmt.Errorf("failed to persist theme: %w", err)
	}
	return nil
}

// Watch exposes the store's change feed if the adapter supports it.
func (s *Session) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.store.(Watchable)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx, pattern)
}

// stopSaveLocked voids the save slot. Callers must hold mu.
func (s *Session) stopSaveLocked() {
	s.saveGen++
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
}

// stopResetLocked voids the status-reset slot. Callers must hold mu.
func (s *Session) stopResetLocked() {
	s.resetGen++
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
}

func (s *Session) saveFired(gen uint64) {
	s.mu.Lock()
	if gen != s.saveGen || s.closed {
		s.mu.Unlock()
		return
	}
	s.saveTimer = nil
	// Timer commits have no caller to carry a context; writes are
	// local and small.
	evs, _ := s.commitLocked(context.Background())
	s.mu.Unlock()

	for _, ev := range evs {
		s.publish(ev)
	}
}

// commitLocked re-probes, writes the current content and walks the
// status machine. Callers must hold mu; returned events are published
// after unlock.
func (s *Session) commitLocked(ctx context.Context) ([]SessionEvent, error) {
	if err := s.store.Probe(ctx); err != nil {
		s.status = StatusError
		s.lastErr = err
		s.logger.Warn("storage became unavailable", "error", err)
		return []SessionEvent{
			{Kind: SessionStatus, Status: StatusError},
			{Kind: SessionAlert, Alert: AlertUnavailable, Err: err},
		}, err
	}

	if err := s.store.Set(ctx, KeyNotes, s.content); err != nil {
		s.status = StatusError
		s.lastErr = err
		if errors.Is(err, ErrQuotaExceeded) {
			s.logger.Warn("save rejected, profile is full", "bytes", len(s.content))
			return []SessionEvent{
				{Kind: SessionStatus, Status: StatusError},
				{Kind: SessionAlert, Alert: AlertQuotaExceeded, Err: err},
			}, err
		}
		s.logger.Error("save failed", "error", err)
		return []SessionEvent{{Kind: SessionStatus, Status: StatusError}}, err
	}

	s.status = StatusSaved
	s.lastErr = nil
	s.logger.Debug("saved", "bytes", len(s.content))
	s.armResetLocked()
	return []SessionEvent{{Kind: SessionStatus, Status: StatusSaved}}, nil
}

// armResetLocked schedules the saved-to-idle transition. Callers must
// hold mu.
func (s *Session) armResetLocked() {
	s.stopResetLocked()
	gen := s.resetGen
	s.resetTimer = time.AfterFunc(s.statusHold, func() { s.resetFired(gen) })
}

func (s *Session) resetFired(gen uint64) {
	s.mu.Lock()
	if gen != s.resetGen || s.closed || s.status != StatusSaved {
		s.mu.Unlock()
		return
	}
	s.resetTimer = nil
	s.status = StatusIdle
	s.mu.Unlock()

	s.publish(SessionEvent{Kind: SessionStatus, Status: StatusIdle})
}

// startWatch begins consuming the store's change feed, when there is
// one. A store without a feed simply never reconciles; editing still
// works.
func (s *Session) startWatch() {
	w, ok := s.store.(Watchable)
	if !ok {
		s.logger.Debug("store has no change feed, remote edits will not be observed")
		return
	}

	// The pump outlives the Load call; the session owns its lifetime.
	// At most one pump per session, even across repeated Loads.
	s.mu.Lock()
	if s.watchCancel != nil {
		s.mu.Unlock()
		return
	}
	watchCtx, cancel := context.WithCancel(context.Background())
	s.watchCancel = cancel
	s.mu.Unlock()

	events, err := w.Watch(watchCtx, KeyNotes)
	if err != nil {
		cancel()
		s.mu.Lock()
		s.watchCancel = nil
		s.mu.Unlock()
		s.logger.Error("failed to start change watch", "error", err)
		return
	}

	lifecycle.Go(watchCtx, func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				s.applyRemote(ev)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("change pump terminated", "error", err)
	}))
}

// applyRemote implements the cross-instance rule: a notified value
// replaces local content only when it differs, and a deletion counts as
// the empty string. Pending timers are deliberately left alone; an
// in-flight local save still wins by writing last.
func (s *Session) applyRemote(ev Event) {
	if ev.Key != KeyNotes {
		return
	}
	value := ev.Value
	if ev.Type == EventDelete {
		value = ""
	}

	s.mu.Lock()
	if s.closed || value == s.content {
		s.mu.Unlock()
		return
	}
	s.content = value
	s.mu.Unlock()

	s.logger.Debug("adopted content from another instance", "bytes", len(value))
	s.publish(SessionEvent{Kind: SessionContent, Content: value})
}

// publish delivers an event without ever blocking the state machine.
// A full buffer sheds its oldest entry first; a status-bar consumer
// only cares about the latest state anyway.
func (s *Session) publish(ev SessionEvent) {
	select {
	case s.events <- ev:
		return
	default:
	}

	select {
	case <-s.events:
	default:
	}
	select {
	case s.events <- ev:
	default:
		s.logger.Debug("event buffer full, update dropped")
	}
}
