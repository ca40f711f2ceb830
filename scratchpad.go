package scratchpad

import (
	"log/slog"
	"time"

	"github.com/whiteash/scratchpad/internal/platform"
	"github.com/whiteash/scratchpad/pkg/core"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Session is the public alias for the autosaving note session.
type Session = core.Session

// SessionEvent is a state change emitted by a Session.
type SessionEvent = core.SessionEvent

// Store is the storage port implemented by the adapters.
type Store = core.Store

// Watchable is the optional change-feed capability of a Store.
type Watchable = core.Watchable

// Meterable is the optional usage-reporting capability of a Store.
type Meterable = core.Meterable

// Usage describes how much of a store's budget is in use.
type Usage = core.Usage

// Status is the save indicator of a session.
type Status = core.Status

// Theme is the persisted color preference.
type Theme = core.Theme

// Alert marks a storage failure the UI should surface prominently.
type Alert = core.Alert

// Event is a change observed on a store key.
type Event = core.Event

// EventType discriminates store events.
type EventType = core.EventType

// --- Constants ---

const (
	KeyNotes = core.KeyNotes
	KeyTheme = core.KeyTheme

	StatusIdle   = core.StatusIdle
	StatusSaving = core.StatusSaving
	StatusSaved  = core.StatusSaved
	StatusError  = core.StatusError

	ThemeLight = core.ThemeLight
	ThemeDark  = core.ThemeDark

	SessionStatus  = core.SessionStatus
	SessionContent = core.SessionContent
	SessionAlert   = core.SessionAlert

	AlertUnavailable   = core.AlertUnavailable
	AlertQuotaExceeded = core.AlertQuotaExceeded

	EventSet    = core.EventSet
	EventDelete = core.EventDelete
)

// DefaultQuota is the storage budget applied when WithQuota is not given.
const DefaultQuota = platform.DefaultQuota

// --- Errors ---

var (
	ErrNotFound         = core.ErrNotFound
	ErrQuotaExceeded    = core.ErrQuotaExceeded
	ErrUnavailable      = core.ErrUnavailable
	ErrInvalidKey       = core.ErrInvalidKey
	ErrWatchUnsupported = core.ErrWatchUnsupported
	ErrSessionClosed    = core.ErrSessionClosed
)

// --- Configuration ---

// Option defines a functional option for configuring the scratchpad.
type Option = platform.Option

// WithAdapter allows specifying the storage adapter by name:
// "fs" (default), "bolt", or "mem".
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStore allows injecting a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithLogger sets the logger for the session and its store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithQuota caps the total bytes a profile may store. Zero disables
// the cap.
func WithQuota(bytes int64) Option {
	return platform.WithQuota(bytes)
}

// WithDebounce overrides the autosave quiet period (default 500ms).
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithStatusHold overrides how long the saved indicator lingers
// (default 2s).
func WithStatusHold(d time.Duration) Option {
	return platform.WithStatusHold(d)
}

// WithEventBuffer allows specifying the size of the session event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithForceTemp forces the profile into a temporary directory (useful
// for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the profile directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithSystemDir allows specifying the hidden directory name
// (e.g. ".scratchpad").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithDevSafety controls the dev sandbox for `go run` processes.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatcherErrorHandler registers a callback for errors occurring in
// the background watch loop.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New opens a store for the profile and wires a Session around it.
// The session is not loaded; call Load before using it.
func New(profile string, opts ...Option) (*core.Session, error) {
	return platform.New(profile, opts...)
}

// Open initializes a storage adapter explicitly, without a session.
func Open(profile string, opts ...Option) (core.Store, error) {
	return platform.Open(profile, opts...)
}

// --- Operations ---

// ParseTheme maps a stored string to a Theme, defaulting to light.
func ParseTheme(s string) Theme {
	return core.ParseTheme(s)
}

// --- Safety & Utils ---

// DefaultProfileDir is the profile used when none is given.
func DefaultProfileDir() string {
	return platform.DefaultProfileDir()
}

// ResolveProfileDir determines the actual profile path based on safety rules.
func ResolveProfileDir(userPath string, forceTemp bool) string {
	return platform.ResolveProfileDir(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}
