package platform

import (
	"log/slog"
	"time"

	"github.com/whiteash/scratchpad/pkg/core"
)

// options holds the internal configuration for opening a scratchpad.
type options struct {
	store   core.Store
	logger  *slog.Logger
	adapter string
	config  map[string]interface{}
}

// Option defines a functional option for configuring the scratchpad.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		store:   nil,
		logger:  nil,
		adapter: "fs",
		config:  make(map[string]interface{}),
	}
}

// WithStore allows injecting a custom storage adapter (e.g. a mock).
// If provided, adapter selection by name is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage adapter by name: "fs" (default),
// "bolt", or "mem".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithLogger sets the logger for the session and its store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithQuota caps the total bytes stored across all keys of a profile.
// Zero disables the cap. When the option is not given, DefaultQuota
// applies.
func WithQuota(bytes int64) Option {
	return func(o *options) {
		o.config["quota"] = bytes
	}
}

// WithDebounce overrides the quiet period between the last edit and the
// autosave write.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.config["debounce"] = d
	}
}

// WithStatusHold overrides how long the saved indicator lingers before
// returning to idle.
func WithStatusHold(d time.Duration) Option {
	return func(o *options) {
		o.config["status_hold"] = d
	}
}

// WithEventBuffer allows specifying the size of the session event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithSystemDir allows specifying the hidden directory name used by the
// fs adapter. Defaults to ".scratchpad" (handled by the adapter).
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithMustExist ensures the profile directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithForceTemp forces the profile into a temporary directory (useful for
// testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithDevSafety controls the "Sandbox" safety mechanism when running via
// `go run`. By default (true), the profile is forced into a temporary
// directory to prevent accidental writes into a real one. Setting this to
// false allows operating on the real filesystem even during `go run`.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithWatcherErrorHandler registers a callback to handle errors occurring
// during the Watch loop. This allows applications to log or react to
// runtime watcher failures (e.g. permission denied) which are otherwise
// only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
