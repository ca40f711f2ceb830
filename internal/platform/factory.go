package platform

import (
	"time"

	"github.com/whiteash/scratchpad/pkg/core"
)

// New opens a store for the profile and wires a session around it.
//
//	pad, err := scratchpad.New("~/.scratchpad", scratchpad.WithAdapter("bolt"))
//
// The session is not loaded. Callers run Load themselves so they control
// the context of the initial probe.
func New(profile string, opts ...Option) (*core.Session, error) {
	store, err := Open(profile, opts...)
	if err != nil {
		return nil, err
	}

	// Re-parse the options to wire session-level settings.
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var sessOpts []core.SessionOption
	if o.logger != nil {
		sessOpts = append(sessOpts, core.WithSessionLogger(o.logger))
	}
	if d, ok := o.config["debounce"].(time.Duration); ok {
		sessOpts = append(sessOpts, core.WithDebounce(d))
	}
	if d, ok := o.config["status_hold"].(time.Duration); ok {
		sessOpts = append(sessOpts, core.WithStatusHold(d))
	}
	if size, ok := o.config["event_buffer"].(int); ok {
		sessOpts = append(sessOpts, core.WithEventBuffer(size))
	}

	return core.NewSession(store, sessOpts...), nil
}
