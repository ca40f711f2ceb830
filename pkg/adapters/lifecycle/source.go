// Package lifecycle bridges scratchpad change events into a lifecycle
// runtime, for applications that embed the scratchpad alongside other
// supervised components.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/whiteash/scratchpad/pkg/core"
)

type padSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits scratchpad change events,
// typically the channel returned by a store's Watch.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &padSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *padSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *padSource) Start(ctx context.Context) error {
	// The bridge goroutine runs under lifecycle.Go so it is tracked and
	// panic-safe like any other worker.
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				// core.Event implements lifecycle.Event (has String())
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
