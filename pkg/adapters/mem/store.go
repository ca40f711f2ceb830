// Package mem keeps scratchpad keys in process memory. It exists for tests
// and for throwaway sessions: everything is lost when the process exits.
//
// Unlike the disk adapters it supports failure injection, and its Watch
// fans events out to in-process subscribers, which makes cross-instance
// reconciliation testable without a filesystem.
package mem

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/whiteash/scratchpad/pkg/core"
)

// Store implements core.Store, core.Watchable, and core.Meterable on a
// mutex-guarded map.
type Store struct {
	mu       sync.RWMutex
	data     map[string]string
	quota    int64
	logger   *slog.Logger
	probeErr error
	setErr   error
	subs     []*subscriber
}

// Config holds the configuration for the memory store.
type Config struct {
	Quota  int64 // total byte budget across values; <= 0 means unlimited
	Logger *slog.Logger
}

type subscriber struct {
	pattern string
	ch      chan core.Event
}

// NewStore creates an empty in-memory store.
func NewStore(config Config) *Store {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		data:   make(map[string]string),
		quota:  config.Quota,
		logger: logger,
	}
}

// Initialize is a no-op: there is nothing to set up.
func (s *Store) Initialize(ctx context.Context) error { return nil }

// FailProbe makes subsequent probes return err. Pass nil to heal.
func (s *Store) FailProbe(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probeErr = err
}

// FailWrites makes subsequent writes return err. Pass nil to heal.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErr = err
}

// Set stores value under key and notifies every matching subscriber. Unlike
// the filesystem watcher there is no self-write suppression here: each
// subscriber decides whether an echo matters.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.setErr != nil {
		err := s.setErr
		s.mu.Unlock()
		return err
	}

	if s.quota > 0 {
		var used int64
		for k, v := range s.data {
			if k == key {
				continue
			}
			used += int64(len(v))
		}
		if total := used + int64(len(value)); total > s.quota {
			s.mu.Unlock()
			return fmt.Errorf("%w: %d bytes over a %d byte budget",
				core.ErrQuotaExceeded, total-s.quota, s.quota)
		}
	}

	s.data[key] = value
	s.mu.Unlock()

	s.publish(core.Event{
		Type:      core.EventSet,
		Key:       key,
		Value:     value,
		Timestamp: time.Now().Unix(),
	})
	return nil
}

// Get reads the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	return v, nil
}

// Delete removes key and notifies subscribers. Deleting an absent key is
// not an error and produces no event.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	_, existed := s.data[key]
	delete(s.data, key)
	s.mu.Unlock()

	if existed {
		s.publish(core.Event{
			Type:      core.EventDelete,
			Key:       key,
			Timestamp: time.Now().Unix(),
		})
	}
	return nil
}

// Probe returns the injected failure, if any.
func (s *Store) Probe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.probeErr != nil {
		return fmt.Errorf("%w: %v", core.ErrUnavailable, s.probeErr)
	}
	return nil
}

// Watch subscribes to changes for keys matching pattern. The channel closes
// when ctx ends.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern: %s", pattern)
	}

	sub := &subscriber{
		pattern: pattern,
		ch:      make(chan core.Event, 16),
	}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		for i, existing := range s.subs {
			if existing == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
		close(sub.ch)
		s.mu.Unlock()
	}()

	return sub.ch, nil
}

// Usage implements core.Meterable.
func (s *Store) Usage(ctx context.Context) (core.Usage, error) {
	if err := ctx.Err(); err != nil {
		return core.Usage{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	usage := core.Usage{QuotaBytes: s.quota, Keys: len(s.data)}
	for _, v := range s.data {
		usage.UsedBytes += int64(len(v))
	}
	return usage, nil
}

// Close drops the data.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
	return nil
}

// publish delivers ev to each subscriber whose pattern matches. It holds
// the read lock for the duration: subscriber channels are only closed under
// the write lock, so a send here can never hit a closed channel. Full
// buffers are skipped rather than blocked on.
func (s *Store) publish(ev core.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subs {
		if ok, err := doublestar.Match(sub.pattern, ev.Key); err != nil || !ok {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			s.logger.Debug("subscriber buffer full, event dropped", "key", ev.Key)
		}
	}
}

var (
	_ core.Store     = (*Store)(nil)
	_ core.Watchable = (*Store)(nil)
	_ core.Meterable = (*Store)(nil)
)
