package mem_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiteash/scratchpad/pkg/adapters/mem"
	"github.com/whiteash/scratchpad/pkg/core"
)

func TestRoundTrip(t *testing.T) {
	store := mem.NewStore(mem.Config{})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, core.KeyNotes, "hello"))
	got, err := store.Get(ctx, core.KeyNotes)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = store.Get(ctx, "absent")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestFailureInjection(t *testing.T) {
	store := mem.NewStore(mem.Config{})
	ctx := context.Background()

	boom := errors.New("boom")

	store.FailProbe(boom)
	assert.ErrorIs(t, store.Probe(ctx), core.ErrUnavailable)

	store.FailProbe(nil)
	assert.NoError(t, store.Probe(ctx))

	store.FailWrites(boom)
	assert.ErrorIs(t, store.Set(ctx, core.KeyNotes, "x"), boom)

	store.FailWrites(nil)
	assert.NoError(t, store.Set(ctx, core.KeyNotes, "x"))
}

func TestQuota(t *testing.T) {
	store := mem.NewStore(mem.Config{Quota: 10})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, core.KeyNotes, "0123456789"))
	assert.ErrorIs(t, store.Set(ctx, core.KeyTheme, "d"), core.ErrQuotaExceeded)

	// Replacing the existing key frees its bytes first.
	assert.NoError(t, store.Set(ctx, core.KeyNotes, "short"))
	assert.NoError(t, store.Set(ctx, core.KeyTheme, "dark"))
}

func TestWatch_FanOut(t *testing.T) {
	store := mem.NewStore(mem.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := store.Watch(ctx, "*")
	require.NoError(t, err)
	second, err := store.Watch(ctx, "*")
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), core.KeyNotes, "broadcast"))

	for _, events := range []<-chan core.Event{first, second} {
		select {
		case ev := <-events:
			assert.Equal(t, core.EventSet, ev.Type)
			assert.Equal(t, core.KeyNotes, ev.Key)
			assert.Equal(t, "broadcast", ev.Value)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestWatch_PatternFilter(t *testing.T) {
	store := mem.NewStore(mem.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx, "scratchpad_*")
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "unrelated", "skip"))
	require.NoError(t, store.Set(context.Background(), core.KeyNotes, "pick"))

	select {
	case ev := <-events:
		assert.Equal(t, core.KeyNotes, ev.Key, "non-matching keys must be filtered")
	case <-time.After(time.Second):
		t.Fatal("expected an event for the matching key")
	}
}

func TestWatch_DeleteEvent(t *testing.T) {
	store := mem.NewStore(mem.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, store.Set(context.Background(), core.KeyNotes, "doomed"))

	events, err := store.Watch(ctx, "*")
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), core.KeyNotes))

	select {
	case ev := <-events:
		assert.Equal(t, core.EventDelete, ev.Type)
		assert.Empty(t, ev.Value)
	case <-time.After(time.Second):
		t.Fatal("expected a delete event")
	}

	// Absent deletes are silent.
	require.NoError(t, store.Delete(context.Background(), core.KeyNotes))
	select {
	case ev := <-events:
		t.Fatalf("unexpected event for absent delete: %v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatch_ClosesWithContext(t *testing.T) {
	store := mem.NewStore(mem.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	events, err := store.Watch(ctx, "*")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel should close when the context ends")
	case <-time.After(time.Second):
		t.Fatal("channel did not close")
	}

	// Writes after unsubscribe must not panic.
	require.NoError(t, store.Set(context.Background(), core.KeyNotes, "after"))
}
