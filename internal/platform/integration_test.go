package platform_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/whiteash/scratchpad"
	"github.com/whiteash/scratchpad/pkg/core"
)

// setupSession wires a loaded session over a throwaway fs profile.
// Short debounce and status hold keep the tests fast.
func setupSession(t *testing.T, opts ...scratchpad.Option) (*core.Session, string) {
	t.Helper()
	tmpDir := t.TempDir()

	baseOpts := []scratchpad.Option{
		scratchpad.WithDebounce(50 * time.Millisecond),
		scratchpad.WithStatusHold(100 * time.Millisecond),
	}
	finalOpts := append(baseOpts, opts...)

	pad, err := scratchpad.New(tmpDir, finalOpts...)
	if err != nil {
		t.Fatalf("Failed to init session: %v", err)
	}
	t.Cleanup(func() { _ = pad.Close() })

	if err := pad.Load(context.TODO()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return pad, tmpDir
}

// waitForContent polls a session until it reports the wanted note text.
func waitForContent(t *testing.T, pad *core.Session, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if pad.Content() == want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("Content mismatch after %v. Want %q, got %q", timeout, want, pad.Content())
}

func TestSession_WriteReadBack(t *testing.T) {
	pad, tmpDir := setupSession(t)
	ctx := context.TODO()

	pad.SetContent("meeting notes, draft one")
	if err := pad.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	// The note is a plain file in the profile directory.
	raw, err := os.ReadFile(filepath.Join(tmpDir, scratchpad.KeyNotes))
	if err != nil {
		t.Fatalf("Note file not readable: %v", err)
	}
	if string(raw) != "meeting notes, draft one" {
		t.Errorf("File content mismatch. Want %q, got %q", "meeting notes, draft one", string(raw))
	}

	// A fresh store over the same profile reads it back.
	store, err := scratchpad.Open(tmpDir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	value, err := store.Get(ctx, scratchpad.KeyNotes)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "meeting notes, draft one" {
		t.Errorf("Round-trip mismatch. Want %q, got %q", "meeting notes, draft one", value)
	}
}

func TestSession_CrossInstance(t *testing.T) {
	padA, tmpDir := setupSession(t)

	padB, err := scratchpad.New(tmpDir, scratchpad.WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("Failed to init second session: %v", err)
	}
	t.Cleanup(func() { _ = padB.Close() })

	ctx := context.TODO()
	if err := padB.Load(ctx); err != nil {
		t.Fatalf("Load of second session failed: %v", err)
	}

	// A writes, B adopts the new value from the change feed.
	padA.SetContent("written by A")
	if err := padA.Flush(ctx); err != nil {
		t.Fatalf("Flush on A failed: %v", err)
	}
	waitForContent(t, padB, "written by A", 2*time.Second)

	// And the other direction.
	padB.SetContent("reply from B")
	if err := padB.Flush(ctx); err != nil {
		t.Fatalf("Flush on B failed: %v", err)
	}
	waitForContent(t, padA, "reply from B", 2*time.Second)
}

func TestSession_ThemePersistsAcrossSessions(t *testing.T) {
	pad, tmpDir := setupSession(t)
	ctx := context.TODO()

	if got := pad.Theme(ctx); got != scratchpad.ThemeLight {
		t.Errorf("Expected light theme on a fresh profile, got %s", got)
	}

	if err := pad.SetTheme(ctx, scratchpad.ThemeDark); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	if err := pad.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := scratchpad.New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to reopen session: %v", err)
	}
	defer reopened.Close()

	if err := reopened.Load(ctx); err != nil {
		t.Fatalf("Load of reopened session failed: %v", err)
	}
	if got := reopened.Theme(ctx); got != scratchpad.ThemeDark {
		t.Errorf("Expected dark theme after reopen, got %s", got)
	}
}

func TestSession_QuotaAlert(t *testing.T) {
	pad, _ := setupSession(t, scratchpad.WithQuota(16))
	ctx := context.TODO()

	pad.SetContent(strings.Repeat("x", 64))
	err := pad.Flush(ctx)
	if err == nil {
		t.Fatal("Expected Flush to fail over quota")
	}
	if !errors.Is(err, scratchpad.ErrQuotaExceeded) {
		t.Errorf("Expected ErrQuotaExceeded, got %v", err)
	}
	if pad.Status() != scratchpad.StatusError {
		t.Errorf("Expected error status, got %s", pad.Status())
	}
}

func TestNew_MustExist(t *testing.T) {
	tmpDir := t.TempDir()
	nonExistent := filepath.Join(tmpDir, "does-not-exist")

	_, err := scratchpad.New(nonExistent, scratchpad.WithMustExist(true))
	if err == nil {
		t.Error("Expected New to fail with MustExist for non-existent path, but it succeeded")
	}
}
