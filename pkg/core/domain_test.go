package core_test

import (
	"context"
	"testing"

	"github.com/whiteash/scratchpad/pkg/core"
)

func TestParseTheme(t *testing.T) {
	cases := []struct {
		in   string
		want core.Theme
	}{
		{"dark", core.ThemeDark},
		{"light", core.ThemeLight},
		{"", core.ThemeLight},
		{"blue", core.ThemeLight},
		{"DARK", core.ThemeLight}, // stored values are lowercase
	}
	for _, tc := range cases {
		if got := core.ParseTheme(tc.in); got != tc.want {
			t.Errorf("ParseTheme(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTheme_Toggle(t *testing.T) {
	if core.ThemeLight.Toggle() != core.ThemeDark {
		t.Error("light should toggle to dark")
	}
	if core.ThemeDark.Toggle() != core.ThemeLight {
		t.Error("dark should toggle to light")
	}
}

func TestSession_ThemeRoundTrip(t *testing.T) {
	store := newStubStore()
	sess := newTestSession(t, store)
	defer sess.Close()

	if got := sess.Theme(context.Background()); got != core.ThemeLight {
		t.Fatalf("expected light before anything is stored, got %q", got)
	}

	if err := sess.SetTheme(context.Background(), core.ThemeDark); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	if got := sess.Theme(context.Background()); got != core.ThemeDark {
		t.Errorf("expected dark after SetTheme, got %q", got)
	}

	// The preference is written immediately, not debounced.
	stored, err := store.Get(context.Background(), core.KeyTheme)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored != "dark" {
		t.Errorf("store holds %q, want %q", stored, "dark")
	}

	// Corrupt stored values fall back to light.
	if err := store.Set(context.Background(), core.KeyTheme, "mauve"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := sess.Theme(context.Background()); got != core.ThemeLight {
		t.Errorf("expected fallback to light, got %q", got)
	}
}
