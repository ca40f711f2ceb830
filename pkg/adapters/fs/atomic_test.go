package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates New File", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "test.txt")
		content := []byte("hello atomic")

		if err := writeFileAtomic(filename, content, 0644, tmpDir); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != string(content) {
			t.Errorf("Expected content 'hello atomic', got '%s'", string(got))
		}
	})

	t.Run("Overwrites Existing File", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "test.txt")

		if err := os.WriteFile(filename, []byte("initial"), 0644); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}

		newContent := []byte("overwritten")
		if err := writeFileAtomic(filename, newContent, 0644, tmpDir); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != string(newContent) {
			t.Errorf("Expected content 'overwritten', got '%s'", string(got))
		}
	})

	t.Run("Temp Dir on Same Filesystem", func(t *testing.T) {
		// The scratchpad layout: target in the profile root, temp files in
		// a subdirectory of it.
		root := t.TempDir()
		sysDir := filepath.Join(root, ".scratchpad")
		if err := os.MkdirAll(sysDir, 0755); err != nil {
			t.Fatal(err)
		}

		filename := filepath.Join(root, "note")
		if err := writeFileAtomic(filename, []byte("across dirs"), 0644, sysDir); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "across dirs" {
			t.Errorf("got '%s'", got)
		}

		// The temp file must not survive the rename.
		entries, err := os.ReadDir(sysDir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Errorf("expected empty temp dir, found %d entries", len(entries))
		}
	})

	t.Run("Fails if Temp Dir Missing", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "test.txt")

		err := writeFileAtomic(filename, []byte("fail"), 0644, filepath.Join(tmpDir, "missing_folder"))
		if err == nil {
			t.Error("Expected error when temp dir is missing, got nil")
		}
	})
}
