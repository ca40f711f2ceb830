// Package fs persists scratchpad keys as plain files in a profile directory,
// one file per key, with atomic writes and an fsnotify change feed so that
// concurrent instances observe each other's saves.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/whiteash/scratchpad/pkg/core"
)

// DefaultSystemDir is the hidden directory holding temp files and probe
// sentinels. It is invisible to Watch.
const DefaultSystemDir = ".scratchpad"

// Store implements core.Store on a directory of plain files. Values are the
// raw bytes of the file named exactly by the key.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	lastSave      map[string]string // key -> checksum of our own last write
	watcherActive bool
}

// Config holds the configuration for the filesystem store.
type Config struct {
	Path         string
	MustExist    bool
	Quota        int64 // total byte budget across keys; <= 0 means unlimited
	Logger       *slog.Logger
	SystemDir    string // e.g. ".scratchpad"
	ErrorHandler func(error)
}

// NewStore creates a filesystem-backed store rooted at config.Path.
func NewStore(config Config) *Store {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Store{
		Path:     config.Path,
		config:   config,
		lastSave: make(map[string]string),
	}
}

// Initialize performs the necessary setup for the store (mkdir).
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("profile path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat profile path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("profile path is not a directory: %s", s.Path)
		}
	} else {
		if err := os.MkdirAll(s.Path, 0755); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}

	if err := os.MkdirAll(s.systemPath(), 0755); err != nil {
		return fmt.Errorf("failed to create system directory: %w", err)
	}

	return nil
}

// Set writes value under key atomically. The checksum of the write is
// recorded before the rename lands, so the watcher always finds the ledger
// entry by the time the filesystem event arrives.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := []byte(value)
	if err := s.checkQuota(key, int64(len(data))); err != nil {
		return err
	}

	sum := checksum(data)
	s.mu.Lock()
	s.lastSave[key] = sum
	s.mu.Unlock()

	if err := writeFileAtomic(s.keyPath(key), data, 0644, s.systemPath()); err != nil {
		s.mu.Lock()
		delete(s.lastSave, key)
		s.mu.Unlock()
		if isOutOfSpace(err) {
			return fmt.Errorf("%w: %v", core.ErrQuotaExceeded, err)
		}
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	s.config.Logger.Debug("key written", "key", key, "bytes", len(data))
	return nil
}

// Get reads the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", core.ErrNotFound, key)
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.lastSave, key)
	s.mu.Unlock()

	if err := os.Remove(s.keyPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Probe verifies the store can take writes right now by creating and removing
// a sentinel file inside the system directory. Any failure reports the store
// unavailable; success leaves no residue.
func (s *Store) Probe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sentinel := filepath.Join(s.systemPath(), "probe-"+uuid.NewString())
	if err := os.WriteFile(sentinel, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("%w: %v", core.ErrUnavailable, err)
	}
	if err := os.Remove(sentinel); err != nil {
		return fmt.Errorf("%w: %v", core.ErrUnavailable, err)
	}
	return nil
}

// Close releases nothing: watchers are bound to their contexts and no file
// handles are held between calls.
func (s *Store) Close() error { return nil }

// Watch emits change events for keys matching pattern until ctx is
// cancelled. Events carry the value read back from disk; changes matching
// this store's own last write are suppressed, so a watcher sees only
// foreign writes.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern: %s", pattern)
	}

	events := make(chan core.Event, 16)
	w := newWatchWorker(s, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

// Usage implements core.Meterable.
func (s *Store) Usage(ctx context.Context) (core.Usage, error) {
	if err := ctx.Err(); err != nil {
		return core.Usage{}, err
	}
	used, keys, err := s.usage()
	if err != nil {
		return core.Usage{}, fmt.Errorf("failed to measure usage: %w", err)
	}
	return core.Usage{UsedBytes: used, QuotaBytes: s.config.Quota, Keys: keys}, nil
}

func (s *Store) keyPath(key string) string {
	return filepath.Join(s.Path, key)
}

func (s *Store) systemPath() string {
	return filepath.Join(s.Path, s.config.SystemDir)
}

// validateKey rejects keys that would escape the profile directory or
// collide with the store's own files.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", core.ErrInvalidKey)
	}
	if strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %s (keys cannot start with a dot)", core.ErrInvalidKey, key)
	}
	if strings.ContainsAny(key, `/\`) || key != filepath.Base(key) {
		return fmt.Errorf("%w: %s (keys cannot contain path separators)", core.ErrInvalidKey, key)
	}
	return nil
}

// usage sums the sizes of all key files, skipping directories and
// dot-prefixed names.
func (s *Store) usage() (used int64, keys int, err error) {
	entries, err := os.ReadDir(s.Path)
	if err != nil {
		return 0, 0, err
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		used += info.Size()
		keys++
	}
	return used, keys, nil
}

// checkQuota rejects writes that would push total usage past the configured
// budget. The current size of key is subtracted first since the write
// replaces it.
func (s *Store) checkQuota(key string, incoming int64) error {
	if s.config.Quota <= 0 {
		return nil
	}

	used, _, err := s.usage()
	if err != nil {
		return fmt.Errorf("failed to measure usage: %w", err)
	}

	var current int64
	if info, err := os.Stat(s.keyPath(key)); err == nil && !info.IsDir() {
		current = info.Size()
	}

	if total := used - current + incoming; total > s.config.Quota {
		return fmt.Errorf("%w: %d bytes over a %d byte budget",
			core.ErrQuotaExceeded, total-s.config.Quota, s.config.Quota)
	}
	return nil
}

// isOutOfSpace reports whether err is the OS out-of-space or over-quota
// condition.
func isOutOfSpace(err error) bool {
	return errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT)
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// selfWrite reports whether data under key matches this store's own last
// write. The ledger entry is kept, not consumed: one save can surface as
// several filesystem events.
func (s *Store) selfWrite(key string, data []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSave[key] == checksum(data)
}

// eventKey maps a filesystem path to a key, or "" when the event should be
// ignored (system files, temp files, subdirectories, foreign paths, keys
// outside pattern).
func (s *Store) eventKey(name, pattern string) string {
	if filepath.Clean(filepath.Dir(name)) != filepath.Clean(s.Path) {
		return ""
	}
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, TempFilePrefix) {
		return ""
	}
	if validateKey(base) != nil {
		return ""
	}
	if ok, err := doublestar.Match(pattern, base); err != nil || !ok {
		return ""
	}
	return base
}

var (
	_ core.Store     = (*Store)(nil)
	_ core.Watchable = (*Store)(nil)
	_ core.Meterable = (*Store)(nil)
)
