package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/whiteash/scratchpad/pkg/adapters/boltdb"
	"github.com/whiteash/scratchpad/pkg/adapters/fs"
	"github.com/whiteash/scratchpad/pkg/adapters/mem"
	"github.com/whiteash/scratchpad/pkg/core"
)

// DefaultQuota is the storage budget applied when no explicit quota
// option is given. 5 MiB.
const DefaultQuota int64 = 5 << 20

// Open initializes a storage adapter for the given profile directory.
// It applies the dev sandbox resolution for path-backed adapters and
// runs the adapter's Initialize before returning it.
func Open(profile string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	// An injected store is the caller's responsibility to initialize.
	if o.store != nil {
		return o.store, nil
	}

	var store core.Store
	var err error

	switch o.adapter {
	case "fs":
		store, err = openFS(profile, o)
	case "bolt":
		store, err = openBolt(profile, o)
	case "mem":
		store, err = openMem(o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

// openFS handles the initialization logic for the filesystem adapter.
func openFS(profile string, o *options) (core.Store, error) {
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	// Default to true (safe) if not present.
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	useTemp := tempDir || (IsDevRun() && devSafety)
	resolved := ResolveProfileDir(profile, useTemp)

	if IsDevRun() {
		if devSafety {
			logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		} else {
			logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}

	quota := DefaultQuota
	if val, ok := o.config["quota"].(int64); ok {
		quota = val
	}

	return fs.NewStore(fs.Config{
		Path:         resolved,
		MustExist:    mustExist,
		Quota:        quota,
		Logger:       logger,
		SystemDir:    systemDir,
		ErrorHandler: errorHandler,
	}), nil
}

// openBolt handles the initialization logic for the bolt adapter. The
// database file lives inside the resolved profile directory.
func openBolt(profile string, o *options) (core.Store, error) {
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	tempDir, _ := o.config["temp_dir"].(bool)

	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	useTemp := tempDir || (IsDevRun() && devSafety)
	resolved := ResolveProfileDir(profile, useTemp)

	if err := os.MkdirAll(resolved, 0755); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}

	quota := DefaultQuota
	if val, ok := o.config["quota"].(int64); ok {
		quota = val
	}

	return boltdb.NewStore(boltdb.Config{
		Path:   filepath.Join(resolved, "scratchpad.db"),
		Quota:  quota,
		Logger: logger,
	}), nil
}

// openMem builds the in-memory adapter. Ephemeral stores default to
// unlimited, a quota rarely makes sense for throwaway sessions.
func openMem(o *options) (core.Store, error) {
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	quota, _ := o.config["quota"].(int64)

	return mem.NewStore(mem.Config{
		Quota:  quota,
		Logger: logger,
	}), nil
}
