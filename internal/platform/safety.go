package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun checks if the current process is running via `go run` or `go test`.
// It relies on the fact that these commands build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	// "go run" builds into a temp folder. Common heuristic: the
	// executable path is under the standard temp dir.
	tempDir := os.TempDir()
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(tempDir)) {
		return true
	}

	// "go test" binaries carry a .test suffix.
	if strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe") {
		return true
	}

	return false
}

// ResolveProfileDir determines the actual path for the profile based on
// safety rules. If forceTemp is true, the path is re-rooted into a
// temporary directory to avoid polluting the user's real profile.
func ResolveProfileDir(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return DefaultProfileDir()
		}
		return userPath
	}

	// EXCEPTION: a path already inside the system temp directory is
	// assumed safe (e.g. created by t.TempDir() or explicit intent) and
	// is trusted as is.
	cleanUserPath := filepath.Clean(userPath)
	tempRoot := os.TempDir()

	rel, err := filepath.Rel(tempRoot, cleanUserPath)
	if err == nil && !strings.HasPrefix(rel, "..") {
		return cleanUserPath
	}

	// Otherwise, force it into the namespaced dev directory.
	baseTemp := filepath.Join(os.TempDir(), "scratchpad-dev")
	var subName string

	if userPath == "" || userPath == "." || userPath == "./" {
		subName = "default"
	} else {
		// The base name is enough to keep sandboxed profiles apart.
		subName = filepath.Base(userPath)
		if subName == "." || subName == string(os.PathSeparator) {
			subName = "default"
		}
	}

	return filepath.Join(baseTemp, subName)
}

// DefaultProfileDir is the profile used when none is given: a hidden
// directory in the user's home.
func DefaultProfileDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scratchpad"
	}
	return filepath.Join(home, ".scratchpad")
}
