// Package appdir resolves the per-user directory that holds namescout's
// config file and premium rule overrides.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Name is the directory name used beneath the OS user config dir.
const Name = "namescout"

// userConfigDir is swapped in tests.
var userConfigDir = os.UserConfigDir

// ConfigDir returns the OS-specific config directory for namescout.
// Linux: $XDG_CONFIG_HOME/namescout  macOS: ~/Library/Application Support/namescout
// Windows: %AppData%/namescout
func ConfigDir() (string, error) {
	base, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config dir: %w", err)
	}
	return filepath.Join(base, Name), nil
}

// File returns the path of name inside ConfigDir. The file is not created.
func File(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// EnsureFile creates path and its parent directories if they do not exist.
// The file is created empty with 0600 permissions; an existing file is left untouched.
func EnsureFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("creating config file: %w", err)
	}
	return f.Close()
}
