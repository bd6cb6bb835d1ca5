// Package filex resolves and prepares the client's on-disk data directory.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppDirName is the directory created under the user config dir when no
// explicit data directory is configured.
const AppDirName = "feedbackhub"

// userConfigDir is a test seam for os.UserConfigDir.
var userConfigDir = os.UserConfigDir

// EnsureDataDir resolves dir to an absolute path and creates it with
// owner-only permissions. An empty dir selects <user config dir>/feedbackhub;
// a leading "~/" is expanded to the home directory.
func EnsureDataDir(dir string) (string, error) {
	switch {
	case dir == "":
		base, err := userConfigDir()
		if err != nil {
			return "", fmt.Errorf("user config dir: %w", err)
		}
		dir = filepath.Join(base, AppDirName)
	case strings.HasPrefix(dir, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("user home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}
