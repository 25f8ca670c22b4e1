// Package config holds small helpers for resolving user-supplied
// configuration values, such as the database location.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a path the way a shell would: a leading ~ becomes the
// user's home directory and $VAR references are substituted from the
// environment. A ~ that cannot be resolved is left in place so the caller
// fails on open with a path it can print.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}
