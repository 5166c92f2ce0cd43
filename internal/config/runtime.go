package config

import (
	"os"
	"path/filepath"
)

const (
	RuntimePathEnv     = "DAZI_RUNTIME_PATH"
	DefaultRuntimePath = ".dazi"

	ConfigFileName = "config.json"
	EnvFileName    = ".env"
)

// GetRuntimePath returns the directory holding config, persona and memory.
// Relative values are taken from the user's home directory.
func GetRuntimePath() string {
	return runtimePath(os.Getenv(RuntimePathEnv))
}

func runtimePath(path string) string {
	if path == "" {
		path = DefaultRuntimePath
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
