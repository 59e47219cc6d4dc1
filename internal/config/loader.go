package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// dotfilePath is the per-user config file, relative to ~/.config.
const dotfilePath = "termcoder/config.json"

// FileSystem is the slice of os the loader needs, injectable for tests.
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

type osFileSystem struct{}

func (osFileSystem) UserHomeDir() (string, error) { return os.UserHomeDir() }

func (osFileSystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Loader reads the user's dotfile and merges it over the defaults.
type Loader struct {
	fs FileSystem
}

func NewLoader() *Loader {
	return &Loader{fs: osFileSystem{}}
}

func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load returns the merged configuration. A missing dotfile (or an
// unresolvable home directory) is not an error: the defaults apply
// as-is. Unreadable or malformed files are errors, as is a merged
// config that fails validation.
//
// Merging is a plain json.Unmarshal over the default struct: keys
// present in the file overwrite defaults, including explicit zero
// values; absent keys keep their defaults.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := l.fs.UserHomeDir()
	if err != nil {
		return cfg, nil
	}

	data, err := l.fs.ReadFile(filepath.Join(home, ".config", dotfilePath))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the configuration with the real filesystem.
func Load() (*Config, error) {
	return NewLoader().Load()
}
