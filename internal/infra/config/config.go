// Package config loads the tracker configuration from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ConfigFileName is the file looked up in the config directory.
const ConfigFileName = "nutshell.toml"

// Config is the tracker configuration.
type Config struct {
	Database Database            `toml:"database"`
	Log      Log                 `toml:"log"`
	Aliases  map[string][]string `toml:"aliases"`
}

// Database configures the task store.
type Database struct {
	Path string `toml:"path"`
}

// Log configures the file logger.
type Log struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

// NewDefaultConfig returns the configuration used when no file exists.
func NewDefaultConfig() *Config {
	dataDir := defaultDataDir()
	return &Config{
		Database: Database{Path: filepath.Join(dataDir, "nutshell.db")},
		Log:      Log{Path: filepath.Join(dataDir, "nutshell.log"), Level: "info"},
		Aliases:  map[string][]string{},
	}
}

// defaultDataDir returns the default directory for the database and log.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "nutshell")
}

// ValidateAliases checks every alias target against the known command
// names. Aliases for commands that do not exist are a configuration
// error, not something to discover at the prompt.
func (c *Config) ValidateAliases(known []string) error {
	set := make(map[string]bool, len(known))
	for _, name := range known {
		set[name] = true
	}
	var bad []string
	for name := range c.Aliases {
		if !set[name] {
			bad = append(bad, name)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("aliases for unknown commands: %s", strings.Join(bad, ", "))
	}
	return nil
}
