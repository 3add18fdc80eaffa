package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// template is written to the config directory on first run, with every
// setting commented out at its default.
const template = `# nutshell configuration

# [database]
# path = %q

# [log]
# path = %q
# level = "info"

# Extra names for commands, e.g.:
# [aliases]
# list = ["ls"]
# remove = ["rm", "del"]
`

// Loader loads the configuration from a TOML file.
type Loader struct {
	confDir string
}

// NewLoader creates a Loader over the default config directory.
func NewLoader() *Loader {
	return &Loader{confDir: defaultConfigDir()}
}

// NewLoaderWithDir creates a Loader over a custom directory. This is
// useful for testing and for the --config flag.
func NewLoaderWithDir(confDir string) *Loader {
	return &Loader{confDir: confDir}
}

// defaultConfigDir returns the default config directory.
func defaultConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "nutshell")
}

// Path returns the config file path.
func (l *Loader) Path() string {
	return filepath.Join(l.confDir, ConfigFileName)
}

// Load reads the config file, filling unset fields from the defaults.
// On first run it writes a commented template and returns the defaults.
func (l *Loader) Load() (*Config, error) {
	base := NewDefaultConfig()

	data, err := os.ReadFile(l.Path())
	if errors.Is(err, os.ErrNotExist) {
		if werr := l.writeTemplate(base); werr != nil {
			return nil, werr
		}
		return base, nil
	}
	if err != nil {
		return nil, err
	}

	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.Path(), err)
	}
	if file.Database.Path != "" {
		base.Database.Path = file.Database.Path
	}
	if file.Log.Path != "" {
		base.Log.Path = file.Log.Path
	}
	if file.Log.Level != "" {
		base.Log.Level = file.Log.Level
	}
	for name, aliases := range file.Aliases {
		base.Aliases[name] = aliases
	}
	return base, nil
}

func (l *Loader) writeTemplate(defaults *Config) error {
	if err := os.MkdirAll(l.confDir, 0o755); err != nil {
		return err
	}
	body := fmt.Sprintf(template, defaults.Database.Path, defaults.Log.Path)
	return os.WriteFile(l.Path(), []byte(body), 0o644)
}
