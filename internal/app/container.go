// Package app provides the dependency injection container for the application.
package app

import (
	"github.com/nutshell-sh/nutshell/internal/infra/config"
	"github.com/nutshell-sh/nutshell/internal/infra/logging"
	"github.com/nutshell-sh/nutshell/internal/infra/sqlite"
	"github.com/nutshell-sh/nutshell/internal/interpreter"
	"github.com/nutshell-sh/nutshell/internal/timer"
)

// Container holds the wired application dependencies.
type Container struct {
	Config *config.Config
	Logger *logging.Logger
	DB     *sqlite.DB
	Timer  *timer.Timer
	Main   *interpreter.Interpreter
	Stats  *interpreter.Interpreter
}

// New loads the configuration and wires the container. A custom
// configDir overrides the default lookup; pass "" outside tests and
// the --config flag.
func New(configDir string) (*Container, error) {
	loader := config.NewLoader()
	if configDir != "" {
		loader = config.NewLoaderWithDir(configDir)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.Log.Path, logging.ParseLevel(cfg.Log.Level))

	db, err := sqlite.Open(cfg.Database.Path, logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	tm, err := timer.New(db, logger)
	if err != nil {
		_ = db.Close()
		_ = logger.Close()
		return nil, err
	}

	aliases := interpreter.Aliases(cfg.Aliases)
	main := interpreter.NewMain(tm, aliases, nil)
	// "quit" only exists in the statistics shell
	known := append(main.CommandNames(), "quit")
	if err := cfg.ValidateAliases(known); err != nil {
		_ = db.Close()
		_ = logger.Close()
		return nil, err
	}

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Timer:  tm,
		Main:   main,
		Stats:  interpreter.NewStats(aliases, nil),
	}, nil
}

// Close releases the container's resources.
func (c *Container) Close() error {
	err := c.DB.Close()
	if cerr := c.Logger.Close(); err == nil {
		err = cerr
	}
	return err
}
