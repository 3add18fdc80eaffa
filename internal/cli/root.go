// Package cli provides the command-line entry point for nutshell.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nutshell-sh/nutshell/internal/app"
	"github.com/nutshell-sh/nutshell/internal/tui"
)

// launchShellFunc is a function variable for launching the shell,
// allowing it to be mocked in tests.
var launchShellFunc = launchShell

// NewRootCommand creates the root command. Running it without
// arguments starts the interactive shell.
func NewRootCommand(version string) *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:   "nutshell",
		Short: "Track what you spend your time on",
		Long: `nutshell is an interactive shell for tracking time.
Start and stop named, tagged tasks at the prompt, then list,
sum up, edit and export what you worked on.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			container, err := app.New(configDir)
			if err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			defer func() { _ = container.Close() }()
			return launchShellFunc(container)
		},
	}

	root.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.config/nutshell)")
	return root
}

// launchShell runs the interactive shell on the alternate screen.
func launchShell(c *app.Container) error {
	p := tea.NewProgram(tui.New(c), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	fmt.Println("Goodbye!")
	return nil
}
