package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui"
	"github.com/custodia-labs/pagespin/internal/core/ports/driven"
	"github.com/custodia-labs/pagespin/internal/logger"
)

// TUIConfig holds the collaborators of the interactive view that are not
// driving services.
type TUIConfig struct {
	Renderer   driven.PageRenderer
	NewWatcher func(minInterval time.Duration) driven.FileWatcher
}

// tuiConfig holds the current TUI configuration.
var tuiConfig *TUIConfig

// runProgram runs a bubbletea model. Swapped in tests.
var runProgram = func(model tea.Model) error {
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

var tuiCmd = &cobra.Command{
	Use:   "tui [file.pdf]",
	Short: "Launch the interactive page view",
	Long: `Open the interactive view, optionally loading a file.

Type a path or drop a PDF onto the terminal to load it.

Controls:
  ←↑↓→/hjkl  Select page
  r, space   Rotate selected page
  R, a       Rotate every page
  +/-        Zoom
  d, ctrl+s  Download the rotated PDF
  x          Remove the document
  s          Settings
  ?          Help
  q          Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return runTUIWithFile(cmd, path)
	},
}

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUIWithFile(cmd *cobra.Command, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if err := requireSession(); err != nil {
		return err
	}

	ports := &tui.Ports{
		Session:  sessionService,
		Settings: settingsService,
	}
	if tuiConfig != nil {
		ports.Renderer = tuiConfig.Renderer
		ports.NewWatcher = tuiConfig.NewWatcher
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			logger.Warn("closing watcher: %v", cerr)
		}
	}()

	app.WithContext(cmd.Context()).WithInitialFile(path)

	// The view owns the terminal; route log output away from it.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := runProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
