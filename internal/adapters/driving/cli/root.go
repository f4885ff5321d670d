// Package cli implements the pagespin command line.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driving"
	"github.com/custodia-labs/pagespin/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by commands. Set by main before Execute.
var (
	sessionService  driving.SessionService
	settingsService driving.SettingsService
	newSession      driving.SessionFactory
)

// verbose is bound to the global --verbose flag.
var verbose bool

// isTerminal reports whether fd is attached to a terminal. Swapped in tests.
var isTerminal = func(fd int) bool { return term.IsTerminal(fd) }

var rootCmd = &cobra.Command{
	Use:   "pagespin [file.pdf]",
	Short: "Rotate the pages of a PDF",
	Long: `pagespin loads a PDF, lets you turn individual pages (or every page)
in quarter turns and writes a new PDF named rotated-<name> with those
rotations applied.

Run without a command in a terminal to open the interactive view, optionally
with the file to load.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log load and export details to stderr")
}

// SetServices sets the services used by commands.
func SetServices(session driving.SessionService, settings driving.SettingsService) {
	sessionService = session
	settingsService = settings
}

// SetSessionFactory sets the constructor for isolated sessions used by
// the MCP server.
func SetSessionFactory(factory driving.SessionFactory) {
	newSession = factory
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch domain.ClassifyFailure(err) {
	case domain.FailureNone:
		return 0
	case domain.FailureInvalidType:
		return 3
	case domain.FailureRead, domain.FailureWrite:
		return 4
	case domain.FailureDecode:
		return 5
	case domain.FailureEncode:
		return 6
	default:
		return 1
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if !isTerminal(int(os.Stdin.Fd())) || !isTerminal(int(os.Stdout.Fd())) {
		if len(args) == 0 {
			return cmd.Help()
		}
		return errors.New("the interactive view needs a terminal; use 'pagespin rotate' instead")
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	return runTUIWithFile(cmd, path)
}

func requireSession() error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	return nil
}
