package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagespin/internal/core/domain"
)

var (
	rotatePages  []int
	rotateAll    int
	rotateOutput string
	rotateStdout bool
)

var rotateCmd = &cobra.Command{
	Use:   "rotate [file.pdf]",
	Short: "Rotate pages and write the result",
	Long: `Rotate pages of a PDF without opening the interactive view.

Every --page turns that page a quarter turn clockwise, so repeating it
turns further. --all turns every page and can be repeated too. The result
replaces any rotation the pages already had.

Examples:
  # Turn page 2 upside down
  pagespin rotate scan.pdf --page 2 --page 2

  # Turn every page once, then page 3 once more, into ./out
  pagespin rotate scan.pdf --all --page 3 -o out

  # Stream to another program
  pagespin rotate scan.pdf -a --stdout | lpr`,
	Args: cobra.ExactArgs(1),
	RunE: runRotate,
}

func init() {
	rotateCmd.Flags().IntSliceVarP(&rotatePages, "page", "p", nil, "Page to turn a quarter turn (repeatable)")
	rotateCmd.Flags().CountVarP(&rotateAll, "all", "a", "Turn every page a quarter turn (repeatable)")
	rotateCmd.Flags().StringVarP(&rotateOutput, "output", "o", "", "Output directory, or - for stdout")
	rotateCmd.Flags().BoolVar(&rotateStdout, "stdout", false, "Write the result to stdout")
	rootCmd.AddCommand(rotateCmd)
}

func runRotate(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	toStdout := rotateStdout || rotateOutput == "-"
	if toStdout && isTerminal(int(os.Stdout.Fd())) {
		return errors.New("refusing to write a PDF to a terminal; redirect stdout or use -o")
	}

	info, err := sessionService.Open(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	defer sessionService.Remove()

	for i := 0; i < rotateAll; i++ {
		if err := sessionService.RotateAll(); err != nil {
			return err
		}
	}
	for _, page := range rotatePages {
		if _, err := sessionService.RotatePage(page); err != nil {
			return fmt.Errorf("--page %d: %w", page, err)
		}
	}

	if toStdout {
		_, err := sessionService.WriteTo(cmd.Context(), cmd.OutOrStdout())
		return err
	}

	saved, err := sessionService.Save(cmd.Context(), rotateOutput)
	if err != nil {
		return err
	}

	cmd.Printf("Wrote %s (%d pages", saved.Path, info.NumPages)
	if turned := countTurned(saved.Result.Rotations); turned > 0 {
		cmd.Printf(", %d rotated", turned)
	}
	cmd.Println(")")
	return nil
}

func countTurned(rotations []domain.Rotation) int {
	n := 0
	for _, r := range rotations {
		if r != 0 {
			n++
		}
	}
	return n
}
