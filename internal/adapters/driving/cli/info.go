package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagespin/internal/core/domain"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info [file.pdf]",
	Short: "Show pages and their rotation",
	Long: `Show the page count, page sizes and the rotation each page already
carries in the file. Exports replace these rotations with the ones you set.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "Print as JSON")
	rootCmd.AddCommand(infoCmd)
}

// pageInfo is the JSON form of one page.
type pageInfo struct {
	Page           int     `json:"page"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	SourceRotation int     `json:"source_rotation"`
}

// documentInfo is the JSON form of a loaded document.
type documentInfo struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Size     int        `json:"size"`
	NumPages int        `json:"num_pages"`
	Pages    []pageInfo `json:"pages"`
}

func toDocumentInfo(info *domain.DocumentInfo) documentInfo {
	out := documentInfo{
		Name:     info.Name,
		Path:     info.Path,
		Size:     info.Size,
		NumPages: info.NumPages,
		Pages:    make([]pageInfo, len(info.Pages)),
	}
	for i, p := range info.Pages {
		out.Pages[i] = pageInfo{
			Page:           p.Index,
			Width:          p.Width,
			Height:         p.Height,
			SourceRotation: p.SourceRotation.Degrees(),
		}
	}
	return out
}

func runInfo(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}

	info, err := sessionService.Open(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	defer sessionService.Remove()

	if infoJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(toDocumentInfo(info))
	}

	cmd.Printf("%s\n", info.Name)
	cmd.Printf("  Size:  %s\n", humanize.Bytes(uint64(info.Size)))
	cmd.Printf("  Pages: %d\n\n", info.NumPages)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PAGE\tSIZE (pt)\tROTATION")
	for _, p := range info.Pages {
		fmt.Fprintf(w, "%d\t%.0f x %.0f\t%s\n", p.Index, p.Width, p.Height, p.SourceRotation)
	}
	return w.Flush()
}
