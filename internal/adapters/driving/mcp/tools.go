package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/logger"
)

// InfoInput is the input schema for the pdf_info tool.
type InfoInput struct {
	Path string `json:"path" jsonschema:"path of the PDF file to inspect"`
}

// InfoOutput is the output schema for the pdf_info tool.
type InfoOutput struct {
	Name     string       `json:"name"`
	Path     string       `json:"path"`
	Size     int          `json:"size"`
	NumPages int          `json:"num_pages"`
	Pages    []PageOutput `json:"pages"`
}

// PageOutput describes one page.
type PageOutput struct {
	Page           int     `json:"page"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	SourceRotation int     `json:"source_rotation"`
}

// RotateInput is the input schema for the rotate_pdf tool.
type RotateInput struct {
	Path      string `json:"path" jsonschema:"path of the PDF file to rotate"`
	Pages     []int  `json:"pages,omitempty" jsonschema:"1-based pages to turn a quarter turn clockwise; repeat a page to turn it further"`
	All       int    `json:"all,omitempty" jsonschema:"number of quarter turns applied to every page before the individual pages"`
	OutputDir string `json:"output_dir,omitempty" jsonschema:"directory for the rotated copy (default: configured export directory or next to the source)"`
}

// RotateOutput is the output schema for the rotate_pdf tool.
type RotateOutput struct {
	OutputPath string `json:"output_path"`
	NumPages   int    `json:"num_pages"`
	// Rotations holds the rotation written for each page; index 0 is page 1.
	Rotations []int `json:"rotations"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "pdf_info",
		Description: "Show the page count, page sizes and current rotation of a PDF",
	}, s.handleInfo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "rotate_pdf",
		Description: "Rotate pages of a PDF in quarter turns and write a copy named rotated-<name>. " +
			"Rotations replace whatever rotation the pages already had.",
	}, s.handleRotate)
}

// handleInfo handles the pdf_info tool invocation.
func (s *Server) handleInfo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input InfoInput,
) (*mcp.CallToolResult, InfoOutput, error) {
	session := s.ports.Sessions()
	defer session.Remove()

	info, err := session.Open(ctx, input.Path)
	if err != nil {
		return nil, InfoOutput{}, toolError(err)
	}

	output := InfoOutput{
		Name:     info.Name,
		Path:     info.Path,
		Size:     info.Size,
		NumPages: info.NumPages,
		Pages:    make([]PageOutput, len(info.Pages)),
	}
	for i, p := range info.Pages {
		output.Pages[i] = PageOutput{
			Page:           p.Index,
			Width:          p.Width,
			Height:         p.Height,
			SourceRotation: p.SourceRotation.Degrees(),
		}
	}

	return nil, output, nil
}

// handleRotate handles the rotate_pdf tool invocation.
func (s *Server) handleRotate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RotateInput,
) (*mcp.CallToolResult, RotateOutput, error) {
	if input.All < 0 {
		return nil, RotateOutput{}, fmt.Errorf("all must not be negative, got %d", input.All)
	}

	session := s.ports.Sessions()
	defer session.Remove()

	info, err := session.Open(ctx, input.Path)
	if err != nil {
		return nil, RotateOutput{}, toolError(err)
	}

	// Four quarter turns are the identity.
	for i := 0; i < input.All%domain.FullTurn.Turns(); i++ {
		if err := session.RotateAll(); err != nil {
			return nil, RotateOutput{}, toolError(err)
		}
	}
	for _, page := range input.Pages {
		if _, err := session.RotatePage(page); err != nil {
			return nil, RotateOutput{}, toolError(err)
		}
	}

	saved, err := session.Save(ctx, input.OutputDir)
	if err != nil {
		return nil, RotateOutput{}, toolError(err)
	}
	logger.Info("mcp: wrote %s", saved.Path)

	output := RotateOutput{
		OutputPath: saved.Path,
		NumPages:   info.NumPages,
		Rotations:  make([]int, len(saved.Result.Rotations)),
	}
	for i, r := range saved.Result.Rotations {
		output.Rotations[i] = r.Degrees()
	}

	return nil, output, nil
}

// toolError prefixes err with the user-facing message of its failure kind.
func toolError(err error) error {
	kind := domain.ClassifyFailure(err)
	if kind == domain.FailureUnknown {
		return err
	}
	return fmt.Errorf("%s: %w", kind.Message(), err)
}
