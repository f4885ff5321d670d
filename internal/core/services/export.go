package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driven"
	"github.com/custodia-labs/pagespin/internal/logger"
)

// ExportPipeline turns a session into a rotated document.
type ExportPipeline struct {
	codec driven.DocumentCodec

	mu     sync.RWMutex
	prefix string
}

// NewExportPipeline creates an export pipeline.
// An empty prefix falls back to domain.DefaultOutputPrefix.
func NewExportPipeline(codec driven.DocumentCodec, prefix string) *ExportPipeline {
	if prefix == "" {
		prefix = domain.DefaultOutputPrefix
	}
	return &ExportPipeline{
		codec:  codec,
		prefix: prefix,
	}
}

// SetPrefix changes the output name prefix for later exports.
// An empty prefix falls back to domain.DefaultOutputPrefix.
func (p *ExportPipeline) SetPrefix(prefix string) {
	if prefix == "" {
		prefix = domain.DefaultOutputPrefix
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefix = prefix
}

// Prefix returns the output name prefix.
func (p *ExportPipeline) Prefix() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prefix
}

// Export decodes the session's bytes, writes each page's projected
// rotation over whatever rotation the document carries, and re-encodes.
//
// Only one export runs per session; a second call while one is running
// returns domain.ErrExportInProgress. Rotations are read once, when the
// export starts. If the session is discarded while the export runs the
// result is dropped and domain.ErrSessionDiscarded is returned.
func (p *ExportPipeline) Export(ctx context.Context, session *domain.Session) (*domain.ExportResult, error) {
	if session == nil {
		return nil, domain.ErrNoSession
	}
	if p.codec == nil {
		return nil, fmt.Errorf("%w: codec not configured", domain.ErrDecodeFailure)
	}
	if session.Discarded() {
		return nil, domain.ErrSessionDiscarded
	}
	if !session.BeginExport() {
		return nil, domain.ErrExportInProgress
	}
	defer session.EndExport()

	logger.Section("Export")
	prefix := p.Prefix()
	numPages := session.NumPages()
	rotations := domain.ProjectRotations(session.Store(), numPages)

	// 1. Decode
	doc, err := p.codec.Decode(ctx, session.RawBytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecodeFailure, err)
	}
	if doc.PageCount() != numPages {
		return nil, fmt.Errorf("%w: page count changed from %d to %d",
			domain.ErrDecodeFailure, numPages, doc.PageCount())
	}

	// 2. Overwrite page rotations
	for page := 1; page <= numPages; page++ {
		if err := doc.SetRotation(page, rotations[page-1]); err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", domain.ErrEncodeFailure, page, err)
		}
	}
	logger.Debug("applied rotations %v to %d pages", rotations, numPages)

	// 3. Encode
	data, err := doc.Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEncodeFailure, err)
	}

	if session.Discarded() {
		logger.Warn("session %s discarded during export, dropping result", session.ID())
		return nil, domain.ErrSessionDiscarded
	}

	result := &domain.ExportResult{
		SessionID: session.ID(),
		FileName:  domain.OutputName(prefix, session.Name()),
		Data:      data,
		Rotations: rotations,
	}
	logger.Info("exported %s (%d bytes)", result.FileName, len(data))
	return result, nil
}
