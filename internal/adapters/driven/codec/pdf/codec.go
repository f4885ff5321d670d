package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driven"
	"github.com/custodia-labs/pagespin/internal/logger"
)

// Ensure Codec implements the interface.
var _ driven.DocumentCodec = (*Codec)(nil)

// ErrNoPages is returned for documents without a single page.
var ErrNoPages = errors.New("document has no pages")

var disableConfigDir sync.Once

// Codec decodes and encodes PDF documents with pdfcpu.
type Codec struct {
	conf *model.Configuration
}

// New creates a pdfcpu codec with relaxed validation.
// pdfcpu's on-disk configuration directory is never used.
func New() *Codec {
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Codec{conf: conf}
}

// Decode parses and validates data.
func (c *Codec) Decode(ctx context.Context, data []byte) (driven.DecodedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pctx, err := api.ReadContext(bytes.NewReader(data), c.conf)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if err := api.ValidateContext(pctx); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if err := pctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	if pctx.PageCount < 1 {
		return nil, ErrNoPages
	}

	logger.Debug("pdfcpu decoded %d bytes, %d pages", len(data), pctx.PageCount)
	return &document{ctx: pctx}, nil
}

// document wraps a pdfcpu context.
type document struct {
	ctx *model.Context
}

func (d *document) PageCount() int {
	return d.ctx.PageCount
}

func (d *document) Geometry(page int) (domain.PageGeometry, error) {
	dict, _, inherited, err := d.pageDict(page)
	if err != nil {
		return domain.PageGeometry{}, err
	}

	g := domain.PageGeometry{Index: page}

	box := inherited.CropBox
	if box == nil {
		box = inherited.MediaBox
	}
	if box != nil {
		g.Width = box.Width()
		g.Height = box.Height()
	}

	degrees := inherited.Rotate
	if own, ok := dict["Rotate"].(types.Integer); ok {
		degrees = int(own)
	}
	r, err := domain.NormalizeRotation(degrees)
	if err != nil {
		logger.Debug("page %d: ignoring rotate %d", page, degrees)
	}
	g.SourceRotation = r

	return g, nil
}

// SetRotation writes /Rotate into the page's own dictionary so that an
// inherited value from a parent Pages node no longer applies.
func (d *document) SetRotation(page int, rotation domain.Rotation) error {
	dict, _, _, err := d.pageDict(page)
	if err != nil {
		return err
	}
	dict.Update("Rotate", types.Integer(rotation.Degrees()))
	return nil
}

func (d *document) Save(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := api.WriteContext(d.ctx, &buf); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *document) pageDict(page int) (types.Dict, *types.IndirectRef, *model.InheritedPageAttrs, error) {
	if page < 1 || page > d.ctx.PageCount {
		return nil, nil, nil, fmt.Errorf("%w: page %d of %d", domain.ErrPageOutOfRange, page, d.ctx.PageCount)
	}
	dict, ref, inherited, err := d.ctx.PageDict(page, false)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("page %d: %w", page, err)
	}
	if dict == nil || inherited == nil {
		return nil, nil, nil, fmt.Errorf("page %d: missing page dictionary", page)
	}
	return dict, ref, inherited, nil
}
