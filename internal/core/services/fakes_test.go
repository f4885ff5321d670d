package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driven"
)

var errCorrupt = errors.New("not a document")

// fakeCodec understands a tiny text format: "doc:R1,R2,...,Rn" where each
// R is the stored rotation of that page.
type fakeCodec struct {
	decodeErr error
	setErr    error
	saveErr   error

	// block, when set, is waited on inside Save.
	block chan struct{}
	// started is closed once Save is entered.
	started chan struct{}

	mu      sync.Mutex
	decodes int
}

func encodeFake(rotations ...int) []byte {
	parts := make([]string, len(rotations))
	for i, r := range rotations {
		parts[i] = strconv.Itoa(r)
	}
	return []byte("doc:" + strings.Join(parts, ","))
}

func (c *fakeCodec) Decode(_ context.Context, data []byte) (driven.DecodedDocument, error) {
	c.mu.Lock()
	c.decodes++
	c.mu.Unlock()

	if c.decodeErr != nil {
		return nil, c.decodeErr
	}
	body, ok := bytes.CutPrefix(data, []byte("doc:"))
	if !ok {
		return nil, errCorrupt
	}
	var rotations []int
	if len(body) > 0 {
		for _, p := range strings.Split(string(body), ",") {
			n, err := strconv.Atoi(p)
			if err != nil {
				return nil, errCorrupt
			}
			rotations = append(rotations, n)
		}
	}
	return &fakeDocument{codec: c, rotations: rotations}, nil
}

func (c *fakeCodec) decodeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decodes
}

type fakeDocument struct {
	codec     *fakeCodec
	rotations []int
}

func (d *fakeDocument) PageCount() int { return len(d.rotations) }

func (d *fakeDocument) Geometry(page int) (domain.PageGeometry, error) {
	if page < 1 || page > len(d.rotations) {
		return domain.PageGeometry{}, fmt.Errorf("page %d missing", page)
	}
	return domain.PageGeometry{
		Index:          page,
		Width:          612,
		Height:         792,
		SourceRotation: domain.Rotation(d.rotations[page-1]),
	}, nil
}

func (d *fakeDocument) SetRotation(page int, r domain.Rotation) error {
	if d.codec.setErr != nil {
		return d.codec.setErr
	}
	if page < 1 || page > len(d.rotations) {
		return fmt.Errorf("page %d missing", page)
	}
	d.rotations[page-1] = r.Degrees()
	return nil
}

func (d *fakeDocument) Save(ctx context.Context) ([]byte, error) {
	if d.codec.started != nil {
		close(d.codec.started)
	}
	if d.codec.block != nil {
		select {
		case <-d.codec.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d.codec.saveErr != nil {
		return nil, d.codec.saveErr
	}
	return encodeFake(d.rotations...), nil
}

// fakeFiles serves files from memory and records written artifacts.
type fakeFiles struct {
	files    map[string][]byte
	readErr  error
	writeErr error

	mu      sync.Mutex
	written map[string][]byte
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{
		files:   make(map[string][]byte),
		written: make(map[string][]byte),
	}
}

func (f *fakeFiles) MediaType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return domain.PDFMediaType
	}
	return "text/plain"
}

func (f *fakeFiles) ReadFile(_ context.Context, path string) (domain.SourceFile, error) {
	if f.readErr != nil {
		return domain.SourceFile{}, f.readErr
	}
	data, ok := f.files[path]
	if !ok {
		return domain.SourceFile{}, fmt.Errorf("open %s: no such file", path)
	}
	return domain.SourceFile{
		Name:      filepath.Base(path),
		Path:      path,
		MediaType: f.MediaType(path),
		Data:      data,
	}, nil
}

func (f *fakeFiles) WriteArtifact(_ context.Context, dir, name string, data []byte) (string, error) {
	if f.writeErr != nil {
		return "", f.writeErr
	}
	path := filepath.Join(dir, name)
	f.mu.Lock()
	f.written[path] = data
	f.mu.Unlock()
	return path, nil
}

func (f *fakeFiles) WriteTo(_ context.Context, w io.Writer, data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	_, err := w.Write(data)
	return err
}

func pdfFile(name string, rotations ...int) domain.SourceFile {
	return domain.SourceFile{
		Name:      name,
		Path:      "/docs/" + name,
		MediaType: domain.PDFMediaType,
		Data:      encodeFake(rotations...),
	}
}
