package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driven"
	"github.com/custodia-labs/pagespin/internal/logger"
)

// Ensure Files implements the interfaces.
var (
	_ driven.FileReader     = (*Files)(nil)
	_ driven.ArtifactWriter = (*Files)(nil)
)

// DefaultMaxSize is the largest file ReadFile accepts.
const DefaultMaxSize int64 = 512 << 20

// ErrTooLarge is returned for files above the size limit.
var ErrTooLarge = errors.New("file too large")

// Files reads source documents from and writes exports to the local disk.
type Files struct {
	maxSize int64
}

// New creates a filesystem adapter. A maxSize of 0 uses DefaultMaxSize.
func New(maxSize int64) *Files {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Files{maxSize: maxSize}
}

// MediaType returns the media type declared by the file extension.
func (f *Files) MediaType(path string) string {
	ext := strings.ToLower(filepath.Ext(ExpandPath(path)))
	if ext == ".pdf" {
		// Not every platform's mime table knows .pdf.
		return domain.PDFMediaType
	}
	return mime.TypeByExtension(ext)
}

// ReadFile reads the file at path in one step.
func (f *Files) ReadFile(ctx context.Context, path string) (domain.SourceFile, error) {
	if err := ctx.Err(); err != nil {
		return domain.SourceFile{}, err
	}

	path = ExpandPath(path)
	info, err := os.Stat(path)
	if err != nil {
		return domain.SourceFile{}, err
	}
	if info.IsDir() {
		return domain.SourceFile{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > f.maxSize {
		return domain.SourceFile{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.SourceFile{}, err
	}
	logger.Debug("read %s (%d bytes)", path, len(data))

	return domain.SourceFile{
		Name:      filepath.Base(path),
		Path:      path,
		MediaType: f.MediaType(path),
		Data:      data,
	}, nil
}

// WriteArtifact writes data to dir/name through a temporary file so a
// failed write never leaves a partial document behind.
func (f *Files) WriteArtifact(ctx context.Context, dir, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid output name %q", name)
	}

	dir = ExpandPath(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".pagespin-*.pdf")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", err
	}

	target := filepath.Join(dir, name)
	if err := os.Rename(tmpName, target); err != nil {
		return "", err
	}
	return target, nil
}

// WriteTo streams data to w.
func (f *Files) WriteTo(ctx context.Context, w io.Writer, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := w.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return io.ErrShortWrite
	}
	return nil
}

// ExpandPath resolves a leading ~, surrounding quotes and file:// URIs,
// as left by terminals that paste dropped files.
func ExpandPath(path string) string {
	path = strings.TrimSpace(path)
	if len(path) >= 2 {
		if (path[0] == '\'' && path[len(path)-1] == '\'') || (path[0] == '"' && path[len(path)-1] == '"') {
			path = path[1 : len(path)-1]
		}
	}
	if strings.HasPrefix(path, "file://") {
		// File URIs carry percent-encoded paths.
		if u, err := url.Parse(path); err == nil && u.Path != "" {
			path = u.Path
		} else {
			path = strings.TrimPrefix(path, "file://")
		}
	} else {
		// Some terminals escape spaces when pasting a dropped file.
		path = strings.ReplaceAll(path, `\ `, " ")
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
