package filesystem

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagespin/internal/core/domain"
)

func TestFiles_MediaType(t *testing.T) {
	f := New(0)

	tests := []struct {
		path string
		pdf  bool
	}{
		{"report.pdf", true},
		{"REPORT.PDF", true},
		{"'/tmp/with space.pdf'", true},
		{"notes.txt", false},
		{"image.png", false},
		{"noext", false},
		{"archive.pdf.zip", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			file := domain.SourceFile{MediaType: f.MediaType(tt.path)}
			assert.Equal(t, tt.pdf, file.IsPDF())
		})
	}
}

func TestFiles_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 body"), 0o600))

	file, err := New(0).ReadFile(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "scan.pdf", file.Name)
	assert.Equal(t, path, file.Path)
	assert.Equal(t, domain.PDFMediaType, file.MediaType)
	assert.Equal(t, []byte("%PDF-1.4 body"), file.Data)
}

func TestFiles_ReadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.pdf")
	require.NoError(t, os.WriteFile(big, make([]byte, 64), 0o600))

	f := New(16)

	_, err := f.ReadFile(context.Background(), filepath.Join(dir, "missing.pdf"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = f.ReadFile(context.Background(), dir)
	assert.Error(t, err)

	_, err = f.ReadFile(context.Background(), big)
	assert.ErrorIs(t, err, ErrTooLarge)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.ReadFile(ctx, big)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFiles_WriteArtifact(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	path, err := New(0).WriteArtifact(context.Background(), dir, "rotated-a.pdf", []byte("data"))

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rotated-a.pdf"), path)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestFiles_WriteArtifact_Overwrites(t *testing.T) {
	dir := t.TempDir()
	f := New(0)

	_, err := f.WriteArtifact(context.Background(), dir, "out.pdf", []byte("first"))
	require.NoError(t, err)
	path, err := f.WriteArtifact(context.Background(), dir, "out.pdf", []byte("second"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestFiles_WriteArtifact_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	path, err := New(0).WriteArtifact(context.Background(), t.TempDir(), "out.pdf", []byte("x"))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestFiles_WriteArtifact_InvalidName(t *testing.T) {
	f := New(0)

	for _, name := range []string{"", "../escape.pdf", "sub/out.pdf"} {
		_, err := f.WriteArtifact(context.Background(), t.TempDir(), name, []byte("x"))
		assert.Error(t, err, name)
	}
}

func TestFiles_WriteTo(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, New(0).WriteTo(context.Background(), &buf, []byte("pdf bytes")))
	assert.Equal(t, "pdf bytes", buf.String())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"/tmp/a.pdf", "/tmp/a.pdf"},
		{"  /tmp/a.pdf\n", "/tmp/a.pdf"},
		{"'/tmp/my file.pdf'", "/tmp/my file.pdf"},
		{`"/tmp/my file.pdf"`, "/tmp/my file.pdf"},
		{`/tmp/my\ file.pdf`, "/tmp/my file.pdf"},
		{"file:///tmp/a.pdf", "/tmp/a.pdf"},
		{"file:///tmp/my%20scan.pdf", "/tmp/my scan.pdf"},
		{"file:///tmp/r%C3%A9sum%C3%A9.pdf", "/tmp/résumé.pdf"},
		{"file://localhost/tmp/a.pdf", "/tmp/a.pdf"},
		{"~/docs/a.pdf", filepath.Join(home, "docs", "a.pdf")},
		{"~", home},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
