package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/pagespin/internal/core/domain"
)

// SessionService owns the active document session.
// At most one session is active; loading a file replaces it wholesale.
type SessionService interface {
	// Open reads the file at path and loads it as the new session.
	// A path that does not declare the PDF media type is rejected with
	// domain.ErrInvalidFileType before anything is read.
	Open(ctx context.Context, path string) (*domain.DocumentInfo, error)

	// Configure applies export settings (prefix and output directory)
	// to later exports.
	Configure(settings domain.ExportSettings)

	// Accept loads an already-read file as the new session.
	// On any failure the current session is left untouched.
	Accept(ctx context.Context, file domain.SourceFile) (*domain.DocumentInfo, error)

	// Reload re-reads the current session's file as a new session.
	// Rotations start again from zero.
	Reload(ctx context.Context) (*domain.DocumentInfo, error)

	// Remove discards the current session, if any.
	Remove()

	// Loaded reports whether a session is active.
	Loaded() bool

	// SessionID returns the active session's ID, or "" when none is loaded.
	SessionID() string

	// Info summarises the active session.
	Info() (*domain.DocumentInfo, error)

	// RotatePage turns one page a further 90 degrees.
	RotatePage(page int) (domain.Rotation, error)

	// RotateAll turns every page a further 90 degrees.
	RotateAll() error

	// Rotation returns the rotation a page is displayed with.
	Rotation(page int) domain.Rotation

	// Pages returns the render input for every page of the active session.
	Pages() []domain.PageView

	// Exporting reports whether an export is running for the active session.
	Exporting() bool

	// Export produces the rotated document without writing it anywhere.
	Export(ctx context.Context) (*domain.ExportResult, error)

	// Save exports and writes the result into dir. An empty dir means the
	// configured output directory, falling back to the source file's directory.
	Save(ctx context.Context, dir string) (*SaveResult, error)

	// SaveSession is Save restricted to the session with the given ID.
	// It returns domain.ErrSessionDiscarded when that session was removed
	// or replaced, and writes nothing.
	SaveSession(ctx context.Context, sessionID, dir string) (*SaveResult, error)

	// WriteTo exports and streams the result to w.
	WriteTo(ctx context.Context, w io.Writer) (*domain.ExportResult, error)
}

// SaveResult describes a written export.
type SaveResult struct {
	// Path is where the document was written.
	Path string

	// Result is the export that was written.
	Result *domain.ExportResult
}

// SessionFactory creates an independent SessionService.
// Stateless front ends use one session per request.
type SessionFactory func() SessionService
