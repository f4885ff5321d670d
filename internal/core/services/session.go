package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driven"
	"github.com/custodia-labs/pagespin/internal/core/ports/driving"
	"github.com/custodia-labs/pagespin/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService owns the single active document session.
type SessionService struct {
	codec    driven.DocumentCodec
	reader   driven.FileReader
	writer   driven.ArtifactWriter
	pipeline *ExportPipeline

	mu        sync.RWMutex
	outputDir string
	current   *domain.Session
}

// SessionOptions configures a SessionService.
type SessionOptions struct {
	// Prefix is prepended to the source name on export.
	Prefix string

	// OutputDir is the default directory for Save.
	OutputDir string
}

// NewSessionService creates a new session service.
func NewSessionService(
	codec driven.DocumentCodec,
	reader driven.FileReader,
	writer driven.ArtifactWriter,
	opts SessionOptions,
) *SessionService {
	return &SessionService{
		codec:     codec,
		reader:    reader,
		writer:    writer,
		pipeline:  NewExportPipeline(codec, opts.Prefix),
		outputDir: opts.OutputDir,
	}
}

// Configure applies changed export settings to later exports.
func (s *SessionService) Configure(settings domain.ExportSettings) {
	s.pipeline.SetPrefix(settings.Prefix)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputDir = settings.Dir
}

// Open reads the file at path and loads it as the new session.
func (s *SessionService) Open(ctx context.Context, path string) (*domain.DocumentInfo, error) {
	if s.reader == nil {
		return nil, fmt.Errorf("%w: file reader not configured", domain.ErrReadFailure)
	}

	// Reject by declared type before touching the file.
	if mediaType := s.reader.MediaType(path); !(domain.SourceFile{MediaType: mediaType}).IsPDF() {
		logger.Debug("rejecting %s: media type %q", path, mediaType)
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidFileType, filepath.Base(path))
	}

	file, err := s.reader.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrReadFailure, err)
	}
	return s.Accept(ctx, file)
}

// Accept loads an already-read file as the new session.
func (s *SessionService) Accept(ctx context.Context, file domain.SourceFile) (*domain.DocumentInfo, error) {
	if !file.IsPDF() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFileType, file.MediaType)
	}
	if s.codec == nil {
		return nil, fmt.Errorf("%w: codec not configured", domain.ErrDecodeFailure)
	}

	logger.Section("Load")
	doc, err := s.codec.Decode(ctx, file.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecodeFailure, err)
	}

	pages := make([]domain.PageGeometry, doc.PageCount())
	for i := range pages {
		g, err := doc.Geometry(i + 1)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", domain.ErrDecodeFailure, i+1, err)
		}
		pages[i] = g
	}

	session := domain.NewSession(uuid.New().String(), file, pages)
	logger.Info("loaded %s: %d pages, session %s", file.Name, len(pages), session.ID())

	s.mu.Lock()
	previous := s.current
	s.current = session
	s.mu.Unlock()

	if previous != nil {
		previous.Discard()
	}

	info := session.Info()
	return &info, nil
}

// Reload re-reads the current session's file as a new session.
func (s *SessionService) Reload(ctx context.Context) (*domain.DocumentInfo, error) {
	session, err := s.active()
	if err != nil {
		return nil, err
	}
	if session.Path() == "" {
		return nil, fmt.Errorf("%w: session has no source path", domain.ErrReadFailure)
	}
	return s.Open(ctx, session.Path())
}

// Remove discards the current session, if any.
func (s *SessionService) Remove() {
	s.mu.Lock()
	previous := s.current
	s.current = nil
	s.mu.Unlock()

	if previous != nil {
		logger.Debug("removed session %s", previous.ID())
		previous.Discard()
	}
}

// Loaded reports whether a session is active.
func (s *SessionService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// SessionID returns the active session's ID, or "" when none is loaded.
func (s *SessionService) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID()
}

// Info summarises the active session.
func (s *SessionService) Info() (*domain.DocumentInfo, error) {
	session, err := s.active()
	if err != nil {
		return nil, err
	}
	info := session.Info()
	return &info, nil
}

// RotatePage turns one page a further 90 degrees.
func (s *SessionService) RotatePage(page int) (domain.Rotation, error) {
	session, err := s.active()
	if err != nil {
		return 0, err
	}
	return session.RotatePage(page)
}

// RotateAll turns every page a further 90 degrees.
func (s *SessionService) RotateAll() error {
	session, err := s.active()
	if err != nil {
		return err
	}
	return session.RotateAll()
}

// Rotation returns the rotation a page is displayed with.
func (s *SessionService) Rotation(page int) domain.Rotation {
	session, err := s.active()
	if err != nil {
		return 0
	}
	return session.Rotation(page)
}

// Pages returns the render input for every page of the active session.
func (s *SessionService) Pages() []domain.PageView {
	session, err := s.active()
	if err != nil {
		return nil
	}
	return session.Views()
}

// Exporting reports whether an export is running for the active session.
func (s *SessionService) Exporting() bool {
	session, err := s.active()
	if err != nil {
		return false
	}
	return session.Exporting()
}

// Export produces the rotated document without writing it anywhere.
func (s *SessionService) Export(ctx context.Context) (*domain.ExportResult, error) {
	session, err := s.active()
	if err != nil {
		return nil, err
	}
	return s.pipeline.Export(ctx, session)
}

var errNoWriter = fmt.Errorf("%w: artifact writer not configured", domain.ErrWriteFailure)

// Save exports the active session and writes the result into dir.
func (s *SessionService) Save(ctx context.Context, dir string) (*driving.SaveResult, error) {
	if s.writer == nil {
		return nil, errNoWriter
	}
	session, err := s.active()
	if err != nil {
		return nil, err
	}
	return s.save(ctx, session, dir)
}

// SaveSession is Save for the session with the given ID. It fails with
// domain.ErrSessionDiscarded once that session is no longer active.
func (s *SessionService) SaveSession(ctx context.Context, sessionID, dir string) (*driving.SaveResult, error) {
	if s.writer == nil {
		return nil, errNoWriter
	}
	session, err := s.active()
	if err != nil {
		if sessionID != "" {
			return nil, domain.ErrSessionDiscarded
		}
		return nil, err
	}
	if session.ID() != sessionID {
		return nil, domain.ErrSessionDiscarded
	}
	return s.save(ctx, session, dir)
}

func (s *SessionService) save(ctx context.Context, session *domain.Session, dir string) (*driving.SaveResult, error) {
	result, err := s.pipeline.Export(ctx, session)
	if err != nil {
		return nil, err
	}

	// The session may have been removed or replaced while encoding.
	if session.Discarded() {
		return nil, domain.ErrSessionDiscarded
	}

	target := s.resolveDir(dir, session)
	path, err := s.writer.WriteArtifact(ctx, target, result.FileName, result.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrWriteFailure, err)
	}
	logger.Info("wrote %s", path)

	return &driving.SaveResult{Path: path, Result: result}, nil
}

// WriteTo exports and streams the result to w.
func (s *SessionService) WriteTo(ctx context.Context, w io.Writer) (*domain.ExportResult, error) {
	if s.writer == nil {
		return nil, fmt.Errorf("%w: artifact writer not configured", domain.ErrWriteFailure)
	}
	result, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.writer.WriteTo(ctx, w, result.Data); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrWriteFailure, err)
	}
	return result, nil
}

// resolveDir picks the output directory: explicit, configured, then the
// source file's directory, then the working directory.
func (s *SessionService) resolveDir(dir string, session *domain.Session) string {
	s.mu.RLock()
	configured := s.outputDir
	s.mu.RUnlock()

	switch {
	case dir != "":
		return dir
	case configured != "":
		return configured
	case session.Path() != "":
		return filepath.Dir(session.Path())
	default:
		return "."
	}
}

func (s *SessionService) active() (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, domain.ErrNoSession
	}
	return s.current, nil
}
