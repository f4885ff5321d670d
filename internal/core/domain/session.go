package domain

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Session binds one loaded file to its page count and rotation state.
// A session is never reused for another file: loading a new file or
// removing the current one discards it.
type Session struct {
	id       string
	name     string
	path     string
	raw      []byte
	numPages int
	pages    []PageGeometry
	store    *RotationStore

	mu        sync.RWMutex
	discarded bool
	exporting atomic.Bool
}

// NewSession creates a session for a decoded file.
// pages holds the geometry of pages 1..len(pages) captured at load time.
func NewSession(id string, file SourceFile, pages []PageGeometry) *Session {
	return &Session{
		id:       id,
		name:     file.Name,
		path:     file.Path,
		raw:      file.Data,
		numPages: len(pages),
		pages:    pages,
		store:    NewRotationStore(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Name returns the source file name.
func (s *Session) Name() string {
	return s.name
}

// Path returns the path the file was loaded from, if any.
func (s *Session) Path() string {
	return s.path
}

// RawBytes returns the bytes the session was loaded from.
// The slice must not be modified.
func (s *Session) RawBytes() []byte {
	return s.raw
}

// NumPages returns the page count fixed at load time.
func (s *Session) NumPages() int {
	return s.numPages
}

// Store returns the session's rotation store.
func (s *Session) Store() *RotationStore {
	return s.store
}

// Geometry returns the load-time geometry of a page.
func (s *Session) Geometry(page int) (PageGeometry, error) {
	if err := s.checkPage(page); err != nil {
		return PageGeometry{}, err
	}
	return s.pages[page-1], nil
}

// RotatePage turns one page a further 90 degrees clockwise.
func (s *Session) RotatePage(page int) (Rotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.discarded {
		return 0, ErrSessionDiscarded
	}
	if err := s.checkPage(page); err != nil {
		return 0, err
	}
	return s.store.RotateOne(page), nil
}

// RotateAll turns every page a further 90 degrees clockwise.
func (s *Session) RotateAll() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.discarded {
		return ErrSessionDiscarded
	}
	s.store.RotateAll(s.numPages)
	return nil
}

// Rotation returns the projected rotation of a page.
func (s *Session) Rotation(page int) Rotation {
	return ProjectRotation(s.store, page)
}

// Views returns the render input for every page.
func (s *Session) Views() []PageView {
	rotations := ProjectRotations(s.store, s.numPages)
	views := make([]PageView, s.numPages)
	for i := range views {
		views[i] = PageView{PageGeometry: s.pages[i], Rotation: rotations[i]}
	}
	return views
}

// Info summarises the session.
func (s *Session) Info() DocumentInfo {
	return DocumentInfo{
		SessionID: s.id,
		Name:      s.name,
		Path:      s.path,
		Size:      len(s.raw),
		NumPages:  s.numPages,
		Pages:     s.Views(),
	}
}

// Discard invalidates the session and releases its rotation state.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.discarded {
		return
	}
	s.discarded = true
	s.store.Clear()
}

// Discarded reports whether Discard has been called.
func (s *Session) Discarded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.discarded
}

// BeginExport claims the session's export slot.
// It returns false if an export is already running.
func (s *Session) BeginExport() bool {
	return s.exporting.CompareAndSwap(false, true)
}

// EndExport releases the export slot.
func (s *Session) EndExport() {
	s.exporting.Store(false)
}

// Exporting reports whether an export is running.
func (s *Session) Exporting() bool {
	return s.exporting.Load()
}

func (s *Session) checkPage(page int) error {
	if page < 1 || page > s.numPages {
		return fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, s.numPages)
	}
	return nil
}
