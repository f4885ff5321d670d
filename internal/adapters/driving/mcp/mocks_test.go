package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driving"
)

// mockSessionService is a mock implementation of driving.SessionService
// that records the rotations it receives.
type mockSessionService struct {
	info      *domain.DocumentInfo
	openErr   error
	rotateErr error
	saveErr   error

	openedPath string
	allTurns   int
	pages      []int
	saveDir    string
	removed    bool
}

func (m *mockSessionService) Open(_ context.Context, path string) (*domain.DocumentInfo, error) {
	m.openedPath = path
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.info, nil
}

func (m *mockSessionService) Configure(_ domain.ExportSettings) {}

func (m *mockSessionService) Accept(_ context.Context, _ domain.SourceFile) (*domain.DocumentInfo, error) {
	return m.info, m.openErr
}

func (m *mockSessionService) Reload(_ context.Context) (*domain.DocumentInfo, error) {
	return m.info, m.openErr
}

func (m *mockSessionService) Remove() {
	m.removed = true
}

func (m *mockSessionService) Loaded() bool {
	return m.info != nil && !m.removed
}

func (m *mockSessionService) SessionID() string {
	if m.info == nil {
		return ""
	}
	return m.info.SessionID
}

func (m *mockSessionService) Info() (*domain.DocumentInfo, error) {
	if m.info == nil {
		return nil, domain.ErrNoSession
	}
	return m.info, nil
}

func (m *mockSessionService) RotatePage(page int) (domain.Rotation, error) {
	if m.rotateErr != nil {
		return 0, m.rotateErr
	}
	m.pages = append(m.pages, page)
	return m.Rotation(page), nil
}

func (m *mockSessionService) RotateAll() error {
	if m.rotateErr != nil {
		return m.rotateErr
	}
	m.allTurns++
	return nil
}

// Rotation replays the recorded turns for page.
func (m *mockSessionService) Rotation(page int) domain.Rotation {
	r := domain.Rotation(0)
	for i := 0; i < m.allTurns; i++ {
		r = r.Add(domain.QuarterTurn)
	}
	for _, p := range m.pages {
		if p == page {
			r = r.Add(domain.QuarterTurn)
		}
	}
	return r
}

func (m *mockSessionService) Pages() []domain.PageView {
	if m.info == nil {
		return nil
	}
	return m.info.Pages
}

func (m *mockSessionService) Exporting() bool {
	return false
}

func (m *mockSessionService) rotations() []domain.Rotation {
	out := make([]domain.Rotation, m.info.NumPages)
	for i := range out {
		out[i] = m.Rotation(i + 1)
	}
	return out
}

func (m *mockSessionService) Export(_ context.Context) (*domain.ExportResult, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return &domain.ExportResult{
		SessionID: m.info.SessionID,
		FileName:  domain.OutputName(domain.DefaultOutputPrefix, m.info.Name),
		Data:      []byte("%PDF"),
		Rotations: m.rotations(),
	}, nil
}

func (m *mockSessionService) Save(ctx context.Context, dir string) (*driving.SaveResult, error) {
	m.saveDir = dir
	result, err := m.Export(ctx)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = "/docs"
	}
	return &driving.SaveResult{Path: dir + "/" + result.FileName, Result: result}, nil
}

func (m *mockSessionService) SaveSession(ctx context.Context, sessionID, dir string) (*driving.SaveResult, error) {
	if sessionID != m.SessionID() {
		return nil, domain.ErrSessionDiscarded
	}
	return m.Save(ctx, dir)
}

func (m *mockSessionService) WriteTo(ctx context.Context, w io.Writer) (*domain.ExportResult, error) {
	result, err := m.Export(ctx)
	if err != nil {
		return nil, err
	}
	_, err = w.Write(result.Data)
	return result, err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error {
	return m.err
}

func (m *mockSettingsService) Set(_, _ string) error {
	return m.err
}

func (m *mockSettingsService) Keys() []string {
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) Path() string {
	return ":memory:"
}

// threePages is a loaded document with pages 0/90/0 in the source.
func threePages() *domain.DocumentInfo {
	geometry := func(i int, src domain.Rotation) domain.PageView {
		return domain.PageView{PageGeometry: domain.PageGeometry{
			Index: i, Width: 612, Height: 792, SourceRotation: src,
		}}
	}
	return &domain.DocumentInfo{
		SessionID: "session-1",
		Name:      "report.pdf",
		Path:      "/docs/report.pdf",
		Size:      2048,
		NumPages:  3,
		Pages:     []domain.PageView{geometry(1, 0), geometry(2, 90), geometry(3, 0)},
	}
}

// factoryFor returns a session factory that hands out fresh mocks and
// keeps them for inspection.
func factoryFor(template mockSessionService, created *[]*mockSessionService) driving.SessionFactory {
	return func() driving.SessionService {
		m := template
		m.pages = nil
		*created = append(*created, &m)
		return &m
	}
}
