package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driving"
)

// mockSessionService records the calls commands make against it.
type mockSessionService struct {
	info      *domain.DocumentInfo
	openErr   error
	rotateErr error
	saveErr   error
	output    []byte

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

func (m *mockSessionService) Remove() { m.removed = true }

func (m *mockSessionService) Loaded() bool { return m.info != nil && !m.removed }

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
	if m.info != nil && (page < 1 || page > m.info.NumPages) {
		return 0, fmt.Errorf("%w: %d", domain.ErrPageOutOfRange, page)
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

func (m *mockSessionService) Pages() []domain.PageView { return nil }

func (m *mockSessionService) Exporting() bool { return false }

func (m *mockSessionService) rotations() []domain.Rotation {
	if m.info == nil {
		return nil
	}
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
		SessionID: m.SessionID(),
		FileName:  domain.OutputName(domain.DefaultOutputPrefix, m.info.Name),
		Data:      m.output,
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
		dir = filepath.Dir(m.info.Path)
	}
	return &driving.SaveResult{Path: filepath.Join(dir, result.FileName), Result: result}, nil
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
	if _, err := w.Write(result.Data); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrWriteFailure, err)
	}
	return result, nil
}

func threePageInfo() *domain.DocumentInfo {
	info := &domain.DocumentInfo{
		SessionID: "s-1",
		Name:      "scan.pdf",
		Path:      "/docs/scan.pdf",
		Size:      2048,
		NumPages:  3,
	}
	for i := 1; i <= 3; i++ {
		info.Pages = append(info.Pages, domain.PageView{PageGeometry: domain.PageGeometry{Index: i, Width: 612, Height: 792}})
	}
	info.Pages[1].SourceRotation = 90
	return info
}

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings domain.AppSettings
	setErr   error
	lastKey  string
	lastVal  string
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	m.lastKey, m.lastVal = key, value
	return m.setErr
}

func (m *mockSettingsService) Keys() []string {
	return []string{"export.dir", "export.prefix"}
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) Path() string { return "/home/me/.pagespin/config.toml" }

// useServices swaps the package services for the duration of a test.
func useServices(t *testing.T, session driving.SessionService, settings driving.SettingsService) {
	t.Helper()
	prevSession, prevSettings, prevFactory := sessionService, settingsService, newSession
	SetServices(session, settings)
	t.Cleanup(func() {
		sessionService, settingsService, newSession = prevSession, prevSettings, prevFactory
	})
}

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// stubTerminal makes isTerminal report tty for every descriptor.
func stubTerminal(t *testing.T, tty bool) {
	t.Helper()
	prev := isTerminal
	isTerminal = func(int) bool { return tty }
	t.Cleanup(func() { isTerminal = prev })
}

// stubProgram replaces the bubbletea runner and records the model.
func stubProgram(t *testing.T, err error) *tea.Model {
	t.Helper()
	var got tea.Model
	prev := runProgram
	runProgram = func(model tea.Model) error {
		got = model
		return err
	}
	t.Cleanup(func() { runProgram = prev })
	return &got
}
