package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driving"
)

// fakeSession implements driving.SessionService on top of a real
// domain.Session so rotations behave as in production.
type fakeSession struct {
	session  *domain.Session
	saveFunc func(ctx context.Context, dir string) (*driving.SaveResult, error)
	saves    int
}

func newFakeSession(id string, numPages int) *fakeSession {
	f := &fakeSession{}
	f.load(id, numPages)
	return f
}

func (f *fakeSession) load(id string, numPages int) {
	pages := make([]domain.PageGeometry, numPages)
	for i := range pages {
		pages[i] = domain.PageGeometry{Index: i + 1, Width: 612, Height: 792}
	}
	file := domain.SourceFile{Name: "report.pdf", Path: "/docs/report.pdf", MediaType: domain.PDFMediaType}
	f.session = domain.NewSession(id, file, pages)
}

func (f *fakeSession) info() *domain.DocumentInfo {
	info := f.session.Info()
	return &info
}

func (f *fakeSession) Configure(_ domain.ExportSettings) {}

func (f *fakeSession) Open(_ context.Context, _ string) (*domain.DocumentInfo, error) {
	return f.info(), nil
}

func (f *fakeSession) Accept(_ context.Context, _ domain.SourceFile) (*domain.DocumentInfo, error) {
	return f.info(), nil
}

func (f *fakeSession) Reload(_ context.Context) (*domain.DocumentInfo, error) {
	return f.info(), nil
}

func (f *fakeSession) Remove() {
	if f.session != nil {
		f.session.Discard()
	}
	f.session = nil
}

func (f *fakeSession) Loaded() bool {
	return f.session != nil
}

func (f *fakeSession) SessionID() string {
	if f.session == nil {
		return ""
	}
	return f.session.ID()
}

func (f *fakeSession) Info() (*domain.DocumentInfo, error) {
	if f.session == nil {
		return nil, domain.ErrNoSession
	}
	return f.info(), nil
}

func (f *fakeSession) RotatePage(page int) (domain.Rotation, error) {
	if f.session == nil {
		return 0, domain.ErrNoSession
	}
	return f.session.RotatePage(page)
}

func (f *fakeSession) RotateAll() error {
	if f.session == nil {
		return domain.ErrNoSession
	}
	return f.session.RotateAll()
}

func (f *fakeSession) Rotation(page int) domain.Rotation {
	if f.session == nil {
		return 0
	}
	return f.session.Rotation(page)
}

func (f *fakeSession) Pages() []domain.PageView {
	if f.session == nil {
		return nil
	}
	return f.session.Views()
}

func (f *fakeSession) Exporting() bool {
	return f.session != nil && f.session.Exporting()
}

func (f *fakeSession) Export(_ context.Context) (*domain.ExportResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeSession) SaveSession(ctx context.Context, sessionID, dir string) (*driving.SaveResult, error) {
	if sessionID != f.SessionID() {
		return nil, domain.ErrSessionDiscarded
	}
	return f.Save(ctx, dir)
}

func (f *fakeSession) Save(ctx context.Context, dir string) (*driving.SaveResult, error) {
	f.saves++
	if f.saveFunc != nil {
		return f.saveFunc(ctx, dir)
	}
	return &driving.SaveResult{
		Path:   "/docs/rotated-report.pdf",
		Result: &domain.ExportResult{SessionID: f.SessionID(), FileName: "rotated-report.pdf"},
	}, nil
}

func (f *fakeSession) WriteTo(_ context.Context, _ io.Writer) (*domain.ExportResult, error) {
	return nil, errors.New("not used")
}

// textRenderer draws a page as a one-line label.
type textRenderer struct{}

func (textRenderer) Render(page domain.PageGeometry, _ float64, rotation domain.Rotation) string {
	return fmt.Sprintf("[p%d %d]", page.Index, rotation.Degrees())
}

func newLoadedView(t *testing.T, numPages int) (*View, *fakeSession) {
	t.Helper()
	session := newFakeSession("s1", numPages)
	v := NewView(nil, nil, session, textRenderer{})
	v.SetDimensions(120, 40)
	v.SetDocument(session.info())
	return v, session
}

func press(v *View, keys string) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range keys {
		_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return cmd
}

// run executes cmd and any batched commands, returning every message.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findExport(t *testing.T, msgs []tea.Msg) messages.ExportCompleted {
	t.Helper()
	for _, m := range msgs {
		if done, ok := m.(messages.ExportCompleted); ok {
			return done
		}
	}
	require.Fail(t, "no ExportCompleted message")
	return messages.ExportCompleted{}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, newFakeSession("s1", 1), textRenderer{})

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.NotNil(t, v.keymap)
	assert.Equal(t, domain.DefaultScale, v.Scale())
	assert.Nil(t, v.Init())
}

func TestView_SetDocument(t *testing.T) {
	v, _ := newLoadedView(t, 3)

	assert.Equal(t, "s1", v.SessionID())
	assert.Equal(t, 1, v.SelectedPage())

	view := v.View()
	assert.Contains(t, view, "report.pdf")
	assert.Contains(t, view, "page 1 of 3")
	assert.Contains(t, view, "[p3 0]")
}

func TestView_RotateSelectedPage(t *testing.T) {
	v, session := newLoadedView(t, 3)

	press(v, "l")
	press(v, "r")

	assert.Equal(t, domain.Rotation(0), session.Rotation(1))
	assert.Equal(t, domain.Rotation(90), session.Rotation(2))
	assert.Contains(t, v.View(), "[p2 90]")
}

func TestView_RotateWithSpace(t *testing.T) {
	v, session := newLoadedView(t, 1)

	v.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	assert.Equal(t, domain.Rotation(90), session.Rotation(1))
}

func TestView_RotateAllKeepsOffsets(t *testing.T) {
	v, session := newLoadedView(t, 3)

	press(v, "lr")
	press(v, "a")

	assert.Equal(t, domain.Rotation(90), session.Rotation(1))
	assert.Equal(t, domain.Rotation(180), session.Rotation(2))
	assert.Equal(t, domain.Rotation(90), session.Rotation(3))
	assert.Contains(t, v.View(), "[p2 180]")
}

func TestView_FourTurnsAreIdentity(t *testing.T) {
	v, session := newLoadedView(t, 1)

	press(v, "rrrr")

	assert.Equal(t, domain.Rotation(0), session.Rotation(1))
}

func TestView_RotateWithoutSession(t *testing.T) {
	v, session := newLoadedView(t, 1)
	session.Remove()

	cmd := press(v, "r")

	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, domain.ErrNoSession)
}

func TestView_Zoom(t *testing.T) {
	v, _ := newLoadedView(t, 1)

	press(v, "+")
	assert.InDelta(t, 1.2, v.Scale(), 1e-9)

	press(v, "++++++++")
	assert.Equal(t, domain.MaxScale, v.Scale())

	press(v, "------------")
	assert.Equal(t, domain.MinScale, v.Scale())
}

func TestView_SetZoom(t *testing.T) {
	v, _ := newLoadedView(t, 1)

	v.SetZoom(5, 0)
	assert.Equal(t, domain.MaxScale, v.Scale())

	press(v, "-")
	assert.InDelta(t, domain.MaxScale-domain.DefaultScaleStep, v.Scale(), 1e-9)

	v.SetZoom(1, 0.5)
	press(v, "+")
	assert.InDelta(t, 1.5, v.Scale(), 1e-9)
}

func TestView_Export(t *testing.T) {
	v, session := newLoadedView(t, 2)
	press(v, "r")

	cmd := press(v, "d")
	require.NotNil(t, cmd)
	assert.True(t, v.Exporting())
	assert.Contains(t, v.View(), "Exporting")

	done := findExport(t, run(cmd))
	assert.Equal(t, "s1", done.SessionID)
	assert.Equal(t, 1, session.saves)

	_, next := v.Update(done)
	assert.False(t, v.Exporting())
	require.NotNil(t, next)
	assert.Equal(t, messages.Notice{Text: "Saved /docs/rotated-report.pdf"}, next())
}

func TestView_ExportTriggerDisabledWhileExporting(t *testing.T) {
	v, _ := newLoadedView(t, 1)

	first := press(v, "d")
	second := press(v, "d")

	assert.NotNil(t, first)
	assert.Nil(t, second)
}

func TestView_ExportFailure(t *testing.T) {
	v, session := newLoadedView(t, 1)
	session.saveFunc = func(_ context.Context, _ string) (*driving.SaveResult, error) {
		return nil, fmt.Errorf("%w: xref broken", domain.ErrEncodeFailure)
	}

	done := findExport(t, run(press(v, "d")))
	_, next := v.Update(done)

	assert.False(t, v.Exporting())
	require.NotNil(t, next)
	msg, ok := next().(messages.ErrorOccurred)
	require.True(t, ok)
	assert.Equal(t, domain.FailureEncode, domain.ClassifyFailure(msg.Err))
}

func TestView_StaleExportResultIsDropped(t *testing.T) {
	v, session := newLoadedView(t, 1)
	cmd := press(v, "d")

	// A new file is loaded while the export runs.
	session.load("s2", 4)
	v.SetDocument(session.info())

	done := findExport(t, run(cmd))
	assert.ErrorIs(t, done.Err, domain.ErrSessionDiscarded)
	assert.Zero(t, session.saves, "the replacing session is not written")
	_, next := v.Update(done)

	assert.Nil(t, next)
	assert.Equal(t, "s2", v.SessionID())
	assert.False(t, v.Exporting())
}

func TestView_ExportWithoutSession(t *testing.T) {
	v, session := newLoadedView(t, 1)
	session.Remove()

	cmd := press(v, "d")

	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, domain.ErrNoSession)
	assert.False(t, v.Exporting())
}

func TestView_Remove(t *testing.T) {
	v, session := newLoadedView(t, 2)

	cmd := press(v, "x")

	require.NotNil(t, cmd)
	assert.Equal(t, messages.DocumentRemoved{}, cmd())
	assert.False(t, session.Loaded())
	assert.Equal(t, "", v.SessionID())
	assert.Equal(t, 0, v.SelectedPage())
}

func TestView_PasteRequestsOpen(t *testing.T) {
	v, _ := newLoadedView(t, 1)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" /tmp/other.pdf\n"), Paste: true})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.OpenRequested{Path: "/tmp/other.pdf"}, cmd())
}

func TestView_NavigationKeys(t *testing.T) {
	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"o", messages.ViewChanged{View: messages.ViewOpen}},
		{"s", messages.ViewChanged{View: messages.ViewSettings}},
		{"?", messages.ViewChanged{View: messages.ViewHelp}},
		{"q", tea.QuitMsg{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, _ := newLoadedView(t, 1)

			cmd := press(v, tt.key)

			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
		})
	}
}

func TestView_NewSessionResetsSelection(t *testing.T) {
	v, session := newLoadedView(t, 3)
	press(v, "ll")
	assert.Equal(t, 3, v.SelectedPage())

	// Same session: selection kept.
	v.SetDocument(session.info())
	assert.Equal(t, 3, v.SelectedPage())

	session.load("s2", 3)
	v.SetDocument(session.info())
	assert.Equal(t, 1, v.SelectedPage())
}
