package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/styles"
)

func TestNewPathInput(t *testing.T) {
	input := NewPathInput(styles.DefaultStyles())

	require.NotNil(t, input)
	assert.Equal(t, "", input.Value())
	assert.True(t, input.Focused())
}

func TestNewPathInput_NilStyles(t *testing.T) {
	input := NewPathInput(nil)

	require.NotNil(t, input)
	assert.NotNil(t, input.styles)
}

func TestPathInput_Init(t *testing.T) {
	input := NewPathInput(nil)

	assert.NotNil(t, input.Init())
}

func TestPathInput_Update(t *testing.T) {
	input := NewPathInput(nil)

	for _, r := range "a.pdf" {
		input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "a.pdf", input.Value())
}

func TestPathInput_Paste(t *testing.T) {
	input := NewPathInput(nil)

	input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/tmp/scan.pdf"), Paste: true})

	assert.Equal(t, "/tmp/scan.pdf", input.Value())
}

func TestPathInput_ValueTrimsWhitespace(t *testing.T) {
	input := NewPathInput(nil)

	input.SetValue("  /tmp/scan.pdf \n")

	assert.Equal(t, "/tmp/scan.pdf", input.Value())
}

func TestPathInput_View(t *testing.T) {
	input := NewPathInput(nil)

	assert.Contains(t, input.View(), "File")
}

func TestPathInput_FocusBlur(t *testing.T) {
	input := NewPathInput(nil)

	input.Blur()
	assert.False(t, input.Focused())

	input.Focus()
	assert.True(t, input.Focused())
}

func TestPathInput_SetWidth(t *testing.T) {
	tests := []struct {
		width         int
		expectedInput int
	}{
		{100, 88},
		{40, 28},
		{20, 20},
	}

	for _, tt := range tests {
		input := NewPathInput(nil)
		input.SetWidth(tt.width)

		assert.Equal(t, tt.width, input.Width())
		assert.Equal(t, tt.expectedInput, input.textinput.Width)
	}
}

func TestPathInput_Reset(t *testing.T) {
	input := NewPathInput(nil)
	input.SetValue("/tmp/scan.pdf")

	input.Reset()

	assert.Equal(t, "", input.Value())
}
