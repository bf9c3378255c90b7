// Package input provides the editing line of the playground.
package input

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quill/internal/adapters/driving/tui/styles"
)

// LineInput wraps a bubbles textinput and stands in for an editor line.
type LineInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewLineInput creates a focused line input.
func NewLineInput(s *styles.Styles) *LineInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "start typing..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	return &LineInput{
		textinput: ti,
		styles:    s,
		width:     60,
	}
}

// Init initialises the input.
func (l *LineInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (l *LineInput) Update(msg tea.Msg) (*LineInput, tea.Cmd) {
	var cmd tea.Cmd
	l.textinput, cmd = l.textinput.Update(msg)
	return l, cmd
}

// View renders the input.
func (l *LineInput) View() string {
	label := l.styles.Title.Render("> ")
	input := l.styles.InputField.Render(l.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, input)
}

// Value returns the current line.
func (l *LineInput) Value() string {
	return l.textinput.Value()
}

// SetValue replaces the line and moves the cursor to its end.
func (l *LineInput) SetValue(value string) {
	l.textinput.SetValue(value)
	l.textinput.CursorEnd()
}

// Position returns the cursor position in code points.
func (l *LineInput) Position() int {
	return l.textinput.Position()
}

// SetPosition moves the cursor to a code point position.
func (l *LineInput) SetPosition(pos int) {
	l.textinput.SetCursor(pos)
}

// SetBlink switches cursor blinking on or off.
func (l *LineInput) SetBlink(on bool) tea.Cmd {
	mode := cursor.CursorStatic
	if on {
		mode = cursor.CursorBlink
	}
	return l.textinput.Cursor.SetMode(mode)
}

// Focused returns whether the input is focused.
func (l *LineInput) Focused() bool {
	return l.textinput.Focused()
}

// SetWidth sets the width of the input.
func (l *LineInput) SetWidth(width int) {
	l.width = width
	// Account for prompt and border
	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	l.textinput.Width = inputWidth
}

// Width returns the current width.
func (l *LineInput) Width() int {
	return l.width
}

// Reset clears the input.
func (l *LineInput) Reset() {
	l.textinput.Reset()
}
