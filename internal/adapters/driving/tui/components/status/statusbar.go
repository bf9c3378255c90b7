// Package status provides the playground status bar.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quill/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quill/internal/adapters/driving/tui/styles"
)

// State represents the playground state for display.
type State string

const (
	StateReady      State = "ready"
	StateCompleting State = "completing"
	StateResults    State = "results"
	StateError      State = "error"
)

// Bar displays the match string, cycle progress and keybinding hints.
type Bar struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	state      State
	message    string
	userMatch  string
	generation uint64
	count      int
	width      int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	match := s.styles.Normal.Render(fmt.Sprintf("match %q", s.userMatch))

	switch s.state {
	case StateCompleting:
		return match + s.styles.Muted.Render(fmt.Sprintf("  cycle #%d...", s.generation))
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateResults:
		return match + s.styles.Muted.Render(fmt.Sprintf("  cycle #%d: %d", s.generation, s.count))
	case StateReady:
	}
	if s.message != "" {
		return match + s.styles.Muted.Render("  "+s.message)
	}
	return match
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateResults && s.count > 0 {
		bindings = s.keymap.PopupHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetUserMatch records the match string to display.
func (s *Bar) SetUserMatch(match string) {
	s.userMatch = match
}

// SetCycle records the generation of the latest cycle and its result count.
func (s *Bar) SetCycle(generation uint64, count int) {
	s.generation = generation
	s.count = count
}

// Count returns the result count of the latest cycle.
func (s *Bar) Count() int {
	return s.count
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
