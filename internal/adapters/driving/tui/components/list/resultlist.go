// Package list renders the completion popup.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quill/internal/adapters/driving/tui/styles"
)

// CompletionList displays delivered completions in a navigable popup.
type CompletionList struct {
	items    []string
	prefix   string
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewCompletionList creates an empty completion list.
func NewCompletionList(s *styles.Styles) *CompletionList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &CompletionList{
		styles: s,
		width:  40,
		height: 10,
	}
}

// Init initialises the list.
func (c *CompletionList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (c *CompletionList) Update(msg tea.Msg) (*CompletionList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp, tea.KeyCtrlP:
			c.MoveUp()
		case tea.KeyDown, tea.KeyCtrlN:
			c.MoveDown()
		default:
		}
	}
	return c, nil
}

// View renders the popup. An empty list renders nothing.
func (c *CompletionList) View() string {
	if len(c.items) == 0 {
		return ""
	}

	visible := c.height
	if visible < 1 {
		visible = 1
	}

	start := 0
	if c.selected >= visible {
		start = c.selected - visible + 1
	}
	end := start + visible
	if end > len(c.items) {
		end = len(c.items)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, c.renderItem(i))
	}

	return c.styles.Popup.Render(strings.Join(lines, "\n"))
}

// renderItem highlights the typed prefix of an item.
func (c *CompletionList) renderItem(index int) string {
	text := c.items[index]

	maxLen := c.width - 4
	if maxLen < 8 {
		maxLen = 8
	}
	if len([]rune(text)) > maxLen {
		text = string([]rune(text)[:maxLen-3]) + "..."
	}

	if index == c.selected {
		return c.styles.Selected.Render(fmt.Sprintf("%-*s", maxLen, text))
	}

	if c.prefix != "" && strings.HasPrefix(text, c.prefix) {
		return c.styles.Match.Render(c.prefix) + c.styles.Normal.Render(text[len(c.prefix):])
	}
	return c.styles.Normal.Render(text)
}

// SetItems replaces the list and resets the selection. prefix is the text
// already typed, used for highlighting.
func (c *CompletionList) SetItems(items []string, prefix string) {
	c.items = items
	c.prefix = prefix
	c.selected = 0
}

// Items returns the current items.
func (c *CompletionList) Items() []string {
	return c.items
}

// Clear empties the list.
func (c *CompletionList) Clear() {
	c.SetItems(nil, "")
}

// Selected returns the index of the selected item.
func (c *CompletionList) Selected() int {
	return c.selected
}

// SelectedItem returns the selected text, or "" if the list is empty.
func (c *CompletionList) SelectedItem() string {
	if c.selected < 0 || c.selected >= len(c.items) {
		return ""
	}
	return c.items[c.selected]
}

// MoveUp moves selection up, wrapping to the bottom.
func (c *CompletionList) MoveUp() {
	if len(c.items) == 0 {
		return
	}
	c.selected = (c.selected - 1 + len(c.items)) % len(c.items)
}

// MoveDown moves selection down, wrapping to the top.
func (c *CompletionList) MoveDown() {
	if len(c.items) == 0 {
		return
	}
	c.selected = (c.selected + 1) % len(c.items)
}

// SetDimensions sets the component dimensions.
func (c *CompletionList) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}

// Count returns the number of items.
func (c *CompletionList) Count() int {
	return len(c.items)
}

// IsEmpty returns whether the list is empty.
func (c *CompletionList) IsEmpty() bool {
	return len(c.items) == 0
}
