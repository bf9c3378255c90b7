package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quill/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/quill/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/quill/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/quill/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quill/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quill/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/keyword"
)

// App is the playground following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports   *Ports
	ctx     context.Context
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	matcher *keyword.Matcher

	input  *input.LineInput
	popup  *list.CompletionList
	status *status.Bar

	// lines is the playground buffer, one entry per committed line.
	lines []string

	// latest is the generation of the most recent cycle. Results from any
	// other generation are ignored.
	latest uint64

	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new playground with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	matcher := ports.Matcher
	if matcher == nil {
		matcher = keyword.Default()
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		keymap:  km,
		matcher: matcher,
		input:   input.NewLineInput(s),
		popup:   list.NewCompletionList(s),
		status:  status.NewBar(s, km),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// SetBlink switches cursor blinking on or off.
func (a *App) SetBlink(on bool) *App {
	a.input.SetBlink(on)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.input.Init(),
		tea.SetWindowTitle("quill playground"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case messages.CompletionsReady:
		if msg.Generation != a.latest {
			return a, nil
		}
		switch {
		case msg.Delivered():
			_, word := a.wordBeforeCursor()
			a.popup.SetItems(msg.Items, word)
			a.status.SetState(status.StateResults)
			a.status.SetCycle(msg.Generation, len(msg.Items))
		case msg.State == domain.CycleFailed:
			a.status.SetState(status.StateError)
			a.status.SetMessage("completion cycle failed")
		default:
			a.status.SetState(status.StateReady)
		}
		return a, nil

	case messages.LineCommitted:
		a.status.SetState(status.StateReady)
		a.status.SetMessage(fmt.Sprintf("line %d indexed, %d words", msg.Line, msg.Words))
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.status.SetState(status.StateError)
		a.status.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return tea.Quit

	case !a.popup.IsEmpty() && (keymap.Matches(key, a.keymap.Up) || keymap.Matches(key, a.keymap.Down)):
		a.popup.Update(msg)
		return nil

	case keymap.Matches(key, a.keymap.Accept):
		a.accept()
		return nil

	case keymap.Matches(key, a.keymap.Commit):
		return a.commit()

	case keymap.Matches(key, a.keymap.Clear):
		a.clearLine()
		return nil
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() == before {
		return cmd
	}

	if err := a.feed(msg); err != nil {
		return tea.Batch(cmd, errCmd(err))
	}
	return tea.Batch(cmd, a.trigger())
}

// feed mirrors an edit into the match string the way an editor would: typed
// characters are folded in one at a time, any other edit resynchronises the
// match string with the word before the cursor.
func (a *App) feed(msg tea.KeyMsg) error {
	completion := a.ports.Completion

	//nolint:exhaustive // every other key resynchronises
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		for _, r := range msg.Runes {
			if err := completion.TypeChar(string(r)); err != nil {
				return err
			}
		}
		return nil
	default:
		return a.resync()
	}
}

func (a *App) resync() error {
	a.ports.Completion.ClearUserMatch()
	_, word := a.wordBeforeCursor()
	for _, r := range word {
		if err := a.ports.Completion.TypeChar(string(r)); err != nil {
			return err
		}
	}
	return nil
}

// trigger starts a cycle for the word before the cursor and returns a
// command that waits for it to finish.
func (a *App) trigger() tea.Cmd {
	a.status.SetUserMatch(a.ports.Completion.UserMatch())

	if a.input.Value() == "" {
		a.popup.Clear()
		a.status.SetState(status.StateReady)
		return nil
	}

	_, word := a.wordBeforeCursor()
	req := domain.CompletionRequest{Word: word, Cwd: a.ports.Cwd, BufferID: PlaygroundBuffer}

	box := &delivery{}
	cycle, err := a.ports.Completion.Trigger(a.ctx, req, box.deliver)
	if err != nil {
		return errCmd(err)
	}
	if cycle == nil {
		// Debounced.
		return nil
	}

	a.latest = cycle.Generation()
	a.status.SetState(status.StateCompleting)
	a.status.SetCycle(a.latest, 0)

	ctx := a.ctx
	return func() tea.Msg {
		select {
		case <-cycle.Done():
		case <-ctx.Done():
			return nil
		}
		return messages.CompletionsReady{
			Generation: cycle.Generation(),
			State:      cycle.State(),
			Items:      box.items,
		}
	}
}

// delivery captures what a cycle hands to its deliver callback. items is
// written before the cycle's Done channel closes and read after.
type delivery struct {
	items []string
}

func (d *delivery) deliver(_ context.Context, entries []domain.Entry) error {
	d.items = domain.Texts(entries)
	return nil
}

// accept replaces the word before the cursor with the selected completion.
func (a *App) accept() {
	item := a.popup.SelectedItem()
	if item == "" {
		return
	}

	start, _ := a.wordBeforeCursor()
	runes := []rune(a.input.Value())
	pos := min(a.input.Position(), len(runes))

	line := string(runes[:start]) + item + string(runes[pos:])
	a.input.SetValue(line)
	a.input.SetPosition(start + len([]rune(item)))

	a.popup.Clear()
	a.status.SetState(status.StateReady)
	if err := a.resync(); err != nil {
		a.err = err
	}
	a.status.SetUserMatch(a.ports.Completion.UserMatch())
}

// commit appends the line to the playground buffer so the buffer source
// can offer its words.
func (a *App) commit() tea.Cmd {
	text := a.input.Value()
	if strings.TrimSpace(text) == "" {
		return nil
	}

	n := len(a.lines)
	a.lines = append(a.lines, text)
	a.ports.Completion.NotifyLinesChanged(a.ctx, PlaygroundBuffer, n, n, []string{text})

	a.clearLine()

	words := len(a.matcher.Words(text))
	return func() tea.Msg {
		return messages.LineCommitted{Line: n + 1, Text: text, Words: words}
	}
}

func (a *App) clearLine() {
	a.input.Reset()
	a.ports.Completion.ClearUserMatch()
	a.popup.Clear()
	a.status.SetUserMatch("")
	a.status.SetState(status.StateReady)
}

// wordBeforeCursor returns the code point index where the keyword ending at
// the cursor starts, and the keyword itself.
func (a *App) wordBeforeCursor() (start int, word string) {
	line := a.input.Value()
	runes := []rune(line)
	pos := min(a.input.Position(), len(runes))
	if pos <= 0 {
		return pos, ""
	}

	span := a.matcher.FindBoundary(line, pos-1)
	if span.Len() <= 0 || span.Start > pos-1 {
		return pos, ""
	}
	return span.Start, string(runes[span.Start:pos])
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return messages.ErrorOccurred{Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	header := a.styles.Title.Render("quill playground") + "  " +
		a.styles.Muted.Render("sources: "+strings.Join(a.ports.Completion.Sources(), ", "))

	start, _ := a.wordBeforeCursor()
	popup := lipgloss.NewStyle().MarginLeft(start + 4).Render(a.popup.View())

	buffer := a.styles.Muted.Render(fmt.Sprintf("%d lines in buffer %d", len(a.lines), PlaygroundBuffer))

	body := lipgloss.JoinVertical(lipgloss.Left, header, "", a.input.View(), popup)
	gap := a.height - lipgloss.Height(body) - 2
	if gap < 1 {
		gap = 1
	}

	return body + strings.Repeat("\n", gap) + buffer + "\n" + a.status.View()
}

// Run starts the playground.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// Lines returns the committed playground buffer.
func (a *App) Lines() []string {
	return a.lines
}

// Line returns the line being edited.
func (a *App) Line() string {
	return a.input.Value()
}

// Completions returns the items currently shown in the popup.
func (a *App) Completions() []string {
	return a.popup.Items()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.input.SetWidth(width)
	a.status.SetWidth(width)
	a.popup.SetDimensions(width/2, 10)
}
