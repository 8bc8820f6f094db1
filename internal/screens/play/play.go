// Package play is the interactive guess loop for one round.
package play

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordquest/internal/constraint"
	"github.com/abhisek/wordquest/internal/feedback"
	"github.com/abhisek/wordquest/internal/game"
	"github.com/abhisek/wordquest/internal/ui/components"
	"github.com/abhisek/wordquest/internal/ui/theme"
)

// Model reads guesses for a round until it finishes or the player gives
// up. It quits the program when the round is over.
type Model struct {
	ctx   context.Context
	round *game.Round
	input textinput.Model

	notice string
	hints  []string
	err    error
}

// New returns a model for r with the guess input focused.
func New(ctx context.Context, r *game.Round) Model {
	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("%d letters", r.Length())
	ti.CharLimit = 32
	ti.Focus()
	return Model{ctx: ctx, round: r, input: ti}
}

// Err returns the error that stopped the loop, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return m.input.Focus()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.round.Done() {
		return m, tea.Quit
	}

	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "ctrl+c", "ctrl+d", "esc":
			return m.abandon()
		// Piped input arrives as LF, which decodes as ctrl+j.
		case "enter", "ctrl+j":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	m.notice, m.hints = "", nil

	switch strings.ToLower(text) {
	case "":
		return m, nil
	case "?":
		m.hints = known(m.round)
		return m, nil
	case "quit", "q", "!":
		return m.abandon()
	}

	turn, err := m.round.Submit(m.ctx, text)
	var lm *feedback.LengthMismatchError
	switch {
	case errors.As(err, &lm):
		m.notice = fmt.Sprintf("Use %d letters.", lm.Target)
		return m, nil
	case errors.Is(err, game.ErrInvalidGuess):
		m.notice = "Letters only, please."
		return m, nil
	case err != nil:
		m.err = err
		return m, tea.Quit
	}

	if turn.Won || turn.Lost {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) abandon() (tea.Model, tea.Cmd) {
	if _, err := m.round.Abandon(m.ctx); err != nil && !errors.Is(err, game.ErrRoundOver) {
		m.err = err
	}
	return m, tea.Quit
}

func (m Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m Model) render() string {
	var b strings.Builder

	for _, g := range m.round.History() {
		b.WriteString(components.Row(g.Letters, g.Feedback))
		b.WriteByte('\n')
	}
	if m.round.Done() {
		return b.String()
	}

	fmt.Fprintf(&b, "Guess %d/%d: %s\n", len(m.round.History())+1, m.round.MaxGuesses(), m.input.View())
	if m.notice != "" {
		b.WriteString(theme.Bad.Render(m.notice))
		b.WriteByte('\n')
	}
	for _, line := range m.hints {
		b.WriteString(theme.Hint.Render(line))
		b.WriteByte('\n')
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Muted).Render("? hints • quit gives up • esc exits"))
	return b.String()
}

// known lists what the feedback so far rules in and out.
func known(r *game.Round) []string {
	c := constraint.Build(r.History())
	if c.Empty() {
		return []string{"Nothing known yet."}
	}
	lines := c.Describe()
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return lines
}
