package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordquest/internal/feedback"
	"github.com/abhisek/wordquest/internal/history"
	"github.com/abhisek/wordquest/internal/ui/theme"
)

func tileStyle(s feedback.Status) lipgloss.Style {
	switch s {
	case feedback.Correct:
		return theme.TileCorrect
	case feedback.Present:
		return theme.TilePresent
	case feedback.Absent:
		return theme.TileAbsent
	default:
		return theme.TileEmpty
	}
}

// Row renders one scored guess as colored letter tiles. Letters without
// a matching status render as empty tiles.
func Row(letters string, row []feedback.Status) string {
	tiles := make([]string, 0, len(letters))
	for i := 0; i < len(letters); i++ {
		style := theme.TileEmpty
		if i < len(row) {
			style = tileStyle(row[i])
		}
		tiles = append(tiles, style.Render(strings.ToUpper(string(letters[i]))))
	}
	return strings.Join(tiles, " ")
}

// Board renders the guesses so far followed by blank rows up to maxRows.
func Board(guesses []history.Guess, length, maxRows int) string {
	lines := make([]string, 0, max(maxRows, len(guesses)))
	for _, g := range guesses {
		lines = append(lines, Row(g.Letters, g.Feedback))
	}
	blank := strings.Repeat(".", length)
	for len(lines) < maxRows {
		lines = append(lines, Row(blank, nil))
	}
	return strings.Join(lines, "\n")
}

const keyboardRows = "qwertyuiop\nasdfghjkl\nzxcvbnm"

// LetterStates returns the best status seen for each guessed letter:
// correct beats present beats absent.
func LetterStates(guesses []history.Guess) map[byte]feedback.Status {
	states := make(map[byte]feedback.Status)
	for _, g := range guesses {
		if !g.WellFormed() {
			continue
		}
		for i := 0; i < len(g.Letters); i++ {
			c, s := g.Letters[i], g.Feedback[i]
			if prev, ok := states[c]; !ok || s > prev {
				states[c] = s
			}
		}
	}
	return states
}

// Keyboard renders a QWERTY layout with each letter colored by its best
// known status. Unused letters are dim.
func Keyboard(guesses []history.Guess) string {
	states := LetterStates(guesses)
	var lines []string
	for i, row := range strings.Split(keyboardRows, "\n") {
		keys := make([]string, 0, len(row))
		for j := 0; j < len(row); j++ {
			c := row[j]
			label := strings.ToUpper(string(c))
			if s, ok := states[c]; ok {
				keys = append(keys, tileStyle(s).Padding(0).Render(label))
			} else {
				keys = append(keys, theme.Subtitle.Render(label))
			}
		}
		lines = append(lines, strings.Repeat(" ", i)+strings.Join(keys, " "))
	}
	return strings.Join(lines, "\n")
}
