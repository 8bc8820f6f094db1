package components

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordquest/internal/ui/theme"
)

// ProgressBar renders a ratio in [0,1] as a horizontal bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(p.Label + "  ")
	}

	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}
	barWidth := max(p.Width-lipgloss.Width(b.String())-percentWidth, 4)

	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)
	b.WriteString(theme.BarFilled.Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.BarEmpty.Render(strings.Repeat(" ", barWidth-filled)))

	if p.ShowPercent {
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %d%%", int(math.Round(p.Percent*100)))))
	}
	return b.String()
}

// DeltaBar renders a signed value in [-limit, limit] as a bar growing left
// (loss) or right (gain) from a center mark. width is the width of each
// half.
func DeltaBar(v, limit float64, width int) string {
	if width < 1 {
		width = 1
	}
	n := 0
	if limit > 0 {
		n = int(math.Round(math.Min(math.Abs(v)/limit, 1) * float64(width)))
	}
	left := strings.Repeat(" ", width)
	right := strings.Repeat(" ", width)
	switch {
	case v < 0 && n > 0:
		left = strings.Repeat(" ", width-n) + theme.BarLoss.Render(strings.Repeat("-", n))
	case v > 0 && n > 0:
		right = theme.BarGain.Render(strings.Repeat("+", n)) + strings.Repeat(" ", width-n)
	}
	return left + "|" + right
}
