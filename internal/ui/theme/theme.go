package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette. Tile colors follow the usual word-game convention so
// feedback reads the same as on paper.
var (
	Primary = lipgloss.Color("#8B5CF6") // Vivid Purple
	Accent  = lipgloss.Color("#F97316") // Orange
	Success = lipgloss.Color("#22C55E") // Green
	Warning = lipgloss.Color("#EAB308") // Yellow
	Error   = lipgloss.Color("#F43F5E") // Rose
	Text    = lipgloss.Color("#F8FAFC") // White
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Muted   = lipgloss.Color("#475569") // Dark Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Tiles
var (
	tileBase = lipgloss.NewStyle().
			Bold(true).
			Foreground(Text).
			Padding(0, 1)

	TileCorrect = tileBase.Background(Success)
	TilePresent = tileBase.Background(Warning)
	TileAbsent  = tileBase.Background(Muted)
	TileEmpty   = tileBase.Foreground(TextDim).Background(Border)
)

// Bars
var (
	BarFilled = lipgloss.NewStyle().
			Background(Primary)

	BarEmpty = lipgloss.NewStyle().
			Background(Border)

	BarGain = lipgloss.NewStyle().
		Background(Success)

	BarLoss = lipgloss.NewStyle().
		Background(Error)
)
