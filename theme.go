package main

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette, true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorCrust    lipgloss.Color = "#11111b"
)

// ---------------------------------------------------------------------------
// Semantic color aliases
// ---------------------------------------------------------------------------

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorError   = colorRed
	colorWarning = colorYellow
)

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText).Background(colorSurface1)
	sortedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Background(colorSurface1)
	frozenStyle = lipgloss.NewStyle().Foreground(colorOverlay1).Background(colorSurface0)

	cellStyle     = lipgloss.NewStyle().Foreground(colorText)
	numCellStyle  = lipgloss.NewStyle().Foreground(colorTeal)
	emptyStyle    = lipgloss.NewStyle().Foreground(colorSurface2)
	focusedStyle  = lipgloss.NewStyle().Foreground(colorCrust).Background(colorFocus)
	selectedStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0)
	selMarkStyle  = lipgloss.NewStyle().Foreground(colorMauve)

	statusBarStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0).Padding(0, 1)
	errorBarStyle  = lipgloss.NewStyle().Foreground(colorCrust).Background(colorError).Padding(0, 1)
	footerStyle    = lipgloss.NewStyle().Foreground(colorSubtext0).Background(colorSurface1).Padding(0, 1)
	pageInfoStyle  = lipgloss.NewStyle().Foreground(colorOverlay1)
	savingStyle    = lipgloss.NewStyle().Foreground(colorWarning)

	modalStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1)
	modalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	previewOKStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	previewBadStyle = lipgloss.NewStyle().Foreground(colorError)
)
