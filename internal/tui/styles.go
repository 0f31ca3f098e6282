package tui

import (
	"github.com/charmbracelet/lipgloss"

	"lotes-map/internal/listview"
)

var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")

	appStyle    = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	activeBox   = boxStyle.BorderForeground(accentFg)
	titleStyle  = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(baseDimFg)
	cursorStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	toneStyles = map[listview.Tone]lipgloss.Style{
		listview.ToneGreen: lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a")),
		listview.ToneAmber: lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
		listview.ToneRed:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
	}
)
