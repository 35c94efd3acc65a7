// Package tui provides the terminal console for ClipDeck using Charm libraries
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - Catppuccin Mocha inspired with some custom touches
var (
	// Primary colors
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"} // Violet
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#0EA5E9", Dark: "#38BDF8"} // Sky blue
	ColorAccent    = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"} // Amber

	// Semantic colors
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"} // Emerald
	ColorWarning = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"} // Amber
	ColorError   = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"} // Red
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#6366F1", Dark: "#818CF8"} // Indigo

	// Neutral colors
	ColorText   = lipgloss.AdaptiveColor{Light: "#1E293B", Dark: "#F1F5F9"}
	ColorSubtle = lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#94A3B8"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#64748B"}
	ColorBorder = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"}

	// Brand color for the header and spinner
	ColorBrand = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"} // Cyan
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			MarginBottom(1)

	BodyStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)

	// Badge styles
	BadgeStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Background(ColorPrimary).
			Foreground(lipgloss.Color("#FFFFFF"))

	BadgeSuccessStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(ColorSuccess).
				Foreground(lipgloss.Color("#FFFFFF"))

	BadgeWarningStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(ColorWarning).
				Foreground(lipgloss.Color("#000000"))

	BadgeErrorStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Background(ColorError).
			Foreground(lipgloss.Color("#FFFFFF"))
)

// Application header with ASCII art
var ClipDeckASCII = `
   ___ _    ___ ___ ___  ___ ___ _  __
  / __| |  |_ _| _ \   \| __/ __| |/ /
 | (__| |__ | ||  _/ |) | _| (__| ' <
  \___|____|___|_| |___/|___\___|_|\_\
`

// GetHeader returns the styled application header
func GetHeader() string {
	return lipgloss.NewStyle().
		Foreground(ColorBrand).
		Bold(true).
		Render(ClipDeckASCII)
}

// KeyHelp renders keyboard shortcut help from key/description pairs
func KeyHelp(pairs ...string) string {
	helpStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	keyStyle := lipgloss.NewStyle().Foreground(ColorSubtle).Bold(true)

	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, keyStyle.Render(pairs[i])+" "+helpStyle.Render(pairs[i+1]))
	}
	if len(parts) == 0 {
		return ""
	}
	return helpStyle.Render(strings.Join(parts, "  |  "))
}
