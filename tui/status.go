package tui

import (
	"github.com/charmbracelet/lipgloss"

	"clipdeck/api"
)

// StatusLabel returns the human-readable label for a task status.
// Unknown statuses fall through as-is so a newer server does not break
// the display.
func StatusLabel(status api.TaskStatus) string {
	switch status {
	case api.StatusUploaded:
		return "Uploaded"
	case api.StatusProcessing:
		return "Analyzing"
	case api.StatusAnalyzed:
		return "Ready to split"
	case api.StatusSplitting:
		return "Splitting"
	case api.StatusCompleted:
		return "Completed"
	case api.StatusFailed:
		return "Failed"
	default:
		return string(status)
	}
}

// StatusColor returns the display color for a task status.
func StatusColor(status api.TaskStatus) lipgloss.AdaptiveColor {
	switch status {
	case api.StatusCompleted:
		return ColorSuccess
	case api.StatusFailed:
		return ColorError
	case api.StatusProcessing, api.StatusSplitting:
		return ColorInfo
	case api.StatusUploaded, api.StatusAnalyzed:
		return ColorAccent
	default:
		return ColorMuted
	}
}

// StatusBadge renders a colored badge for a task status.
func StatusBadge(status api.TaskStatus) string {
	switch status {
	case api.StatusCompleted:
		return BadgeSuccessStyle.Render(StatusLabel(status))
	case api.StatusFailed:
		return BadgeErrorStyle.Render(StatusLabel(status))
	case api.StatusUploaded, api.StatusAnalyzed:
		return BadgeWarningStyle.Render(StatusLabel(status))
	default:
		return BadgeStyle.Render(StatusLabel(status))
	}
}
