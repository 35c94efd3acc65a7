package tui

import (
	"strings"
	"testing"

	"clipdeck/api"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status api.TaskStatus
		want   string
	}{
		{api.StatusUploaded, "Uploaded"},
		{api.StatusProcessing, "Analyzing"},
		{api.StatusAnalyzed, "Ready to split"},
		{api.StatusSplitting, "Splitting"},
		{api.StatusCompleted, "Completed"},
		{api.StatusFailed, "Failed"},
		{api.TaskStatus("archived"), "archived"}, // unknown passes through
	}
	for _, tt := range tests {
		if got := StatusLabel(tt.status); got != tt.want {
			t.Errorf("StatusLabel(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatusBadgeCarriesLabel(t *testing.T) {
	for _, status := range []api.TaskStatus{api.StatusCompleted, api.StatusFailed, api.StatusProcessing} {
		badge := StatusBadge(status)
		if !strings.Contains(badge, StatusLabel(status)) {
			t.Errorf("badge for %q should contain its label, got %q", status, badge)
		}
	}
}

func TestStatusColorDistinguishesOutcomes(t *testing.T) {
	if StatusColor(api.StatusCompleted) == StatusColor(api.StatusFailed) {
		t.Error("completed and failed must not share a color")
	}
}
