package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"martforge/internal/pipeline"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"milliseconds", 250 * time.Millisecond, "250ms"},
		{"seconds", 1500 * time.Millisecond, "1.5s"},
		{"minutes", 90 * time.Second, "1m30s"},
		{"hours", 90 * time.Minute, "1h30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.duration))
		})
	}
}

func TestGetSuggestion(t *testing.T) {
	assert.Contains(t, getSuggestion("Authentication failed for user"), "username and password")
	assert.Contains(t, getSuggestion("Referential validation failed"), "extraction layer")
	assert.Empty(t, getSuggestion("some other error"))
}

func TestRunReportRender(t *testing.T) {
	report := NewRunReport(false)

	out := report.Render(&pipeline.Result{
		RunID:              "8a6e0804-2bd0-4672-b79d-d97027f9071a",
		Duration:           2 * time.Second,
		Products:           100,
		Customers:          30,
		Orders:             85,
		OrderItems:         240,
		DailySummaries:     14,
		CorrectedLocations: 3,
		StageDurations: map[string]time.Duration{
			"load":    500 * time.Millisecond,
			"rollup":  300 * time.Millisecond,
			"publish": 700 * time.Millisecond,
		},
	})

	assert.Contains(t, out, "8a6e0804-2bd0-4672-b79d-d97027f9071a")
	assert.Contains(t, out, "dim_products")
	assert.Contains(t, out, "100")
	assert.Contains(t, out, "3 location(s) corrected")
	assert.Contains(t, out, "publish")
}

func TestRunReportDryRun(t *testing.T) {
	report := NewRunReport(false)

	out := report.Render(&pipeline.Result{RunID: "x", DryRun: true})
	assert.Contains(t, out, "dry run, nothing published")
}
