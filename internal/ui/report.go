package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"martforge/internal/pipeline"
)

// RunReport renders the outcome of a pipeline run.
type RunReport struct {
	useColor bool
}

// NewRunReport creates a run report renderer
func NewRunReport(useColor bool) *RunReport {
	return &RunReport{useColor: useColor}
}

// Render returns the formatted run summary.
func (r *RunReport) Render(result *pipeline.Result) string {
	var buf strings.Builder

	mode := "published"
	if result.DryRun {
		mode = "dry run, nothing published"
		if r.useColor {
			mode = color.YellowString(mode)
		}
	} else if r.useColor {
		mode = color.GreenString(mode)
	}

	fmt.Fprintf(&buf, "Run %s (%s) finished in %s\n\n",
		result.RunID, mode, FormatDuration(result.Duration))

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Relation", "Rows"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.Append([]string{"dim_products", fmt.Sprintf("%d", result.Products)})
	table.Append([]string{"dim_customers", fmt.Sprintf("%d", result.Customers)})
	table.Append([]string{"fct_orders", fmt.Sprintf("%d", result.Orders)})
	table.Append([]string{"fct_order_items", fmt.Sprintf("%d", result.OrderItems)})
	table.Append([]string{"daily_summary", fmt.Sprintf("%d", result.DailySummaries)})
	table.Render()

	corrected := fmt.Sprintf("%d location(s) corrected", result.CorrectedLocations)
	if r.useColor && result.CorrectedLocations > 0 {
		corrected = color.CyanString(corrected)
	}
	fmt.Fprintf(&buf, "\n%s\n", corrected)

	if len(result.StageDurations) > 0 {
		stages := make([]string, 0, len(result.StageDurations))
		for stage := range result.StageDurations {
			stages = append(stages, stage)
		}
		sort.Strings(stages)

		buf.WriteString("\nStage timings:\n")
		for _, stage := range stages {
			fmt.Fprintf(&buf, "  %-10s %s\n", stage, FormatDuration(result.StageDurations[stage]))
		}
	}

	return buf.String()
}
