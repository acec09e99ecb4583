package step

import (
	"bytes"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/viaphoton/e2e-harness/junit"
	"github.com/viaphoton/e2e-harness/report"
	"github.com/viaphoton/e2e-harness/slack"
)

// resultsTable renders the merged report one row per suite, with the run totals in the footer.
func resultsTable(merged junit.Report, stats report.Stats) string {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetTitle("Test Results")

	t.AppendHeader(table.Row{"Suite", "Duration", "Tests", "Passed", "Failed", "Skipped"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Suite", WidthMax: 120, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
	})

	for _, suite := range merged.Suites {
		if suite.Tests == 0 {
			continue
		}
		t.AppendRow(table.Row{
			suite.Name,
			slack.FormatDuration(suite.Duration()),
			suite.Tests,
			suite.Tests - suite.Failures - suite.Skipped,
			suite.Failures,
			suite.Skipped,
		})
	}

	switch {
	case stats.Failed > 0:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case stats.Skipped > 0:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		slack.FormatDuration(stats.Duration),
		stats.Tests,
		stats.Passed,
		stats.Failed,
		stats.Skipped,
	})

	t.Render()
	return buf.String()
}

func failuresTable(failures []report.FailedCase) string {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetTitle(fmt.Sprintf("Failed Tests (%d)", len(failures)))

	t.AppendHeader(table.Row{"Ticket", "Test", "Type"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", WidthMax: 100, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, failure := range failures {
		t.AppendRow(table.Row{failure.Ticket, failure.Name, failure.FailureType})
	}

	t.SetStyle(table.StyleLight)
	t.Render()
	return buf.String()
}
