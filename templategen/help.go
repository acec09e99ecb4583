package templategen

import (
	"bytes"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Help is the usage table of the tool.
func Help() string {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetTitle("Template Gen Tool, Help:")
	t.AppendHeader(table.Row{"Args", "Required", "Description"})
	t.AppendRows([]table.Row{
		{"testCaseName", "Yes", "Name of the test case, without file extension"},
		{"fixture, --fixture", "No", "Flag, create fixture file"},
	})
	t.SetStyle(table.StyleLight)
	t.Render()

	return buf.String()
}
