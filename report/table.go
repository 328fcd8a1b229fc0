package report

import (
	"fmt"
	"io"
	"strings"
)

// ============================================================================
// TABLE - Column/row layout for markdown tables
// ============================================================================

// column defines a table column.
type column struct {
	Label string
	Align string // "left" or "right"
}

// table is a titled grid of pre-formatted cells.
type table struct {
	Columns []column
	Rows    [][]string
}

// writeMarkdown writes t as a GitHub-flavoured markdown table.
func (t table) writeMarkdown(w io.Writer) {
	if len(t.Columns) == 0 {
		return
	}

	labels := make([]string, len(t.Columns))
	rules := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		labels[i] = escapeCell(c.Label)
		if c.Align == "right" {
			rules[i] = "---:"
		} else {
			rules[i] = "---"
		}
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(labels, " | "))
	fmt.Fprintf(w, "| %s |\n", strings.Join(rules, " | "))

	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i := range t.Columns {
			if i < len(row) {
				cells[i] = escapeCell(row[i])
			}
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
