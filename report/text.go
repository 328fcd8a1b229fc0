package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spektr-org/movielens/engine"
)

// Text renders the plain console report.
type Text struct{}

// Render writes the basic statistics, the data quality check when present
// and the six numbered insights.
func (Text) Render(w io.Writer, ins *engine.Insights) error {
	p := printer()
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "=== MOVIELENS DATASET ANALYSIS ===")
	if ins.RunID != "" {
		fmt.Fprintf(bw, "Run: %s\n", ins.RunID)
	}
	fmt.Fprintln(bw)

	writeTextSection(bw, overviewSection(p, ins.Overview))
	if q, ok := qualitySection(p, ins); ok {
		writeTextSection(bw, q)
	}

	fmt.Fprintf(bw, "=== %s ===\n\n", insightsTitle)
	for i, s := range insightSections(p, ins) {
		s.Title = fmt.Sprintf("INSIGHT %d - %s", i+1, s.Title)
		writeTextSection(bw, s)
	}
	return bw.Flush()
}

func writeTextSection(w io.Writer, s section) {
	fmt.Fprintf(w, "%s:\n", s.Title)
	for _, line := range s.Lines {
		fmt.Fprintf(w, "- %s\n", line)
	}
	fmt.Fprintln(w)
}
