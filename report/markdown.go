package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spektr-org/movielens/engine"
	"github.com/spektr-org/movielens/schema"
)

// Markdown renders the report as a markdown document with a per-decade table.
type Markdown struct{}

func (Markdown) Render(w io.Writer, ins *engine.Insights) error {
	p := printer()
	title := newHeadingCaser()
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# MovieLens Dataset Analysis")
	fmt.Fprintln(bw)
	if ins.RunID != "" {
		fmt.Fprintf(bw, "_Run %s_\n\n", ins.RunID)
	}

	ov := overviewSection(p, ins.Overview)
	writeMarkdownSection(bw, 2, title.String(ov.Title), ov.Lines)
	if q, ok := qualitySection(p, ins); ok {
		writeMarkdownSection(bw, 2, title.String(q.Title), q.Lines)
	}

	fmt.Fprintf(bw, "## %s\n\n", title.String(insightsTitle))
	for i, s := range insightSections(p, ins) {
		writeMarkdownSection(bw, 3, fmt.Sprintf("%d. %s", i+1, title.String(s.Title)), s.Lines)
	}

	if ins.Age.Available && len(ins.Age.Decades) > 0 {
		fmt.Fprintln(bw, "### Ratings by Decade")
		fmt.Fprintln(bw)
		decadeTable(p, ins.Age.Decades).writeMarkdown(bw)
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// minorWords stay lowercase inside a heading.
var minorWords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "by": true, "for": true,
	"from": true, "in": true, "of": true, "on": true, "or": true, "the": true, "to": true,
}

// headingCaser title-cases headings, leaving minor words lowercase unless
// they open the heading.
type headingCaser struct {
	title cases.Caser
	lower cases.Caser
}

func newHeadingCaser() headingCaser {
	return headingCaser{title: cases.Title(language.English), lower: cases.Lower(language.English)}
}

func (h headingCaser) String(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		lw := h.lower.String(w)
		if i > 0 && minorWords[lw] {
			words[i] = lw
			continue
		}
		words[i] = h.title.String(w)
	}
	return strings.Join(words, " ")
}

func writeMarkdownSection(w io.Writer, level int, heading string, lines []string) {
	fmt.Fprintf(w, "%s %s\n\n", strings.Repeat("#", level), heading)
	for _, line := range lines {
		fmt.Fprintf(w, "- %s\n", line)
	}
	fmt.Fprintln(w)
}

func decadeTable(p *message.Printer, decades []engine.DecadeStat) table {
	t := table{
		Columns: []column{
			{Label: columnLabel(schema.ColDecade), Align: "left"},
			{Label: "Ratings", Align: "right"},
			{Label: "Average rating", Align: "right"},
		},
		Rows: make([][]string, 0, len(decades)),
	}
	for _, d := range decades {
		t.Rows = append(t.Rows, []string{
			d.Decade,
			p.Sprintf("%d", d.Count),
			p.Sprintf("%.2f", d.MeanRating),
		})
	}
	return t
}

// columnLabel is the display name of an enriched column.
func columnLabel(key string) string {
	if c, ok := schema.Enriched.Column(key); ok {
		return c.DisplayName
	}
	return key
}
