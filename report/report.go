// Package report renders an insight record for people (text, markdown) or
// for other programs (json, yaml). Renderers never compute statistics; they
// only format what engine.Extract produced.
package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spektr-org/movielens/engine"
)

// Supported formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Renderer writes an insight record to w.
type Renderer interface {
	Render(w io.Writer, ins *engine.Insights) error
}

// For returns the renderer of a format name. Matching ignores case;
// "md" and "yml" are accepted aliases.
func For(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatText, "":
		return Text{}, nil
	case FormatMarkdown, "md":
		return Markdown{}, nil
	case FormatJSON:
		return JSON{Indent: "  "}, nil
	case FormatYAML, "yml":
		return YAML{}, nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

// printer formats numbers with thousands separators.
func printer() *message.Printer {
	return message.NewPrinter(language.English)
}
