package report

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/movielens/engine"
)

// JSON renders the insight record as JSON. Absent values are null.
type JSON struct {
	Indent string
}

func (r JSON) Render(w io.Writer, ins *engine.Insights) error {
	enc := json.NewEncoder(w)
	if r.Indent != "" {
		enc.SetIndent("", r.Indent)
	}
	return enc.Encode(ins)
}

// YAML renders the insight record as YAML. Absent values are null.
type YAML struct{}

func (YAML) Render(w io.Writer, ins *engine.Insights) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ins); err != nil {
		return err
	}
	return enc.Close()
}
