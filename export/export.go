// Package export writes the enriched table to a flat CSV file and reads it
// back. Columns are laid out, formatted and parsed as schema.Enriched
// declares them; absent optional values are written as empty fields.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spektr-org/movielens/apperrors"
	"github.com/spektr-org/movielens/dataset"
	"github.com/spektr-org/movielens/engine"
	"github.com/spektr-org/movielens/schema"
)

// ============================================================================
// WRITE
// ============================================================================

// WriteFile writes records to path, creating parent directories as needed.
// Any failure is a *apperrors.WriteError naming path.
func WriteFile(path string, records []engine.Enriched) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &apperrors.WriteError{Path: path, Err: err}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &apperrors.WriteError{Path: path, Err: err}
	}
	if err := Write(f, records); err != nil {
		f.Close()
		return &apperrors.WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &apperrors.WriteError{Path: path, Err: err}
	}
	return nil
}

// Write writes the header and one row per record to w.
func Write(w io.Writer, records []engine.Enriched) error {
	buf := bufio.NewWriter(w)
	cw := csv.NewWriter(buf)

	if err := cw.Write(schema.Enriched.Keys()); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	row := make([]string, len(schema.Enriched.Columns))
	for i := range records {
		if err := formatRow(&records[i], row); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return buf.Flush()
}

// formatRow fills row with r's cells in schema.Enriched column order.
func formatRow(r *engine.Enriched, row []string) error {
	for i, meta := range schema.Enriched.Columns {
		f, ok := fields[meta.Key]
		if !ok {
			return fmt.Errorf("column %s: %w", meta.Key, errUnboundColumn)
		}
		cell, err := formatCell(meta, f.get(r))
		if err != nil {
			return err
		}
		row[i] = cell
	}
	return nil
}

// ============================================================================
// READ
// ============================================================================

// ReadFile reads an enriched table written by WriteFile.
func ReadFile(path string) ([]engine.Enriched, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &apperrors.LoadError{Resource: path, Err: err}
	}
	defer f.Close()
	return Read(f, path)
}

// Read parses an enriched table from r. resource names r in errors.
func Read(r io.Reader, resource string) ([]engine.Enriched, error) {
	table, err := dataset.ReadTable(r, resource, schema.Enriched, parseRow)
	if err != nil {
		return nil, err
	}
	return table.Rows, nil
}

func parseRow(c *dataset.Cells) (engine.Enriched, error) {
	var e engine.Enriched
	for _, meta := range schema.Enriched.Columns {
		f, ok := fields[meta.Key]
		if !ok {
			return e, c.Fail(meta.Key, errUnboundColumn)
		}
		v, err := parseCell(c, meta)
		if err != nil {
			return e, err
		}
		f.set(&e, v)
	}
	return e, nil
}

var errUnboundColumn = errors.New("no record field bound to column")
