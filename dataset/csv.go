package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spektr-org/movielens/apperrors"
	"github.com/spektr-org/movielens/schema"
)

// ============================================================================
// CSV LOADER - Parses MovieLens CSV resources into typed tables
// ============================================================================
// Each resource is read once, in full. The header is checked against the
// declared schema before any row is parsed. A row that cannot be parsed
// aborts the load: the pipeline cannot proceed on partial input.
// ============================================================================

var errMissingValue = errors.New("missing value")

// ReadRatings parses ratings CSV from r. resource names r in errors.
func ReadRatings(r io.Reader, resource string) (*Table[Rating], error) {
	return ReadTable(r, resource, schema.Ratings, func(c *Cells) (Rating, error) {
		var row Rating
		var err error
		if row.UserID, err = c.Int(schema.ColUserID); err != nil {
			return row, err
		}
		if row.MovieID, err = c.Int(schema.ColMovieID); err != nil {
			return row, err
		}
		if row.Rating, err = c.Float(schema.ColRating); err != nil {
			return row, err
		}
		row.Timestamp, err = c.Int64(schema.ColTimestamp)
		return row, err
	})
}

// ReadMovies parses movies CSV from r. A blank genres cell becomes schema.NoGenres.
func ReadMovies(r io.Reader, resource string) (*Table[Movie], error) {
	return ReadTable(r, resource, schema.Movies, func(c *Cells) (Movie, error) {
		var row Movie
		var err error
		if row.MovieID, err = c.Int(schema.ColMovieID); err != nil {
			return row, err
		}
		row.Title = c.Str(schema.ColTitle)
		row.Genres = c.Str(schema.ColGenres)
		if row.Genres == "" {
			row.Genres = schema.NoGenres
		}
		return row, nil
	})
}

// ReadTags parses tags CSV from r.
func ReadTags(r io.Reader, resource string) (*Table[Tag], error) {
	return ReadTable(r, resource, schema.Tags, func(c *Cells) (Tag, error) {
		var row Tag
		var err error
		if row.UserID, err = c.Int(schema.ColUserID); err != nil {
			return row, err
		}
		if row.MovieID, err = c.Int(schema.ColMovieID); err != nil {
			return row, err
		}
		row.Tag = c.Str(schema.ColTag)
		row.Timestamp, err = c.Int64(schema.ColTimestamp)
		return row, err
	})
}

// ReadLinks parses links CSV from r. A blank tmdbId is absent, not an error.
func ReadLinks(r io.Reader, resource string) (*Table[Link], error) {
	return ReadTable(r, resource, schema.Links, func(c *Cells) (Link, error) {
		var row Link
		var err error
		if row.MovieID, err = c.Int(schema.ColMovieID); err != nil {
			return row, err
		}
		row.IMDbID = c.Str(schema.ColIMDbID)
		row.TMDbID, err = c.OptionalInt(schema.ColTMDbID)
		return row, err
	})
}

// LoadRatings reads ratings from a file.
func LoadRatings(path string) (*Table[Rating], error) { return loadFile(path, ReadRatings) }

// LoadMovies reads movies from a file.
func LoadMovies(path string) (*Table[Movie], error) { return loadFile(path, ReadMovies) }

// LoadTags reads tags from a file.
func LoadTags(path string) (*Table[Tag], error) { return loadFile(path, ReadTags) }

// LoadLinks reads links from a file.
func LoadLinks(path string) (*Table[Link], error) { return loadFile(path, ReadLinks) }

func loadFile[T any](path string, read func(io.Reader, string) (*Table[T], error)) (*Table[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &apperrors.LoadError{Resource: path, Err: err}
	}
	defer f.Close()
	return read(f, path)
}

// ============================================================================
// GENERIC TABLE READER
// ============================================================================

// ReadTable parses a CSV resource whose header must contain every column of
// sch. parse turns one row into T; the first error aborts the read.
func ReadTable[T any](r io.Reader, resource string, sch schema.Table, parse func(*Cells) (T, error)) (*Table[T], error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, &apperrors.LoadError{Resource: resource, Err: errors.New("empty resource: no header row")}
	}
	if err != nil {
		return nil, parseFailure(resource, err)
	}

	index, err := sch.Index(resource, headers)
	if err != nil {
		return nil, err
	}

	columns := make([]string, len(headers))
	for i, h := range headers {
		columns[i] = schema.NormalizeHeader(h)
	}

	table := &Table[T]{Resource: resource, Columns: columns}
	seen := make(map[string]struct{})
	keys := sch.Keys()

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseFailure(resource, err)
		}
		line, _ := reader.FieldPos(0)

		c := &Cells{resource: resource, line: line, row: row, index: index}
		v, err := parse(c)
		if err != nil {
			return nil, err
		}

		dk := duplicateKey(row, index, keys)
		if _, dup := seen[dk]; dup {
			table.Quality.Duplicates++
		} else {
			seen[dk] = struct{}{}
		}
		table.Quality.Missing += c.missing
		table.Rows = append(table.Rows, v)
	}

	table.Quality.Rows = len(table.Rows)
	return table, nil
}

func parseFailure(resource string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &apperrors.LoadError{Resource: resource, Line: pe.Line, Err: pe.Err}
	}
	return &apperrors.LoadError{Resource: resource, Err: err}
}

func duplicateKey(row []string, index map[string]int, keys []string) string {
	var b strings.Builder
	for _, k := range keys {
		if pos := index[k]; pos < len(row) {
			b.WriteString(strings.TrimSpace(row[pos]))
		}
		b.WriteByte(0x1f)
	}
	return b.String()
}

// Cells reads typed values out of one CSV row. Blank cells are counted as
// missing; a blank required number is an error.
type Cells struct {
	resource string
	line     int
	row      []string
	index    map[string]int
	missing  int
}

func (c *Cells) Str(key string) string {
	pos := c.index[key]
	if pos >= len(c.row) {
		c.missing++
		return ""
	}
	v := strings.TrimSpace(c.row[pos])
	if v == "" {
		c.missing++
	}
	return v
}

// Blank reports whether the cell is empty or absent from a short row.
func (c *Cells) Blank(key string) bool {
	pos := c.index[key]
	return pos >= len(c.row) || strings.TrimSpace(c.row[pos]) == ""
}

func (c *Cells) Int(key string) (int, error) {
	v, err := c.Int64(key)
	return int(v), err
}

func (c *Cells) Int64(key string) (int64, error) {
	raw := c.Str(key)
	if raw == "" {
		return 0, c.Fail(key, errMissingValue)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, c.Fail(key, err)
	}
	return v, nil
}

func (c *Cells) Float(key string) (float64, error) {
	raw := c.Str(key)
	if raw == "" {
		return 0, c.Fail(key, errMissingValue)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, c.Fail(key, err)
	}
	return v, nil
}

// OptionalInt reads a number that may be blank.
func (c *Cells) OptionalInt(key string) (Optional[int], error) {
	raw := c.Str(key)
	if raw == "" {
		return None[int](), nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return None[int](), c.Fail(key, err)
	}
	return Some(v), nil
}

// Fail wraps err as a LoadError naming the resource, line and column.
func (c *Cells) Fail(key string, err error) error {
	return &apperrors.LoadError{
		Resource: c.resource,
		Line:     c.line,
		Err:      fmt.Errorf("column %s: %w", key, err),
	}
}
