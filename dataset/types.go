package dataset

import (
	"path/filepath"

	"github.com/spektr-org/movielens/schema"
)

// ============================================================================
// DATASET TYPES - Typed rows of the four MovieLens tables
// ============================================================================

// Rating is one row of ratings.csv.
type Rating struct {
	UserID    int     `json:"userId"`
	MovieID   int     `json:"movieId"`
	Rating    float64 `json:"rating"`
	Timestamp int64   `json:"timestamp"`
}

// Movie is one row of movies.csv. Genres is pipe-delimited or schema.NoGenres.
type Movie struct {
	MovieID int    `json:"movieId"`
	Title   string `json:"title"`
	Genres  string `json:"genres"`
}

// Tag is one row of tags.csv.
type Tag struct {
	UserID    int    `json:"userId"`
	MovieID   int    `json:"movieId"`
	Tag       string `json:"tag"`
	Timestamp int64  `json:"timestamp"`
}

// Link is one row of links.csv. Some movies have no TMDb entry.
type Link struct {
	MovieID int           `json:"movieId"`
	IMDbID  string        `json:"imdbId"`
	TMDbID  Optional[int] `json:"tmdbId"`
}

// TableQuality is the data quality check of one table.
// Problems are reported, never corrected.
type TableQuality struct {
	Rows       int `json:"rows" yaml:"rows"`
	Duplicates int `json:"duplicates" yaml:"duplicates"` // rows identical to an earlier row
	Missing    int `json:"missing" yaml:"missing"`       // blank cells
}

// Table is an in-memory table of typed rows plus the header it was read with.
type Table[T any] struct {
	Resource string
	Columns  []string
	Rows     []T
	Quality  TableQuality
}

// NewTable builds a table from rows already in memory.
func NewTable[T any](resource string, columns []string, rows []T) *Table[T] {
	return &Table[T]{
		Resource: resource,
		Columns:  columns,
		Rows:     rows,
		Quality:  TableQuality{Rows: len(rows)},
	}
}

// HasColumn reports whether the table was read with the given column.
func (t *Table[T]) HasColumn(key string) bool {
	for _, c := range t.Columns {
		if schema.NormalizeHeader(c) == key {
			return true
		}
	}
	return false
}

func (t *Table[T]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Dataset holds the four related tables of one run.
type Dataset struct {
	Ratings *Table[Rating]
	Movies  *Table[Movie]
	Tags    *Table[Tag]
	Links   *Table[Link]

	// OffScaleRatings counts ratings outside 0.5..5.0 in half steps.
	OffScaleRatings int
}

// Quality collects the per-table quality reports.
type Quality struct {
	Ratings         TableQuality `json:"ratings" yaml:"ratings"`
	Movies          TableQuality `json:"movies" yaml:"movies"`
	Tags            TableQuality `json:"tags" yaml:"tags"`
	Links           TableQuality `json:"links" yaml:"links"`
	OffScaleRatings int          `json:"offScaleRatings" yaml:"offScaleRatings"`
}

// Quality returns the data quality check of every table.
func (d *Dataset) Quality() Quality {
	q := Quality{OffScaleRatings: d.OffScaleRatings}
	if d.Ratings != nil {
		q.Ratings = d.Ratings.Quality
	}
	if d.Movies != nil {
		q.Movies = d.Movies.Quality
	}
	if d.Tags != nil {
		q.Tags = d.Tags.Quality
	}
	if d.Links != nil {
		q.Links = d.Links.Quality
	}
	return q
}

// Paths locates the four input resources.
type Paths struct {
	Ratings string
	Movies  string
	Tags    string
	Links   string
}

// PathsIn returns the default MovieLens file names inside dir.
func PathsIn(dir string) Paths {
	return Paths{
		Ratings: filepath.Join(dir, schema.Ratings.FileName),
		Movies:  filepath.Join(dir, schema.Movies.FileName),
		Tags:    filepath.Join(dir, schema.Tags.FileName),
		Links:   filepath.Join(dir, schema.Links.FileName),
	}
}
