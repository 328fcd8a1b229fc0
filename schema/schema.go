package schema

import (
	"strings"

	"github.com/spektr-org/movielens/apperrors"
)

// ============================================================================
// SCHEMA - Declared shape of every table the pipeline reads or writes
// ============================================================================
// Input tables carry the fixed MovieLens headers. The enriched table is
// the export contract: column order here is the order written to disk.
// ============================================================================

// Kind is the semantic type of a column.
type Kind string

const (
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindString Kind = "string"
	KindTime   Kind = "time"
)

// ColumnMeta describes one column of a table. Kind selects how a cell is
// formatted and parsed. A blank numeric or time cell is valid only in an
// Optional column.
type ColumnMeta struct {
	Key         string `json:"key" yaml:"key"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Optional    bool   `json:"optional,omitempty" yaml:"optional,omitempty"` // blank cell means absent
}

// Table describes the complete shape of one tabular resource.
type Table struct {
	Name     string       `json:"name" yaml:"name"`
	FileName string       `json:"fileName" yaml:"fileName"` // default file name inside the data directory
	Columns  []ColumnMeta `json:"columns" yaml:"columns"`
}

// Column keys shared across tables.
const (
	ColUserID    = "userId"
	ColMovieID   = "movieId"
	ColRating    = "rating"
	ColTimestamp = "timestamp"
	ColTitle     = "title"
	ColGenres    = "genres"
	ColTag       = "tag"
	ColIMDbID    = "imdbId"
	ColTMDbID    = "tmdbId"

	ColDatetime          = "datetime"
	ColReleaseYear       = "release_year"
	ColGenreCount        = "genre_count"
	ColRatingYear        = "rating_year"
	ColMovieAgeAtRating  = "movie_age_at_rating"
	ColRatingHour        = "rating_hour"
	ColRatingDayOfWeek   = "rating_day_of_week"
	ColRatingMonth       = "rating_month"
	ColPopularityScore   = "popularity_score"
	ColAvgMovieRating    = "avg_movie_rating"
	ColUserActivityLevel = "user_activity_level"
	ColDecade            = "decade"
)

// NoGenres is the literal MovieLens uses for a movie without genres.
const NoGenres = "(no genres listed)"

var (
	Ratings = Table{
		Name:     "ratings",
		FileName: "ratings.csv",
		Columns: []ColumnMeta{
			col(ColUserID, "User", KindInt),
			col(ColMovieID, "Movie", KindInt),
			col(ColRating, "Rating", KindFloat),
			col(ColTimestamp, "Timestamp", KindInt),
		},
	}

	Movies = Table{
		Name:     "movies",
		FileName: "movies.csv",
		Columns: []ColumnMeta{
			col(ColMovieID, "Movie", KindInt),
			col(ColTitle, "Title", KindString),
			col(ColGenres, "Genres", KindString),
		},
	}

	Tags = Table{
		Name:     "tags",
		FileName: "tags.csv",
		Columns: []ColumnMeta{
			col(ColUserID, "User", KindInt),
			col(ColMovieID, "Movie", KindInt),
			col(ColTag, "Tag", KindString),
			col(ColTimestamp, "Timestamp", KindInt),
		},
	}

	Links = Table{
		Name:     "links",
		FileName: "links.csv",
		Columns: []ColumnMeta{
			col(ColMovieID, "Movie", KindInt),
			col(ColIMDbID, "IMDb ID", KindString),
			optional(col(ColTMDbID, "TMDb ID", KindInt)),
		},
	}

	// Enriched is the joined rating/movie table with every derived feature.
	// Release year and movie age are blank when the title has no year.
	Enriched = Table{
		Name:     "enriched",
		FileName: "enhanced_movielens_dataset.csv",
		Columns: []ColumnMeta{
			col(ColUserID, "User", KindInt),
			col(ColMovieID, "Movie", KindInt),
			col(ColRating, "Rating", KindFloat),
			col(ColTimestamp, "Timestamp", KindInt),
			col(ColTitle, "Title", KindString),
			col(ColGenres, "Genres", KindString),
			col(ColDatetime, "Rated At", KindTime),
			optional(col(ColReleaseYear, "Release Year", KindInt)),
			col(ColGenreCount, "Genre Count", KindInt),
			col(ColRatingYear, "Rating Year", KindInt),
			optional(col(ColMovieAgeAtRating, "Movie Age at Rating", KindInt)),
			col(ColRatingHour, "Rating Hour", KindInt),
			col(ColRatingDayOfWeek, "Rating Day of Week", KindInt),
			col(ColRatingMonth, "Rating Month", KindInt),
			col(ColPopularityScore, "Popularity Score", KindInt),
			col(ColAvgMovieRating, "Average Movie Rating", KindFloat),
			col(ColUserActivityLevel, "User Activity Level", KindInt),
			col(ColDecade, "Decade", KindString),
		},
	}
)

func col(key, displayName string, kind Kind) ColumnMeta {
	return ColumnMeta{Key: key, DisplayName: displayName, Kind: kind}
}

func optional(c ColumnMeta) ColumnMeta {
	c.Optional = true
	return c
}

// Keys returns all column keys in declared order.
func (t Table) Keys() []string {
	keys := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		keys[i] = c.Key
	}
	return keys
}

// Column looks up a column by key.
func (t Table) Column(key string) (ColumnMeta, bool) {
	for _, c := range t.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return ColumnMeta{}, false
}

// Index maps every declared column to its position in headers.
// Extra headers are ignored; the first declared column not found yields
// a *apperrors.SchemaError naming resource and column.
func (t Table) Index(resource string, headers []string) (map[string]int, error) {
	positions := make(map[string]int, len(headers))
	for i, h := range headers {
		key := NormalizeHeader(h)
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	index := make(map[string]int, len(t.Columns))
	for _, c := range t.Columns {
		pos, ok := positions[c.Key]
		if !ok {
			return nil, &apperrors.SchemaError{Resource: resource, Column: c.Key}
		}
		index[c.Key] = pos
	}
	return index, nil
}

// NormalizeHeader trims whitespace and a leading UTF-8 byte order mark.
func NormalizeHeader(h string) string {
	return strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
}
