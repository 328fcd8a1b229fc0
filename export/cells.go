package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spektr-org/movielens/dataset"
	"github.com/spektr-org/movielens/engine"
	"github.com/spektr-org/movielens/schema"
)

// ============================================================================
// CELLS - Kind-driven formatting and parsing of enriched columns
// ============================================================================

// DatetimeLayout formats the datetime column, always in UTC.
const DatetimeLayout = "2006-01-02 15:04:05"

// value is one typed cell. Present is false only for an absent optional.
type value struct {
	Int     int64
	Float   float64
	Str     string
	Time    time.Time
	Present bool
}

func intValue(v int64) value { return value{Int: v, Present: true} }
func floatValue(v float64) value { return value{Float: v, Present: true} }
func stringValue(v string) value { return value{Str: v, Present: true} }
func timeValue(v time.Time) value { return value{Time: v, Present: true} }

func optionalValue(o dataset.Optional[int]) value {
	if v, ok := o.Get(); ok {
		return intValue(int64(v))
	}
	return value{}
}

func (v value) optionalInt() dataset.Optional[int] {
	if !v.Present {
		return dataset.None[int]()
	}
	return dataset.Some(int(v.Int))
}

// field binds an enriched column to its record field.
type field struct {
	get func(*engine.Enriched) value
	set func(*engine.Enriched, value)
}

var fields = map[string]field{
	schema.ColUserID: {
		get: func(e *engine.Enriched) value { return intValue(int64(e.UserID)) },
		set: func(e *engine.Enriched, v value) { e.UserID = int(v.Int) },
	},
	schema.ColMovieID: {
		get: func(e *engine.Enriched) value { return intValue(int64(e.MovieID)) },
		set: func(e *engine.Enriched, v value) { e.MovieID = int(v.Int) },
	},
	schema.ColRating: {
		get: func(e *engine.Enriched) value { return floatValue(e.Rating) },
		set: func(e *engine.Enriched, v value) { e.Rating = v.Float },
	},
	schema.ColTimestamp: {
		get: func(e *engine.Enriched) value { return intValue(e.Timestamp) },
		set: func(e *engine.Enriched, v value) { e.Timestamp = v.Int },
	},
	schema.ColTitle: {
		get: func(e *engine.Enriched) value { return stringValue(e.Title) },
		set: func(e *engine.Enriched, v value) { e.Title = v.Str },
	},
	schema.ColGenres: {
		get: func(e *engine.Enriched) value { return stringValue(e.Genres) },
		set: func(e *engine.Enriched, v value) { e.Genres = v.Str },
	},
	schema.ColDatetime: {
		get: func(e *engine.Enriched) value { return timeValue(e.RatedAt) },
		set: func(e *engine.Enriched, v value) { e.RatedAt = v.Time },
	},
	schema.ColReleaseYear: {
		get: func(e *engine.Enriched) value { return optionalValue(e.ReleaseYear) },
		set: func(e *engine.Enriched, v value) { e.ReleaseYear = v.optionalInt() },
	},
	schema.ColGenreCount: {
		get: func(e *engine.Enriched) value { return intValue(int64(e.GenreCount)) },
		set: func(e *engine.Enriched, v value) { e.GenreCount = int(v.Int) },
	},
	schema.ColRatingYear: {
		get: func(e *engine.Enriched) value { return intValue(int64(e.RatingYear)) },
		set: func(e *engine.Enriched, v value) { e.RatingYear = int(v.Int) },
	},
	schema.ColMovieAgeAtRating: {
		get: func(e *engine.Enriched) value { return optionalValue(e.MovieAgeAtRating) },
		set: func(e *engine.Enriched, v value) { e.MovieAgeAtRating = v.optionalInt() },
	},
	schema.ColRatingHour: {
		get: func(e *engine.Enriched) value { return intValue(int64(e.RatingHour)) },
		set: func(e *engine.Enriched, v value) { e.RatingHour = int(v.Int) },
	},
	schema.ColRatingDayOfWeek: {
		get: func(e *engine.Enriched) value { return intValue(int64(e.RatingDayOfWeek)) },
		set: func(e *engine.Enriched, v value) { e.RatingDayOfWeek = int(v.Int) },
	},
	schema.ColRatingMonth: {
		get: func(e *engine.Enriched) value { return intValue(int64(e.RatingMonth)) },
		set: func(e *engine.Enriched, v value) { e.RatingMonth = int(v.Int) },
	},
	schema.ColPopularityScore: {
		get: func(e *engine.Enriched) value { return intValue(int64(e.PopularityScore)) },
		set: func(e *engine.Enriched, v value) { e.PopularityScore = int(v.Int) },
	},
	schema.ColAvgMovieRating: {
		get: func(e *engine.Enriched) value { return floatValue(e.AvgMovieRating) },
		set: func(e *engine.Enriched, v value) { e.AvgMovieRating = v.Float },
	},
	schema.ColUserActivityLevel: {
		get: func(e *engine.Enriched) value { return intValue(int64(e.UserActivityLevel)) },
		set: func(e *engine.Enriched, v value) { e.UserActivityLevel = int(v.Int) },
	},
	schema.ColDecade: {
		get: func(e *engine.Enriched) value { return stringValue(e.Decade) },
		set: func(e *engine.Enriched, v value) { e.Decade = v.Str },
	},
}

// formatCell renders v by the column's kind. Floats use the shortest
// representation that parses back exactly.
func formatCell(meta schema.ColumnMeta, v value) (string, error) {
	if !v.Present {
		if meta.Optional {
			return "", nil
		}
		return "", fmt.Errorf("column %s: required value absent", meta.Key)
	}
	switch meta.Kind {
	case schema.KindInt:
		return strconv.FormatInt(v.Int, 10), nil
	case schema.KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64), nil
	case schema.KindString:
		return v.Str, nil
	case schema.KindTime:
		return v.Time.UTC().Format(DatetimeLayout), nil
	}
	return "", fmt.Errorf("column %s: unsupported kind %q", meta.Key, meta.Kind)
}

// parseCell reads one cell by the column's kind. A blank cell is absent in
// an Optional column and an error in a numeric or time column.
func parseCell(c *dataset.Cells, meta schema.ColumnMeta) (value, error) {
	if meta.Optional && c.Blank(meta.Key) {
		return value{}, nil
	}
	switch meta.Kind {
	case schema.KindInt:
		v, err := c.Int64(meta.Key)
		if err != nil {
			return value{}, err
		}
		return intValue(v), nil
	case schema.KindFloat:
		v, err := c.Float(meta.Key)
		if err != nil {
			return value{}, err
		}
		return floatValue(v), nil
	case schema.KindString:
		return stringValue(c.Str(meta.Key)), nil
	case schema.KindTime:
		t, err := time.ParseInLocation(DatetimeLayout, c.Str(meta.Key), time.UTC)
		if err != nil {
			return value{}, c.Fail(meta.Key, err)
		}
		return timeValue(t), nil
	}
	return value{}, c.Fail(meta.Key, fmt.Errorf("unsupported kind %q", meta.Kind))
}
