package engine

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/movielens/dataset"
	"github.com/spektr-org/movielens/schema"
)

// ============================================================================
// FEATURES - Per-row and group-then-broadcast derivations
// ============================================================================
// Per-row features are pure functions of one field. Group features use two
// passes: MovieStats and UserActivity build key → statistic maps over the
// whole merged table, then Derive looks each row's key up.
//
// Malformed input never fails a row. It degrades to an absent value or to
// the sentinel for that feature only.
// ============================================================================

// DecadeUnknown labels rows without a release year.
const DecadeUnknown = "Unknown"

// decadeBuckets is evaluated in order; the first bucket whose upper bound
// exceeds the year wins. The final bucket has no upper bound.
var decadeBuckets = []struct {
	before int
	label  string
}{
	{1950, "Pre-1950"},
	{1960, "1950s"},
	{1970, "1960s"},
	{1980, "1970s"},
	{1990, "1980s"},
	{2000, "1990s"},
	{2010, "2000s"},
}

const decadeLast = "2010s+"

// ============================================================================
// PER-ROW FEATURES
// ============================================================================

// ExtractReleaseYear reads the year from the last parenthesised group of a
// title, e.g. "Toy Story (1995)" → 1995. Anything other than exactly four
// ASCII digits inside that group is absent.
func ExtractReleaseYear(title string) dataset.Optional[int] {
	open := strings.LastIndexByte(title, '(')
	if open < 0 {
		return dataset.None[int]()
	}
	rest := title[open+1:]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return dataset.None[int]()
	}
	inner := rest[:end]
	if len(inner) != 4 {
		return dataset.None[int]()
	}
	year := 0
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c < '0' || c > '9' {
			return dataset.None[int]()
		}
		year = year*10 + int(c-'0')
	}
	return dataset.Some(year)
}

// CountGenres counts the pipe-delimited genres. The no-genres sentinel and
// a list without any non-empty token count 0.
func CountGenres(genres string) int { return len(SplitGenres(genres)) }

// SplitGenres returns the non-empty genre tokens, or nil for the sentinel.
func SplitGenres(genres string) []string {
	if genres == schema.NoGenres {
		return nil
	}
	var tokens []string
	for _, g := range strings.Split(genres, "|") {
		if g = strings.TrimSpace(g); g != "" {
			tokens = append(tokens, g)
		}
	}
	return tokens
}

// MovieAge is ratingYear minus the release year. Negative ages pass through.
func MovieAge(ratingYear int, releaseYear dataset.Optional[int]) dataset.Optional[int] {
	y, ok := releaseYear.Get()
	if !ok {
		return dataset.None[int]()
	}
	return dataset.Some(ratingYear - y)
}

// DecadeOf buckets a release year.
func DecadeOf(releaseYear dataset.Optional[int]) string {
	y, ok := releaseYear.Get()
	if !ok {
		return DecadeUnknown
	}
	for _, b := range decadeBuckets {
		if y < b.before {
			return b.label
		}
	}
	return decadeLast
}

// DecadeRank orders decade labels chronologically, with Unknown last.
func DecadeRank(label string) int {
	for i, b := range decadeBuckets {
		if b.label == label {
			return i
		}
	}
	switch label {
	case decadeLast:
		return len(decadeBuckets)
	case DecadeUnknown:
		return len(decadeBuckets) + 1
	}
	return len(decadeBuckets) + 2
}

// TimeParts is the calendar decomposition of a rating time.
type TimeParts struct {
	Year      int
	Month     int // 1-12
	Hour      int // 0-23
	DayOfWeek int // Monday=0
}

// DecomposeTime splits t, read in UTC.
func DecomposeTime(t time.Time) TimeParts {
	t = t.UTC()
	return TimeParts{
		Year:      t.Year(),
		Month:     int(t.Month()),
		Hour:      t.Hour(),
		DayOfWeek: (int(t.Weekday()) + 6) % 7,
	}
}

// ============================================================================
// GROUP FEATURES - first pass
// ============================================================================

// MovieStat is the rating count and mean of one movie.
type MovieStat struct {
	Count int
	Mean  float64
}

// MovieStats groups the merged table by movieId.
func MovieStats(records []Enriched) map[int]MovieStat {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range records {
		sums[r.MovieID] += r.Rating
		counts[r.MovieID]++
	}
	stats := make(map[int]MovieStat, len(counts))
	for id, n := range counts {
		stats[id] = MovieStat{Count: n, Mean: sums[id] / float64(n)}
	}
	return stats
}

// UserActivity counts ratings per userId.
func UserActivity(records []Enriched) map[int]int {
	activity := make(map[int]int)
	for _, r := range records {
		activity[r.UserID]++
	}
	return activity
}

// ============================================================================
// DERIVE - second pass
// ============================================================================

// Derive returns a copy of merged with every feature filled in.
// The input slice is not modified.
func Derive(merged []Enriched, opts ...Option) []Enriched {
	cfg := applyOptions(opts)

	movies := MovieStats(merged)
	users := UserActivity(merged)

	out := make([]Enriched, len(merged))
	unknownYears := 0
	for i, r := range merged {
		tp := DecomposeTime(r.RatedAt)

		r.ReleaseYear = ExtractReleaseYear(r.Title)
		r.GenreCount = CountGenres(r.Genres)
		if r.GenreCount == 0 {
			r.Genres = schema.NoGenres
		}
		r.RatingYear = tp.Year
		r.RatingMonth = tp.Month
		r.RatingHour = tp.Hour
		r.RatingDayOfWeek = tp.DayOfWeek
		r.MovieAgeAtRating = MovieAge(tp.Year, r.ReleaseYear)
		r.Decade = DecadeOf(r.ReleaseYear)

		ms := movies[r.MovieID]
		r.PopularityScore = ms.Count
		r.AvgMovieRating = ms.Mean
		r.UserActivityLevel = users[r.UserID]

		if !r.ReleaseYear.IsPresent() {
			unknownYears++
		}
		out[i] = r
	}

	cfg.Logger.Info("features derived",
		zap.Int("rows", len(out)),
		zap.Int("movies", len(movies)),
		zap.Int("users", len(users)),
		zap.Int("unknown_release_year", unknownYears))
	return out
}
