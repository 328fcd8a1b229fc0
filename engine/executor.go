package engine

import (
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/movielens/dataset"
	"github.com/spektr-org/movielens/schema"
)

// ============================================================================
// EXECUTOR - Insight extraction over the enriched table
// ============================================================================
// Entry point: Extract(records, opts...)
//
// Each insight is an independent read-only query over one RecordView of the
// enriched table. Nothing here mutates records. An empty table yields an
// Insights value whose sections all report Available=false.
//
// Ties are always broken explicitly:
//   most common rating, peak hour, peak day  → smallest value
//   most rated title, most common genre      → lexicographically smallest
//   best decade                              → label ascending
// ============================================================================

// Extract computes the overview and the six insights.
//
// Options:
//   - WithHighRatingThreshold(t) - rating counted as high (default 3.5)
//   - WithHeavyUserThreshold(n) - activity counted as heavy (default 100)
//   - WithLogger(l)
func Extract(records []Enriched, opts ...Option) *Insights {
	cfg := applyOptions(opts)
	view := BindEnriched(records)

	ins := &Insights{
		Ratings:    RatingInsight{Threshold: cfg.HighRatingThreshold},
		Engagement: EngagementInsight{Threshold: cfg.HeavyUserThreshold},
	}
	if view.Len() == 0 {
		cfg.Logger.Warn("no rows to analyze")
		return ins
	}

	ins.Overview = overview(view)
	ins.Ratings = ratingInsight(view, cfg.HighRatingThreshold)
	ins.Popularity = popularityInsight(view)
	ins.Genres = genreInsight(view)
	ins.Temporal = temporalInsight(view)
	ins.Engagement = engagementInsight(view, cfg.HeavyUserThreshold)
	ins.Age = ageInsight(view)

	cfg.Logger.Info("insights extracted",
		zap.Int("rows", view.Len()),
		zap.Int("users", ins.Overview.Users),
		zap.Int("movies", ins.Overview.Movies))
	return ins
}

// ============================================================================
// OVERVIEW
// ============================================================================

func overview(view RecordView) Overview {
	return Overview{
		Available:   true,
		Users:       CountDistinct(view, schema.ColUserID),
		Movies:      CountDistinct(view, schema.ColMovieID),
		Ratings:     view.Len(),
		MeanRating:  AvgMeasure(view, schema.ColRating),
		FirstRating: time.Unix(int64(MinMeasure(view, schema.ColTimestamp)), 0).UTC(),
		LastRating:  time.Unix(int64(MaxMeasure(view, schema.ColTimestamp)), 0).UTC(),
	}
}

// ============================================================================
// 1. RATING DISTRIBUTION
// ============================================================================

func ratingInsight(view RecordView, threshold float64) RatingInsight {
	top, ok := Top(view, schema.ColRating, "", AggCount, SortValueDescNumeric)
	if !ok {
		return RatingInsight{Threshold: threshold}
	}
	mode, _ := strconv.ParseFloat(top.Key, 64)
	high := WhereMeasure(view, schema.ColRating, func(r float64) bool { return r >= threshold })

	return RatingInsight{
		Available:  true,
		MostCommon: mode,
		HighShare:  float64(high.Len()) / float64(view.Len()),
		Threshold:  threshold,
	}
}

// ============================================================================
// 2. POPULARITY
// ============================================================================

func popularityInsight(view RecordView) PopularityInsight {
	top, ok := Top(view, schema.ColTitle, "", AggCount, SortValueDesc)
	if !ok {
		return PopularityInsight{}
	}
	return PopularityInsight{
		Available:      true,
		TopTitle:       top.Key,
		TopCount:       top.Count,
		MeanPopularity: AvgMeasure(view, schema.ColPopularityScore),
	}
}

// ============================================================================
// 3. GENRES
// ============================================================================

// genreInsight counts genre tokens over every row, so a genre's count is
// the number of ratings of movies carrying it.
func genreInsight(view RecordView) GenreInsight {
	counts := make(map[string]int)
	for i := 0; i < view.Len(); i++ {
		for _, g := range SplitGenres(view.Dimension(i, schema.ColGenres)) {
			counts[g]++
		}
	}

	ins := GenreInsight{
		Available:      true,
		MostCommon:     dataset.None[string](),
		MeanGenreCount: AvgMeasure(view, schema.ColGenreCount),
	}

	groups := make([]Group, 0, len(counts))
	for g, n := range counts {
		groups = append(groups, Group{Key: g, Value: float64(n), Count: n})
	}
	SortGroups(groups, SortValueDesc)
	if len(groups) > 0 {
		ins.MostCommon = dataset.Some(groups[0].Key)
		ins.MostCommonRows = groups[0].Count
	}
	return ins
}

// ============================================================================
// 4. TEMPORAL PATTERNS
// ============================================================================

func temporalInsight(view RecordView) TemporalInsight {
	hour, okHour := Top(view, schema.ColRatingHour, "", AggCount, SortValueDescNumeric)
	day, okDay := Top(view, schema.ColRatingDayOfWeek, "", AggCount, SortValueDescNumeric)
	if !okHour || !okDay {
		return TemporalInsight{}
	}

	h, _ := strconv.Atoi(hour.Key)
	d, _ := strconv.Atoi(day.Key)
	return TemporalInsight{
		Available:   true,
		PeakHour:    h,
		PeakDay:     d,
		PeakDayName: DayName(d),
	}
}

// DayName names a Monday=0 weekday index.
func DayName(day int) string {
	return time.Weekday((day + 1) % 7).String()
}

// ============================================================================
// 5. USER ENGAGEMENT
// ============================================================================

func engagementInsight(view RecordView, threshold int) EngagementInsight {
	users := GroupAndAggregate(view, schema.ColUserID, schema.ColUserActivityLevel, AggMax, "")
	heavy := 0
	for _, u := range users {
		if u.Value >= float64(threshold) {
			heavy++
		}
	}

	return EngagementInsight{
		Available:    true,
		MaxActivity:  int(MaxMeasure(view, schema.ColUserActivityLevel)),
		MeanActivity: AvgMeasure(view, schema.ColUserActivityLevel),
		HeavyUsers:   heavy,
		Threshold:    threshold,
	}
}

// ============================================================================
// 6. MOVIE AGE
// ============================================================================

func ageInsight(view RecordView) AgeInsight {
	groups := GroupAndAggregate(view, schema.ColDecade, schema.ColRating, AggAvg, SortValueDesc)
	if len(groups) == 0 {
		return AgeInsight{}
	}

	ins := AgeInsight{
		Available:      true,
		BestDecade:     groups[0].Key,
		BestDecadeMean: groups[0].Value,
		MeanMovieAge:   dataset.None[float64](),
		Decades:        make([]DecadeStat, 0, len(groups)),
	}
	for _, g := range groups {
		ins.Decades = append(ins.Decades, DecadeStat{Decade: g.Key, MeanRating: g.Value, Count: g.Count})
	}
	sort.Slice(ins.Decades, func(i, j int) bool {
		return DecadeRank(ins.Decades[i].Decade) < DecadeRank(ins.Decades[j].Decade)
	})

	known := Where(view, DimReleaseKnown, "true")
	if known.Len() > 0 {
		ins.MeanMovieAge = dataset.Some(AvgMeasure(known, schema.ColMovieAgeAtRating))
	}
	return ins
}
