package engine

import (
	"time"

	"github.com/spektr-org/movielens/dataset"
)

// ============================================================================
// ENGINE TYPES - Enriched records, groups, and the insight record
// ============================================================================
// Enriched is the central entity: one rating joined with its movie plus the
// derived features. It is created by Merge, completed by Derive, and never
// mutated afterwards.
// ============================================================================

// ============================================================================
// ENRICHED RECORD
// ============================================================================

// Enriched is one rating left-extended with movie metadata and derived features.
type Enriched struct {
	UserID    int       `json:"userId"`
	MovieID   int       `json:"movieId"`
	Rating    float64   `json:"rating"`
	Timestamp int64     `json:"timestamp"`
	Title     string    `json:"title"`
	Genres    string    `json:"genres"`
	RatedAt   time.Time `json:"datetime"` // UTC, seconds resolution

	ReleaseYear      dataset.Optional[int] `json:"releaseYear"`
	GenreCount       int                   `json:"genreCount"`
	RatingYear       int                   `json:"ratingYear"`
	MovieAgeAtRating dataset.Optional[int] `json:"movieAgeAtRating"`
	RatingHour       int                   `json:"ratingHour"`
	RatingDayOfWeek  int                   `json:"ratingDayOfWeek"` // Monday=0
	RatingMonth      int                   `json:"ratingMonth"`

	// Broadcast group statistics.
	PopularityScore   int     `json:"popularityScore"`
	AvgMovieRating    float64 `json:"avgMovieRating"`
	UserActivityLevel int     `json:"userActivityLevel"`

	Decade string `json:"decade"`
}

// ============================================================================
// GROUP - Intermediate computation result
// ============================================================================

// Group is one bucket of a grouped view with its aggregate value.
type Group struct {
	Key   string     `json:"key"`
	Value float64    `json:"value"`
	Count int        `json:"count"`
	View  RecordView `json:"-"` // rows in this group (zero-copy)
}

// ============================================================================
// INSIGHTS - Structured result of Extract
// ============================================================================
// Every insight carries Available. An insight computed over no rows is
// Available=false and its statistics are zero.
// ============================================================================

// Insights is the structured insight record consumed by report renderers.
// RunID and Quality are stamped by the caller; Extract leaves them empty.
type Insights struct {
	RunID      string            `json:"runId,omitempty" yaml:"runId,omitempty"`
	Quality    *dataset.Quality  `json:"quality,omitempty" yaml:"quality,omitempty"`
	Overview   Overview          `json:"overview" yaml:"overview"`
	Ratings    RatingInsight     `json:"ratings" yaml:"ratings"`
	Popularity PopularityInsight `json:"popularity" yaml:"popularity"`
	Genres     GenreInsight      `json:"genres" yaml:"genres"`
	Temporal   TemporalInsight   `json:"temporal" yaml:"temporal"`
	Engagement EngagementInsight `json:"engagement" yaml:"engagement"`
	Age        AgeInsight        `json:"age" yaml:"age"`
}

// Overview holds the basic statistics of the enriched table.
type Overview struct {
	Available   bool      `json:"available" yaml:"available"`
	Users       int       `json:"users" yaml:"users"`
	Movies      int       `json:"movies" yaml:"movies"`
	Ratings     int       `json:"ratings" yaml:"ratings"`
	MeanRating  float64   `json:"meanRating" yaml:"meanRating"`
	FirstRating time.Time `json:"firstRating" yaml:"firstRating"`
	LastRating  time.Time `json:"lastRating" yaml:"lastRating"`
}

// RatingInsight describes the rating distribution.
type RatingInsight struct {
	Available  bool    `json:"available" yaml:"available"`
	MostCommon float64 `json:"mostCommon" yaml:"mostCommon"`
	HighShare  float64 `json:"highShare" yaml:"highShare"` // fraction of ratings >= threshold
	Threshold  float64 `json:"threshold" yaml:"threshold"`
}

// PopularityInsight describes the most rated title.
type PopularityInsight struct {
	Available      bool    `json:"available" yaml:"available"`
	TopTitle       string  `json:"topTitle" yaml:"topTitle"`
	TopCount       int     `json:"topCount" yaml:"topCount"`
	MeanPopularity float64 `json:"meanPopularity" yaml:"meanPopularity"`
}

// GenreInsight describes genre frequency. MostCommon is absent when no row
// has a real genre.
type GenreInsight struct {
	Available      bool                     `json:"available" yaml:"available"`
	MostCommon     dataset.Optional[string] `json:"mostCommon" yaml:"mostCommon"`
	MostCommonRows int                      `json:"mostCommonRows" yaml:"mostCommonRows"`
	MeanGenreCount float64                  `json:"meanGenreCount" yaml:"meanGenreCount"`
}

// TemporalInsight holds the busiest hour and weekday.
type TemporalInsight struct {
	Available   bool   `json:"available" yaml:"available"`
	PeakHour    int    `json:"peakHour" yaml:"peakHour"`
	PeakDay     int    `json:"peakDay" yaml:"peakDay"` // Monday=0
	PeakDayName string `json:"peakDayName" yaml:"peakDayName"`
}

// EngagementInsight describes user activity.
type EngagementInsight struct {
	Available    bool    `json:"available" yaml:"available"`
	MaxActivity  int     `json:"maxActivity" yaml:"maxActivity"`
	MeanActivity float64 `json:"meanActivity" yaml:"meanActivity"`
	HeavyUsers   int     `json:"heavyUsers" yaml:"heavyUsers"` // distinct users at or above threshold
	Threshold    int     `json:"threshold" yaml:"threshold"`
}

// AgeInsight describes ratings by release decade and movie age.
type AgeInsight struct {
	Available      bool                      `json:"available" yaml:"available"`
	BestDecade     string                    `json:"bestDecade" yaml:"bestDecade"`
	BestDecadeMean float64                   `json:"bestDecadeMean" yaml:"bestDecadeMean"`
	MeanMovieAge   dataset.Optional[float64] `json:"meanMovieAge" yaml:"meanMovieAge"`
	Decades        []DecadeStat              `json:"decades" yaml:"decades"`
}

// DecadeStat is the mean rating of one decade bucket.
type DecadeStat struct {
	Decade     string  `json:"decade" yaml:"decade"`
	MeanRating float64 `json:"meanRating" yaml:"meanRating"`
	Count      int     `json:"count" yaml:"count"`
}
