package engine

import (
	"strconv"

	"github.com/spektr-org/movielens/schema"
)

// ============================================================================
// RECORD VIEW - Zero-Copy Data Access Interface
// ============================================================================
// Aggregations never copy the enriched table. They read through this
// interface.
//
// Implementations:
//   DomainView[T]  - reads typed structs via accessor functions (zero-copy)
//   SubView        - filtered or grouped subset (indices into parent)
// ============================================================================

// RecordView provides indexed access to a dataset.
// Dimension/Measure are called in tight loops - keep implementations fast.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
}

// ============================================================================
// SUB VIEW - filtered subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView.
// Holds indices into the parent - no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return 0
	}
	return v.parent.Measure(v.indices[i], key)
}

// ============================================================================
// DOMAIN ADAPTER - Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[Enriched]().
//	    Dimension("decade", func(e Enriched) string { return e.Decade }).
//	    Measure("rating", func(e Enriched) float64 { return e.Rating })
//
//	view := adapter.Bind(records)
//
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	dims map[string]func(T) string
	meas map[string]func(T) float64
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) float64),
	}
}

// Dimension registers a dimension accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	a.dims[key] = fn
	return a
}

// Measure registers a measure accessor.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) float64) *DomainAdapter[T] {
	a.meas[key] = fn
	return a
}

// Bind creates a RecordView from a data slice. Zero-copy - holds reference.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{data: data, dims: a.dims, meas: a.meas}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data []T
	dims map[string]func(T) string
	meas map[string]func(T) float64
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.data) {
		return ""
	}
	if fn, ok := v.dims[key]; ok {
		return fn(v.data[i])
	}
	return ""
}

func (v *DomainView[T]) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.data) {
		return 0
	}
	if fn, ok := v.meas[key]; ok {
		return fn(v.data[i])
	}
	return 0
}

// ============================================================================
// ENRICHED ADAPTER
// ============================================================================
// Dimension and measure keys reuse the export column names. Optional
// features read as "" (dimension) or 0 (measure) when absent; callers that
// care filter on the matching presence dimension first.
// ============================================================================

// DimReleaseKnown is "true" when the row has a release year.
const DimReleaseKnown = "release_known"

// EnrichedAdapter exposes Enriched rows to the grouping functions.
var EnrichedAdapter = NewDomainAdapter[Enriched]().
	Dimension(schema.ColUserID, func(e Enriched) string { return strconv.Itoa(e.UserID) }).
	Dimension(schema.ColMovieID, func(e Enriched) string { return strconv.Itoa(e.MovieID) }).
	Dimension(schema.ColTitle, func(e Enriched) string { return e.Title }).
	Dimension(schema.ColGenres, func(e Enriched) string { return e.Genres }).
	Dimension(schema.ColRating, func(e Enriched) string { return strconv.FormatFloat(e.Rating, 'g', -1, 64) }).
	Dimension(schema.ColRatingHour, func(e Enriched) string { return strconv.Itoa(e.RatingHour) }).
	Dimension(schema.ColRatingDayOfWeek, func(e Enriched) string { return strconv.Itoa(e.RatingDayOfWeek) }).
	Dimension(schema.ColDecade, func(e Enriched) string { return e.Decade }).
	Dimension(DimReleaseKnown, func(e Enriched) string { return strconv.FormatBool(e.ReleaseYear.IsPresent()) }).
	Measure(schema.ColRating, func(e Enriched) float64 { return e.Rating }).
	Measure(schema.ColGenreCount, func(e Enriched) float64 { return float64(e.GenreCount) }).
	Measure(schema.ColPopularityScore, func(e Enriched) float64 { return float64(e.PopularityScore) }).
	Measure(schema.ColUserActivityLevel, func(e Enriched) float64 { return float64(e.UserActivityLevel) }).
	Measure(schema.ColMovieAgeAtRating, func(e Enriched) float64 { return float64(e.MovieAgeAtRating.OrElse(0)) }).
	Measure(schema.ColTimestamp, func(e Enriched) float64 { return float64(e.Timestamp) })

// BindEnriched wraps enriched rows as a RecordView.
func BindEnriched(records []Enriched) RecordView {
	return EnrichedAdapter.Bind(records)
}
