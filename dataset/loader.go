package dataset

import (
	"math"

	"go.uber.org/zap"
)

// Loader reads the four MovieLens tables and reports data quality.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a Loader. A nil logger disables logging.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger.Named("loader")}
}

// Load reads every table in paths. The first failure aborts the load;
// duplicates and off-scale ratings are only reported.
func (l *Loader) Load(paths Paths) (*Dataset, error) {
	ratings, err := LoadRatings(paths.Ratings)
	if err != nil {
		return nil, err
	}
	l.loaded(ratings.Resource, ratings.Quality)

	movies, err := LoadMovies(paths.Movies)
	if err != nil {
		return nil, err
	}
	l.loaded(movies.Resource, movies.Quality)

	tags, err := LoadTags(paths.Tags)
	if err != nil {
		return nil, err
	}
	l.loaded(tags.Resource, tags.Quality)

	links, err := LoadLinks(paths.Links)
	if err != nil {
		return nil, err
	}
	l.loaded(links.Resource, links.Quality)

	ds := &Dataset{
		Ratings:         ratings,
		Movies:          movies,
		Tags:            tags,
		Links:           links,
		OffScaleRatings: CountOffScale(ratings.Rows),
	}
	if ds.OffScaleRatings > 0 {
		l.logger.Warn("ratings outside the 0.5-5.0 half-star scale",
			zap.Int("count", ds.OffScaleRatings))
	}
	return ds, nil
}

func (l *Loader) loaded(resource string, q TableQuality) {
	l.logger.Info("table loaded",
		zap.String("resource", resource),
		zap.Int("rows", q.Rows),
		zap.Int("duplicates", q.Duplicates),
		zap.Int("missing", q.Missing))
}

// OnScale reports whether r is one of 0.5, 1.0, ..., 5.0.
func OnScale(r float64) bool {
	if r < 0.5 || r > 5.0 {
		return false
	}
	doubled := r * 2
	return doubled == math.Trunc(doubled)
}

// CountOffScale counts ratings that are not on the half-star scale.
func CountOffScale(ratings []Rating) int {
	n := 0
	for _, r := range ratings {
		if !OnScale(r.Rating) {
			n++
		}
	}
	return n
}
