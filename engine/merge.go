package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/movielens/apperrors"
	"github.com/spektr-org/movielens/dataset"
	"github.com/spektr-org/movielens/schema"
)

// ============================================================================
// MERGE - Inner join of ratings and movies on movieId
// ============================================================================
// One output row per rating whose movieId exists in movies, in rating order.
// A movieId listed twice in movies joins with its first occurrence only, so
// the output never holds more rows than the ratings table.
// ============================================================================

// Merge joins ratings with movies and decodes each timestamp to UTC.
// The derived feature fields are left zero; Derive fills them.
func Merge(ratings *dataset.Table[dataset.Rating], movies *dataset.Table[dataset.Movie], opts ...Option) ([]Enriched, error) {
	cfg := applyOptions(opts)

	if err := requireJoinKey(ratings, schema.Ratings.Name); err != nil {
		return nil, err
	}
	if err := requireJoinKey(movies, schema.Movies.Name); err != nil {
		return nil, err
	}

	byID := make(map[int]dataset.Movie, len(movies.Rows))
	duplicates := 0
	for _, m := range movies.Rows {
		if _, seen := byID[m.MovieID]; seen {
			duplicates++
			continue
		}
		byID[m.MovieID] = m
	}
	if duplicates > 0 {
		cfg.Logger.Warn("duplicate movieId in movies; first occurrence used",
			zap.String("resource", movies.Resource),
			zap.Int("duplicates", duplicates))
	}

	out := make([]Enriched, 0, len(ratings.Rows))
	for _, r := range ratings.Rows {
		m, ok := byID[r.MovieID]
		if !ok {
			continue
		}
		out = append(out, Enriched{
			UserID:    r.UserID,
			MovieID:   r.MovieID,
			Rating:    r.Rating,
			Timestamp: r.Timestamp,
			Title:     m.Title,
			Genres:    m.Genres,
			RatedAt:   time.Unix(r.Timestamp, 0).UTC(),
		})
	}

	cfg.Logger.Info("ratings merged with movies",
		zap.Int("rows", len(out)),
		zap.Int("unmatched", len(ratings.Rows)-len(out)))
	return out, nil
}

func requireJoinKey[T any](t *dataset.Table[T], name string) error {
	if t == nil {
		return &apperrors.SchemaError{Resource: name, Column: schema.ColMovieID}
	}
	if !t.HasColumn(schema.ColMovieID) {
		resource := t.Resource
		if resource == "" {
			resource = name
		}
		return &apperrors.SchemaError{Resource: resource, Column: schema.ColMovieID}
	}
	return nil
}
