package dataset

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spektr-org/movielens/apperrors"
	"github.com/spektr-org/movielens/schema"
)

// ── Test Data ─────────────────────────────────────────────────────────────────

const ratingsCSV = `userId,movieId,rating,timestamp
1,1,4.0,964982703
1,3,4.0,964981247
1,6,4.0,964982224
2,1,5.0,964982931
2,1,5.0,964982931
`

const moviesCSV = `movieId,title,genres
1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy
3,Grumpier Old Men (1995),Comedy|Romance
6,Heat (1995),Action|Crime|Thriller
7,"American President, The (1995)",
`

const tagsCSV = `userId,movieId,tag,timestamp
2,60756,funny,1445714994
2,60756,Highly quotable,1445714996
`

const linksCSV = `movieId,imdbId,tmdbId
1,0114709,862
3,0113228,15602
791,0113610,
`

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"ratings.csv": ratingsCSV,
		"movies.csv":  moviesCSV,
		"tags.csv":    tagsCSV,
		"links.csv":   linksCSV,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

// ============================================================================
// READERS
// ============================================================================

func TestReadRatings(t *testing.T) {
	table, err := ReadRatings(strings.NewReader(ratingsCSV), "ratings.csv")
	require.NoError(t, err)

	require.Len(t, table.Rows, 5)
	assert.Equal(t, Rating{UserID: 1, MovieID: 1, Rating: 4.0, Timestamp: 964982703}, table.Rows[0])
	assert.Equal(t, 5, table.Quality.Rows)
	assert.Equal(t, 1, table.Quality.Duplicates, "last row repeats the one before it")
	assert.Equal(t, 0, table.Quality.Missing)
	assert.True(t, table.HasColumn(schema.ColMovieID))
}

func TestReadMoviesBlankGenres(t *testing.T) {
	table, err := ReadMovies(strings.NewReader(moviesCSV), "movies.csv")
	require.NoError(t, err)

	require.Len(t, table.Rows, 4)
	assert.Equal(t, "American President, The (1995)", table.Rows[3].Title)
	assert.Equal(t, schema.NoGenres, table.Rows[3].Genres)
	assert.Equal(t, 1, table.Quality.Missing)
}

func TestReadLinksOptionalTMDb(t *testing.T) {
	table, err := ReadLinks(strings.NewReader(linksCSV), "links.csv")
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	id, ok := table.Rows[0].TMDbID.Get()
	assert.True(t, ok)
	assert.Equal(t, 862, id)
	assert.Equal(t, "0114709", table.Rows[0].IMDbID)

	assert.False(t, table.Rows[2].TMDbID.IsPresent())
	assert.Equal(t, 1, table.Quality.Missing)
}

func TestReadTags(t *testing.T) {
	table, err := ReadTags(strings.NewReader(tagsCSV), "tags.csv")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Highly quotable", table.Rows[1].Tag)
}

func TestReadMissingColumn(t *testing.T) {
	_, err := ReadRatings(strings.NewReader("userId,rating,timestamp\n1,4.0,1\n"), "ratings.csv")
	require.Error(t, err)

	var se *apperrors.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, schema.ColMovieID, se.Column)
	assert.Equal(t, "ratings.csv", se.Resource)
}

func TestReadMalformedRow(t *testing.T) {
	body := "userId,movieId,rating,timestamp\n1,1,4.0,964982703\n1,abc,4.0,964982703\n"
	_, err := ReadRatings(strings.NewReader(body), "ratings.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrLoad))

	var le *apperrors.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 3, le.Line)
	assert.Contains(t, le.Error(), "movieId")
}

func TestReadBlankRequiredNumber(t *testing.T) {
	body := "userId,movieId,rating,timestamp\n1,1,,964982703\n"
	_, err := ReadRatings(strings.NewReader(body), "ratings.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errMissingValue))
}

func TestReadEmptyResource(t *testing.T) {
	_, err := ReadMovies(strings.NewReader(""), "movies.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrLoad))
}

func TestReadHeaderOnly(t *testing.T) {
	table, err := ReadMovies(strings.NewReader("movieId,title,genres\n"), "movies.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

// ============================================================================
// LOADER
// ============================================================================

func TestLoaderLoad(t *testing.T) {
	dir := writeFixtures(t)

	ds, err := NewLoader(zap.NewNop()).Load(PathsIn(dir))
	require.NoError(t, err)

	assert.Equal(t, 5, ds.Ratings.Len())
	assert.Equal(t, 4, ds.Movies.Len())
	assert.Equal(t, 2, ds.Tags.Len())
	assert.Equal(t, 3, ds.Links.Len())

	q := ds.Quality()
	assert.Equal(t, 1, q.Ratings.Duplicates)
	assert.Equal(t, 1, q.Movies.Missing)
	assert.Equal(t, 0, q.OffScaleRatings)
}

func TestLoaderMissingFile(t *testing.T) {
	dir := writeFixtures(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "tags.csv")))

	_, err := NewLoader(nil).Load(PathsIn(dir))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrLoad))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var le *apperrors.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, filepath.Join(dir, "tags.csv"), le.Resource)
}

func TestOnScale(t *testing.T) {
	tests := []struct {
		rating float64
		want   bool
	}{
		{0.5, true},
		{3.5, true},
		{5.0, true},
		{0, false},
		{5.5, false},
		{3.25, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OnScale(tt.rating), "rating %v", tt.rating)
	}
	assert.Equal(t, 2, CountOffScale([]Rating{{Rating: 4}, {Rating: 0}, {Rating: 4.2}}))
}

// ============================================================================
// OPTIONAL
// ============================================================================

func TestOptional(t *testing.T) {
	some := Some(1995)
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, 1995, v)
	assert.Equal(t, 1995, some.OrElse(0))

	none := None[int]()
	assert.False(t, none.IsPresent())
	assert.Equal(t, -1, none.OrElse(-1))

	var zero Optional[string]
	assert.False(t, zero.IsPresent())
}

func TestOptionalJSON(t *testing.T) {
	type row struct {
		Year Optional[int] `json:"year"`
		Age  Optional[int] `json:"age"`
	}
	out, err := json.Marshal(row{Year: Some(1995)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"year":1995,"age":null}`, string(out))

	var back row
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, Some(1995), back.Year)
	assert.False(t, back.Age.IsPresent())
}
