package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/movielens/dataset"
	"github.com/spektr-org/movielens/engine"
	"github.com/spektr-org/movielens/schema"
)

func sampleInsights() *engine.Insights {
	return &engine.Insights{
		RunID: "run-1",
		Quality: &dataset.Quality{
			Ratings: dataset.TableQuality{Rows: 100836},
			Movies:  dataset.TableQuality{Rows: 9742},
		},
		Overview: engine.Overview{
			Available: true, Users: 610, Movies: 9724, Ratings: 100836, MeanRating: 3.501556983616962,
			FirstRating: time.Date(1996, 3, 29, 18, 36, 55, 0, time.UTC),
			LastRating:  time.Date(2018, 9, 24, 14, 27, 30, 0, time.UTC),
		},
		Ratings:    engine.RatingInsight{Available: true, MostCommon: 4, HighShare: 0.6, Threshold: 3.5},
		Popularity: engine.PopularityInsight{Available: true, TopTitle: "Forrest Gump (1994)", TopCount: 329, MeanPopularity: 58.76},
		Genres:     engine.GenreInsight{Available: true, MostCommon: dataset.Some("Drama"), MostCommonRows: 41928, MeanGenreCount: 2.64},
		Temporal:   engine.TemporalInsight{Available: true, PeakHour: 20, PeakDay: 0, PeakDayName: "Monday"},
		Engagement: engine.EngagementInsight{Available: true, MaxActivity: 2698, MeanActivity: 1437.4, HeavyUsers: 300, Threshold: 100},
		Age: engine.AgeInsight{
			Available: true, BestDecade: "Pre-1950", BestDecadeMean: 3.9, MeanMovieAge: dataset.Some(17.31),
			Decades: []engine.DecadeStat{
				{Decade: "Pre-1950", MeanRating: 3.9, Count: 4000},
				{Decade: "Unknown", MeanRating: 3.2, Count: 18},
			},
		},
	}
}

func TestFor(t *testing.T) {
	tests := map[string]Renderer{
		"text":     Text{},
		"":         Text{},
		"Markdown": Markdown{},
		"md":       Markdown{},
		"json":     JSON{Indent: "  "},
		"YML":      YAML{},
	}
	for format, want := range tests {
		got, err := For(format)
		require.NoError(t, err, format)
		assert.IsType(t, want, got, format)
	}

	_, err := For("pdf")
	assert.Error(t, err)
}

func TestTextRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text{}.Render(&buf, sampleInsights()))
	out := buf.String()

	assert.Contains(t, out, "Run: run-1")
	assert.Contains(t, out, "- Total ratings: 100,836")
	assert.Contains(t, out, "- Average rating: 3.50")
	assert.Contains(t, out, "- Date range: 1996-03-29 18:36:55 to 2018-09-24 14:27:30")
	assert.Contains(t, out, "DATA QUALITY CHECK:")
	assert.Contains(t, out, "INSIGHT 1 - RATING PATTERNS:\n- Users tend to rate movies positively - 60.0% of ratings are 3.5+ stars\n- Most common rating is 4.0 stars")
	assert.Contains(t, out, "- Most popular movie: 'Forrest Gump (1994)' with 329 ratings")
	assert.Contains(t, out, "- Most common genre: 'Drama' (41,928 ratings)")
	assert.Contains(t, out, "- Peak rating activity occurs at 20:00")
	assert.Contains(t, out, "- Most active day: Monday")
	assert.Contains(t, out, "- Most active user rated 2,698 movies")
	assert.Contains(t, out, "- 300 users rated 100+ movies")
	assert.Contains(t, out, "INSIGHT 6 - MOVIE AGE AND RATINGS:\n- Pre-1950 movies have highest average rating (3.90)\n- Average movie is 17.3 years old when rated")
}

func TestTextRenderNoData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text{}.Render(&buf, engine.Extract(nil)))
	out := buf.String()

	assert.Contains(t, out, "BASIC STATISTICS:\n- No data\n")
	for _, title := range []string{
		"INSIGHT 1 - RATING PATTERNS",
		"INSIGHT 2 - MOVIE POPULARITY DISTRIBUTION",
		"INSIGHT 3 - GENRE PREFERENCES",
		"INSIGHT 4 - TEMPORAL RATING BEHAVIOR",
		"INSIGHT 5 - USER ENGAGEMENT PATTERNS",
		"INSIGHT 6 - MOVIE AGE AND RATINGS",
	} {
		assert.Contains(t, out, title+":\n- No data\n")
	}
	assert.NotContains(t, out, "DATA QUALITY")
}

func TestTextRenderAbsentValues(t *testing.T) {
	ins := sampleInsights()
	ins.Genres.MostCommon = dataset.None[string]()
	ins.Age.MeanMovieAge = dataset.None[float64]()

	var buf bytes.Buffer
	require.NoError(t, Text{}.Render(&buf, ins))
	assert.Contains(t, buf.String(), "- No rated movie lists a genre")
	assert.Contains(t, buf.String(), "- Movie age unknown")
}

func TestMarkdownRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown{}.Render(&buf, sampleInsights()))
	out := buf.String()

	assert.Contains(t, out, "# MovieLens Dataset Analysis")
	assert.Contains(t, out, "## Basic Statistics")
	assert.Contains(t, out, "### 1. Rating Patterns")
	assert.Contains(t, out, "## 6 Key Insights from Analysis")
	assert.Contains(t, out, "### 6. Movie Age and Ratings")
	assert.NotContains(t, out, "And Ratings")
	assert.Contains(t, out, "| Decade | Ratings | Average rating |\n| --- | ---: | ---: |\n| Pre-1950 | 4,000 | 3.90 |\n| Unknown | 18 | 3.20 |")
}

func TestHeadingCase(t *testing.T) {
	h := newHeadingCaser()
	assert.Equal(t, "Movie Age and Ratings", h.String("MOVIE AGE AND RATINGS"))
	assert.Equal(t, "User Engagement Patterns", h.String("USER ENGAGEMENT PATTERNS"))
	assert.Equal(t, "The Data Quality Check", h.String("THE DATA QUALITY CHECK"))
}

func TestColumnLabel(t *testing.T) {
	assert.Equal(t, "Decade", columnLabel(schema.ColDecade))
	assert.Equal(t, "Rated At", columnLabel(schema.ColDatetime))
	assert.Equal(t, "unknown", columnLabel("unknown"))
}

func TestJSONRender(t *testing.T) {
	ins := sampleInsights()
	ins.Genres.MostCommon = dataset.None[string]()

	var buf bytes.Buffer
	require.NoError(t, JSON{}.Render(&buf, ins))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["runId"])

	genres := decoded["genres"].(map[string]any)
	assert.Nil(t, genres["mostCommon"])
	age := decoded["age"].(map[string]any)
	assert.Equal(t, 17.31, age["meanMovieAge"])
}

func TestYAMLRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML{}.Render(&buf, sampleInsights()))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["runId"])

	popularity := decoded["popularity"].(map[string]any)
	assert.Equal(t, "Forrest Gump (1994)", popularity["topTitle"])
	assert.Equal(t, 329, popularity["topCount"])
	genres := decoded["genres"].(map[string]any)
	assert.Equal(t, "Drama", genres["mostCommon"])
}
