package report

import (
	"strconv"

	"golang.org/x/text/message"

	"github.com/spektr-org/movielens/engine"
)

// ============================================================================
// SECTIONS - Wording shared by the text and markdown renderers
// ============================================================================

const (
	noData        = "No data"
	timeLayout    = "2006-01-02 15:04:05"
	insightsTitle = "6 KEY INSIGHTS FROM ANALYSIS"
)

// section is a titled list of statements.
type section struct {
	Title string
	Lines []string
}

func overviewSection(p *message.Printer, o engine.Overview) section {
	s := section{Title: "BASIC STATISTICS"}
	if !o.Available {
		s.Lines = []string{noData}
		return s
	}
	s.Lines = []string{
		p.Sprintf("Total users: %d", o.Users),
		p.Sprintf("Total movies: %d", o.Movies),
		p.Sprintf("Total ratings: %d", o.Ratings),
		p.Sprintf("Average rating: %.2f", o.MeanRating),
		"Date range: " + o.FirstRating.UTC().Format(timeLayout) + " to " + o.LastRating.UTC().Format(timeLayout),
	}
	return s
}

func qualitySection(p *message.Printer, ins *engine.Insights) (section, bool) {
	q := ins.Quality
	if q == nil {
		return section{}, false
	}
	return section{
		Title: "DATA QUALITY CHECK",
		Lines: []string{
			p.Sprintf("Ratings: %d rows, %d duplicates, %d missing values", q.Ratings.Rows, q.Ratings.Duplicates, q.Ratings.Missing),
			p.Sprintf("Movies: %d rows, %d duplicates, %d missing values", q.Movies.Rows, q.Movies.Duplicates, q.Movies.Missing),
			p.Sprintf("Tags: %d rows, %d duplicates, %d missing values", q.Tags.Rows, q.Tags.Duplicates, q.Tags.Missing),
			p.Sprintf("Links: %d rows, %d duplicates, %d missing values", q.Links.Rows, q.Links.Duplicates, q.Links.Missing),
			p.Sprintf("Ratings off the half-star scale: %d", q.OffScaleRatings),
		},
	}, true
}

// insightSections returns the six numbered insights in order.
func insightSections(p *message.Printer, ins *engine.Insights) []section {
	return []section{
		ratingSection(p, ins.Ratings),
		popularitySection(p, ins.Popularity),
		genreSection(p, ins.Genres),
		temporalSection(ins.Temporal),
		engagementSection(p, ins.Engagement),
		ageSection(p, ins.Age),
	}
}

func ratingSection(p *message.Printer, r engine.RatingInsight) section {
	s := section{Title: "RATING PATTERNS"}
	if !r.Available {
		s.Lines = []string{noData}
		return s
	}
	s.Lines = []string{
		p.Sprintf("Users tend to rate movies positively - %.1f%% of ratings are %s+ stars",
			r.HighShare*100, strconv.FormatFloat(r.Threshold, 'g', -1, 64)),
		p.Sprintf("Most common rating is %.1f stars", r.MostCommon),
	}
	return s
}

func popularitySection(p *message.Printer, r engine.PopularityInsight) section {
	s := section{Title: "MOVIE POPULARITY DISTRIBUTION"}
	if !r.Available {
		s.Lines = []string{noData}
		return s
	}
	s.Lines = []string{
		p.Sprintf("Most popular movie: '%s' with %d ratings", r.TopTitle, r.TopCount),
		p.Sprintf("Average movie receives only %.1f ratings", r.MeanPopularity),
	}
	return s
}

func genreSection(p *message.Printer, r engine.GenreInsight) section {
	s := section{Title: "GENRE PREFERENCES"}
	if !r.Available {
		s.Lines = []string{noData}
		return s
	}
	if g, ok := r.MostCommon.Get(); ok {
		s.Lines = append(s.Lines, p.Sprintf("Most common genre: '%s' (%d ratings)", g, r.MostCommonRows))
	} else {
		s.Lines = append(s.Lines, "No rated movie lists a genre")
	}
	s.Lines = append(s.Lines, p.Sprintf("Movies average %.1f genres", r.MeanGenreCount))
	return s
}

func temporalSection(r engine.TemporalInsight) section {
	s := section{Title: "TEMPORAL RATING BEHAVIOR"}
	if !r.Available {
		s.Lines = []string{noData}
		return s
	}
	s.Lines = []string{
		"Peak rating activity occurs at " + strconv.Itoa(r.PeakHour) + ":00",
		"Most active day: " + r.PeakDayName,
	}
	return s
}

func engagementSection(p *message.Printer, r engine.EngagementInsight) section {
	s := section{Title: "USER ENGAGEMENT PATTERNS"}
	if !r.Available {
		s.Lines = []string{noData}
		return s
	}
	s.Lines = []string{
		p.Sprintf("Most active user rated %d movies", r.MaxActivity),
		p.Sprintf("Average user rates %.1f movies", r.MeanActivity),
		p.Sprintf("%d users rated %d+ movies", r.HeavyUsers, r.Threshold),
	}
	return s
}

func ageSection(p *message.Printer, r engine.AgeInsight) section {
	s := section{Title: "MOVIE AGE AND RATINGS"}
	if !r.Available {
		s.Lines = []string{noData}
		return s
	}
	s.Lines = []string{
		p.Sprintf("%s movies have highest average rating (%.2f)", r.BestDecade, r.BestDecadeMean),
	}
	if age, ok := r.MeanMovieAge.Get(); ok {
		s.Lines = append(s.Lines, p.Sprintf("Average movie is %.1f years old when rated", age))
	} else {
		s.Lines = append(s.Lines, "Movie age unknown: no rated title carries a release year")
	}
	return s
}
