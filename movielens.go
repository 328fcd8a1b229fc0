// Package movielens computes derived features and summary insights over the
// MovieLens "small" dataset (ratings, movies, tags, links).
//
// Usage:
//
//	import "github.com/spektr-org/movielens/pipeline"
//
//	res, err := pipeline.New(logger).Run(pipeline.Options{
//	    Paths:  dataset.PathsIn("ml-latest-small"),
//	    Output: "enhanced_movielens_dataset.csv",
//	})
//	report.Text{}.Render(os.Stdout, res.Insights)
//
// The stages can also be called one by one: dataset.Loader reads the CSV
// tables, engine.Merge joins ratings with movies, engine.Derive adds the
// feature columns, engine.Extract returns the structured insight record and
// export.WriteFile writes the enriched table. Rendering is a separate
// concern handled by the report package.
package movielens
