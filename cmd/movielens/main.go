package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/spektr-org/movielens/apperrors"
	"github.com/spektr-org/movielens/config"
	"github.com/spektr-org/movielens/logging"
	"github.com/spektr-org/movielens/pipeline"
	"github.com/spektr-org/movielens/report"
)

// ============================================================================
// MOVIELENS CLI - Feature engineering and insights for MovieLens
// ============================================================================

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, so tests can drive it.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("movielens", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// ── Flags ─────────────────────────────────────────────────────────────
	configPath := fs.String("config", "movielens.yaml", "Path to YAML config (optional)")
	dataDir := fs.String("data-dir", "", "Directory holding ratings.csv, movies.csv, tags.csv, links.csv")
	out := fs.String("out", "", "Enriched CSV output path")
	reportFormat := fs.String("report-format", "", "Report format: text, markdown, json, yaml")
	reportOut := fs.String("report-out", "", "Write the report to a file instead of stdout")
	logMode := fs.String("log-mode", "", "Logging: dev, prod, nop")
	showVersion := fs.Bool("version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `movielens - feature engineering and insights for MovieLens

Usage:
  movielens --data-dir ml-latest-small
  movielens --data-dir ml-latest-small --report-format markdown --report-out report.md
  movielens --config movielens.yaml --out enriched.csv --log-mode prod

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, `
Environment:
  MOVIELENS_DATA_DIR, MOVIELENS_OUTPUT, MOVIELENS_REPORT_FORMAT,
  MOVIELENS_REPORT_OUT, MOVIELENS_LOG_MODE, MOVIELENS_HIGH_RATING,
  MOVIELENS_HEAVY_USER override the config file. Flags override both.
`)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "movielens %s\n", version)
		return 0
	}

	// ── Config ────────────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fail(stderr, err)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data-dir":
			cfg.DataDir = *dataDir
		case "out":
			cfg.Output = *out
		case "report-format":
			cfg.Report.Format = *reportFormat
		case "report-out":
			cfg.Report.Out = *reportOut
		case "log-mode":
			cfg.LogMode = *logMode
		}
	})
	if err := cfg.Validate(); err != nil {
		return fail(stderr, err)
	}

	renderer, err := report.For(cfg.Report.Format)
	if err != nil {
		return fail(stderr, err)
	}

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return fail(stderr, err)
	}
	defer logger.Sync()

	// ── Run ───────────────────────────────────────────────────────────────
	res, err := pipeline.New(logger).Run(pipeline.FromConfig(cfg))
	if err != nil {
		return fail(stderr, err)
	}

	// ── Render ────────────────────────────────────────────────────────────
	w := stdout
	if cfg.Report.Out != "" {
		f, err := os.Create(cfg.Report.Out)
		if err != nil {
			return fail(stderr, &apperrors.WriteError{Path: cfg.Report.Out, Err: err})
		}
		defer f.Close()
		w = f
	}
	if err := renderer.Render(w, res.Insights); err != nil {
		return fail(stderr, &apperrors.WriteError{Path: reportSink(cfg.Report.Out), Err: err})
	}
	if cfg.Report.Out != "" {
		logger.Info("report written", zap.String("path", cfg.Report.Out), zap.String("format", cfg.Report.Format))
	}
	return 0
}

func reportSink(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}

// fail prints err, which names the failing resource or column, and
// returns the exit code.
func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}
