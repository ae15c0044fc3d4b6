// Command validate runs the normalizer against a local dataset file and
// prints a full diagnosis: row counts, dropped rows, deduplication effects,
// resolved weather columns, and every schema problem in one pass. Exits
// non-zero when the dataset fails schema validation.
//
// Usage:
//
//	go run ./cmd/validate -file hfmd_data.csv
//	go run ./cmd/validate -file hfmd_data.xlsx -format xlsx -require-weather
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/epiwatch/hfmd-dashboard/internal/adapter/source"
	"github.com/epiwatch/hfmd-dashboard/internal/domain"
)

func main() {
	file := flag.String("file", "", "path to the dataset file")
	format := flag.String("format", "", "dataset format: csv or xlsx (default: from extension)")
	requireWeather := flag.Bool("require-weather", false, "fail when weather columns cannot be resolved")
	dedupe := flag.String("dedupe", "first", "duplicate-date policy: first or last")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*file, *format, *dedupe, *requireWeather); code != 0 {
		os.Exit(code)
	}
}

func run(file, formatFlag, dedupe string, requireWeather bool) int {
	formatStr := formatFlag
	if formatStr == "" {
		formatStr = strings.TrimPrefix(filepath.Ext(file), ".")
	}
	format, err := source.ParseFormat(formatStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	opts := domain.Options{RequireWeather: requireWeather}
	switch dedupe {
	case "first":
		opts.Dedupe = domain.DedupeKeepFirst
	case "last":
		opts.Dedupe = domain.DedupeKeepLast
	default:
		fmt.Fprintf(os.Stderr, "FATAL: invalid -dedupe %q (want first or last)\n", dedupe)
		return 1
	}

	raw, err := source.NewFileLoader(file, format).Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	fmt.Printf("=== Dataset Validation: %s ===\n\n", file)
	fmt.Printf("columns (%d):\n", len(raw.Columns))
	for _, c := range raw.Columns {
		fmt.Printf("  %-24s -> %s\n", c, domain.CanonicalColumn(c))
	}
	fmt.Printf("raw rows: %d\n\n", len(raw.Rows))

	daily, err := domain.Normalize(raw, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "SCHEMA FAIL: %v\n", err)
		return 2
	}

	dropped := len(raw.Rows) - len(daily.Observations)
	fmt.Printf("clean daily rows: %d (dropped %d)\n", len(daily.Observations), dropped)
	if n := len(daily.Observations); n > 0 {
		first := daily.Observations[0].Date
		last := daily.Observations[n-1].Date
		fmt.Printf("date range: %s .. %s\n", first.Format("2006-01-02"), last.Format("2006-01-02"))
	}

	if len(daily.WeatherResolved) == 0 {
		fmt.Println("weather columns: none resolved")
	} else {
		fmt.Println("weather columns:")
		for _, w := range domain.WeatherVars {
			if col, ok := daily.WeatherResolved[w]; ok {
				fmt.Printf("  %-12s <- %s\n", w.Name(), col)
			} else {
				fmt.Printf("  %-12s <- (unresolved)\n", w.Name())
			}
		}
	}

	monthly := domain.AggregateMonthly(daily, domain.LabelMonthEnd)
	fmt.Printf("monthly rows: %d\n", len(monthly.Records))

	summary := domain.Summarize(monthly)
	if f := summary.StrongestFactor; f != nil {
		fmt.Printf("strongest weather factor: %s (r=%+.2f)\n", f.Name(), *summary.Correlations[*f])
	}
	if y := summary.PeakYear; y != nil {
		fmt.Printf("peak year: %d (%.1f mean monthly cases)\n", y.Year, y.MeanCases)
	}
	if summary.SeasonalPeakWindow != "" {
		fmt.Printf("seasonal peak window: %s\n", summary.SeasonalPeakWindow)
	}

	fmt.Println("\nOK")
	return 0
}
