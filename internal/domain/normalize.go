package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the fixed day/month/year format used by the dataset exports.
const dateLayout = "02/01/2006"

// DedupePolicy selects which row survives when the source contains more than
// one row for the same date.
type DedupePolicy string

const (
	// DedupeKeepFirst keeps the first row per date after the stable sort,
	// matching the published dataset's own cleaning notebook.
	DedupeKeepFirst DedupePolicy = "first"
	// DedupeKeepLast keeps the last row per date.
	DedupeKeepLast DedupePolicy = "last"
)

// Options control normalization behavior that the source data leaves
// ambiguous. The zero value means keep-first deduplication and optional
// weather columns.
type Options struct {
	// Dedupe picks the surviving row for duplicate dates. Empty means
	// DedupeKeepFirst.
	Dedupe DedupePolicy
	// RequireWeather makes an unresolved weather concept a SchemaError
	// instead of a tolerated absence. The correlation view needs this;
	// the temporal and regional views do not.
	RequireWeather bool
}

func (o Options) dedupe() DedupePolicy {
	if o.Dedupe == DedupeKeepLast {
		return DedupeKeepLast
	}
	return DedupeKeepFirst
}

// Fingerprint returns a stable string encoding of the options, used as part
// of memoization keys so runs with different options never share a result.
func (o Options) Fingerprint() string {
	return string(o.dedupe()) + "|" + strconv.FormatBool(o.RequireWeather)
}

// CanonicalColumn converts a source column name to its canonical identifier:
// trimmed, lower-cased, internal spaces replaced with underscores.
func CanonicalColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Normalize validates and cleans a raw tabular dataset into a DailyTable.
//
// Structural problems (no date column, missing region columns, and missing
// weather concepts when opts.RequireWeather is set) fail with a *SchemaError
// that enumerates every offending column. Row-level problems are tolerated:
// rows whose date fails to parse are dropped, and missing or non-numeric
// cells are excluded from sums rather than treated as zero.
//
// The transform is pure and deterministic; identical input and options
// always produce an identical table.
func Normalize(raw RawTable, opts Options) (DailyTable, error) {
	index := columnIndex(raw.Columns)

	schemaErr := &SchemaError{}

	dateIdx, ok := index["date"]
	if !ok {
		schemaErr.MissingDate = true
	}

	regionIdx := make(map[Region]int, len(Regions))
	for _, r := range Regions {
		i, ok := index[string(r)]
		if !ok {
			schemaErr.MissingRegions = append(schemaErr.MissingRegions, r)
			continue
		}
		regionIdx[r] = i
	}

	weatherIdx, resolved := resolveWeather(index)
	if opts.RequireWeather {
		for _, w := range WeatherVars {
			if _, ok := resolved[w]; !ok {
				schemaErr.MissingWeather = append(schemaErr.MissingWeather, w)
			}
		}
	}

	if schemaErr.MissingDate || len(schemaErr.MissingRegions) > 0 || len(schemaErr.MissingWeather) > 0 {
		return DailyTable{}, schemaErr
	}

	observations := make([]DailyObservation, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		date, ok := parseDate(cell(row, dateIdx))
		if !ok {
			continue
		}

		obs := DailyObservation{
			Date:    date,
			Regions: make(map[Region]*float64, len(Regions)),
		}
		for _, r := range Regions {
			v := parseNumeric(cell(row, regionIdx[r]))
			obs.Regions[r] = v
			if v != nil {
				obs.TotalCases += *v
			}
		}
		if len(weatherIdx) > 0 {
			obs.Weather = make(map[WeatherVar]*float64, len(weatherIdx))
			for w, i := range weatherIdx {
				obs.Weather[w] = parseNumeric(cell(row, i))
			}
		}
		observations = append(observations, obs)
	}

	sort.SliceStable(observations, func(i, j int) bool {
		return observations[i].Date.Before(observations[j].Date)
	})
	observations = dedupeByDate(observations, opts.dedupe())

	return DailyTable{Observations: observations, WeatherResolved: resolved}, nil
}

// columnIndex maps canonical column names to their position. When two source
// columns canonicalize to the same name, the first occurrence wins.
func columnIndex(columns []string) map[string]int {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		name := CanonicalColumn(c)
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	return index
}

// resolveWeather tries each concept's aliases in preference order and
// returns the column index and winning source column per resolved concept.
func resolveWeather(index map[string]int) (map[WeatherVar]int, map[WeatherVar]string) {
	idx := make(map[WeatherVar]int)
	resolved := make(map[WeatherVar]string)
	for _, w := range WeatherVars {
		for _, alias := range weatherAliases[w] {
			if i, ok := index[alias]; ok {
				idx[w] = i
				resolved[w] = alias
				break
			}
		}
	}
	return idx, resolved
}

// dedupeByDate collapses rows sharing a date down to one. The input must
// already be sorted by date; the stable sort preserves source order within
// a date, so "first" and "last" refer to source encounter order.
func dedupeByDate(observations []DailyObservation, policy DedupePolicy) []DailyObservation {
	out := observations[:0]
	for _, obs := range observations {
		if len(out) > 0 && out[len(out)-1].Date.Equal(obs.Date) {
			if policy == DedupeKeepLast {
				out[len(out)-1] = obs
			}
			continue
		}
		out = append(out, obs)
	}
	return out
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseDate parses a dd/mm/yyyy value, normalizing to midnight UTC.
// Returns false for anything that does not match the layout.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseNumeric parses a cell as float64, returning nil for empty or
// non-numeric values so they can be excluded from sums and means.
func parseNumeric(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
