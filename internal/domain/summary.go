package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
)

// minCorrelationPoints is the smallest number of paired observations for
// which a Pearson correlation is considered defined. Below it the metric is
// nil, not zero: two points always correlate perfectly and say nothing.
const minCorrelationPoints = 3

// seasonalWindowSize is how many climatology months form the seasonal peak
// window label.
const seasonalWindowSize = 3

// ClimatologyPoint is the mean monthly case load for one calendar month,
// collapsed across all years.
type ClimatologyPoint struct {
	Month     int     `json:"month"`
	MeanCases float64 `json:"mean_cases"`
}

// YearMean is the mean monthly case load for one year.
type YearMean struct {
	Year      int     `json:"year"`
	MeanCases float64 `json:"mean_cases"`
}

// RegionalSummary ranks regions by their mean monthly case load. Highest and
// Lowest are empty when no region has data; Gap is their difference.
type RegionalSummary struct {
	Means           map[Region]*float64 `json:"means"`
	Highest         Region              `json:"highest,omitempty"`
	Lowest          Region              `json:"lowest,omitempty"`
	Gap             *float64            `json:"gap,omitempty"`
	AvgMonthlyCases *float64            `json:"avg_monthly_cases,omitempty"`
}

// Summary is the full derived-metric bundle computed from a monthly table.
// Every field is a pure function of the table; nil pointers mean the metric
// is undefined for the available data, never an error.
type Summary struct {
	Correlations       map[WeatherVar]*float64 `json:"correlations"`
	StrongestFactor    *WeatherVar             `json:"strongest_factor,omitempty"`
	Climatology        []ClimatologyPoint      `json:"climatology"`
	YearlyMeans        []YearMean              `json:"yearly_means"`
	PeakYear           *YearMean               `json:"peak_year,omitempty"`
	SeasonalPeakMonths []time.Month            `json:"seasonal_peak_months,omitempty"`
	SeasonalPeakWindow string                  `json:"seasonal_peak_window,omitempty"`
	Regional           RegionalSummary         `json:"regional"`
}

// Summarize computes the complete metric bundle for a monthly table.
func Summarize(m MonthlyTable) Summary {
	s := Summary{
		Correlations: Correlations(m),
		Climatology:  Climatology(m),
		YearlyMeans:  YearlyMeans(m),
		Regional:     RegionalRanking(m),
	}
	s.StrongestFactor = StrongestFactor(s.Correlations)
	s.PeakYear = peakYear(s.YearlyMeans)
	s.SeasonalPeakMonths = TopSeasonalMonths(s.Climatology, seasonalWindowSize)
	s.SeasonalPeakWindow = SeasonalWindowLabel(s.SeasonalPeakMonths)
	return s
}

// Correlation computes the Pearson correlation between a weather variable's
// monthly means and the monthly total cases, over months where the weather
// value is present. Returns nil when fewer than minCorrelationPoints pairs
// exist or the variable never resolved to a column.
func Correlation(m MonthlyTable, w WeatherVar) *float64 {
	var xs, ys []float64
	for _, rec := range m.Records {
		v := rec.Weather[w]
		if v == nil {
			continue
		}
		xs = append(xs, *v)
		ys = append(ys, rec.TotalCases)
	}
	if len(xs) < minCorrelationPoints {
		return nil
	}
	// A constant series has no linear relationship to measure; pandas
	// reports NaN here and the library reports 0, which would be
	// indistinguishable from a real zero correlation.
	if !hasVariance(xs) || !hasVariance(ys) {
		return nil
	}
	r, err := stats.Pearson(xs, ys)
	if err != nil {
		return nil
	}
	return &r
}

func hasVariance(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return true
		}
	}
	return false
}

// Correlations computes the weather-to-cases correlation for every weather
// concept. Unresolved or data-starved concepts map to nil.
func Correlations(m MonthlyTable) map[WeatherVar]*float64 {
	out := make(map[WeatherVar]*float64, len(WeatherVars))
	for _, w := range WeatherVars {
		out[w] = Correlation(m, w)
	}
	return out
}

// StrongestFactor picks the weather variable with the largest absolute
// correlation. Ties resolve to the earlier variable in WeatherVars order;
// nil when every correlation is undefined.
func StrongestFactor(correlations map[WeatherVar]*float64) *WeatherVar {
	var best *WeatherVar
	bestAbs := -1.0
	for _, w := range WeatherVars {
		r := correlations[w]
		if r == nil {
			continue
		}
		abs := *r
		if abs < 0 {
			abs = -abs
		}
		if abs > bestAbs {
			w := w
			best = &w
			bestAbs = abs
		}
	}
	return best
}

// Climatology returns the mean total cases per calendar month across all
// years, sorted by month. Months with no data are absent.
func Climatology(m MonthlyTable) []ClimatologyPoint {
	byMonth := make(map[int][]float64)
	for _, rec := range m.Records {
		byMonth[rec.Month] = append(byMonth[rec.Month], rec.TotalCases)
	}

	points := make([]ClimatologyPoint, 0, len(byMonth))
	for month := 1; month <= 12; month++ {
		values, ok := byMonth[month]
		if !ok {
			continue
		}
		mean, _ := stats.Mean(values)
		points = append(points, ClimatologyPoint{Month: month, MeanCases: mean})
	}
	return points
}

// YearlyMeans returns the mean monthly total cases per year, ascending.
func YearlyMeans(m MonthlyTable) []YearMean {
	byYear := make(map[int][]float64)
	var years []int
	for _, rec := range m.Records {
		if _, ok := byYear[rec.Year]; !ok {
			years = append(years, rec.Year)
		}
		byYear[rec.Year] = append(byYear[rec.Year], rec.TotalCases)
	}
	sort.Ints(years)

	out := make([]YearMean, 0, len(years))
	for _, y := range years {
		mean, _ := stats.Mean(byYear[y])
		out = append(out, YearMean{Year: y, MeanCases: mean})
	}
	return out
}

// peakYear returns the year with the highest mean. The input is ascending
// by year, so a strict comparison keeps the earliest year on ties.
func peakYear(yearly []YearMean) *YearMean {
	var peak *YearMean
	for i := range yearly {
		if peak == nil || yearly[i].MeanCases > peak.MeanCases {
			peak = &yearly[i]
		}
	}
	return peak
}

// TopSeasonalMonths selects the n climatology months with the highest mean
// case load and returns them in chronological order.
func TopSeasonalMonths(climatology []ClimatologyPoint, n int) []time.Month {
	ranked := make([]ClimatologyPoint, len(climatology))
	copy(ranked, climatology)
	// Stable on month-ascending input, so equal means favor earlier months.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MeanCases > ranked[j].MeanCases
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	months := make([]time.Month, 0, n)
	for _, p := range ranked[:n] {
		months = append(months, time.Month(p.Month))
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return months
}

// SeasonalWindowLabel joins month names chronologically into a readable
// peak-window label, e.g. "June, July, August".
func SeasonalWindowLabel(months []time.Month) string {
	if len(months) == 0 {
		return ""
	}
	names := make([]string, len(months))
	for i, m := range months {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}

// RegionalRanking computes per-region means over the whole monthly table and
// identifies the highest and lowest regions and their gap. Regions with no
// data have a nil mean and never win a ranking; ties resolve to the earlier
// region in declared order.
func RegionalRanking(m MonthlyTable) RegionalSummary {
	byRegion := make(map[Region][]float64)
	for _, rec := range m.Records {
		for _, r := range Regions {
			if v := rec.Regions[r]; v != nil {
				byRegion[r] = append(byRegion[r], *v)
			}
		}
	}

	out := RegionalSummary{Means: make(map[Region]*float64, len(Regions))}
	var defined []float64
	for _, r := range Regions {
		mean := meanOrNil(byRegion[r])
		out.Means[r] = mean
		if mean == nil {
			continue
		}
		defined = append(defined, *mean)
		if out.Highest == "" || *mean > *out.Means[out.Highest] {
			out.Highest = r
		}
		if out.Lowest == "" || *mean < *out.Means[out.Lowest] {
			out.Lowest = r
		}
	}
	if out.Highest != "" && out.Lowest != "" {
		gap := *out.Means[out.Highest] - *out.Means[out.Lowest]
		out.Gap = &gap
	}
	out.AvgMonthlyCases = meanOrNil(defined)
	return out
}
