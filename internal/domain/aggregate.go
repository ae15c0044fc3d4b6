package domain

import (
	"time"

	"github.com/montanaflynn/stats"
)

// PeriodLabeling selects which calendar boundary labels a monthly aggregate.
type PeriodLabeling string

const (
	// LabelMonthEnd labels each month by its last day, the convention the
	// dataset's published monthly series uses. Default.
	LabelMonthEnd PeriodLabeling = "end"
	// LabelMonthStart labels each month by its first day.
	LabelMonthStart PeriodLabeling = "start"
)

// AggregateMonthly resamples a daily table to monthly granularity. Each
// month with at least one contributing day yields one record holding the
// arithmetic mean of every numeric field over only the days present — absent
// days do not contribute zeros, and months with no days do not appear.
// Output order follows the daily table's ascending date order.
func AggregateMonthly(daily DailyTable, labeling PeriodLabeling) MonthlyTable {
	type group struct {
		year, month int
		totals      []float64
		regions     map[Region][]float64
		weather     map[WeatherVar][]float64
	}

	var order []int
	groups := make(map[int]*group)

	for _, obs := range daily.Observations {
		key := obs.Date.Year()*100 + int(obs.Date.Month())
		g, ok := groups[key]
		if !ok {
			g = &group{
				year:    obs.Date.Year(),
				month:   int(obs.Date.Month()),
				regions: make(map[Region][]float64),
				weather: make(map[WeatherVar][]float64),
			}
			groups[key] = g
			order = append(order, key)
		}
		g.totals = append(g.totals, obs.TotalCases)
		for _, r := range Regions {
			if v := obs.Regions[r]; v != nil {
				g.regions[r] = append(g.regions[r], *v)
			}
		}
		for _, w := range WeatherVars {
			if v := obs.Weather[w]; v != nil {
				g.weather[w] = append(g.weather[w], *v)
			}
		}
	}

	records := make([]MonthlyRecord, 0, len(order))
	for _, key := range order {
		g := groups[key]
		rec := MonthlyRecord{
			Period:  periodLabel(g.year, g.month, labeling),
			Year:    g.year,
			Month:   g.month,
			Regions: make(map[Region]*float64, len(Regions)),
		}
		rec.TotalCases, _ = stats.Mean(g.totals)
		for _, r := range Regions {
			rec.Regions[r] = meanOrNil(g.regions[r])
		}
		if len(daily.WeatherResolved) > 0 {
			rec.Weather = make(map[WeatherVar]*float64)
			for w := range daily.WeatherResolved {
				rec.Weather[w] = meanOrNil(g.weather[w])
			}
		}
		records = append(records, rec)
	}

	return MonthlyTable{Records: records, WeatherResolved: daily.WeatherResolved}
}

// periodLabel returns the labeling boundary for a (year, month) pair.
// Month end is computed as day zero of the following month.
func periodLabel(year, month int, labeling PeriodLabeling) time.Time {
	if labeling == LabelMonthStart {
		return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// meanOrNil returns the arithmetic mean of values, or nil when there are
// none. Distinguishes "no data" from a mean of zero.
func meanOrNil(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m, err := stats.Mean(values)
	if err != nil {
		return nil
	}
	return &m
}
