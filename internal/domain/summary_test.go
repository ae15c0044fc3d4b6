package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monthlyRec builds a minimal monthly record for metric tests.
func monthlyRec(year, month int, totalCases float64, weather map[WeatherVar]*float64) MonthlyRecord {
	return MonthlyRecord{
		Period:     time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC),
		Year:       year,
		Month:      month,
		TotalCases: totalCases,
		Regions:    map[Region]*float64{},
		Weather:    weather,
	}
}

func TestCorrelation(t *testing.T) {
	t.Run("undefined below three pairs", func(t *testing.T) {
		m := MonthlyTable{Records: []MonthlyRecord{
			monthlyRec(2020, 1, 10, map[WeatherVar]*float64{WeatherTemperature: fp(28)}),
			monthlyRec(2020, 2, 20, map[WeatherVar]*float64{WeatherTemperature: fp(30)}),
		}}

		assert.Nil(t, Correlation(m, WeatherTemperature))
	})

	t.Run("defined at exactly three pairs", func(t *testing.T) {
		m := MonthlyTable{Records: []MonthlyRecord{
			monthlyRec(2020, 1, 10, map[WeatherVar]*float64{WeatherTemperature: fp(26)}),
			monthlyRec(2020, 2, 20, map[WeatherVar]*float64{WeatherTemperature: fp(28)}),
			monthlyRec(2020, 3, 30, map[WeatherVar]*float64{WeatherTemperature: fp(30)}),
		}}

		r := Correlation(m, WeatherTemperature)
		require.NotNil(t, r)
		assert.InDelta(t, 1.0, *r, 1e-9)
	})

	t.Run("months with missing weather excluded from pairing", func(t *testing.T) {
		m := MonthlyTable{Records: []MonthlyRecord{
			monthlyRec(2020, 1, 10, map[WeatherVar]*float64{WeatherTemperature: fp(26)}),
			monthlyRec(2020, 2, 999, map[WeatherVar]*float64{WeatherTemperature: nil}),
			monthlyRec(2020, 3, 20, map[WeatherVar]*float64{WeatherTemperature: fp(28)}),
			monthlyRec(2020, 4, 30, map[WeatherVar]*float64{WeatherTemperature: fp(30)}),
		}}

		r := Correlation(m, WeatherTemperature)
		require.NotNil(t, r)
		assert.InDelta(t, 1.0, *r, 1e-9)
	})

	t.Run("negative correlation", func(t *testing.T) {
		m := MonthlyTable{Records: []MonthlyRecord{
			monthlyRec(2020, 1, 30, map[WeatherVar]*float64{WeatherRainfall: fp(2)}),
			monthlyRec(2020, 2, 20, map[WeatherVar]*float64{WeatherRainfall: fp(4)}),
			monthlyRec(2020, 3, 10, map[WeatherVar]*float64{WeatherRainfall: fp(6)}),
		}}

		r := Correlation(m, WeatherRainfall)
		require.NotNil(t, r)
		assert.InDelta(t, -1.0, *r, 1e-9)
	})

	t.Run("unresolved variable undefined", func(t *testing.T) {
		m := MonthlyTable{Records: []MonthlyRecord{
			monthlyRec(2020, 1, 10, nil),
			monthlyRec(2020, 2, 20, nil),
			monthlyRec(2020, 3, 30, nil),
		}}

		assert.Nil(t, Correlation(m, WeatherHumidity))
	})
}

func TestStrongestFactor(t *testing.T) {
	tests := []struct {
		name         string
		correlations map[WeatherVar]*float64
		expected     *WeatherVar
	}{
		{
			"largest absolute value wins",
			map[WeatherVar]*float64{WeatherTemperature: fp(0.3), WeatherRainfall: fp(-0.7), WeatherHumidity: fp(0.5)},
			&WeatherVars[1],
		},
		{
			"tie resolves to declared order",
			map[WeatherVar]*float64{WeatherTemperature: fp(0.5), WeatherRainfall: fp(-0.5), WeatherHumidity: nil},
			&WeatherVars[0],
		},
		{
			"undefined entries skipped",
			map[WeatherVar]*float64{WeatherTemperature: nil, WeatherRainfall: nil, WeatherHumidity: fp(0.1)},
			&WeatherVars[2],
		},
		{
			"all undefined",
			map[WeatherVar]*float64{WeatherTemperature: nil, WeatherRainfall: nil, WeatherHumidity: nil},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StrongestFactor(tt.correlations))
		})
	}
}

func TestClimatology(t *testing.T) {
	m := MonthlyTable{Records: []MonthlyRecord{
		monthlyRec(2019, 1, 10, nil),
		monthlyRec(2020, 1, 30, nil),
		monthlyRec(2019, 6, 100, nil),
		monthlyRec(2020, 6, 200, nil),
		monthlyRec(2020, 7, 150, nil),
	}}

	clim := Climatology(m)
	require.Len(t, clim, 3)
	assert.Equal(t, ClimatologyPoint{Month: 1, MeanCases: 20}, clim[0])
	assert.Equal(t, ClimatologyPoint{Month: 6, MeanCases: 150}, clim[1])
	assert.Equal(t, ClimatologyPoint{Month: 7, MeanCases: 150}, clim[2])
}

func TestYearlyMeansAndPeakYear(t *testing.T) {
	m := MonthlyTable{Records: []MonthlyRecord{
		monthlyRec(2021, 1, 40, nil),
		monthlyRec(2019, 1, 10, nil),
		monthlyRec(2019, 2, 30, nil),
		monthlyRec(2020, 1, 40, nil),
	}}

	yearly := YearlyMeans(m)
	require.Equal(t, []YearMean{
		{Year: 2019, MeanCases: 20},
		{Year: 2020, MeanCases: 40},
		{Year: 2021, MeanCases: 40},
	}, yearly)

	s := Summarize(m)
	require.NotNil(t, s.PeakYear)
	// 2020 and 2021 tie; the earliest year wins.
	assert.Equal(t, 2020, s.PeakYear.Year)
	assert.Equal(t, 40.0, s.PeakYear.MeanCases)
}

func TestTopSeasonalMonths(t *testing.T) {
	clim := []ClimatologyPoint{
		{Month: 1, MeanCases: 10},
		{Month: 5, MeanCases: 80},
		{Month: 6, MeanCases: 100},
		{Month: 7, MeanCases: 90},
		{Month: 12, MeanCases: 20},
	}

	months := TopSeasonalMonths(clim, 3)
	assert.Equal(t, []time.Month{time.May, time.June, time.July}, months)
	assert.Equal(t, "May, June, July", SeasonalWindowLabel(months))

	t.Run("n larger than data", func(t *testing.T) {
		months := TopSeasonalMonths(clim[:2], 3)
		assert.Equal(t, []time.Month{time.January, time.May}, months)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, TopSeasonalMonths(nil, 3))
		assert.Equal(t, "", SeasonalWindowLabel(nil))
	})
}

func TestRegionalRanking(t *testing.T) {
	rec := func(central, southern, borneo *float64) MonthlyRecord {
		return MonthlyRecord{
			Regions: map[Region]*float64{
				RegionSouthern: southern,
				RegionCentral:  central,
				RegionBorneo:   borneo,
			},
		}
	}

	m := MonthlyTable{Records: []MonthlyRecord{
		rec(fp(60), fp(40), fp(10)),
		rec(fp(80), fp(50), fp(20)),
	}}

	ranking := RegionalRanking(m)
	assert.Equal(t, fp(70), ranking.Means[RegionCentral])
	assert.Equal(t, fp(45), ranking.Means[RegionSouthern])
	assert.Equal(t, fp(15), ranking.Means[RegionBorneo])
	assert.Nil(t, ranking.Means[RegionNorthern])

	assert.Equal(t, RegionCentral, ranking.Highest)
	assert.Equal(t, RegionBorneo, ranking.Lowest)
	require.NotNil(t, ranking.Gap)
	assert.Equal(t, 55.0, *ranking.Gap)
	require.NotNil(t, ranking.AvgMonthlyCases)
	assert.InDelta(t, (70.0+45+15)/3, *ranking.AvgMonthlyCases, 1e-9)
}

func TestRegionalRanking_Empty(t *testing.T) {
	ranking := RegionalRanking(MonthlyTable{})
	assert.Equal(t, Region(""), ranking.Highest)
	assert.Equal(t, Region(""), ranking.Lowest)
	assert.Nil(t, ranking.Gap)
	assert.Nil(t, ranking.AvgMonthlyCases)
}

func TestSummarize_EndToEnd(t *testing.T) {
	// Three months of linearly rising cases with temperature rising and
	// rainfall falling in step.
	m := MonthlyTable{
		Records: []MonthlyRecord{
			monthlyRec(2020, 5, 10, map[WeatherVar]*float64{WeatherTemperature: fp(26), WeatherRainfall: fp(6), WeatherHumidity: fp(80)}),
			monthlyRec(2020, 6, 20, map[WeatherVar]*float64{WeatherTemperature: fp(28), WeatherRainfall: fp(4), WeatherHumidity: fp(80)}),
			monthlyRec(2020, 7, 30, map[WeatherVar]*float64{WeatherTemperature: fp(30), WeatherRainfall: fp(2), WeatherHumidity: fp(80)}),
		},
		WeatherResolved: map[WeatherVar]string{WeatherTemperature: "temp_c", WeatherRainfall: "rain_c", WeatherHumidity: "rh_c"},
	}

	s := Summarize(m)

	require.NotNil(t, s.Correlations[WeatherTemperature])
	assert.InDelta(t, 1.0, *s.Correlations[WeatherTemperature], 1e-9)
	require.NotNil(t, s.Correlations[WeatherRainfall])
	assert.InDelta(t, -1.0, *s.Correlations[WeatherRainfall], 1e-9)
	// Humidity is constant: Pearson is undefined (zero variance).
	assert.Nil(t, s.Correlations[WeatherHumidity])

	// Temperature and rainfall tie at |1.0|; declared order wins.
	require.NotNil(t, s.StrongestFactor)
	assert.Equal(t, WeatherTemperature, *s.StrongestFactor)

	require.NotNil(t, s.PeakYear)
	assert.Equal(t, 2020, s.PeakYear.Year)
	assert.Equal(t, "May, June, July", s.SeasonalPeakWindow)
}
