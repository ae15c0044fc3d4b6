package domain

import (
	"fmt"
	"strings"
	"time"
)

// Region identifies one of the five fixed geographic partitions tracked by
// the surveillance dataset. The set is closed; a dataset missing any of them
// is rejected at normalization time.
type Region string

const (
	RegionSouthern  Region = "southern"
	RegionNorthern  Region = "northern"
	RegionCentral   Region = "central"
	RegionEastCoast Region = "east_coast"
	RegionBorneo    Region = "borneo"
)

// Regions lists all regions in declared order. Ordering matters: ranking
// ties resolve to the earlier region.
var Regions = []Region{RegionSouthern, RegionNorthern, RegionCentral, RegionEastCoast, RegionBorneo}

// WeatherVar identifies a weather concept by its canonical short column name.
// The station readings are taken at a single central-region site and used as
// representative for the whole country.
type WeatherVar string

const (
	WeatherTemperature WeatherVar = "temp_c" // mean temperature, °C
	WeatherRainfall    WeatherVar = "rain_c" // rainfall, mm
	WeatherHumidity    WeatherVar = "rh_c"   // relative humidity, %
)

// WeatherVars lists the weather concepts in declared order. The strongest-
// factor metric breaks |r| ties in this order.
var WeatherVars = []WeatherVar{WeatherTemperature, WeatherRainfall, WeatherHumidity}

// weatherAliases maps each weather concept to the ordered list of column
// spellings it accepts; the first present column wins. The variants come
// from the different exports of the dataset in circulation.
var weatherAliases = map[WeatherVar][]string{
	WeatherTemperature: {"temp_c", "temperature_c", "temp_central", "temp_cen"},
	WeatherRainfall:    {"rain_c", "rainfall_c", "rain_central", "rain_cen"},
	WeatherHumidity:    {"rh_c", "humidity_c", "rh_central", "rh_cen"},
}

// Name returns a human-readable label for the weather variable.
func (w WeatherVar) Name() string {
	switch w {
	case WeatherTemperature:
		return "temperature"
	case WeatherRainfall:
		return "rainfall"
	case WeatherHumidity:
		return "humidity"
	default:
		return string(w)
	}
}

// RawTable is an untyped tabular dataset as delivered by a loader. Column
// names carry whatever casing and whitespace the upstream file used; cells
// are uninterpreted strings. Rows shorter than the header are tolerated.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// DailyObservation is one validated day of surveillance data. Region and
// weather cells that were missing or non-numeric in the source are nil.
type DailyObservation struct {
	Date       time.Time               `json:"date"`
	Regions    map[Region]*float64     `json:"region_counts"`
	Weather    map[WeatherVar]*float64 `json:"weather,omitempty"`
	TotalCases float64                 `json:"total_cases"`
}

// DailyTable is the normalized daily dataset: one row per distinct date,
// sorted ascending. Immutable once produced.
type DailyTable struct {
	Observations []DailyObservation
	// WeatherResolved records which source column satisfied each weather
	// concept. Concepts with no matching column are absent.
	WeatherResolved map[WeatherVar]string
}

// MonthlyRecord is one calendar month's aggregate: the arithmetic mean of
// every numeric field over only the days present in that month.
type MonthlyRecord struct {
	Period     time.Time               `json:"period"`
	Year       int                     `json:"year"`
	Month      int                     `json:"month"`
	TotalCases float64                 `json:"total_cases"`
	Regions    map[Region]*float64     `json:"region_means"`
	Weather    map[WeatherVar]*float64 `json:"weather_means,omitempty"`
}

// MonthlyTable is the month-resampled dataset, sorted ascending by period.
// Months with no contributing days do not appear.
type MonthlyTable struct {
	Records         []MonthlyRecord
	WeatherResolved map[WeatherVar]string
}

// SchemaError reports structurally missing columns or weather concepts.
// It enumerates every offending name so a caller can diagnose the dataset
// in a single pass.
type SchemaError struct {
	MissingDate    bool
	MissingRegions []Region
	MissingWeather []WeatherVar
}

func (e *SchemaError) Error() string {
	var parts []string
	if e.MissingDate {
		parts = append(parts, "missing date column")
	}
	for _, r := range e.MissingRegions {
		parts = append(parts, fmt.Sprintf("missing region column: %s", r))
	}
	if len(e.MissingWeather) > 0 {
		names := make([]string, len(e.MissingWeather))
		for i, w := range e.MissingWeather {
			names[i] = string(w)
		}
		parts = append(parts, fmt.Sprintf("missing weather columns: %s", strings.Join(names, ", ")))
	}
	if len(parts) == 0 {
		return "schema error"
	}
	return strings.Join(parts, "; ")
}
