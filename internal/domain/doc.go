// Package domain models the Malaysian hand-foot-mouth disease (HFMD)
// surveillance dataset and its derived statistics.
//
// # Data Source
//
// The dataset is a single historical table (2009–2019) of daily reported
// HFMD case counts across five regions of Malaysia, published alongside
// weather observations from a central-region station. It circulates in
// several exports with drifting column spellings, which is why weather
// columns are resolved through alias lists rather than exact names.
//
// # Dataset Conventions
//
// Columns (after canonicalization — trim, lower-case, spaces to
// underscores):
//
//	date        dd/mm/yyyy. Rows with unparseable dates are dropped.
//	southern, northern, central, east_coast, borneo
//	            daily case counts per region. All five columns are
//	            required; individual cells may be empty.
//	temp_c      mean temperature in °C   (aliases: temperature_c, temp_central, temp_cen)
//	rain_c      rainfall in mm           (aliases: rainfall_c, rain_central, rain_cen)
//	rh_c        relative humidity in %   (aliases: humidity_c, rh_central, rh_cen)
//
// The weather readings come from one representative station; they are
// optional unless the caller asks for them (the weather-correlation view
// does, the temporal and regional views do not).
//
// Missing or non-numeric cells are excluded from sums and means, never
// treated as zero. total_cases is the sum of the region counts present in
// a row, so a row missing one region still yields a partial total over the
// other four.
//
// # Aggregation
//
// Monthly records are the arithmetic mean (not sum) of the daily values
// over only the days present in the month, matching the published monthly
// series: two days of 10 and 20 cases in an otherwise empty month give a
// monthly value of 15. Periods are labeled by month end by default; the
// boundary convention is explicit configuration because the source never
// states it.
//
// # Derived Metrics
//
// Pearson correlations between each weather variable and total cases need
// at least three paired months; below that the metric is a nil sentinel,
// deliberately distinct from a computed zero. The strongest factor is the
// largest |r|, ties resolving in declared order (temperature, rainfall,
// humidity). Climatology collapses the monthly series by calendar month to
// expose the seasonal cycle; the top three months form the seasonal peak
// window label.
package domain
