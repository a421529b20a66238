// Package timeseries holds the canonical representation of hourly energy
// load data and its CSV ingestion.
//
// # Data Source
//
// The source data is the PJM East hourly load dataset: one row per hour
// with columns Datetime ("2006-01-02 15:04:05" wall time) and PJME_MW
// (megawatts, may be blank). On load the columns are renamed to the
// canonical ds/y pair used throughout the prep pipeline, matching the
// schema the downstream forecasting model expects.
//
// # Missing Values
//
// Missing observations are carried as NaN rather than dropped, so a
// series always has one row per sampling interval and downstream code
// can rely on positional alignment. The cleaning stage owns imputation.
//
// # Ordering
//
// Timestamps must be strictly increasing. Duplicate or out-of-order rows
// are rejected at construction with ErrNotChronological instead of being
// silently accepted; positional rolling statistics are meaningless on an
// unordered series.
package timeseries
