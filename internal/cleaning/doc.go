// Package cleaning prepares a training series for model fitting by masking
// known-bad periods and imputing statistical outliers.
//
// # Hurricane Masking
//
// Hourly load around a hurricane landfall reflects grid damage, not demand,
// and would poison both the outlier statistics and the fitted model. Every
// point whose calendar date falls within +/- HurricaneWindowDays of an
// anchor date is treated as missing before any statistic is computed. A
// point inside a hurricane window is never additionally flagged as an
// outlier: its value is already gone by the time flagging runs.
//
// # Outlier Detection
//
// Each point is compared against a band around the centered rolling median:
//
//	median - k*IQR < y < median + k*IQR
//
// where the median and IQR (75th minus 25th percentile) are computed over a
// WindowSize-sample window of a forward/back-filled copy of the masked
// series. The filled copy exists only to stabilize the statistics; flagging
// always compares the pre-imputation value. Ties at the band edge are not
// flagged (strict inequality).
//
// # Imputation
//
// Flagged and missing points take the rolling median. Points within half a
// window of either series boundary have no defined rolling statistics, so a
// final forward-then-backward fill resolves them; the cleaned series never
// contains a missing value.
//
// # Parameters
//
// Cleaning parameters arrive either as literal values or drawn from an
// injected Suggester (a hyperparameter-search trial). ParamSource makes the
// two cases an explicit union resolved once, before cleaning runs.
package cleaning
