// Package domain models NOAA surface climate observations and the per-state
// aggregates built from them.
//
// # Data Source
//
// Observations come from tab-delimited (TDV) extracts of NOAA climate data,
// one record per line and no header row. Each line carries nine fields:
//
//	STATE  TIMESTAMP_MS  GEOHASH  HUMIDITY  SNOW  CLOUD  LIGHTNING  PRESSURE  TEMP_KELVIN
//
// For example:
//
//	TN	1422770400000	dn2dcstxsf5b	23.0	0.0	100.0	0.0	100576.0	277.8087
//
// # Field Conventions
//
// State:
//
//	Two-letter US state code. Only the first two characters of the field are
//	used; anything after them is ignored.
//
// Timestamp:
//
//	Milliseconds since the Unix epoch. Converted to second resolution by
//	integer division (truncation, no rounding).
//
// Humidity and cloud cover:
//
//	Percentages in 0–100. Not range checked.
//
// Snow and lightning:
//
//	Flags encoded as 0 or 1. Kept numeric so they can be summed into counts.
//
// Pressure:
//
//	Pascals.
//
// Temperature:
//
//	Surface temperature in Kelvin, converted at parse time to Fahrenheit
//	with F = K*9/5 - 459.67.
//
// # Delimiters
//
// Tabs, newlines and carriage returns all separate fields and runs of them
// collapse, so an empty field shifts the remaining ones left. Lines with
// fewer than nine fields are rejected with [ErrMalformedLine]; fields past the
// ninth are ignored.
//
// # Numeric Parsing
//
// In [Lenient] mode a field that does not parse as a number contributes zero.
// In [Strict] mode the line is rejected with [ErrMalformedNumericField].
//
// # Aggregation
//
// [Aggregator] folds observations into one [Aggregate] per state code, in the
// order codes are first seen. Ties on the temperature extremes go to the most
// recent observation: an equal maximum or minimum replaces the stored value
// and its timestamp.
package domain
