// Package domain models the Mauna Loa Observatory monthly CO2 record and the
// three pure functions used to explore it with a hand-tuned straight line.
//
// # Data Source
//
// Monthly means come from the Scripps CO2 program / NOAA Global Monitoring
// Laboratory file monthly_in_situ_co2_mlo.csv. The file starts with a long
// free-text preamble followed by one row per month. Loading and cleaning live
// in the noaa adapter; this package only sees clean observations.
//
// # Data Conventions
//
// Dates:
//
//	Decimal years, e.g. 1958.2027 is mid-March 1958. The decimal date column
//	is used as the x axis everywhere. Within a TimeSeries dates are strictly
//	increasing.
//
// Values:
//
//	Parts per million (ppm) of CO2 in dry air. "Seasonally adjusted" columns
//	have the annual cycle removed and track the long-term trend.
//
// Missing values:
//
//	"-99.99" is the sentinel for a month with no measurement. Such rows never
//	reach this package.
//
// # Line Model
//
// A line is described by [LineParams]: a slope in ppm per year and an
// intercept in ppm. Both [Project] and [Predict] evaluate
//
//	y = slope*(x - x0) + intercept
//
// and differ only in how x0 is chosen:
//
//	Project: x0 = min(xs) of the xs it is given (the anchor).
//	Predict: x0 = the caller-supplied initial date.
//
// Project re-anchors to whatever subsequence it receives. Overlaying the same
// (slope, intercept) on a different range therefore moves the line unless the
// caller compensates the intercept. That is the behavior the explorer teaches
// with, so do not normalize the anchor.
//
// # Prediction
//
// [Predict] extrapolates without any bounds check; reasoning about how far a
// straight line can be trusted is left to the reader.
package domain
