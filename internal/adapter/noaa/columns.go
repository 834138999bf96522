package noaa

import (
	"errors"
	"fmt"
	"strings"
)

// Column names a value column of the monthly file.
type Column string

// Value columns, in file order after the four date columns.
const (
	ColumnCO2                      Column = "co2"
	ColumnSeasonallyAdjusted       Column = "seasonally adjusted"
	ColumnFit                      Column = "fit"
	ColumnSeasonallyAdjustedFit    Column = "seasonally adjusted fit"
	ColumnCO2Filled                Column = "co2 filled"
	ColumnSeasonallyAdjustedFilled Column = "seasonally adjusted filled"
)

// Header is the full column layout of a data row.
var Header = []string{
	"year", "month", "date (int)", "date",
	string(ColumnCO2),
	string(ColumnSeasonallyAdjusted),
	string(ColumnFit),
	string(ColumnSeasonallyAdjustedFit),
	string(ColumnCO2Filled),
	string(ColumnSeasonallyAdjustedFilled),
}

// valueColumns maps each value column to its index in Record.values.
var valueColumns = []Column{
	ColumnCO2,
	ColumnSeasonallyAdjusted,
	ColumnFit,
	ColumnSeasonallyAdjustedFit,
	ColumnCO2Filled,
	ColumnSeasonallyAdjustedFilled,
}

const dateColumns = 4

// ErrUnknownColumn is returned for a column name outside Header's value columns.
var ErrUnknownColumn = errors.New("unknown value column")

// ParseColumn resolves a case-insensitive column name. Underscores are
// accepted in place of spaces so names survive env vars and flags.
func ParseColumn(name string) (Column, error) {
	n := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(name, "_", " ")))
	for _, c := range valueColumns {
		if string(c) == n {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// Columns lists the selectable value columns.
func Columns() []Column {
	out := make([]Column, len(valueColumns))
	copy(out, valueColumns)
	return out
}

func columnIndex(c Column) (int, bool) {
	for i, vc := range valueColumns {
		if vc == c {
			return i, true
		}
	}
	return 0, false
}
