package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedAdjustment is returned for an adjustment line that does not
// follow "<session> <field> [value]".
var ErrMalformedAdjustment = errors.New("malformed adjustment")

// ParseAdjustment parses one adjustment line, e.g. "early slope 1.3" or
// "recent confirm". The session name is not checked here; the controller
// rejects unknown sessions.
func ParseAdjustment(line string) (Adjustment, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return Adjustment{}, fmt.Errorf("%w: %q", ErrMalformedAdjustment, line)
	}

	field, err := ParseField(fields[1])
	if err != nil {
		return Adjustment{}, err
	}
	adj := Adjustment{Session: strings.ToLower(fields[0]), Field: field}

	switch {
	case field == FieldConfirm && len(fields) == 2:
		return adj, nil
	case field == FieldConfirm:
		return Adjustment{}, fmt.Errorf("%w: confirm takes no value: %q", ErrMalformedAdjustment, line)
	case len(fields) == 2:
		return Adjustment{}, fmt.Errorf("%w: %s needs a value: %q", ErrMalformedAdjustment, field, line)
	}

	v, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Adjustment{}, fmt.Errorf("%w: value %q: %w", ErrMalformedAdjustment, fields[2], err)
	}
	adj.Value = v
	return adj, nil
}

// String renders the adjustment in the form ParseAdjustment accepts.
func (a Adjustment) String() string {
	if a.Field == FieldConfirm {
		return a.Session + " " + string(a.Field)
	}
	return fmt.Sprintf("%s %s %s", a.Session, a.Field, strconv.FormatFloat(a.Value, 'f', -1, 64))
}
