package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdjustment(t *testing.T) {
	tests := []struct {
		line string
		want Adjustment
	}{
		{"early slope 1.3", Adjustment{Session: Early, Field: FieldSlope, Value: 1.3}},
		{"  Recent   INTERCEPT 402.5 ", Adjustment{Session: Recent, Field: FieldIntercept, Value: 402.5}},
		{"early confirm", Adjustment{Session: Early, Field: FieldConfirm}},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got, err := ParseAdjustment(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseAdjustment_Errors(t *testing.T) {
	for _, line := range []string{
		"",
		"early",
		"early slope",
		"early slope fast",
		"early confirm 1",
		"early slope 1 2",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := ParseAdjustment(line)
			require.ErrorIs(t, err, ErrMalformedAdjustment)
		})
	}

	_, err := ParseAdjustment("early zoom 2")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestAdjustment_String(t *testing.T) {
	assert.Equal(t, "early slope 1.3", Adjustment{Session: Early, Field: FieldSlope, Value: 1.3}.String())
	assert.Equal(t, "recent confirm", Adjustment{Session: Recent, Field: FieldConfirm}.String())

	back, err := ParseAdjustment(Adjustment{Session: Recent, Field: FieldIntercept, Value: 402.25}.String())
	require.NoError(t, err)
	assert.InDelta(t, 402.25, back.Value, 0)
}
