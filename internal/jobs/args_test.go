package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicators/internal/period"
)

func TestParseEmploymentArgs(t *testing.T) {
	a, err := ParseEmploymentArgs([]string{"United", "States"})
	require.NoError(t, err)
	assert.Equal(t, "United States", a.Country)

	_, err = ParseEmploymentArgs(nil)
	var ue *UsageError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Error(), "usage: employment <country>")

	_, err = ParseEmploymentArgs([]string{"  "})
	assert.ErrorAs(t, err, &ue)
}

func TestParseInflationArgs(t *testing.T) {
	a, err := ParseInflationArgs([]string{"202301", "202406", "3"})
	require.NoError(t, err)
	assert.Equal(t, InflationArgs{From: period.Period("202301"), Until: period.Period("202406"), Horizon: 3}, a)

	tests := []struct {
		name   string
		args   []string
		reason string
	}{
		{"too few", []string{"202301", "202406"}, "expected 3 arguments, got 2"},
		{"bad from", []string{"2023-01", "202406", "0"}, "period-from"},
		{"bad until", []string{"202301", "202413", "0"}, "period-until"},
		{"bad horizon", []string{"202301", "202406", "three"}, "horizon must be an integer"},
		{"negative horizon", []string{"202301", "202406", "-1"}, "Horizon"},
		{"reversed", []string{"202406", "202301", "0"}, "period-until is before period-from"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInflationArgs(tt.args)
			var ue *UsageError
			require.ErrorAs(t, err, &ue)
			assert.Contains(t, ue.Reason, tt.reason)
		})
	}
}

func TestParseExchangeRateArgs(t *testing.T) {
	a, err := ParseExchangeRateArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, ExchangeRateArgs{}, a)

	a, err = ParseExchangeRateArgs([]string{"2024-01-01", "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", a.From)
	assert.Equal(t, "2024-03-31", a.Until)

	for _, args := range [][]string{
		{"01/01/2024"},
		{"2024-03-31", "2024-01-01"},
		{"2024-01-01", "2024-01-02", "extra"},
	} {
		_, err := ParseExchangeRateArgs(args)
		var ue *UsageError
		assert.ErrorAs(t, err, &ue, "args %v", args)
	}
}
