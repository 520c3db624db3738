package loans

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRenewalDate(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, 10, 4, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		proposed time.Time
		err      error
	}{
		{"today is allowed", today, nil},
		{"yesterday is in the past", today.AddDate(0, 0, -1), ErrRenewalInPast},
		{"three weeks out", today.AddDate(0, 0, 21), nil},
		{"exactly four weeks out", today.AddDate(0, 0, 28), nil},
		{"four weeks and a day", today.AddDate(0, 0, 29), ErrRenewalTooFarAhead},
		{"far in the past", today.AddDate(-1, 0, 0), ErrRenewalInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ValidateRenewalDate(tt.proposed, today)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DateOnly(tt.proposed), got)
		})
	}
}

func TestValidateRenewalDateIgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	// 23:59 today is still today, not the past.
	today := time.Date(2025, 10, 4, 23, 59, 0, 0, time.UTC)
	proposed := time.Date(2025, 10, 4, 0, 1, 0, 0, time.UTC)

	got, err := ValidateRenewalDate(proposed, today)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC), got)
}

func TestDefaultRenewalDate(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, 10, 4, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 10, 25, 0, 0, 0, 0, time.UTC), DefaultRenewalDate(today))
}
