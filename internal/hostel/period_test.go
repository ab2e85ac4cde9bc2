package hostel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	for _, s := range []string{"weekly", "monthly", "yearly"} {
		p, err := ParsePeriod(s)
		require.NoError(t, err)
		assert.Equal(t, Period(s), p)
	}
	for _, s := range []string{"", "daily", "Weekly"} {
		_, err := ParsePeriod(s)
		assert.ErrorIs(t, err, ErrUnknownPeriod, s)
	}
}

func TestCutoffClampsToMonthEnd(t *testing.T) {
	at := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	}
	tests := []struct {
		name   string
		period Period
		now    time.Time
		want   time.Time
	}{
		{"weekly across month", Weekly, at(2025, 3, 3), at(2025, 2, 24)},
		{"monthly mid month", Monthly, at(2025, 5, 15), at(2025, 4, 15)},
		{"monthly across year", Monthly, at(2025, 1, 31), at(2024, 12, 31)},
		{"monthly Mar 31", Monthly, at(2025, 3, 31), at(2025, 2, 28)},
		{"monthly Mar 31 leap year", Monthly, at(2024, 3, 31), at(2024, 2, 29)},
		{"monthly May 31", Monthly, at(2025, 5, 31), at(2025, 4, 30)},
		{"monthly Feb 29", Monthly, at(2024, 2, 29), at(2024, 1, 29)},
		{"yearly Feb 29", Yearly, at(2024, 2, 29), at(2023, 2, 28)},
		{"yearly plain", Yearly, at(2025, 7, 4), at(2024, 7, 4)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.period.Cutoff(tc.now))
		})
	}
}

func TestCutoffKeepsLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	got := Monthly.Cutoff(time.Date(2025, 3, 31, 23, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 2, 28, 23, 30, 0, 0, loc), got)
}
