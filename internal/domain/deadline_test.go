package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdinal(t *testing.T) {
	t.Parallel()

	expected := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 5: "5th", 6: "6th", 7: "7th",
		8: "8th", 9: "9th", 10: "10th", 11: "11th", 12: "12th", 13: "13th",
		14: "14th", 15: "15th", 16: "16th", 17: "17th", 18: "18th", 19: "19th",
		20: "20th", 21: "21st", 22: "22nd", 23: "23rd", 24: "24th", 25: "25th",
		26: "26th", 27: "27th", 28: "28th", 29: "29th", 30: "30th", 31: "31st",
	}

	for day := 1; day <= 31; day++ {
		assert.Equal(t, expected[day], Ordinal(day), "day %d", day)
	}

	t.Run("teens beyond one hundred", func(t *testing.T) {
		assert.Equal(t, "111th", Ordinal(111))
		assert.Equal(t, "112th", Ordinal(112))
		assert.Equal(t, "101st", Ordinal(101))
		assert.Equal(t, "122nd", Ordinal(122))
	})
}

func TestFormatDeadline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"2025-03-12 23:59", "March 12th, 2025, at 11:59 PM"},
		{"2025-03-11 17:00", "March 11th, 2025, at 05:00 PM"},
		{"2025-03-11 12:00", "March 11th, 2025, at 12:00 PM"},
		{"2025-01-01 00:05", "January 1st, 2025, at 12:05 AM"},
		{"2024-02-22 09:30", "February 22nd, 2024, at 09:30 AM"},
		{"2025-10-23 18:00", "October 23rd, 2025, at 06:00 PM"},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := FormatDeadline(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatDeadlineRejectsOtherLayouts(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "2025/03/12 23:59", "2025-03-12", "2025-03-12T23:59:00Z"} {
		_, err := FormatDeadline(raw)
		require.Error(t, err, "raw %q", raw)
		assert.True(t, errors.Is(err, ErrInvalidDeadline))
	}
}

func TestRenderDeadlineMatchesFormat(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, time.March, 12, 23, 59, 0, 0, time.UTC)
	formatted, err := FormatDeadline(ts.Format(DeadlineLayout))
	require.NoError(t, err)
	assert.Equal(t, formatted, RenderDeadline(ts))
}
