package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"date only", "2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"date and time", "2024-01-02 03:04:05", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"surrounding space", "  2023-12-31 ", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"today", "today", testNow},
		{"yesterday", "yesterday", testNow.Add(-24 * time.Hour)},
		{"week ago", "week_ago", testNow.AddDate(0, 0, -7)},
		{"month ago is thirty days", "month_ago", testNow.AddDate(0, 0, -30)},
		{"year ago is 365 days", "year_ago", testNow.AddDate(0, 0, -365)},
		{"relative words ignore case", "Yesterday", testNow.Add(-24 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input, testNow)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, input := range []string{"", "tomorrow", "2024/01/02", "02-01-2024", "2024-13-01"} {
		_, err := ParseDate(input, testNow)
		assert.ErrorIs(t, err, ErrInvalidDate, input)
	}
}

func TestFormatRFC3339(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	assert.Equal(t, "2024-01-02T05:00:00Z", FormatRFC3339(time.Date(2024, 1, 2, 0, 0, 0, 0, est)))
}

func TestResolveDateWindow(t *testing.T) {
	t.Run("no flags gives an open window", func(t *testing.T) {
		w, err := ResolveDateWindow(DateInput{}, testNow)
		require.NoError(t, err)
		assert.True(t, w.IsZero())
		assert.Empty(t, w.AfterString())
		assert.Empty(t, w.BeforeString())
	})

	t.Run("last days starts at midnight", func(t *testing.T) {
		w, err := ResolveDateWindow(DateInput{LastDays: 7}, testNow)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-08T00:00:00Z", w.AfterString())
		assert.True(t, w.Before.IsZero())
	})

	t.Run("last days wins over everything else", func(t *testing.T) {
		w, err := ResolveDateWindow(DateInput{
			LastDays:        1,
			DateRange:       []string{"2020-01-01", "2020-02-01"},
			PublishedAfter:  "2019-01-01",
			PublishedBefore: "2019-02-01",
		}, testNow)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-14T00:00:00Z", w.AfterString())
		assert.Empty(t, w.BeforeString())
	})

	t.Run("date range wins over individual flags", func(t *testing.T) {
		w, err := ResolveDateWindow(DateInput{
			DateRange:      []string{"2020-01-01", "2020-02-01"},
			PublishedAfter: "2019-01-01",
		}, testNow)
		require.NoError(t, err)
		assert.Equal(t, "2020-01-01T00:00:00Z", w.AfterString())
		assert.Equal(t, "2020-02-01T00:00:00Z", w.BeforeString())
	})

	t.Run("individual flags", func(t *testing.T) {
		w, err := ResolveDateWindow(DateInput{PublishedAfter: "week_ago"}, testNow)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-08T10:30:00Z", w.AfterString())
		assert.True(t, w.Before.IsZero())
	})

	t.Run("date range needs two dates", func(t *testing.T) {
		_, err := ResolveDateWindow(DateInput{DateRange: []string{"2020-01-01"}}, testNow)
		assert.ErrorIs(t, err, ErrInvalidDateWindow)
	})

	t.Run("negative last days", func(t *testing.T) {
		_, err := ResolveDateWindow(DateInput{LastDays: -3}, testNow)
		assert.ErrorIs(t, err, ErrInvalidDateWindow)
	})

	t.Run("after must precede before", func(t *testing.T) {
		_, err := ResolveDateWindow(DateInput{
			PublishedAfter:  "2024-02-01",
			PublishedBefore: "2024-01-01",
		}, testNow)
		assert.ErrorIs(t, err, ErrInvalidDateWindow)
	})

	t.Run("bad date surfaces parse error", func(t *testing.T) {
		_, err := ResolveDateWindow(DateInput{PublishedBefore: "soon"}, testNow)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestDateWindowContains(t *testing.T) {
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	w := DateWindow{After: after, Before: before}

	assert.True(t, w.Contains(after.Add(time.Second)))
	assert.True(t, w.Contains(before.Add(-time.Second)))
	assert.False(t, w.Contains(after), "lower bound is exclusive")
	assert.False(t, w.Contains(before), "upper bound is exclusive")
	assert.False(t, w.Contains(before.AddDate(0, 0, 1)))

	open := DateWindow{After: after}
	assert.True(t, open.Contains(after.AddDate(10, 0, 0)))
	assert.True(t, DateWindow{}.Contains(time.Time{}))
}
