package internal

import (
	"fmt"
	"strings"
	"time"
)

// nowFunc is swapped in tests
var nowFunc = time.Now

var relativeDates = map[string]time.Duration{
	"today":     0,
	"yesterday": 24 * time.Hour,
	"week_ago":  7 * 24 * time.Hour,
	"month_ago": 30 * 24 * time.Hour,
	"year_ago":  365 * 24 * time.Hour,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// ParseDate accepts YYYY-MM-DD, "YYYY-MM-DD HH:MM:SS" (both read as UTC) or
// one of today, yesterday, week_ago, month_ago, year_ago
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if offset, ok := relativeDates[strings.ToLower(s)]; ok {
		return now.UTC().Add(-offset), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// FormatRFC3339 renders t the way the Data API expects it
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// DateInput holds the raw date flags of a run
type DateInput struct {
	PublishedAfter  string
	PublishedBefore string
	LastDays        int
	DateRange       []string
}

// DateWindow is a resolved publish date window. Zero bounds are open.
type DateWindow struct {
	After  time.Time
	Before time.Time
}

// IsZero reports whether the window has no bounds
func (w DateWindow) IsZero() bool {
	return w.After.IsZero() && w.Before.IsZero()
}

// Contains reports whether t lies strictly inside the window
func (w DateWindow) Contains(t time.Time) bool {
	if !w.After.IsZero() && !t.After(w.After) {
		return false
	}
	if !w.Before.IsZero() && !t.Before(w.Before) {
		return false
	}
	return true
}

// AfterString returns the lower bound in RFC 3339 or ""
func (w DateWindow) AfterString() string {
	if w.After.IsZero() {
		return ""
	}
	return FormatRFC3339(w.After)
}

// BeforeString returns the upper bound in RFC 3339 or ""
func (w DateWindow) BeforeString() string {
	if w.Before.IsZero() {
		return ""
	}
	return FormatRFC3339(w.Before)
}

// ResolveDateWindow applies --last-days, then --date-range, then the
// individual --published-after/--published-before flags
func ResolveDateWindow(in DateInput, now time.Time) (DateWindow, error) {
	var w DateWindow

	switch {
	case in.LastDays < 0:
		return w, fmt.Errorf("%w: --last-days must be positive, got %d", ErrInvalidDateWindow, in.LastDays)

	case in.LastDays > 0:
		start := now.UTC().AddDate(0, 0, -in.LastDays)
		w.After = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	case len(in.DateRange) > 0:
		if len(in.DateRange) != 2 {
			return w, fmt.Errorf("%w: --date-range takes exactly two dates, got %d", ErrInvalidDateWindow, len(in.DateRange))
		}
		after, err := ParseDate(in.DateRange[0], now)
		if err != nil {
			return w, err
		}
		before, err := ParseDate(in.DateRange[1], now)
		if err != nil {
			return w, err
		}
		w.After, w.Before = after, before

	default:
		if in.PublishedAfter != "" {
			after, err := ParseDate(in.PublishedAfter, now)
			if err != nil {
				return w, err
			}
			w.After = after
		}
		if in.PublishedBefore != "" {
			before, err := ParseDate(in.PublishedBefore, now)
			if err != nil {
				return w, err
			}
			w.Before = before
		}
	}

	if !w.After.IsZero() && !w.Before.IsZero() && !w.After.Before(w.Before) {
		return w, fmt.Errorf("%w: %s is not before %s", ErrInvalidDateWindow, w.AfterString(), w.BeforeString())
	}

	return w, nil
}
