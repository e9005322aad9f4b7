package internal

import (
	"fmt"
	"regexp"
	"strconv"
)

var isoDurationRegex = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration converts an ISO 8601 duration such as PT1H2M10S to
// seconds. Empty, "N/A" and malformed values count as 0.
func ParseISODuration(s string) int {
	m := isoDurationRegex.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	var total int
	for i, unit := range []int{86400, 3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0
		}
		total += n * unit
	}
	return total
}

// FormatDuration renders seconds as H:MM:SS, or M:SS below an hour
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// IsShort reports whether a video is a YouTube Short (at most 60 seconds)
func IsShort(seconds int) bool {
	return seconds > 0 && seconds <= 60
}

// ClassifyVideoType buckets a duration. Upper bounds are inclusive.
func ClassifyVideoType(seconds int) VideoType {
	switch {
	case seconds <= 0:
		return VideoTypeUnknown
	case seconds <= 60:
		return VideoTypeShort
	case seconds <= 240:
		return VideoTypeShortForm
	case seconds <= 600:
		return VideoTypeMedium
	case seconds <= 1200:
		return VideoTypeLong
	default:
		return VideoTypeVeryLong
	}
}
