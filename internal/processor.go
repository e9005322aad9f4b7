package internal

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"google.golang.org/api/youtube/v3"
)

// FilterOptions configures the client side filters of Process
type FilterOptions struct {
	MinViews    uint64
	Keywords    []string
	TitleMode   TitleMode
	TypeFilter  TypeFilter
	CustomTypes []VideoType
	// DurationMin and DurationMax are seconds; a zero DurationMax is unbounded
	DurationMin int
	DurationMax int
	Window      DateWindow
	SortBy      string
	Ascending   bool
}

// ExtractVideo flattens an API video resource into a Video
func ExtractVideo(v *youtube.Video) Video {
	video := Video{
		VideoID: v.Id,
		URL:     "https://www.youtube.com/watch?v=" + v.Id,
	}

	if s := v.Snippet; s != nil {
		video.Title = s.Title
		video.Channel = s.ChannelTitle
		video.ChannelID = s.ChannelId
		video.CategoryID = s.CategoryId
		video.Description = s.Description
		video.Tags = s.Tags
		if t, err := time.Parse(time.RFC3339, s.PublishedAt); err == nil {
			video.PublishedAt = t.UTC()
		}
		if s.Thumbnails != nil && s.Thumbnails.High != nil {
			video.Thumbnail = Thumbnail{
				URL:    s.Thumbnails.High.Url,
				Width:  s.Thumbnails.High.Width,
				Height: s.Thumbnails.High.Height,
			}
		}
	}

	if st := v.Statistics; st != nil {
		video.ViewCount = st.ViewCount
		video.LikeCount = st.LikeCount
		video.CommentCount = st.CommentCount
	}

	var seconds int
	if cd := v.ContentDetails; cd != nil {
		seconds = ParseISODuration(cd.Duration)
	}
	video.DurationSeconds = seconds
	video.Duration = FormatDuration(seconds)
	video.IsShort = IsShort(seconds)
	video.VideoType = ClassifyVideoType(seconds)

	return video
}

// FilterByViews keeps videos with at least minViews views
func FilterByViews(videos []Video, minViews uint64) []Video {
	return slices.DeleteFunc(videos, func(v Video) bool {
		return v.ViewCount < minViews
	})
}

// FilterByTitle matches keywords against titles, ignoring case. TitleModeAll
// requires every keyword, TitleModeAny at least one, TitleModeGeneral keeps
// everything.
func FilterByTitle(videos []Video, keywords []string, mode TitleMode) []Video {
	if mode == TitleModeGeneral || len(keywords) == 0 {
		return videos
	}

	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}

	return slices.DeleteFunc(videos, func(v Video) bool {
		title := strings.ToLower(v.Title)
		if mode == TitleModeAll {
			for _, k := range lowered {
				if !strings.Contains(title, k) {
					return true
				}
			}
			return false
		}
		for _, k := range lowered {
			if strings.Contains(title, k) {
				return false
			}
		}
		return true
	})
}

// FilterByVideoType applies the shorts/custom bucket filters
func FilterByVideoType(videos []Video, filter TypeFilter, custom []VideoType) []Video {
	switch filter {
	case TypeFilterShortsOnly:
		return slices.DeleteFunc(videos, func(v Video) bool { return !v.IsShort })
	case TypeFilterNoShorts:
		return slices.DeleteFunc(videos, func(v Video) bool { return v.IsShort })
	case TypeFilterCustom:
		if len(custom) == 0 {
			return videos
		}
		return slices.DeleteFunc(videos, func(v Video) bool {
			return !slices.Contains(custom, v.VideoType)
		})
	default:
		return videos
	}
}

// FilterByDuration keeps videos whose duration lies in [minSeconds, maxSeconds].
// A zero maxSeconds means no upper bound.
func FilterByDuration(videos []Video, minSeconds, maxSeconds int) []Video {
	return slices.DeleteFunc(videos, func(v Video) bool {
		if v.DurationSeconds < minSeconds {
			return true
		}
		return maxSeconds > 0 && v.DurationSeconds > maxSeconds
	})
}

// FilterByDate keeps videos published inside the window
func FilterByDate(videos []Video, window DateWindow) []Video {
	if window.IsZero() {
		return videos
	}
	return slices.DeleteFunc(videos, func(v Video) bool {
		return !window.Contains(v.PublishedAt)
	})
}

// SortVideos orders videos by field (views, likes, comments, date, duration
// or title), descending unless ascending is set. The sort is stable.
func SortVideos(videos []Video, field string, ascending bool) error {
	var cmp func(a, b Video) int
	switch field {
	case "", "views":
		cmp = func(a, b Video) int { return compareUint(a.ViewCount, b.ViewCount) }
	case "likes":
		cmp = func(a, b Video) int { return compareUint(a.LikeCount, b.LikeCount) }
	case "comments":
		cmp = func(a, b Video) int { return compareUint(a.CommentCount, b.CommentCount) }
	case "date":
		cmp = func(a, b Video) int { return a.PublishedAt.Compare(b.PublishedAt) }
	case "duration":
		cmp = func(a, b Video) int { return a.DurationSeconds - b.DurationSeconds }
	case "title":
		cmp = func(a, b Video) int { return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)) }
	default:
		return validateChoice("sort field", field, sortFields)
	}

	slices.SortStableFunc(videos, func(a, b Video) int {
		if ascending {
			return cmp(a, b)
		}
		return cmp(b, a)
	})
	return nil
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Process extracts raw API videos and runs every filter followed by the sort
func Process(raw []*youtube.Video, opts FilterOptions) ([]Video, error) {
	videos := make([]Video, 0, len(raw))
	for _, v := range raw {
		if v == nil {
			continue
		}
		videos = append(videos, ExtractVideo(v))
	}

	videos = FilterByViews(videos, opts.MinViews)
	videos = FilterByTitle(videos, opts.Keywords, opts.TitleMode)
	videos = FilterByVideoType(videos, opts.TypeFilter, opts.CustomTypes)
	videos = FilterByDuration(videos, opts.DurationMin, opts.DurationMax)
	videos = FilterByDate(videos, opts.Window)

	if err := SortVideos(videos, opts.SortBy, opts.Ascending); err != nil {
		return nil, fmt.Errorf("sorting videos: %w", err)
	}
	return videos, nil
}

// TypeDistribution counts videos per duration bucket
func TypeDistribution(videos []Video) map[VideoType]int {
	counts := make(map[VideoType]int)
	for _, v := range videos {
		counts[v.VideoType]++
	}
	return counts
}
