package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/youtube/v3"
)

func TestExtractVideo(t *testing.T) {
	v := ExtractVideo(apiVideo("abc123def45", "Go concurrency", "GopherCon", 1500, "PT1H2M10S", "2024-01-10T12:00:00Z"))

	assert.Equal(t, "abc123def45", v.VideoID)
	assert.Equal(t, "Go concurrency", v.Title)
	assert.Equal(t, "GopherCon", v.Channel)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123def45", v.URL)
	assert.Equal(t, uint64(1500), v.ViewCount)
	assert.Equal(t, uint64(150), v.LikeCount)
	assert.Equal(t, uint64(15), v.CommentCount)
	assert.Equal(t, 3730, v.DurationSeconds)
	assert.Equal(t, "1:02:10", v.Duration)
	assert.False(t, v.IsShort)
	assert.Equal(t, VideoTypeVeryLong, v.VideoType)
	assert.Equal(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), v.PublishedAt)
	assert.Equal(t, Thumbnail{URL: "https://i.ytimg.com/vi/abc123def45/hqdefault.jpg", Width: 480, Height: 360}, v.Thumbnail)
	assert.Equal(t, []string{"tag-abc123def45"}, v.Tags)
}

func TestExtractVideoMissingParts(t *testing.T) {
	v := ExtractVideo(&youtube.Video{Id: "x"})

	assert.Equal(t, "x", v.VideoID)
	assert.Zero(t, v.ViewCount)
	assert.Equal(t, "0:00", v.Duration)
	assert.Equal(t, VideoTypeUnknown, v.VideoType)
	assert.True(t, v.PublishedAt.IsZero())
	assert.Equal(t, "No tags", v.TagsString())
}

func TestFilterByViews(t *testing.T) {
	got := FilterByViews(sampleVideos(), 90000)
	assert.Equal(t, []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ddddddddddd"}, videoIDs(got))

	assert.Len(t, FilterByViews(sampleVideos(), 0), 5)
}

func TestFilterByTitle(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		mode     TitleMode
		want     []string
	}{
		{"all requires every keyword", []string{"go", "generics"}, TitleModeAll, []string{"ddddddddddd"}},
		{"all ignores case", []string{"RUST"}, TitleModeAll, []string{"ccccccccccc"}},
		{"any needs one keyword", []string{"rust", "cli"}, TitleModeAny, []string{"ccccccccccc", "eeeeeeeeeee"}},
		{"general keeps everything", []string{"nothing matches"}, TitleModeGeneral, []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc", "ddddddddddd", "eeeeeeeeeee"}},
		{"no keywords keeps everything", nil, TitleModeAll, []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc", "ddddddddddd", "eeeeeeeeeee"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByTitle(sampleVideos(), tt.keywords, tt.mode)
			assert.Equal(t, tt.want, videoIDs(got))
		})
	}
}

func TestFilterByVideoType(t *testing.T) {
	assert.Equal(t, []string{"bbbbbbbbbbb"}, videoIDs(FilterByVideoType(sampleVideos(), TypeFilterShortsOnly, nil)))
	assert.Len(t, FilterByVideoType(sampleVideos(), TypeFilterNoShorts, nil), 4)
	assert.Len(t, FilterByVideoType(sampleVideos(), TypeFilterAll, nil), 5)

	custom := FilterByVideoType(sampleVideos(), TypeFilterCustom, []VideoType{VideoTypeMedium, VideoTypeLong})
	assert.Equal(t, []string{"ccccccccccc", "eeeeeeeeeee"}, videoIDs(custom))

	assert.Len(t, FilterByVideoType(sampleVideos(), TypeFilterCustom, nil), 5, "custom without types keeps everything")
}

func TestFilterByDuration(t *testing.T) {
	got := FilterByDuration(sampleVideos(), 60, 600)
	assert.Equal(t, []string{"ccccccccccc", "ddddddddddd"}, videoIDs(got))

	got = FilterByDuration(sampleVideos(), 900, 0)
	assert.Equal(t, []string{"aaaaaaaaaaa", "eeeeeeeeeee"}, videoIDs(got))
}

func TestFilterByDate(t *testing.T) {
	window := DateWindow{
		After:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Before: time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC),
	}
	got := FilterByDate(sampleVideos(), window)
	assert.Equal(t, []string{"aaaaaaaaaaa", "bbbbbbbbbbb"}, videoIDs(got), "bounds are exclusive")

	assert.Len(t, FilterByDate(sampleVideos(), DateWindow{}), 5)
}

func TestSortVideos(t *testing.T) {
	tests := []struct {
		field     string
		ascending bool
		want      []string
	}{
		{"views", false, []string{"aaaaaaaaaaa", "ddddddddddd", "bbbbbbbbbbb", "ccccccccccc", "eeeeeeeeeee"}},
		{"views", true, []string{"eeeeeeeeeee", "ccccccccccc", "bbbbbbbbbbb", "ddddddddddd", "aaaaaaaaaaa"}},
		{"", false, []string{"aaaaaaaaaaa", "ddddddddddd", "bbbbbbbbbbb", "ccccccccccc", "eeeeeeeeeee"}},
		{"date", false, []string{"eeeeeeeeeee", "ddddddddddd", "bbbbbbbbbbb", "aaaaaaaaaaa", "ccccccccccc"}},
		{"duration", true, []string{"bbbbbbbbbbb", "ddddddddddd", "ccccccccccc", "eeeeeeeeeee", "aaaaaaaaaaa"}},
		{"title", true, []string{"eeeeeeeeeee", "aaaaaaaaaaa", "ddddddddddd", "bbbbbbbbbbb", "ccccccccccc"}},
	}

	for _, tt := range tests {
		videos := sampleVideos()
		require.NoError(t, SortVideos(videos, tt.field, tt.ascending))
		assert.Equal(t, tt.want, videoIDs(videos), "field=%q ascending=%v", tt.field, tt.ascending)
	}

	assert.Error(t, SortVideos(sampleVideos(), "popularity", false))
}

func TestSortVideosIsStable(t *testing.T) {
	videos := []Video{
		{VideoID: "first", ViewCount: 10},
		{VideoID: "second", ViewCount: 10},
		{VideoID: "third", ViewCount: 20},
	}
	require.NoError(t, SortVideos(videos, "views", false))
	assert.Equal(t, []string{"third", "first", "second"}, videoIDs(videos))
}

func TestProcess(t *testing.T) {
	raw := []*youtube.Video{
		apiVideo("aaaaaaaaaaa", "Go concurrency patterns", "GopherCon", 250000, "PT45M", "2024-01-10T12:00:00Z"),
		nil,
		apiVideo("bbbbbbbbbbb", "Learn Go in 60 seconds", "QuickBytes", 90000, "PT59S", "2024-02-01T08:30:00Z"),
		apiVideo("ccccccccccc", "Python tips", "CodeTalk", 400000, "PT8M", "2024-01-20T18:00:00Z"),
		apiVideo("ddddddddddd", "Go generics explained", "GopherCon", 120000, "PT3M30S", "2024-02-20T09:00:00Z"),
	}

	videos, err := Process(raw, FilterOptions{
		MinViews:   100000,
		Keywords:   []string{"go"},
		TitleMode:  TitleModeAll,
		TypeFilter: TypeFilterNoShorts,
		SortBy:     "views",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaaaaaaaaa", "ddddddddddd"}, videoIDs(videos))

	_, err = Process(raw, FilterOptions{SortBy: "nope"})
	assert.Error(t, err)
}

func TestTypeDistribution(t *testing.T) {
	counts := TypeDistribution(sampleVideos())
	assert.Equal(t, map[VideoType]int{
		VideoTypeVeryLong:  1,
		VideoTypeShort:     1,
		VideoTypeMedium:    1,
		VideoTypeShortForm: 1,
		VideoTypeLong:      1,
	}, counts)
}
