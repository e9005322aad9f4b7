package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(sampleVideos())

	assert.Equal(t, ReportStats{
		VideoCount:    5,
		TotalViews:    505000,
		AverageViews:  101000,
		MedianViews:   90000,
		TotalLikes:    50500,
		TotalComments: 5050,
		Shorts:        1,
	}, stats)

	even := ComputeStats([]Video{{ViewCount: 41}, {ViewCount: 10}, {ViewCount: 30}, {ViewCount: 20}})
	assert.Equal(t, uint64(25), even.MedianViews)
	assert.Equal(t, uint64(25), even.AverageViews)

	assert.Equal(t, ReportStats{}, ComputeStats(nil))
}

func TestTypeShares(t *testing.T) {
	videos := append(sampleVideos(), Video{VideoID: "nodur", VideoType: VideoTypeUnknown})
	shares := TypeShares(videos)

	require.Len(t, shares, 6)
	assert.Equal(t, VideoTypeShort, shares[0].Type)
	assert.Equal(t, VideoTypeUnknown, shares[5].Type)
	for _, s := range shares {
		assert.Equal(t, 1, s.Count)
		assert.InDelta(t, 16.67, s.Percent, 0.01)
	}
}

func TestTopVideos(t *testing.T) {
	videos := sampleVideos()
	top := TopVideos(videos, 2)

	assert.Equal(t, []string{"aaaaaaaaaaa", "ddddddddddd"}, videoIDs(top))
	assert.Equal(t, "bbbbbbbbbbb", videos[1].VideoID, "input order is preserved")
	assert.Len(t, TopVideos(videos, 50), 5)
}

func TestTopChannels(t *testing.T) {
	channels := TopChannels(sampleVideos(), 5)

	assert.Equal(t, []ChannelStats{
		{Channel: "GopherCon", Videos: 2, Views: 370000},
		{Channel: "CodeTalk", Videos: 2, Views: 45000},
		{Channel: "QuickBytes", Videos: 1, Views: 90000},
	}, channels)

	assert.Len(t, TopChannels(sampleVideos(), 1), 1)
}

func TestCommaValue(t *testing.T) {
	assert.Equal(t, "1,234,567", commaValue(uint64(1234567)))
	assert.Equal(t, "999", commaValue(999))
	assert.Equal(t, "-1,000", commaValue(int64(-1000)))
	assert.Equal(t, "n/a", commaValue("n/a"))
}

func TestBuildReport(t *testing.T) {
	result := sampleResult()
	result.Videos[2].Title = "Rust | Go"

	report, err := BuildReport(result, "")
	require.NoError(t, err)

	for _, want := range []string{
		"# YouTube results: golang tutorial",
		"Generated 2024-03-15 10:30:00 (run `3f1c7f4e-7d0a-4a8e-9a57-2f2b8e0f4c11`)",
		"| Videos | 5 |",
		"| Total views | 505,000 |",
		"| Average views | 101,000 |",
		"| Median views | 90,000 |",
		"| Short | 1 | 20.0% |",
		"| 1 | [Go concurrency patterns](https://www.youtube.com/watch?v=aaaaaaaaaaa) | GopherCon | 250,000 | 45:00 | Very Long Video |",
		`[Rust \| Go]`,
		"| GopherCon | 2 | 370,000 |",
	} {
		assert.Contains(t, report, want)
	}
	assert.NotContains(t, report, "## Insights")
	assert.NotContains(t, report, "Published after")

	result.Query.PublishedAfter = "2024-01-01T00:00:00Z"
	report, err = BuildReport(result, "\nViews cluster around tutorials.\n")
	require.NoError(t, err)
	assert.Contains(t, report, "| Published after | 2024-01-01T00:00:00Z |")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(report), "## Insights\n\nViews cluster around tutorials."))
}
