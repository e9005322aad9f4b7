package internal

import (
	"testing"
	"time"

	"google.golang.org/api/youtube/v3"
)

// apiVideo builds a videos.list item the way the Data API returns it
func apiVideo(id, title, channel string, views uint64, duration, published string) *youtube.Video {
	return &youtube.Video{
		Id: id,
		Snippet: &youtube.VideoSnippet{
			Title:        title,
			ChannelTitle: channel,
			ChannelId:    "UC" + channel,
			CategoryId:   "28",
			Description:  "about " + title,
			PublishedAt:  published,
			Tags:         []string{"tag-" + id},
			Thumbnails: &youtube.ThumbnailDetails{
				High: &youtube.Thumbnail{
					Url:    "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg",
					Width:  480,
					Height: 360,
				},
			},
		},
		Statistics: &youtube.VideoStatistics{
			ViewCount:    views,
			LikeCount:    views / 10,
			CommentCount: views / 100,
		},
		ContentDetails: &youtube.VideoContentDetails{
			Duration: duration,
		},
	}
}

// sampleVideos returns processed videos covering every duration bucket
func sampleVideos() []Video {
	raw := []*youtube.Video{
		apiVideo("aaaaaaaaaaa", "Go concurrency patterns", "GopherCon", 250000, "PT45M", "2024-01-10T12:00:00Z"),
		apiVideo("bbbbbbbbbbb", "Learn Go in 60 seconds", "QuickBytes", 90000, "PT59S", "2024-02-01T08:30:00Z"),
		apiVideo("ccccccccccc", "Rust vs Go", "CodeTalk", 40000, "PT8M", "2023-11-20T18:00:00Z"),
		apiVideo("ddddddddddd", "Go generics explained", "GopherCon", 120000, "PT3M30S", "2024-02-20T09:00:00Z"),
		apiVideo("eeeeeeeeeee", "Building a CLI in Go", "CodeTalk", 5000, "PT15M", "2024-03-01T10:00:00Z"),
	}
	videos := make([]Video, len(raw))
	for i, v := range raw {
		videos[i] = ExtractVideo(v)
	}
	return videos
}

// freezeTime pins nowFunc for the duration of a test
func freezeTime(t *testing.T, now time.Time) {
	t.Helper()
	orig := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = orig })
}

func videoIDs(videos []Video) []string {
	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.VideoID
	}
	return ids
}
