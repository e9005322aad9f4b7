package internal

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// ReportStats aggregates the numbers shown in summaries and reports
type ReportStats struct {
	VideoCount    int
	TotalViews    uint64
	AverageViews  uint64
	MedianViews   uint64
	TotalLikes    uint64
	TotalComments uint64
	Shorts        int
}

// TypeShare is one row of the video type distribution
type TypeShare struct {
	Type    VideoType
	Count   int
	Percent float64
}

// ChannelStats totals a channel's videos in a result set
type ChannelStats struct {
	Channel string
	Videos  int
	Views   uint64
}

type reportData struct {
	Query       QueryInfo
	RunID       string
	Generated   string
	Stats       ReportStats
	Types       []TypeShare
	TopVideos   []Video
	TopChannels []ChannelStats
	Insights    string
}

const (
	reportTopVideos   = 10
	reportTopChannels = 5
)

// ComputeStats sums view, like and comment counts. The average uses integer
// division.
func ComputeStats(videos []Video) ReportStats {
	stats := ReportStats{VideoCount: len(videos)}
	if len(videos) == 0 {
		return stats
	}

	views := make([]uint64, 0, len(videos))
	for _, v := range videos {
		stats.TotalViews += v.ViewCount
		stats.TotalLikes += v.LikeCount
		stats.TotalComments += v.CommentCount
		if v.IsShort {
			stats.Shorts++
		}
		views = append(views, v.ViewCount)
	}
	stats.AverageViews = stats.TotalViews / uint64(len(videos))

	slices.Sort(views)
	mid := len(views) / 2
	if len(views)%2 == 0 {
		stats.MedianViews = (views[mid-1] + views[mid]) / 2
	} else {
		stats.MedianViews = views[mid]
	}
	return stats
}

// TypeShares returns the non empty duration buckets in bucket order
func TypeShares(videos []Video) []TypeShare {
	counts := TypeDistribution(videos)
	var shares []TypeShare
	for _, t := range slices.Concat(VideoTypes, []VideoType{VideoTypeUnknown}) {
		n := counts[t]
		if n == 0 {
			continue
		}
		shares = append(shares, TypeShare{
			Type:    t,
			Count:   n,
			Percent: float64(n) / float64(len(videos)) * 100,
		})
	}
	return shares
}

// TopVideos returns the n most viewed videos without reordering the input
func TopVideos(videos []Video, n int) []Video {
	top := slices.Clone(videos)
	slices.SortStableFunc(top, func(a, b Video) int {
		return compareUint(b.ViewCount, a.ViewCount)
	})
	return top[:min(n, len(top))]
}

// TopChannels ranks channels by video count, then by total views
func TopChannels(videos []Video, n int) []ChannelStats {
	byChannel := make(map[string]*ChannelStats)
	var order []string
	for _, v := range videos {
		c, ok := byChannel[v.Channel]
		if !ok {
			c = &ChannelStats{Channel: v.Channel}
			byChannel[v.Channel] = c
			order = append(order, v.Channel)
		}
		c.Videos++
		c.Views += v.ViewCount
	}

	channels := make([]ChannelStats, 0, len(order))
	for _, name := range order {
		channels = append(channels, *byChannel[name])
	}
	slices.SortStableFunc(channels, func(a, b ChannelStats) int {
		if c := cmp.Compare(b.Videos, a.Videos); c != 0 {
			return c
		}
		return compareUint(b.Views, a.Views)
	})
	return channels[:min(n, len(channels))]
}

var reportFuncs = template.FuncMap{
	"comma": commaValue,
	"inc":   func(i int) int { return i + 1 },
	"cell":  markdownCell,
}

// commaValue formats integers with thousands separators
func commaValue(v any) string {
	switch n := v.(type) {
	case int:
		return humanize.Comma(int64(n))
	case int64:
		return humanize.Comma(n)
	case uint64:
		return humanize.Comma(int64(n))
	default:
		return fmt.Sprint(v)
	}
}

// markdownCell keeps a value on one table row
func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// BuildReport renders the markdown run report for a result set. insights is
// appended under its own heading when non empty.
func BuildReport(result *ResultFile, insights string) (string, error) {
	content, err := defaultFS.ReadFile("report.md.tmpl")
	if err != nil {
		return "", fmt.Errorf("reading report template: %w", err)
	}

	tmpl, err := template.New("report").Funcs(reportFuncs).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("parsing report template: %w", err)
	}

	generated := result.Timestamp
	if generated.IsZero() {
		generated = nowFunc()
	}

	data := reportData{
		Query:       result.Query,
		RunID:       result.RunID,
		Generated:   generated.Format(time.DateTime),
		Stats:       ComputeStats(result.Videos),
		Types:       TypeShares(result.Videos),
		TopVideos:   TopVideos(result.Videos, reportTopVideos),
		TopChannels: TopChannels(result.Videos, reportTopChannels),
		Insights:    strings.TrimSpace(insights),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing report template: %w", err)
	}
	return buf.String(), nil
}
