package internal

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// VideoType is the duration bucket a video falls into
type VideoType string

const (
	VideoTypeUnknown   VideoType = "Unknown"
	VideoTypeShort     VideoType = "Short"
	VideoTypeShortForm VideoType = "Short Video"
	VideoTypeMedium    VideoType = "Medium Video"
	VideoTypeLong      VideoType = "Long Video"
	VideoTypeVeryLong  VideoType = "Very Long Video"
)

// VideoTypes lists the buckets that can be selected with --custom-types
var VideoTypes = []VideoType{
	VideoTypeShort,
	VideoTypeShortForm,
	VideoTypeMedium,
	VideoTypeLong,
	VideoTypeVeryLong,
}

// ParseVideoType resolves a bucket name, ignoring case and accepting
// dashes or underscores in place of spaces
func ParseVideoType(name string) (VideoType, error) {
	normalized := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(name))
	for _, vt := range VideoTypes {
		if strings.EqualFold(string(vt), normalized) {
			return vt, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidVideoType, name)
}

// TitleMode controls how search keywords are matched against video titles
type TitleMode string

const (
	TitleModeAll     TitleMode = "all"
	TitleModeAny     TitleMode = "any"
	TitleModeGeneral TitleMode = "general"
)

// TypeFilter selects videos by their duration bucket
type TypeFilter string

const (
	TypeFilterAll        TypeFilter = "all"
	TypeFilterShortsOnly TypeFilter = "shorts-only"
	TypeFilterNoShorts   TypeFilter = "no-shorts"
	TypeFilterCustom     TypeFilter = "custom"
)

// OutputFormat is a file format results can be exported to
type OutputFormat string

const (
	FormatCSV      OutputFormat = "csv"
	FormatJSON     OutputFormat = "json"
	FormatExcel    OutputFormat = "excel"
	FormatYAML     OutputFormat = "yaml"
	FormatMarkdown OutputFormat = "markdown"
)

var (
	searchOrders  = []string{"viewCount", "relevance", "date", "rating", "title"}
	apiDurations  = []string{"any", "short", "medium", "long"}
	titleModes    = []string{string(TitleModeAll), string(TitleModeAny), string(TitleModeGeneral)}
	typeFilters   = []string{string(TypeFilterAll), string(TypeFilterShortsOnly), string(TypeFilterNoShorts), string(TypeFilterCustom)}
	outputFormats = []string{string(FormatCSV), string(FormatJSON), string(FormatExcel), string(FormatYAML), string(FormatMarkdown)}
	sortFields    = []string{"views", "likes", "comments", "date", "duration", "title"}
)

func validateChoice(kind, value string, choices []string) error {
	if slices.Contains(choices, value) {
		return nil
	}
	return fmt.Errorf("invalid %s: %q (choose from %s)", kind, value, strings.Join(choices, ", "))
}

// ParseOutputFormats validates format names, drops duplicates and maps the
// "xlsx" alias to excel
func ParseOutputFormats(names []string) ([]OutputFormat, error) {
	var formats []OutputFormat
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "xlsx":
			name = string(FormatExcel)
		case "md":
			name = string(FormatMarkdown)
		case "yml":
			name = string(FormatYAML)
		}
		if err := validateChoice("output format", name, outputFormats); err != nil {
			return nil, err
		}
		if !slices.Contains(formats, OutputFormat(name)) {
			formats = append(formats, OutputFormat(name))
		}
	}
	return formats, nil
}

// Thumbnail describes the high quality thumbnail of a video
type Thumbnail struct {
	URL    string `json:"url" yaml:"url"`
	Width  int64  `json:"width" yaml:"width"`
	Height int64  `json:"height" yaml:"height"`
}

// Video is a single processed search result
type Video struct {
	VideoID         string    `json:"video_id" yaml:"video_id"`
	Title           string    `json:"title" yaml:"title"`
	Channel         string    `json:"channel" yaml:"channel"`
	ChannelID       string    `json:"channel_id" yaml:"channel_id"`
	CategoryID      string    `json:"category_id,omitempty" yaml:"category_id,omitempty"`
	PublishedAt     time.Time `json:"published_at" yaml:"published_at"`
	Description     string    `json:"description" yaml:"description"`
	ViewCount       uint64    `json:"view_count" yaml:"view_count"`
	LikeCount       uint64    `json:"like_count" yaml:"like_count"`
	CommentCount    uint64    `json:"comment_count" yaml:"comment_count"`
	Duration        string    `json:"duration" yaml:"duration"`
	DurationSeconds int       `json:"duration_seconds" yaml:"duration_seconds"`
	IsShort         bool      `json:"is_short" yaml:"is_short"`
	VideoType       VideoType `json:"video_type" yaml:"video_type"`
	Tags            []string  `json:"tags" yaml:"tags"`
	Thumbnail       Thumbnail `json:"thumbnail" yaml:"thumbnail"`
	URL             string    `json:"url" yaml:"url"`
}

// TagsString joins tags for flat formats
func (v Video) TagsString() string {
	if len(v.Tags) == 0 {
		return "No tags"
	}
	return strings.Join(v.Tags, ", ")
}

// ShortDescription returns the first 500 characters of the description
func (v Video) ShortDescription() string {
	return truncateRunes(v.Description, 500)
}

// ThumbnailURL returns the thumbnail URL or a placeholder for flat formats
func (v Video) ThumbnailURL() string {
	if v.Thumbnail.URL == "" {
		return "No thumbnail"
	}
	return v.Thumbnail.URL
}

// QueryInfo records the parameters a result set was produced with
type QueryInfo struct {
	Keywords        []string   `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Trending        bool       `json:"trending,omitempty" yaml:"trending,omitempty"`
	Order           string     `json:"order,omitempty" yaml:"order,omitempty"`
	Region          string     `json:"region,omitempty" yaml:"region,omitempty"`
	Category        string     `json:"category,omitempty" yaml:"category,omitempty"`
	MaxResults      int        `json:"max_results" yaml:"max_results"`
	MinViews        uint64     `json:"min_views" yaml:"min_views"`
	TitleMode       TitleMode  `json:"title_mode,omitempty" yaml:"title_mode,omitempty"`
	TypeFilter      TypeFilter `json:"video_type_filter,omitempty" yaml:"video_type_filter,omitempty"`
	PublishedAfter  string     `json:"published_after,omitempty" yaml:"published_after,omitempty"`
	PublishedBefore string     `json:"published_before,omitempty" yaml:"published_before,omitempty"`
}

// Label is a short human readable name for the query
func (q QueryInfo) Label() string {
	if q.Trending {
		if q.Category != "" {
			return fmt.Sprintf("trending (category %s, %s)", q.Category, q.Region)
		}
		return fmt.Sprintf("trending (%s)", q.Region)
	}
	return strings.Join(q.Keywords, " ")
}

// ResultFile is the document written by the JSON and YAML exporters
type ResultFile struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	VideoCount int       `json:"video_count" yaml:"video_count"`
	Query      QueryInfo `json:"query" yaml:"query"`
	Videos     []Video   `json:"videos" yaml:"videos"`
}
