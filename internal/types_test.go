package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideoType(t *testing.T) {
	for input, want := range map[string]VideoType{
		"Short":            VideoTypeShort,
		"short video":      VideoTypeShortForm,
		"medium-video":     VideoTypeMedium,
		"LONG_VIDEO":       VideoTypeLong,
		" Very Long Video": VideoTypeVeryLong,
	} {
		got, err := ParseVideoType(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseVideoType("Unknown")
	assert.ErrorIs(t, err, ErrInvalidVideoType)
	_, err = ParseVideoType("tiny")
	assert.ErrorIs(t, err, ErrInvalidVideoType)
}

func TestParseOutputFormats(t *testing.T) {
	formats, err := ParseOutputFormats([]string{"CSV", "xlsx", "json", "csv", "md", "yml"})
	require.NoError(t, err)
	assert.Equal(t, []OutputFormat{FormatCSV, FormatExcel, FormatJSON, FormatMarkdown, FormatYAML}, formats)

	_, err = ParseOutputFormats([]string{"pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf")

	formats, err = ParseOutputFormats(nil)
	require.NoError(t, err)
	assert.Empty(t, formats)
}

func TestVideoFlatFields(t *testing.T) {
	v := Video{}
	assert.Equal(t, "No tags", v.TagsString())
	assert.Equal(t, "No thumbnail", v.ThumbnailURL())

	v.Tags = []string{"go", "cli"}
	v.Thumbnail.URL = "https://i.ytimg.com/vi/x/hqdefault.jpg"
	assert.Equal(t, "go, cli", v.TagsString())
	assert.Equal(t, "https://i.ytimg.com/vi/x/hqdefault.jpg", v.ThumbnailURL())

	v.Description = strings.Repeat("é", 600)
	desc := v.ShortDescription()
	assert.Len(t, []rune(desc), 500)
	assert.True(t, strings.HasSuffix(desc, "..."))
}

func TestQueryInfoLabel(t *testing.T) {
	assert.Equal(t, "golang tutorial", QueryInfo{Keywords: []string{"golang", "tutorial"}}.Label())
	assert.Equal(t, "trending (US)", QueryInfo{Trending: true, Region: "US"}.Label())
	assert.Equal(t, "trending (category 20, DE)", QueryInfo{Trending: true, Region: "DE", Category: "20"}.Label())
}
