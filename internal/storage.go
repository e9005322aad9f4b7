package internal

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// ExcelSheetName is the worksheet results are written to
const ExcelSheetName = "YouTube Videos"

const maxExcelColumnWidth = 50

var csvColumns = []string{
	"video_id", "title", "channel", "published_at",
	"view_count", "like_count", "comment_count",
	"duration", "duration_seconds", "is_short", "video_type",
	"tags", "thumbnail_url", "description", "url",
}

var excelColumns = []string{
	"video_id", "title", "channel", "view_count",
	"like_count", "comment_count", "published_at",
	"duration", "duration_seconds", "is_short", "video_type",
	"tags", "thumbnail_url", "description", "url",
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Storage writes result files into an output directory
type Storage struct {
	dir string
}

// NewStorage creates the output directory if needed
func NewStorage(dir string) (*Storage, error) {
	if err := EnsureDirs(dir); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Dir returns the output directory
func (s *Storage) Dir() string {
	return s.dir
}

// BaseName builds the file name stem for a query
func BaseName(q QueryInfo) string {
	if q.Trending || len(q.Keywords) == 0 {
		return "youtube_trending"
	}
	name := unsafeFilenameChars.ReplaceAllString(q.Keywords[0], "_")
	if name == "" || name == "_" {
		name = "videos"
	}
	return "youtube_" + name
}

// filename returns <dir>/<base>_<YYYYMMDD_HHMMSS>.<ext>
func (s *Storage) filename(base, ext string) string {
	timestamp := nowFunc().Format("20060102_150405")
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.%s", base, timestamp, ext))
}

// Save writes result in the given format and returns the file path
func (s *Storage) Save(format OutputFormat, result *ResultFile, base string) (string, error) {
	switch format {
	case FormatCSV:
		return s.SaveCSV(result.Videos, base)
	case FormatJSON:
		return s.SaveJSON(result, base)
	case FormatExcel:
		return s.SaveExcel(result.Videos, base)
	case FormatYAML:
		return s.SaveYAML(result, base)
	case FormatMarkdown:
		if len(result.Videos) == 0 {
			return "", ErrNoVideos
		}
		report, err := BuildReport(result, "")
		if err != nil {
			return "", err
		}
		return s.SaveMarkdown(report, base)
	default:
		return "", validateChoice("output format", string(format), outputFormats)
	}
}

func csvRecord(v Video) []string {
	return []string{
		v.VideoID,
		v.Title,
		v.Channel,
		FormatRFC3339(v.PublishedAt),
		strconv.FormatUint(v.ViewCount, 10),
		strconv.FormatUint(v.LikeCount, 10),
		strconv.FormatUint(v.CommentCount, 10),
		v.Duration,
		strconv.Itoa(v.DurationSeconds),
		strconv.FormatBool(v.IsShort),
		string(v.VideoType),
		v.TagsString(),
		v.ThumbnailURL(),
		v.ShortDescription(),
		v.URL,
	}
}

// WriteCSV writes a header and one row per video to w
func WriteCSV(w io.Writer, videos []Video) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, v := range videos {
		if err := cw.Write(csvRecord(v)); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// SaveCSV writes one row per video
func (s *Storage) SaveCSV(videos []Video, base string) (string, error) {
	if len(videos) == 0 {
		return "", ErrNoVideos
	}

	path := s.filename(base, "csv")
	err := writeFileAtomic(path, 0644, func(w io.Writer) error {
		return WriteCSV(w, videos)
	})
	if err != nil {
		return "", fmt.Errorf("saving csv file: %w", err)
	}
	return path, nil
}

// SaveJSON writes the whole result document, indented
func (s *Storage) SaveJSON(result *ResultFile, base string) (string, error) {
	if len(result.Videos) == 0 {
		return "", ErrNoVideos
	}

	path := s.filename(base, "json")
	err := writeFileAtomic(path, 0644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("saving json file: %w", err)
	}
	return path, nil
}

// SaveYAML writes the same document as SaveJSON in YAML
func (s *Storage) SaveYAML(result *ResultFile, base string) (string, error) {
	if len(result.Videos) == 0 {
		return "", ErrNoVideos
	}

	path := s.filename(base, "yaml")
	err := writeFileAtomic(path, 0644, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	})
	if err != nil {
		return "", fmt.Errorf("saving yaml file: %w", err)
	}
	return path, nil
}

func excelRow(v Video) []any {
	return []any{
		v.VideoID,
		v.Title,
		v.Channel,
		v.ViewCount,
		v.LikeCount,
		v.CommentCount,
		FormatRFC3339(v.PublishedAt),
		v.Duration,
		v.DurationSeconds,
		v.IsShort,
		string(v.VideoType),
		v.TagsString(),
		v.ThumbnailURL(),
		v.ShortDescription(),
		v.URL,
	}
}

// SaveExcel writes a single worksheet with auto sized columns
func (s *Storage) SaveExcel(videos []Video, base string) (string, error) {
	if len(videos) == 0 {
		return "", ErrNoVideos
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExcelSheetName); err != nil {
		return "", fmt.Errorf("naming worksheet: %w", err)
	}

	widths := make([]int, len(excelColumns))
	writeRow := func(row int, values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ExcelSheetName, cell, &values); err != nil {
			return err
		}
		for i, value := range values {
			widths[i] = max(widths[i], utf8.RuneCountInString(fmt.Sprint(value)))
		}
		return nil
	}

	header := make([]any, len(excelColumns))
	for i, name := range excelColumns {
		header[i] = name
	}
	if err := writeRow(1, header); err != nil {
		return "", fmt.Errorf("writing header row: %w", err)
	}
	for i, v := range videos {
		if err := writeRow(i+2, excelRow(v)); err != nil {
			return "", fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	for i, name := range excelColumns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return "", err
		}
		width := min(widths[i]+2, maxExcelColumnWidth)
		if name == "description" {
			width = maxExcelColumnWidth
		}
		if err := f.SetColWidth(ExcelSheetName, col, col, float64(width)); err != nil {
			return "", fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	path := s.filename(base, "xlsx")
	err := writeFileAtomic(path, 0644, func(w io.Writer) error {
		return f.Write(w)
	})
	if err != nil {
		return "", fmt.Errorf("saving excel file: %w", err)
	}
	return path, nil
}

// SaveMarkdown writes a rendered run report
func (s *Storage) SaveMarkdown(report, base string) (string, error) {
	path := s.filename(base, "md")
	err := writeFileAtomic(path, 0644, func(w io.Writer) error {
		_, err := io.WriteString(w, report)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("saving markdown report: %w", err)
	}
	return path, nil
}

// LoadJSON reads a result file written by SaveJSON
func LoadJSON(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}

	var result ResultFile
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing results file: %w", err)
	}
	if result.VideoCount == 0 {
		result.VideoCount = len(result.Videos)
	}
	return &result, nil
}
