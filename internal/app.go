package internal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/youtube/v3"
)

const printedTagsLimit = 100

var headingStyle = lipgloss.NewStyle().Bold(true)

// App holds the application state and dependencies
type App struct {
	fetcher       VideoFetcher
	fetcherOnce   sync.Once
	fetcherErr    error
	quota         *QuotaTracker
	ai            *AI
	promptManager *PromptManager
	config        *Config
	ui            UIManager
}

// RunRequest describes one search or trending run
type RunRequest struct {
	Keywords    []string
	Trending    bool
	CategoryID  string
	Region      string
	MaxResults  int
	Order       string
	APIDuration string
	Dates       DateInput
	// Filter.Window is filled in from Dates
	Filter    FilterOptions
	Formats   []OutputFormat
	OutputDir string
	// ConfirmQuota asks before spending the estimated quota
	ConfirmQuota bool
	Force        bool
	Top          int
}

// RunResult is what a run produced
type RunResult struct {
	Result   *ResultFile
	Files    []string
	Stats    ReportStats
	Estimate int
}

// NewApp initializes the application. The YouTube client is created on first
// use so commands that never call the API work without a key.
func NewApp(config *Config, options ...AppOption) (*App, error) {
	app := &App{
		ai:            NewAIWithKey(config.OpenAIAPIKey, config.AIModel, config.SummaryTimeout),
		promptManager: NewPromptManager(config.ConfigDir, config.Prompt),
		config:        config,
		ui:            NewUIManager(config.Verbose, config.Quiet),
	}

	for _, option := range options {
		option(app)
	}

	if app.quota == nil {
		quota, err := NewQuotaTracker(config.QuotaFile(), config.DailyQuota)
		if err != nil {
			return nil, fmt.Errorf("loading quota ledger: %w", err)
		}
		app.quota = quota
	}

	return app, nil
}

// AppOption customizes App creation
type AppOption func(*App)

// WithFetcher sets the YouTube API implementation
func WithFetcher(fetcher VideoFetcher) AppOption {
	return func(a *App) {
		a.fetcher = fetcher
	}
}

// WithQuota sets the quota tracker
func WithQuota(quota *QuotaTracker) AppOption {
	return func(a *App) {
		a.quota = quota
	}
}

// WithAI sets a custom AI helper
func WithAI(ai *AI) AppOption {
	return func(a *App) {
		a.ai = ai
	}
}

// WithUI sets the user interface
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// SetPromptManager sets a new prompt manager
func (app *App) SetPromptManager(pm *PromptManager) {
	app.promptManager = pm
}

// Quota returns the quota tracker
func (app *App) Quota() *QuotaTracker {
	return app.quota
}

func (app *App) videoFetcher(ctx context.Context) (VideoFetcher, error) {
	app.fetcherOnce.Do(func() {
		if app.fetcher != nil {
			return
		}
		apiKey, err := LoadAPIKey(app.config)
		if err != nil {
			app.fetcherErr = err
			return
		}
		retry := DefaultRetryConfig()
		retry.MaxRetries = app.config.MaxRetries
		client, err := NewYouTubeClient(ctx, apiKey,
			WithQuotaTracker(app.quota),
			WithRetryConfig(retry),
			WithRequestDelay(app.config.RequestDelay),
			WithRequestTimeout(app.config.RequestTimeout),
			WithClientUI(app.ui),
		)
		if err != nil {
			app.fetcherErr = err
			return
		}
		app.fetcher = client
	})
	return app.fetcher, app.fetcherErr
}

// EstimateRun returns the quota units a request is expected to cost
func EstimateRun(req RunRequest) int {
	if req.Trending {
		return (req.MaxResults/ResultsPerPage + 1) * VideoListCost
	}
	return EstimateQuota(req.MaxResults)
}

// Run executes a search or trending request end to end: fetch, filter,
// print, export and summarize
func (app *App) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	window, err := ResolveDateWindow(req.Dates, nowFunc())
	if err != nil {
		return nil, err
	}
	req.Filter.Window = window
	if !req.Trending && len(req.Filter.Keywords) == 0 {
		req.Filter.Keywords = req.Keywords
	}

	estimate := EstimateRun(req)
	if err := app.checkQuota(estimate, req); err != nil {
		return nil, err
	}

	fetcher, err := app.videoFetcher(ctx)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != "" {
		if err := app.validateCategory(ctx, fetcher, req.CategoryID, req.Region); err != nil {
			return nil, err
		}
	}

	var raw []*youtube.Video
	if req.Trending {
		raw, err = app.fetchTrending(ctx, fetcher, req)
	} else {
		raw, err = app.fetchSearch(ctx, fetcher, req, window)
	}
	if err != nil {
		return nil, err
	}

	videos, err := Process(raw, req.Filter)
	if err != nil {
		return nil, err
	}
	logger.Info("run processed",
		zap.Strings("keywords", req.Keywords),
		zap.Bool("trending", req.Trending),
		zap.Int("fetched", len(raw)),
		zap.Int("kept", len(videos)))

	run := &RunResult{Estimate: estimate}
	if len(videos) == 0 {
		app.ui.Println("No videos found matching criteria")
		return run, nil
	}

	run.Result = &ResultFile{
		RunID:      uuid.NewString(),
		Timestamp:  nowFunc(),
		VideoCount: len(videos),
		Query:      queryInfo(req, window),
		Videos:     videos,
	}
	run.Stats = ComputeStats(videos)

	app.PrintTop(videos, req.Top)

	if len(req.Formats) > 0 {
		files, err := app.save(run.Result, req)
		if err != nil {
			return nil, err
		}
		run.Files = files
	}

	app.PrintSummary(videos)
	return run, nil
}

func (app *App) checkQuota(estimate int, req RunRequest) error {
	ok, remaining := app.quota.Check(estimate)

	if req.ConfirmQuota {
		app.ui.Printf("Estimated quota usage: %s units (%s remaining today)\n",
			commaValue(estimate), commaValue(remaining))
		if !AskUser("Continue?") {
			return ErrAborted
		}
	}

	if !ok {
		if !req.Force {
			return fmt.Errorf("%w: run needs about %d units but only %d remain today (use --force to run anyway)",
				ErrQuotaExceeded, estimate, remaining)
		}
		app.ui.Warnf("run needs about %d units but only %d remain today\n", estimate, remaining)
	}
	return nil
}

// validateCategory checks id against the assignable categories of region
func (app *App) validateCategory(ctx context.Context, fetcher VideoFetcher, id, region string) error {
	categories, err := fetcher.Categories(ctx, region)
	if err != nil {
		return fmt.Errorf("validating category: %w", err)
	}
	for _, c := range categories {
		if c.ID == id {
			app.ui.Verbose("Category %s: %s\n", c.ID, c.Title)
			return nil
		}
	}
	if region == "" {
		region = "the default region"
	}
	return fmt.Errorf("%w: %q in %s (see \"ytscrape categories\")", ErrInvalidCategory, id, region)
}

func (app *App) fetchSearch(ctx context.Context, fetcher VideoFetcher, req RunRequest, window DateWindow) ([]*youtube.Video, error) {
	app.ui.Verbose("Searching for %q\n", strings.Join(req.Keywords, " "))

	bar := app.ui.NewProgressBar(req.MaxResults, "Searching")
	ids, err := fetcher.SearchWithProgress(ctx, SearchQuery{
		Keywords:   req.Keywords,
		MaxResults: req.MaxResults,
		Order:      req.Order,
		Region:     req.Region,
		Window:     window,
		CategoryID: req.CategoryID,
		Duration:   req.APIDuration,
	}, bar)
	bar.Finish()
	if err != nil {
		return nil, fmt.Errorf("searching videos: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	app.ui.Verbose("Found %d video IDs\n", len(ids))

	bar = app.ui.NewProgressBar(len(ids), "Fetching details")
	raw, err := fetcher.VideoDetailsWithProgress(ctx, ids, bar)
	bar.Finish()
	if err != nil {
		return nil, fmt.Errorf("fetching video details: %w", err)
	}
	return raw, nil
}

func (app *App) fetchTrending(ctx context.Context, fetcher VideoFetcher, req RunRequest) ([]*youtube.Video, error) {
	category := req.CategoryID
	if category == "" {
		category = DefaultTrendingCategory
	}

	spinner := app.ui.NewSpinner("Fetching trending videos")
	raw, err := fetcher.Trending(ctx, TrendingQuery{
		CategoryID: category,
		Region:     req.Region,
		MaxResults: req.MaxResults,
	})
	spinner.Finish()
	if err != nil {
		return nil, fmt.Errorf("fetching trending videos: %w", err)
	}
	return raw, nil
}

func queryInfo(req RunRequest, window DateWindow) QueryInfo {
	q := QueryInfo{
		Keywords:        req.Keywords,
		Trending:        req.Trending,
		Order:           req.Order,
		Region:          req.Region,
		Category:        req.CategoryID,
		MaxResults:      req.MaxResults,
		MinViews:        req.Filter.MinViews,
		TitleMode:       req.Filter.TitleMode,
		TypeFilter:      req.Filter.TypeFilter,
		PublishedAfter:  window.AfterString(),
		PublishedBefore: window.BeforeString(),
	}
	if q.Trending && q.Category == "" {
		q.Category = DefaultTrendingCategory
	}
	return q
}

// save exports result in every requested format. A failing format is
// reported and skipped; the run only fails when nothing could be written.
func (app *App) save(result *ResultFile, req RunRequest) ([]string, error) {
	dir := req.OutputDir
	if dir == "" {
		dir = app.config.OutputDir
	}
	storage, err := NewStorage(dir)
	if err != nil {
		return nil, err
	}

	base := BaseName(result.Query)
	var files []string
	var errs []error
	for _, format := range req.Formats {
		path, err := storage.Save(format, result, base)
		if err != nil {
			app.ui.Warnf("saving %s: %v\n", format, err)
			errs = append(errs, fmt.Errorf("saving %s: %w", format, err))
			continue
		}
		app.ui.Printf("Saved %s: %s\n", format, path)
		files = append(files, path)
	}

	if len(files) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return files, nil
}

// PrintTop prints the first n videos in their current order
func (app *App) PrintTop(videos []Video, n int) {
	if n <= 0 {
		return
	}
	top := videos[:min(n, len(videos))]

	app.ui.Println()
	app.ui.Println(headingStyle.Render(fmt.Sprintf("Top %d videos", len(top))))
	for i, v := range top {
		short := "No"
		if v.IsShort {
			short = "Yes"
		}
		app.ui.Printf("\n%d. %s\n", i+1, v.Title)
		app.ui.Printf("   Views: %s | Channel: %s\n", commaValue(v.ViewCount), v.Channel)
		app.ui.Printf("   Duration: %s (%s) | Short: %s\n", v.Duration, v.VideoType, short)
		app.ui.Printf("   Tags: %s\n", truncateRunes(v.TagsString(), printedTagsLimit))
		app.ui.Printf("   URL: %s\n", v.URL)
	}
}

// PrintSummary prints totals and the video type distribution
func (app *App) PrintSummary(videos []Video) {
	stats := ComputeStats(videos)

	app.ui.Println()
	app.ui.Println(headingStyle.Render("Summary"))
	app.ui.Printf("Total videos: %d\n", stats.VideoCount)
	app.ui.Printf("Total views: %s\n", commaValue(stats.TotalViews))
	app.ui.Printf("Average views: %s\n", commaValue(stats.AverageViews))

	counts := TypeDistribution(videos)
	types := make([]VideoType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	slices.Sort(types)

	app.ui.Println("Video type distribution:")
	for _, t := range types {
		pct := float64(counts[t]) / float64(len(videos)) * 100
		app.ui.Printf("  %s: %d (%.1f%%)\n", t, counts[t], pct)
	}
}

// GenerateReport builds the markdown report for result, asking the AI for
// an insights section when withInsights is set
func (app *App) GenerateReport(ctx context.Context, result *ResultFile, withInsights bool) (string, error) {
	if len(result.Videos) == 0 {
		return "", ErrNoVideos
	}

	var insights string
	if withInsights {
		prompt, err := app.promptManager.CreatePrompt(result)
		if err != nil {
			return "", fmt.Errorf("creating prompt: %w", err)
		}

		spinner := app.ui.NewSpinner("Generating insights")
		insights, err = app.ai.Insights(ctx, prompt)
		spinner.Finish()
		if err != nil {
			return "", fmt.Errorf("generating insights: %w", err)
		}
	}

	return BuildReport(result, insights)
}

// Categories lists assignable video categories for a region
func (app *App) Categories(ctx context.Context, region string) ([]Category, error) {
	fetcher, err := app.videoFetcher(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := fetcher.Categories(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}
