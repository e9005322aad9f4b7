package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// DefaultTrendingCategory is Science & Technology
const DefaultTrendingCategory = "28"

var (
	searchParts = []string{"snippet"}
	detailParts = []string{"snippet", "statistics", "contentDetails"}
)

// SearchQuery holds the request parameters of a keyword search
type SearchQuery struct {
	Keywords   []string
	MaxResults int
	Order      string
	Region     string
	Window     DateWindow
	CategoryID string
	// Duration is the API side bucket: any, short, medium or long
	Duration string
	Language string
}

// TrendingQuery holds the request parameters of a most popular chart lookup
type TrendingQuery struct {
	CategoryID string
	Region     string
	MaxResults int
}

// Category is an assignable video category
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// VideoFetcher is the subset of the Data API the app needs
type VideoFetcher interface {
	SearchWithProgress(ctx context.Context, q SearchQuery, bar ProgressBar) ([]string, error)
	VideoDetailsWithProgress(ctx context.Context, ids []string, bar ProgressBar) ([]*youtube.Video, error)
	Trending(ctx context.Context, q TrendingQuery) ([]*youtube.Video, error)
	Categories(ctx context.Context, region string) ([]Category, error)
}

// YouTubeClient talks to the YouTube Data API v3
type YouTubeClient struct {
	service    *youtube.Service
	quota      *QuotaTracker
	retry      RetryConfig
	delay      time.Duration
	timeout    time.Duration
	endpoint   string
	httpClient *http.Client
	ui         UIManager
}

// ClientOption customizes YouTubeClient creation
type ClientOption func(*YouTubeClient)

// WithQuotaTracker records every call in the quota ledger
func WithQuotaTracker(q *QuotaTracker) ClientOption {
	return func(c *YouTubeClient) {
		c.quota = q
	}
}

// WithRetryConfig overrides the backoff settings
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(c *YouTubeClient) {
		c.retry = cfg
	}
}

// WithRequestDelay sets the pause between paginated requests
func WithRequestDelay(d time.Duration) ClientOption {
	return func(c *YouTubeClient) {
		c.delay = d
	}
}

// WithRequestTimeout bounds every single API call
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *YouTubeClient) {
		c.timeout = d
	}
}

// WithEndpoint points the client at another API root, e.g. a test server
func WithEndpoint(endpoint string, client *http.Client) ClientOption {
	return func(c *YouTubeClient) {
		c.endpoint = endpoint
		c.httpClient = client
	}
}

// WithClientUI sends per page verbose output through ui
func WithClientUI(ui UIManager) ClientOption {
	return func(c *YouTubeClient) {
		c.ui = ui
	}
}

// NewYouTubeClient creates a Data API client authenticated with an API key
func NewYouTubeClient(ctx context.Context, apiKey string, options ...ClientOption) (*YouTubeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}

	c := &YouTubeClient{
		retry: DefaultRetryConfig(),
		delay: 500 * time.Millisecond,
	}
	for _, o := range options {
		o(c)
	}
	if c.ui == nil {
		c.ui = NewWriterUIManager(io.Discard, false, true)
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if c.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(c.httpClient))
	}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}
	c.service = service

	return c, nil
}

// Search returns the IDs of videos matching the query
func (c *YouTubeClient) Search(ctx context.Context, q SearchQuery) ([]string, error) {
	return c.SearchWithProgress(ctx, q, nil)
}

// SearchWithProgress pages through search.list until MaxResults IDs are
// collected or no next page remains. A failure after the first page ends
// pagination early and returns what was collected.
func (c *YouTubeClient) SearchWithProgress(ctx context.Context, q SearchQuery, bar ProgressBar) ([]string, error) {
	query := strings.Join(q.Keywords, " ")
	seen := make(map[string]bool)
	var ids []string
	pageToken := ""

	for page := 1; len(ids) < q.MaxResults; page++ {
		pageSize := min(ResultsPerPage, q.MaxResults-len(ids))

		var resp *youtube.SearchListResponse
		err := c.do(ctx, "search.list", SearchCost, func(ctx context.Context) error {
			call := c.service.Search.List(searchParts).
				Q(query).
				Type("video").
				MaxResults(int64(pageSize)).
				Context(ctx)
			if q.Order != "" {
				call = call.Order(q.Order)
			}
			if q.Region != "" {
				call = call.RegionCode(q.Region)
			}
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			if after := q.Window.AfterString(); after != "" {
				call = call.PublishedAfter(after)
			}
			if before := q.Window.BeforeString(); before != "" {
				call = call.PublishedBefore(before)
			}
			if q.CategoryID != "" {
				call = call.VideoCategoryId(q.CategoryID)
			}
			if q.Duration != "" && q.Duration != "any" {
				call = call.VideoDuration(q.Duration)
			}
			if q.Language != "" {
				call = call.RelevanceLanguage(q.Language)
			}

			var err error
			resp, err = call.Do()
			return err
		})
		if err != nil {
			if page == 1 || errors.Is(err, context.Canceled) {
				return nil, fmt.Errorf("search request failed: %w", err)
			}
			logger.Warn("search pagination stopped early", zap.Int("page", page), zap.Error(err))
			c.ui.Verbose("Error during search page %d: %v\n", page, err)
			break
		}

		fetched := 0
		for _, item := range resp.Items {
			if item.Id == nil || item.Id.VideoId == "" || seen[item.Id.VideoId] {
				continue
			}
			seen[item.Id.VideoId] = true
			ids = append(ids, item.Id.VideoId)
			fetched++
		}

		c.ui.Verbose("Fetched %d videos (Total: %d)\n", fetched, len(ids))
		if bar != nil {
			bar.Set(min(len(ids), q.MaxResults))
		}

		pageToken = resp.NextPageToken
		if pageToken == "" || len(resp.Items) == 0 {
			break
		}
		if len(ids) >= q.MaxResults {
			break
		}
		if err := sleepContext(ctx, c.delay); err != nil {
			return ids, err
		}
	}

	if len(ids) > q.MaxResults {
		ids = ids[:q.MaxResults]
	}
	return ids, nil
}

// VideoDetails fetches snippet, statistics and content details for ids
func (c *YouTubeClient) VideoDetails(ctx context.Context, ids []string) ([]*youtube.Video, error) {
	return c.VideoDetailsWithProgress(ctx, ids, nil)
}

// VideoDetailsWithProgress looks ids up in batches of 50. A failed batch is
// skipped unless the failure is a quota or key error.
func (c *YouTubeClient) VideoDetailsWithProgress(ctx context.Context, ids []string, bar ProgressBar) ([]*youtube.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var batches [][]string
	for i := 0; i < len(ids); i += ResultsPerPage {
		batches = append(batches, ids[i:min(i+ResultsPerPage, len(ids))])
	}

	results := make([][]*youtube.Video, len(batches))
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for i, batch := range batches {
		g.Go(func() error {
			var resp *youtube.VideoListResponse
			err := c.do(gctx, "videos.list", VideoListCost, func(ctx context.Context) error {
				var err error
				resp, err = c.service.Videos.List(detailParts).
					Id(batch...).
					Context(ctx).
					Do()
				return err
			})
			if err != nil {
				if errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrInvalidAPIKey) || gctx.Err() != nil {
					return fmt.Errorf("video details request failed: %w", err)
				}
				logger.Warn("skipping video details batch", zap.Int("batch", i), zap.Error(err))
				c.ui.Verbose("Error fetching video details: %v\n", err)
				return nil
			}

			results[i] = resp.Items

			mu.Lock()
			done += len(batch)
			if bar != nil {
				bar.Set(done)
			}
			mu.Unlock()

			c.ui.Verbose("Fetched statistics for %d videos\n", len(resp.Items))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var videos []*youtube.Video
	for _, items := range results {
		videos = append(videos, items...)
	}
	return videos, nil
}

// Trending returns the most popular videos of a category and region
func (c *YouTubeClient) Trending(ctx context.Context, q TrendingQuery) ([]*youtube.Video, error) {
	var videos []*youtube.Video
	pageToken := ""

	for len(videos) < q.MaxResults {
		pageSize := min(ResultsPerPage, q.MaxResults-len(videos))

		var resp *youtube.VideoListResponse
		err := c.do(ctx, "videos.list chart=mostPopular", VideoListCost, func(ctx context.Context) error {
			call := c.service.Videos.List(detailParts).
				Chart("mostPopular").
				MaxResults(int64(pageSize)).
				Context(ctx)
			if q.Region != "" {
				call = call.RegionCode(q.Region)
			}
			if q.CategoryID != "" {
				call = call.VideoCategoryId(q.CategoryID)
			}
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}

			var err error
			resp, err = call.Do()
			return err
		})
		if err != nil {
			if len(videos) == 0 {
				return nil, fmt.Errorf("trending videos request failed: %w", err)
			}
			logger.Warn("trending pagination stopped early", zap.Error(err))
			break
		}

		videos = append(videos, resp.Items...)

		pageToken = resp.NextPageToken
		if pageToken == "" || len(resp.Items) == 0 {
			break
		}
		if err := sleepContext(ctx, c.delay); err != nil {
			return videos, err
		}
	}

	if len(videos) > q.MaxResults {
		videos = videos[:q.MaxResults]
	}
	return videos, nil
}

// Categories lists the assignable video categories of a region
func (c *YouTubeClient) Categories(ctx context.Context, region string) ([]Category, error) {
	var resp *youtube.VideoCategoryListResponse
	err := c.do(ctx, "videoCategories.list", VideoListCost, func(ctx context.Context) error {
		call := c.service.VideoCategories.List([]string{"snippet"}).Context(ctx)
		if region != "" {
			call = call.RegionCode(region)
		}
		var err error
		resp, err = call.Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("video categories request failed: %w", err)
	}

	var categories []Category
	for _, item := range resp.Items {
		if item.Snippet == nil || !item.Snippet.Assignable {
			continue
		}
		categories = append(categories, Category{ID: item.Id, Title: item.Snippet.Title})
	}
	return categories, nil
}

// do runs one API call with retries and records its quota cost. Every
// attempt that reaches the API counts against the quota.
func (c *YouTubeClient) do(ctx context.Context, operation string, units int, fn func(context.Context) error) error {
	err := withRetry(ctx, c.retry, isRetryableAPIError, func(ctx context.Context) error {
		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		err := fn(callCtx)
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		c.recordQuota(units, operation)
		if err != nil {
			logger.Debug("api call failed", zap.String("operation", operation), zap.Error(err))
			if callCtx.Err() != nil {
				// only the per call timeout fired
				return fmt.Errorf("%w after %s: %v", errRequestTimeout, c.timeout, err)
			}
			return classifyAPIError(err)
		}
		return nil
	})
	return err
}

func (c *YouTubeClient) recordQuota(units int, operation string) {
	if c.quota == nil {
		return
	}
	if err := c.quota.Use(units, operation); err != nil {
		logger.Warn("recording quota usage", zap.Error(err))
	}
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
