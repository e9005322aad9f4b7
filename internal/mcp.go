package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// mcpMaxResults caps a single tool call so one request cannot drain the quota
const mcpMaxResults = 200

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance. Nothing may be written to
// stdout while serving over stdio, so the app's console output is discarded.
func NewMCPServer(app *App, version string) *MCPServer {
	app.ui = NewWriterUIManager(io.Discard, false, true)

	mcpServer := server.NewMCPServer(
		"ytscrape",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s
}

func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("search_youtube_videos",
		mcp.WithDescription("Search YouTube videos by keywords and return view counts, durations and other metadata as JSON. Each call spends YouTube Data API quota (about 100 units per 50 results); use estimate_youtube_quota first for large requests."),
		mcp.WithString("keywords",
			mcp.Description("Space separated search keywords"),
			mcp.Required(),
		),
		mcp.WithNumber("max_results",
			mcp.Description(fmt.Sprintf("Maximum number of videos to fetch (1-%d)", mcpMaxResults)),
			mcp.DefaultNumber(50),
		),
		mcp.WithNumber("min_views",
			mcp.Description("Minimum view count"),
			mcp.DefaultNumber(0),
		),
		mcp.WithString("order",
			mcp.Description("Search order"),
			mcp.Enum(searchOrders...),
		),
		mcp.WithString("published_after",
			mcp.Description("Only videos published after this date (YYYY-MM-DD or today, yesterday, week_ago, month_ago, year_ago)"),
		),
		mcp.WithString("published_before",
			mcp.Description("Only videos published before this date"),
		),
		mcp.WithString("video_type",
			mcp.Description("Video type filter"),
			mcp.Enum(typeFilters[:3]...),
		),
		mcp.WithString("title_mode",
			mcp.Description("How keywords must appear in titles"),
			mcp.Enum(titleModes...),
		),
	), s.handleSearch)

	s.mcpServer.AddTool(mcp.NewTool("trending_youtube_videos",
		mcp.WithDescription("List the most popular YouTube videos for a category and region as JSON. Costs 1 quota unit per 50 results."),
		mcp.WithString("category",
			mcp.Description("Video category ID (default 28, Science & Technology)"),
		),
		mcp.WithString("region",
			mcp.Description("ISO 3166-1 region code (default from config)"),
		),
		mcp.WithNumber("max_results",
			mcp.Description(fmt.Sprintf("Maximum number of videos (1-%d)", mcpMaxResults)),
			mcp.DefaultNumber(50),
		),
		mcp.WithString("published_after",
			mcp.Description("Only keep chart entries published after this date (YYYY-MM-DD or today, yesterday, week_ago, month_ago, year_ago)"),
		),
		mcp.WithString("published_before",
			mcp.Description("Only keep chart entries published before this date"),
		),
		mcp.WithNumber("last_days",
			mcp.Description("Only keep chart entries from the last N days"),
		),
	), s.handleTrending)

	s.mcpServer.AddTool(mcp.NewTool("estimate_youtube_quota",
		mcp.WithDescription("Estimate the quota units a search for max_results videos would cost and report today's remaining quota. Free."),
		mcp.WithNumber("max_results",
			mcp.Description("Number of videos the search would fetch"),
			mcp.Required(),
		),
	), s.handleEstimate)
}

func (s *MCPServer) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keywords, err := request.RequireString("keywords")
	if err != nil || strings.TrimSpace(keywords) == "" {
		return mcp.NewToolResultError("keywords parameter is required and must be a string"), nil
	}

	maxResults := request.GetInt("max_results", 50)
	if maxResults < 1 || maxResults > mcpMaxResults {
		return mcp.NewToolResultError(fmt.Sprintf("max_results must be between 1 and %d", mcpMaxResults)), nil
	}

	order := request.GetString("order", s.app.config.Order)
	titleMode := request.GetString("title_mode", string(TitleModeAll))
	videoType := request.GetString("video_type", string(TypeFilterAll))
	for _, check := range []error{
		validateChoice("order", order, searchOrders),
		validateChoice("title_mode", titleMode, titleModes),
		validateChoice("video_type", videoType, typeFilters[:3]),
	} {
		if check != nil {
			return mcp.NewToolResultError(check.Error()), nil
		}
	}

	req := RunRequest{
		Keywords:    strings.Fields(keywords),
		MaxResults:  maxResults,
		Order:       order,
		Region:      s.app.config.Region,
		APIDuration: "any",
		Dates: DateInput{
			PublishedAfter:  request.GetString("published_after", ""),
			PublishedBefore: request.GetString("published_before", ""),
		},
		Filter: FilterOptions{
			MinViews:   uint64(max(request.GetInt("min_views", 0), 0)),
			TitleMode:  TitleMode(titleMode),
			TypeFilter: TypeFilter(videoType),
			SortBy:     "views",
		},
	}

	logger.Info("mcp search", zap.Strings("keywords", req.Keywords), zap.Int("max_results", maxResults))
	return s.runTool(ctx, req)
}

func (s *MCPServer) handleTrending(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	maxResults := request.GetInt("max_results", 50)
	if maxResults < 1 || maxResults > mcpMaxResults {
		return mcp.NewToolResultError(fmt.Sprintf("max_results must be between 1 and %d", mcpMaxResults)), nil
	}

	req := RunRequest{
		Trending:   true,
		CategoryID: request.GetString("category", ""),
		Region:     request.GetString("region", s.app.config.Region),
		MaxResults: maxResults,
		Dates: DateInput{
			PublishedAfter:  request.GetString("published_after", ""),
			PublishedBefore: request.GetString("published_before", ""),
			LastDays:        max(request.GetInt("last_days", 0), 0),
		},
		Filter: FilterOptions{
			TitleMode: TitleModeGeneral,
			SortBy:    "views",
		},
	}

	logger.Info("mcp trending", zap.String("category", req.CategoryID), zap.String("region", req.Region))
	return s.runTool(ctx, req)
}

func (s *MCPServer) runTool(ctx context.Context, req RunRequest) (*mcp.CallToolResult, error) {
	run, err := s.app.Run(ctx, req)
	if err != nil {
		logger.Warn("mcp tool failed", zap.Error(err))
		return mcp.NewToolResultErrorFromErr("youtube request failed", err), nil
	}

	videos := []Video{}
	if run.Result != nil {
		videos = run.Result.Videos
	}
	return jsonResult(videos)
}

func (s *MCPServer) handleEstimate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	maxResults, err := request.RequireInt("max_results")
	if err != nil || maxResults < 1 {
		return mcp.NewToolResultError("max_results must be a positive number"), nil
	}

	return jsonResult(struct {
		MaxResults int          `json:"max_results"`
		Estimate   int          `json:"estimate"`
		Quota      QuotaSummary `json:"quota"`
	}{
		MaxResults: maxResults,
		Estimate:   EstimateQuota(maxResults),
		Quota:      s.app.quota.Summary(),
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultErrorFromErr("encoding result", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		go func() {
			<-ctx.Done()
			_ = httpServer.Shutdown(context.Background())
		}()

		logger.Info("mcp http server listening", zap.String("addr", addr))
		return httpServer.Start(addr)
	}

	logger.Info("mcp stdio server started")
	return server.ServeStdio(s.mcpServer)
}

// GetServer returns the underlying MCP server for advanced configuration
func (s *MCPServer) GetServer() *server.MCPServer {
	return s.mcpServer
}
