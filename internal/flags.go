package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AddSearchFlags adds flags that shape the search.list request
func AddSearchFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("keywords", "k", nil, "Search keywords (repeatable, positional arguments are also used)")
	cmd.Flags().String("order", "", "Search order: "+strings.Join(searchOrders, "|"))
	cmd.Flags().String("api-duration", "any", "API side duration bucket: "+strings.Join(apiDurations, "|"))

	// --max-total-results is the historical name of --max-results
	cmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "max-total-results" {
			name = "max-results"
		}
		return pflag.NormalizedName(name)
	})
}

// AddDateFlags adds the publish date window flags. Searches send the window
// to the API; trending runs apply it to the chart locally.
func AddDateFlags(cmd *cobra.Command) {
	cmd.Flags().String("published-after", "", "Only videos published after this date (YYYY-MM-DD, today, week_ago, ...)")
	cmd.Flags().String("published-before", "", "Only videos published before this date")
	cmd.Flags().Int("last-days", 0, "Only videos from the last N days (overrides other date flags)")
	cmd.Flags().StringSlice("date-range", nil, "Date window as START,END (overrides --published-after/--published-before)")
}

// AddQuotaFlags adds the quota confirmation flags
func AddQuotaFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("estimate-quota", false, "Show the estimated quota cost and ask before running")
	cmd.Flags().Bool("force", false, "Run even if the estimate exceeds the remaining daily quota")
}

// AddFilterFlags adds flags shared by search and trending runs
func AddFilterFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-results", 0, "Maximum number of videos to fetch (default from config)")
	cmd.Flags().Uint64("min-views", 0, "Minimum view count (default from config for searches)")
	cmd.Flags().String("title-mode", string(TitleModeAll), "Keyword matching against titles: "+strings.Join(titleModes, "|"))
	cmd.Flags().String("video-type-filter", string(TypeFilterAll), "Video type filter: "+strings.Join(typeFilters, "|"))
	cmd.Flags().StringSlice("custom-types", nil, "Video types kept by --video-type-filter custom (e.g. \"Medium Video,Long Video\")")
	cmd.Flags().Int("duration-min", 0, "Minimum duration in seconds")
	cmd.Flags().Int("duration-max", 0, "Maximum duration in seconds (0 for no limit)")
	cmd.Flags().String("category", "", "Video category ID")
	cmd.Flags().String("region", "", "Region code (default from config)")
	cmd.Flags().String("sort", "views", "Sort by: "+strings.Join(sortFields, "|"))
	cmd.Flags().Bool("ascending", false, "Sort ascending instead of descending")
	cmd.Flags().String("api-key-file", "", "File holding the YouTube Data API key")
}

// AddOutputFlags adds flags controlling exports and console output
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("output-format", "f", nil, "Output formats: "+strings.Join(outputFormats, "|")+" (repeatable)")
	cmd.Flags().StringP("output-dir", "o", "", "Directory for exported files (default from config)")
	cmd.Flags().Int("top", 10, "Number of videos to print")
}

// AddOpenAIFlags adds flags related to OpenAI API functionality
func AddOpenAIFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "OpenAI model to use for insights")
	cmd.Flags().StringP("prompt", "p", "", "Custom insights prompt (string or file path)")
}

// HandlePromptFlag processes the --prompt flag to set custom prompt
func HandlePromptFlag(cmd *cobra.Command, app *App) error {
	promptFlag := cmd.Flags().Lookup("prompt")
	if promptFlag == nil || !promptFlag.Changed {
		return nil
	}

	prompt, err := cmd.Flags().GetString("prompt")
	if err != nil {
		return fmt.Errorf("failed to get prompt flag: %w", err)
	}
	if prompt == "" {
		return nil
	}

	app.SetPromptManager(NewPromptManager(app.config.ConfigDir, prompt))

	if IsLikelyFilePath(prompt) && FileExists(prompt) {
		app.ui.Verbose("Using custom prompt file: %s\n", prompt)
	} else {
		app.ui.Verbose("Using custom prompt string\n")
	}

	return nil
}

// HandleGlobalFlags copies --verbose and --quiet into config
func HandleGlobalFlags(cmd *cobra.Command, config *Config) error {
	if f := cmd.Flags().Lookup("verbose"); f != nil && f.Changed {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("failed to get verbose flag: %w", err)
		}
		config.Verbose = verbose
	}
	if f := cmd.Flags().Lookup("quiet"); f != nil && f.Changed {
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}
		config.Quiet = quiet
	}
	if config.Verbose && config.Quiet {
		return fmt.Errorf("--verbose and --quiet cannot be used together")
	}
	return nil
}

// ValidateOpenAIRequirements validates OpenAI API key and model from command flags and config
func ValidateOpenAIRequirements(cmd *cobra.Command, config *Config) error {
	if config.OpenAIAPIKey == "" {
		return ErrOpenAIKeyMissing
	}

	modelFlag, _ := cmd.Flags().GetString("model")
	if modelFlag != "" {
		if err := ValidateModel(modelFlag); err != nil {
			return err
		}
		config.AIModel = modelFlag
	} else if err := ValidateModel(config.AIModel); err != nil {
		return fmt.Errorf("invalid model in config: %w", err)
	}

	return nil
}

// BuildRunRequest turns command flags, positional keywords and config
// defaults into a RunRequest. Flags left unset fall back to config.
func BuildRunRequest(cmd *cobra.Command, args []string, config *Config, trending bool) (RunRequest, error) {
	flags := cmd.Flags()
	req := RunRequest{Trending: trending}

	if f := flags.Lookup("api-key-file"); f != nil && f.Changed {
		config.APIKeyFile = f.Value.String()
	}

	if !trending {
		keywords, _ := flags.GetStringSlice("keywords")
		req.Keywords = append(SplitList(keywords), args...)
		if len(req.Keywords) == 0 {
			return req, fmt.Errorf("at least one keyword is required (pass them as arguments or with --keywords)")
		}

		req.Order, _ = flags.GetString("order")
		if req.Order == "" {
			req.Order = config.Order
		}
		if err := validateChoice("order", req.Order, searchOrders); err != nil {
			return req, err
		}

		req.APIDuration, _ = flags.GetString("api-duration")
		if err := validateChoice("api duration", req.APIDuration, apiDurations); err != nil {
			return req, err
		}

	}

	if flags.Lookup("published-after") != nil {
		req.Dates.PublishedAfter, _ = flags.GetString("published-after")
		req.Dates.PublishedBefore, _ = flags.GetString("published-before")
		req.Dates.LastDays, _ = flags.GetInt("last-days")
		dateRange, _ := flags.GetStringSlice("date-range")
		req.Dates.DateRange = SplitList(dateRange)
	}
	if flags.Lookup("estimate-quota") != nil {
		req.ConfirmQuota, _ = flags.GetBool("estimate-quota")
		req.Force, _ = flags.GetBool("force")
	}

	req.MaxResults, _ = flags.GetInt("max-results")
	if req.MaxResults == 0 {
		req.MaxResults = config.MaxResults
	}
	if req.MaxResults < 1 {
		return req, fmt.Errorf("--max-results must be at least 1, got %d", req.MaxResults)
	}

	req.Region, _ = flags.GetString("region")
	if req.Region == "" {
		req.Region = config.Region
	}
	req.CategoryID, _ = flags.GetString("category")

	filter, err := buildFilterOptions(flags, config, trending)
	if err != nil {
		return req, err
	}
	req.Filter = filter

	formats, _ := flags.GetStringSlice("output-format")
	if !flags.Changed("output-format") {
		formats = config.OutputFormats
	}
	req.Formats, err = ParseOutputFormats(SplitList(formats))
	if err != nil {
		return req, err
	}

	req.OutputDir, _ = flags.GetString("output-dir")
	if req.OutputDir == "" {
		req.OutputDir = config.OutputDir
	}
	req.Top, _ = flags.GetInt("top")

	return req, nil
}

func buildFilterOptions(flags *pflag.FlagSet, config *Config, trending bool) (FilterOptions, error) {
	var opts FilterOptions

	opts.MinViews, _ = flags.GetUint64("min-views")
	if !flags.Changed("min-views") && !trending {
		opts.MinViews = config.MinViews
	}

	titleMode, _ := flags.GetString("title-mode")
	if err := validateChoice("title mode", titleMode, titleModes); err != nil {
		return opts, err
	}
	opts.TitleMode = TitleMode(titleMode)
	if trending {
		opts.TitleMode = TitleModeGeneral
	}

	typeFilter, _ := flags.GetString("video-type-filter")
	if err := validateChoice("video type filter", typeFilter, typeFilters); err != nil {
		return opts, err
	}
	opts.TypeFilter = TypeFilter(typeFilter)

	customTypes, _ := flags.GetStringSlice("custom-types")
	for _, name := range SplitList(customTypes) {
		vt, err := ParseVideoType(name)
		if err != nil {
			return opts, err
		}
		opts.CustomTypes = append(opts.CustomTypes, vt)
	}
	if opts.TypeFilter == TypeFilterCustom && len(opts.CustomTypes) == 0 {
		return opts, fmt.Errorf("--video-type-filter custom requires --custom-types")
	}

	opts.DurationMin, _ = flags.GetInt("duration-min")
	opts.DurationMax, _ = flags.GetInt("duration-max")
	if opts.DurationMin < 0 || opts.DurationMax < 0 {
		return opts, fmt.Errorf("durations must not be negative")
	}
	if opts.DurationMax > 0 && opts.DurationMin > opts.DurationMax {
		return opts, fmt.Errorf("--duration-min (%d) is greater than --duration-max (%d)", opts.DurationMin, opts.DurationMax)
	}

	opts.SortBy, _ = flags.GetString("sort")
	if err := validateChoice("sort field", opts.SortBy, sortFields); err != nil {
		return opts, err
	}
	opts.Ascending, _ = flags.GetBool("ascending")

	return opts, nil
}
