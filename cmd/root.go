package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytscrape/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytscrape [keywords...]",
	Short: "Search YouTube videos and export them with view counts and metadata",
	Long: `ytscrape searches YouTube through the Data API v3 and exports the
matching videos to CSV, JSON, Excel, YAML or a markdown report.

Results can be narrowed by views, publish date, duration, video type and
how the keywords appear in titles. Daily API quota usage is tracked locally.

Running ytscrape with keywords is the same as "ytscrape search".`,
	Example: `  # Most viewed videos about golang with at least 10k views
  ytscrape golang --min-views 10000

  # Last week's long form videos, exported to CSV and Excel
  ytscrape "home lab" --last-days 7 --video-type-filter no-shorts -f csv -f excel

  # Several keywords, any of which may appear in the title
  ytscrape -k kubernetes -k docker --title-mode any --max-results 200`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		config = internal.InitConfig(configFile)

		if err := internal.HandleGlobalFlags(cmd, config); err != nil {
			return err
		}

		if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir); err != nil {
			return fmt.Errorf("creating XDG directories: %w", err)
		}

		if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
		}

		if err := internal.EnsureDefaultPrompt(config.ConfigDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default prompt: %v\n", err)
		}

		internal.InitLogging(config)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !cmd.Flags().Changed("keywords") {
			return cmd.Help()
		}
		if len(args) == 1 {
			if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
				fmt.Fprintf(os.Stderr, "Note: searching for %q. Did you mean the %q command?\n", args[0], suggestions[0])
			}
		}
		return runVideos(cmd, args, false)
	},
}

// runVideos executes a search or trending run from command flags
func runVideos(cmd *cobra.Command, args []string, trending bool) error {
	req, err := internal.BuildRunRequest(cmd, args, config, trending)
	if err != nil {
		return err
	}

	app, err := internal.NewApp(config)
	if err != nil {
		return err
	}

	_, err = app.Run(cmd.Context(), req)
	return err
}

// addRunFlags registers the flags of search style commands
func addRunFlags(cmd *cobra.Command) {
	internal.AddSearchFlags(cmd)
	internal.AddDateFlags(cmd)
	internal.AddQuotaFlags(cmd)
	internal.AddFilterFlags(cmd)
	internal.AddOutputFlags(cmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer internal.SyncLogging()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal. Shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	addRunFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print errors and warnings")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/ytscrape/config.toml)")
}
