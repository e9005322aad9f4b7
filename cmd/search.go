package cmd

import (
	"github.com/spf13/cobra"
)

// searchCmd runs a keyword search
var searchCmd = &cobra.Command{
	Use:   "search [keywords...]",
	Short: "Search videos by keywords and export the results",
	Example: `  # Search with explicit keywords and a date window
  ytscrape search -k "rust" -k "async" --date-range 2024-01-01,2024-06-30

  # Only shorts from the last month, sorted by likes
  ytscrape search cooking --published-after month_ago --video-type-filter shorts-only --sort likes

  # Ask before spending quota on a large search
  ytscrape search "machine learning" --max-results 500 --estimate-quota

  # Custom duration buckets written as JSON
  ytscrape search podcast --video-type-filter custom --custom-types "Long Video,Very Long Video" -f json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVideos(cmd, args, false)
	},
}

func init() {
	addRunFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}
