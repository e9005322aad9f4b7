package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rtzll/ytscrape/internal"
)

// trendingCmd lists the most popular videos of a category
var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Export the most popular videos of a category",
	Long: `Fetch the "most popular" chart for a category and region. The default
category is 28 (Science & Technology). Use "ytscrape categories" to list the
category IDs available in a region.`,
	Example: `  # Trending tech videos in the US
  ytscrape trending

  # Trending gaming videos in Germany, as Excel
  ytscrape trending --category 20 --region DE -f excel

  # Only chart entries published in the last week
  ytscrape trending --last-days 7`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVideos(cmd, args, true)
	},
}

func init() {
	internal.AddDateFlags(trendingCmd)
	internal.AddQuotaFlags(trendingCmd)
	internal.AddFilterFlags(trendingCmd)
	internal.AddOutputFlags(trendingCmd)
	rootCmd.AddCommand(trendingCmd)
}
