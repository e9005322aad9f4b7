package cmd

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/rtzll/ytscrape/internal"
)

// cpCmd copies video URLs (or CSV rows) from a saved result to the clipboard
var cpCmd = &cobra.Command{
	Use:   "cp <results.json>",
	Short: "Copy video URLs from a JSON result file to the clipboard",
	Example: `  # Copy the URLs of every video
  ytscrape cp output/youtube_golang_20250101_120000.json

  # Copy the 5 most viewed as CSV, ready to paste into a spreadsheet
  ytscrape cp results.json --csv --top 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := internal.LoadJSON(args[0])
		if err != nil {
			return err
		}
		if len(result.Videos) == 0 {
			return internal.ErrNoVideos
		}

		videos := result.Videos
		if top, _ := cmd.Flags().GetInt("top"); top > 0 {
			videos = internal.TopVideos(videos, top)
		}

		var text string
		if asCSV, _ := cmd.Flags().GetBool("csv"); asCSV {
			var sb strings.Builder
			if err := internal.WriteCSV(&sb, videos); err != nil {
				return err
			}
			text = sb.String()
		} else {
			urls := make([]string, len(videos))
			for i, v := range videos {
				urls[i] = v.URL
			}
			text = strings.Join(urls, "\n")
		}

		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Printf("Copied %d videos to clipboard\n", len(videos))
		}

		return nil
	},
}

func init() {
	cpCmd.Flags().Bool("csv", false, "Copy CSV rows instead of URLs")
	cpCmd.Flags().Int("top", 0, "Only copy the N most viewed videos")
	rootCmd.AddCommand(cpCmd)
}
