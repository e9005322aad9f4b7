package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytscrape/internal"
)

// reportCmd renders a markdown report from a saved JSON result
var reportCmd = &cobra.Command{
	Use:   "report <results.json>",
	Short: "Build a markdown report from a JSON result file",
	Example: `  # Render a report in the terminal
  ytscrape report output/youtube_golang_20250101_120000.json

  # Add AI insights and save the markdown
  ytscrape report results.json --ai -o report.md

  # Custom insights prompt
  ytscrape report results.json --ai --prompt "Which channels should I follow? {{.Videos}}"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		withAI, _ := cmd.Flags().GetBool("ai")
		if withAI {
			if err := internal.ValidateOpenAIRequirements(cmd, config); err != nil {
				return err
			}
		}

		result, err := internal.LoadJSON(args[0])
		if err != nil {
			return err
		}

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		if err := internal.HandlePromptFlag(cmd, app); err != nil {
			return err
		}

		report, err := app.GenerateReport(cmd.Context(), result, withAI)
		if err != nil {
			return err
		}

		if out, _ := cmd.Flags().GetString("output"); out != "" {
			if err := os.WriteFile(out, []byte(report), 0644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			if !config.Quiet {
				fmt.Printf("Report written to %s\n", out)
			}
			return nil
		}

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Print(report)
			return nil
		}

		rendered, err := internal.RenderMarkdown(report)
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	reportCmd.Flags().Bool("ai", false, "Add an AI generated insights section (needs an OpenAI API key)")
	reportCmd.Flags().StringP("output", "o", "", "Write the markdown to a file instead of the terminal")
	reportCmd.Flags().Bool("raw", false, "Print markdown without terminal rendering")
	internal.AddOpenAIFlags(reportCmd)
	rootCmd.AddCommand(reportCmd)
}
