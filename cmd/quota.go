package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytscrape/internal"
)

// quotaCmd shows today's quota usage
var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show today's YouTube API quota usage",
	Long: `Show the quota units used today according to the local ledger.

A search costs 100 units per page of 50 results plus 1 unit per 50 video
detail lookups. The default daily allowance is 10,000 units.`,
	Example: `  # Current usage
  ytscrape quota

  # What would a 500 video search cost?
  ytscrape quota --estimate 500`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		quota, err := internal.NewQuotaTracker(config.QuotaFile(), config.DailyQuota)
		if err != nil {
			return err
		}

		summary := quota.Summary()
		fmt.Printf("Used: %d / %d units (%.1f%%)\n", summary.Used, summary.Limit, summary.Percentage)
		fmt.Printf("Remaining: %d units\n", summary.Remaining)

		if showOps, _ := cmd.Flags().GetBool("operations"); showOps {
			ops := quota.Operations()
			if len(ops) == 0 {
				fmt.Println("No API calls recorded today")
			}
			for _, op := range ops {
				fmt.Printf("  %s  %-24s %4d\n", op.Timestamp.Local().Format(time.TimeOnly), op.Operation, op.Units)
			}
		}

		if n, _ := cmd.Flags().GetInt("estimate"); n > 0 {
			estimate := internal.EstimateQuota(n)
			ok, remaining := quota.Check(estimate)
			fmt.Printf("\nEstimated cost of a %d result search: %d units\n", n, estimate)
			if !ok {
				fmt.Printf("This exceeds the %d units remaining today\n", remaining)
			}
		}
		return nil
	},
}

func init() {
	quotaCmd.Flags().Int("estimate", 0, "Estimate the cost of a search for N results")
	quotaCmd.Flags().Bool("operations", false, "List today's recorded API calls")
	rootCmd.AddCommand(quotaCmd)
}
