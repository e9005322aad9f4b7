package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytscrape/internal"
)

// categoriesCmd lists assignable video categories
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List video category IDs for a region",
	Example: `  # Categories available in the configured region
  ytscrape categories

  # Categories in Japan
  ytscrape categories --region JP`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		region, _ := cmd.Flags().GetString("region")
		if region == "" {
			region = config.Region
		}

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}

		categories, err := app.Categories(cmd.Context(), region)
		if err != nil {
			return err
		}

		for _, c := range categories {
			fmt.Printf("%4s  %s\n", c.ID, c.Title)
		}
		return nil
	},
}

func init() {
	categoriesCmd.Flags().String("region", "", "Region code (default from config)")
	rootCmd.AddCommand(categoriesCmd)
}
