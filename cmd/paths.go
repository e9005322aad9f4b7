package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  ytscrape paths`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Config directory: %s\n", config.ConfigDir)
		fmt.Printf("Data directory: %s\n", config.DataDir)
		fmt.Printf("Cache directory: %s\n", config.CacheDir)
		fmt.Printf("Quota ledger: %s\n", config.QuotaFile())
		fmt.Printf("Log file: %s\n", filepath.Join(config.CacheDir, "ytscrape.log"))
		fmt.Printf("API key file: %s\n", config.APIKeyFile)
		fmt.Printf("Output directory: %s\n", config.OutputDir)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
