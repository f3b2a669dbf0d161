package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glowmarket/hunter/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "glow-hunter",
	Short: "Find beauty businesses by city and append them to a spreadsheet",
	Long:  "Searches Google Places for each category in a city, enriches results with phone and website, skips places already stored and appends the rest to a city tab of a Google spreadsheet.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
