package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	ensureCountry string
	ensureCity    string
)

var ensureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Create the city tab and header row without searching",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initHunter(ctx, "ensure")
		if err != nil {
			return err
		}

		name, err := env.Hunter.PrepareDestination(ctx, ensureCountry, ensureCity)
		if err != nil {
			return err
		}

		zap.L().Info("destination ready", zap.String("sheet", name))
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

func init() {
	ensureCmd.Flags().StringVar(&ensureCountry, "country", "", "country of the city")
	ensureCmd.Flags().StringVar(&ensureCity, "city", "", "city whose tab to prepare")
	_ = ensureCmd.MarkFlagRequired("country")
	_ = ensureCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(ensureCmd)
}
