package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/glowmarket/hunter/internal/hunt"
	"github.com/glowmarket/hunter/internal/model"
)

var (
	runCountry    string
	runCity       string
	runCategories []string
	runFormat     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a hunt for one city and print the summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initHunter(ctx, "hunt")
		if err != nil {
			return err
		}

		summary, runErr := env.Hunter.RunCity(ctx, hunt.Request{
			Country:    runCountry,
			City:       runCity,
			Categories: runCategories,
		})
		if summary != nil {
			if err := writeSummary(cmd.OutOrStdout(), summary, runFormat); err != nil {
				return err
			}
		}
		return runErr
	},
}

// writeSummary prints s as indented JSON or as YAML.
func writeSummary(w io.Writer, s *model.RunSummary, format string) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(s), "encode summary")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return eris.Wrap(err, "encode summary")
		}
		return eris.Wrap(enc.Close(), "encode summary")
	default:
		return eris.Errorf("unknown output format %q (want json or yaml)", format)
	}
}

func init() {
	runCmd.Flags().StringVar(&runCountry, "country", "", "country to search in")
	runCmd.Flags().StringVar(&runCity, "city", "", "city to search in")
	runCmd.Flags().StringSliceVar(&runCategories, "category", nil, "category to search (repeatable, default from config)")
	runCmd.Flags().StringVar(&runFormat, "format", "json", "output format: json or yaml")
	_ = runCmd.MarkFlagRequired("country")
	_ = runCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(runCmd)
}
