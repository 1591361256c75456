// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/trends"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Suggest topics for the next paper",
	Long: `Trends gathers candidate topics from the built-in seed lists and, when
trends.enable_openalex is set, from the titles of the most-cited recent
OpenAlex works for each configured keyword. Topics are deduplicated and
ranked, and the report is written to trends_report_<YYYYMMDD>.json in the
metadata directory.`,
	Args: cobra.NoArgs,
	RunE: runTrends,
}

func runTrends(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	if !cmd.Flags().Changed("count") {
		count = cfg.Trends.Count
	}
	out := cmd.OutOrStdout()

	sources := []trends.Source{trends.SSRNSeeds, trends.SearchInterestSeeds}
	if cfg.Trends.EnableOpenAlex {
		sources = append(sources, &trends.OpenAlexSource{
			Client:   &http.Client{Timeout: 30 * time.Second},
			Keywords: cfg.Trends.Keywords,
			Email:    cfg.Trends.Email,
			Since:    time.Now().AddDate(-2, 0, 0),
		})
	}
	a := trends.NewAnalyzer(sources...)
	a.Progress = out

	fmt.Fprintln(out, "Gathering topics:")
	rep, err := a.Analyze(context.Background(), count)
	if err != nil {
		return err
	}
	path, err := trends.SaveReport(cfg.Paths.MetadataDir, rep, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTop %d suggestions:\n", len(rep.TopSuggestions))
	for i, t := range rep.TopSuggestions {
		fmt.Fprintf(out, "  %d. %s\n", i+1, t)
	}
	fmt.Fprintf(out, "\nReport saved: %s\n", path)
	return nil
}

func init() {
	trendsCmd.Flags().Int("count", 5, "number of suggestions (default: trends.count)")

	rootCmd.AddCommand(trendsCmd)
}
