package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "apotekctl",
		Short: "Rank pharmacies by sentiment and distance",
		Long: `apotekctl ranks pharmacies with TOPSIS over three criteria: service and
facility sentiment, availability and price sentiment, and travel distance.

Use "rank" for an offline joined CSV, "recommend" to run the full lookup
against the configured maps provider and sentiment dataset.`,
		SilenceUsage: true,
	}
	root.Version = "0.1.0"
	root.PersistentFlags().String("config", "", "path to config file")

	root.AddCommand(newRankCmd(), newRecommendCmd(), newInsightCmd())
	return root
}
