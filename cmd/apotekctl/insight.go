package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/insight"
)

func newInsightCmd() *cobra.Command {
	var aspect string
	cmd := &cobra.Command{
		Use:   "insight SCORE",
		Short: "Show the insight band for a sentiment score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid score %q", args[0])
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a := insight.Aspect(aspect)
			if a != insight.Service && a != insight.Availability {
				return fmt.Errorf("unknown aspect %q", aspect)
			}
			b := cfg.Insight.Band(a, score)
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", levelStyle(b.Level).Render(string(b.Level)), b.Label)
			return nil
		},
	}
	cmd.Flags().StringVar(&aspect, "aspect", string(insight.Service), "service or availability")
	return cmd
}
