package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/config"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/insight"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/recommend"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/topsis"
)

type rankFlags struct {
	file          string
	weights       string
	normalization string
	filter        string
	top           int
}

func newRankCmd() *cobra.Command {
	var f rankFlags
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank a joined CSV table",
		Long: `Rank pharmacies from a CSV with the columns destination, service_facility,
availability_price, distance_value and optionally address and distance_text.
Rows with missing numbers are listed as excluded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "joined CSV table")
	cmd.Flags().StringVar(&f.weights, "weights", "", "service,availability,distance weights (default from config)")
	cmd.Flags().StringVar(&f.normalization, "normalization", "", "vector or minmax (default from config)")
	cmd.Flags().StringVar(&f.filter, "filter", "none", "insight filter: none, all, service, availability")
	cmd.Flags().IntVarP(&f.top, "top", "n", 0, "number of entries to show (0 shows all)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func runRank(cmd *cobra.Command, f rankFlags) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	in, err := os.Open(f.file)
	if err != nil {
		return err
	}
	defer in.Close()

	rows, excluded, err := recommend.LoadTable(in)
	if err != nil {
		return err
	}

	w, err := weightsFor(cfg, f.weights)
	if err != nil {
		return err
	}
	opts, err := rankOptions(cfg, f.normalization, f.filter)
	if err != nil {
		return err
	}
	res, err := recommend.Rank(rows, w, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(res.Entries) == 0 {
		fmt.Fprintln(out, "No pharmacies to rank.")
	} else {
		renderEntries(out, res.Entries, f.top)
	}
	renderNotes(out, excluded, res.DegenerateColumns, res.Normalization)
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func weightsFor(cfg *config.Config, s string) (recommend.WeightSet, error) {
	if s == "" {
		w := cfg.Scoring.Weights
		return recommend.WeightSet{Service: w.Service, Availability: w.Availability, Distance: w.Distance}, nil
	}
	return recommend.ParseWeights(s)
}

func rankOptions(cfg *config.Config, norm, filter string) (recommend.RankOptions, error) {
	if norm == "" {
		norm = cfg.Scoring.Normalization
	}
	n, err := topsis.ParseNormalization(norm)
	if err != nil {
		return recommend.RankOptions{}, err
	}
	fl, err := insight.ParseFilter(filter)
	if err != nil {
		return recommend.RankOptions{}, err
	}
	return recommend.RankOptions{
		Normalization:   n,
		WeightTolerance: cfg.Scoring.WeightTolerance,
		Thresholds:      cfg.Insight,
		Filter:          fl,
	}, nil
}
