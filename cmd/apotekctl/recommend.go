package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/app"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/insight"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/maps"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/recommend"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/topsis"
)

type recommendFlags struct {
	address       string
	mode          string
	weights       string
	normalization string
	filter        string
	top           int
}

func newRecommendCmd() *cobra.Command {
	var f recommendFlags
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend pharmacies near an address",
		Long: `Geocode the address, look up travel distance to every pharmacy in the
configured sentiment dataset and rank them. Needs maps.api_key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.address, "address", "a", "", "origin address")
	cmd.Flags().StringVar(&f.mode, "mode", "", "travel mode: driving, walking, bicycling, transit")
	cmd.Flags().StringVar(&f.weights, "weights", "", "service,availability,distance weights")
	cmd.Flags().StringVar(&f.normalization, "normalization", "", "vector or minmax")
	cmd.Flags().StringVar(&f.filter, "filter", "none", "insight filter: none, all, service, availability")
	cmd.Flags().IntVarP(&f.top, "top", "n", 10, "number of entries to show (0 shows all)")
	cmd.MarkFlagRequired("address")
	return cmd
}

func runRecommend(cmd *cobra.Command, f recommendFlags) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := cfg.Logging.NewLogger(cmd.ErrOrStderr())
	ctx := cmd.Context()

	source, closeSource, err := app.NewSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	geocoder, distances, err := app.NewMaps(cfg)
	if err != nil {
		return err
	}
	ev := app.NewEvents(cfg, logger)
	defer ev.Close()

	req := recommend.Request{
		Address:       f.address,
		Mode:          maps.TravelMode(f.mode),
		Normalization: topsis.Normalization(f.normalization),
		Filter:        insight.Filter(f.filter),
	}
	if f.weights != "" {
		w, err := recommend.ParseWeights(f.weights)
		if err != nil {
			return err
		}
		req.Weights = &w
	}

	svc := recommend.NewService(geocoder, distances, source, ev, cfg, logger)
	rec, err := svc.Recommend(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Origin %s (%s), mode %s\n\n", rec.Address, rec.Origin, rec.Mode)
	if len(rec.Entries) == 0 {
		fmt.Fprintln(out, "No pharmacies to rank.")
	} else {
		renderEntries(out, rec.Entries, f.top)
	}
	renderNotes(out, rec.Excluded, rec.DegenerateColumns, rec.Normalization)
	return nil
}
