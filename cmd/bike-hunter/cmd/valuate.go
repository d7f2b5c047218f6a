package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/bike-hunter/pkg/types"
	"github.com/donaldgifford/bike-hunter/pkg/valuation"
)

func valuateCmd() *cobra.Command {
	var (
		req    valuation.Request
		year   int
		method string
		asJSON bool
	)

	c := &cobra.Command{
		Use:   "valuate",
		Short: "Estimate the fair market value of a bike from the comparables corpus",
		Example: "  bike-hunter valuate --brand YT --model Capra --year 2021\n" +
			"  bike-hunter valuate --brand Canyon --model Spectral --method depreciation --asking 1800",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if method != "window" && method != "depreciation" {
				return fmt.Errorf("unknown method %q: want window or depreciation", method)
			}
			if year > 0 {
				req.Year = &year
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			a, err := newStoreApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			var res *domain.FMVResult
			if method == "depreciation" {
				res, err = a.estimator.EstimateWithDepreciation(cmd.Context(), req)
			} else {
				res, err = a.estimator.Estimate(cmd.Context(), req)
			}
			if errors.Is(err, valuation.ErrInsufficientData) {
				return fmt.Errorf("no estimate for %s %s: %w", req.Brand, req.Model, err)
			}
			if err != nil {
				return fmt.Errorf("estimating fmv: %w", err)
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			return printFMV(cmd.OutOrStdout(), res)
		},
	}

	f := c.Flags()
	f.StringVar(&req.Brand, "brand", "", "bike brand (required)")
	f.StringVar(&req.Model, "model", "", "bike model (required)")
	f.IntVar(&year, "year", 0, "model year")
	f.StringVar(&req.FrameSize, "size", "", "frame size")
	f.StringVar(&req.FrameMaterial, "material", "", "frame material")
	f.IntVar(&req.AskingPrice, "asking", 0, "asking price in EUR, enables the floor")
	f.StringVar(&method, "method", "window", "estimation method (window, depreciation)")
	f.BoolVar(&asJSON, "json", false, "print the estimate as JSON")
	cobra.CheckErr(c.MarkFlagRequired("brand"))
	cobra.CheckErr(c.MarkFlagRequired("model"))
	return c
}
