package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/co2-fit-explorer/internal/domain"
)

func (a *app) filterCmd() *cobra.Command {
	var from, to float64

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the observations inside an inclusive date range",
		Long: `Print date,value rows of the selected column whose decimal date lies in
[from, to]. Without --from and --to the whole record is printed; an empty
range prints only the header.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			series, _, err := a.loadSeries()
			if err != nil {
				return err
			}

			var r *domain.DateRange
			if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
				rr := domain.FullRange(series)
				if cmd.Flags().Changed("from") {
					rr.Min = from
				}
				if cmd.Flags().Changed("to") {
					rr.Max = to
				}
				r = &rr
			}

			dates, values := domain.Filter(series, r)
			return writePairs(cmd.OutOrStdout(), "date", series.Name(), dates, values)
		},
	}

	cmd.Flags().Float64Var(&from, "from", 0, "first decimal year to keep (default: start of record)")
	cmd.Flags().Float64Var(&to, "to", 0, "last decimal year to keep (default: end of record)")
	return cmd
}

func (a *app) projectCmd() *cobra.Command {
	var (
		slope, intercept float64
		xs               []float64
		from, to         float64
	)

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Evaluate a line anchored at the smallest x",
		Long: `Print x,y rows of y = slope*(x - min(xs)) + intercept. Pass the xs with
--x, or use --from and --to to project over a range's endpoints.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(xs) == 0 {
				if !cmd.Flags().Changed("from") || !cmd.Flags().Changed("to") {
					return errors.New("either --x or both --from and --to are required")
				}
				xs = []float64{from, to}
			}

			p := domain.LineParams{Slope: slope, Intercept: intercept}
			ys := make([]float64, 0, len(xs))
			for y := range domain.Project(xs, p) {
				ys = append(ys, y)
			}
			return writePairs(cmd.OutOrStdout(), "x", "y", xs, ys)
		},
	}

	cmd.Flags().Float64Var(&slope, "slope", 2, "slope in ppm per year")
	cmd.Flags().Float64Var(&intercept, "intercept", 0, "value at the anchor in ppm")
	cmd.Flags().Float64SliceVar(&xs, "x", nil, "decimal years to evaluate")
	cmd.Flags().Float64Var(&from, "from", 0, "range start")
	cmd.Flags().Float64Var(&to, "to", 0, "range end")
	_ = cmd.MarkFlagRequired("intercept")
	cmd.MarkFlagsMutuallyExclusive("x", "from")
	cmd.MarkFlagsMutuallyExclusive("x", "to")
	return cmd
}

func (a *app) predictCmd() *cobra.Command {
	var slope, intercept, initial, target float64

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Extrapolate a line to a target year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := domain.PredictAt(domain.LineParams{Slope: slope, Intercept: intercept}, initial, target)
			_, err := fmt.Fprintln(cmd.OutOrStdout(), p.String())
			return err
		},
	}

	cmd.Flags().Float64Var(&slope, "slope", 2, "slope in ppm per year")
	cmd.Flags().Float64Var(&intercept, "intercept", 0, "value at the initial year in ppm")
	cmd.Flags().Float64Var(&initial, "initial", 0, "year the line is anchored at")
	cmd.Flags().Float64Var(&target, "target", a.cfg.PredictionYear, "year to predict (PREDICTION_YEAR)")
	_ = cmd.MarkFlagRequired("intercept")
	_ = cmd.MarkFlagRequired("initial")
	return cmd
}

// writePairs writes a two-column CSV with a header row.
func writePairs(out io.Writer, xName, yName string, xs, ys []float64) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{xName, yName}); err != nil {
		return err
	}
	for i := range xs {
		if err := w.Write([]string{formatFloat(xs[i]), formatFloat(ys[i])}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
