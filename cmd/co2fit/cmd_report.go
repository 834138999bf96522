package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/co2-fit-explorer/internal/adapter/console"
	"github.com/couchcryptid/co2-fit-explorer/internal/domain"
	"github.com/couchcryptid/co2-fit-explorer/internal/session"
)

// report is a one-shot rendering of every session at its starting sliders.
type report struct {
	RunID       string              `json:"run_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Source      source              `json:"source"`
	Target      float64             `json:"target"`
	Sessions    []session.Session   `json:"sessions"`
	Frames      []session.Frame     `json:"frames"`
	Predictions []sessionPrediction `json:"predictions"`
}

type sessionPrediction struct {
	Session string `json:"session"`
	domain.Prediction
	Message string `json:"message"`
}

func (a *app) reportCmd() *cobra.Command {
	var (
		format string
		target float64
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render every session once and print its prediction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != console.FormatJSON && format != console.FormatText {
				return fmt.Errorf("unknown format %q", format)
			}

			series, src, err := a.loadSeries()
			if err != nil {
				return err
			}
			c, err := a.newController(series, target, cmd.Flags().Changed("target"))
			if err != nil {
				return err
			}

			frames := c.Render()
			preds := c.Predictions()

			if format == console.FormatText {
				w, err := console.NewWriter(cmd.OutOrStdout(), console.FormatText)
				if err != nil {
					return err
				}
				for i := range frames {
					if err := w.Load(cmd.Context(), session.Result{Frame: frames[i], Prediction: &preds[i]}); err != nil {
						return err
					}
				}
				return nil
			}

			rep := buildReport(c, src, frames, preds)
			a.logger.Info("report generated", "run_id", rep.RunID, "sessions", len(frames))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}

	cmd.Flags().StringVar(&format, "format", console.FormatJSON, "output format: json or text")
	cmd.Flags().Float64Var(&target, "target", 0, "prediction year (default PREDICTION_YEAR or the session file)")
	return cmd
}

func buildReport(c *session.Controller, src source, frames []session.Frame, preds []domain.Prediction) report {
	rep := report{
		RunID:       uuid.NewString(),
		GeneratedAt: domain.Now(),
		Source:      src,
		Target:      c.Target(),
		Sessions:    c.Sessions(),
		Frames:      frames,
		Predictions: make([]sessionPrediction, 0, len(preds)),
	}
	for i, p := range preds {
		rep.Predictions = append(rep.Predictions, sessionPrediction{
			Session:    frames[i].Session,
			Prediction: p,
			Message:    p.String(),
		})
	}
	return rep
}
