package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/co2-fit-explorer/internal/adapter/noaa"
	"github.com/couchcryptid/co2-fit-explorer/internal/config"
	"github.com/couchcryptid/co2-fit-explorer/internal/domain"
	"github.com/couchcryptid/co2-fit-explorer/internal/observability"
	"github.com/couchcryptid/co2-fit-explorer/internal/session"
)

// app carries the process dependencies shared by every subcommand.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics

	// bound to persistent flags
	dataPath     string
	column       string
	preamble     int
	sessionsFile string
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "co2fit",
		Short:        "Fit lines to the Mauna Loa CO2 record by hand",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.dataPath, "data", a.cfg.DataPath, "path to the NOAA monthly CSV (CO2_DATA_PATH)")
	pf.StringVar(&a.column, "column", a.cfg.ValueColumn, "value column to explore (CO2_VALUE_COLUMN)")
	pf.IntVar(&a.preamble, "preamble", a.cfg.PreambleLines, "comment lines before the data (CO2_PREAMBLE_LINES)")
	pf.StringVar(&a.sessionsFile, "sessions", a.cfg.SessionsFile, "YAML session file; built-in sessions when empty (SESSIONS_FILE)")

	root.AddCommand(
		a.filterCmd(),
		a.projectCmd(),
		a.predictCmd(),
		a.reportCmd(),
		a.exploreCmd(),
	)
	return root
}

// source describes where a series came from, for reports and logs.
type source struct {
	Path    string         `json:"path"`
	Column  string         `json:"column"`
	Rows    int            `json:"rows"`
	Points  int            `json:"points"`
	Dropped map[string]int `json:"dropped,omitempty"`
}

// loadSeries reads the configured CSV and selects the configured column.
func (a *app) loadSeries() (domain.TimeSeries, source, error) {
	col, err := noaa.ParseColumn(a.column)
	if err != nil {
		return domain.TimeSeries{}, source{}, err
	}
	if a.preamble < 0 {
		return domain.TimeSeries{}, source{}, fmt.Errorf("invalid preamble %d", a.preamble)
	}

	loader := noaa.NewLoader(noaa.Options{PreambleLines: a.preamble}, a.logger, a.metrics)
	ds, err := loader.LoadFile(a.dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.TimeSeries{}, source{}, fmt.Errorf(
			"%w (set CO2_DATA_PATH or --data, or generate a file with cmd/gensample)", err)
	}
	if err != nil {
		return domain.TimeSeries{}, source{}, err
	}
	series, err := ds.Series(col)
	if err != nil {
		return domain.TimeSeries{}, source{}, err
	}

	return series, source{
		Path:    a.dataPath,
		Column:  string(col),
		Rows:    ds.Stats.Rows,
		Points:  series.Len(),
		Dropped: ds.Stats.Dropped,
	}, nil
}

// newController builds the sessions from the session file, or the built-in
// early and recent charts, and returns a controller predicting to the
// configured year. A prediction_year in the session file wins over the
// environment; an explicit target flag wins over both.
func (a *app) newController(series domain.TimeSeries, target float64, targetSet bool) (*session.Controller, error) {
	specs := session.DefaultSpecs()
	year := a.cfg.PredictionYear

	if a.sessionsFile != "" {
		sf, err := config.LoadSessions(a.sessionsFile)
		if err != nil {
			return nil, err
		}
		specs = sf.Sessions
		if sf.PredictionYear != nil {
			year = *sf.PredictionYear
		}
		a.logger.Info("sessions loaded", "path", a.sessionsFile, "count", len(specs))
	}
	if targetSet {
		year = target
	}

	sessions, err := session.FromSpecs(series, specs)
	if err != nil {
		return nil, err
	}
	return session.NewController(series, sessions, year), nil
}
