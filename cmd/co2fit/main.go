// Command co2fit explores manual linear fits of the Mauna Loa CO2 record.
//
// Usage:
//
//	co2fit filter --from 2015 --to 2020
//	co2fit predict --slope 2 --intercept 315 --initial 1958
//	co2fit report --format text
//	co2fit explore < adjustments.txt
//
// The data file is the Scripps monthly record monthly_in_situ_co2_mlo.csv,
// published at https://scrippsco2.ucsd.edu/data/atmospheric_co2/primary_mlo_co2_record.html.
// By default it is read from data/monthly_in_situ_co2_mlo.csv; point
// CO2_DATA_PATH or --data elsewhere, or write a synthetic file with
// go run ./cmd/gensample -out data/monthly_in_situ_co2_mlo.csv.
package main

import (
	"log/slog"
	"os"

	"github.com/couchcryptid/co2-fit-explorer/internal/config"
	"github.com/couchcryptid/co2-fit-explorer/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a := &app{
		cfg:     cfg,
		logger:  observability.NewLogger(cfg),
		metrics: observability.NewMetrics(),
	}
	if err := a.rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
