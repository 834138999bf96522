package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all explorer settings, populated from environment variables.
type Config struct {
	DataPath      string
	ValueColumn   string
	PreambleLines int

	PredictionYear float64
	SessionsFile   string

	HTTPAddr        string
	HTTPEnabled     bool
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	preamble, err := strconv.Atoi(sharedcfg.EnvOrDefault("CO2_PREAMBLE_LINES", "56"))
	if err != nil || preamble < 0 {
		return nil, errors.New("invalid CO2_PREAMBLE_LINES")
	}

	year, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("PREDICTION_YEAR", "2030"), 64)
	if err != nil {
		return nil, errors.New("invalid PREDICTION_YEAR")
	}

	cfg := &Config{
		DataPath:        sharedcfg.EnvOrDefault("CO2_DATA_PATH", "data/monthly_in_situ_co2_mlo.csv"),
		ValueColumn:     sharedcfg.EnvOrDefault("CO2_VALUE_COLUMN", "co2"),
		PreambleLines:   preamble,
		PredictionYear:  year,
		SessionsFile:    os.Getenv("SESSIONS_FILE"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		HTTPEnabled:     os.Getenv("HTTP_ENABLED") == "true",
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.DataPath == "" {
		return nil, errors.New("CO2_DATA_PATH is required")
	}
	if cfg.ValueColumn == "" {
		return nil, errors.New("CO2_VALUE_COLUMN is required")
	}
	if cfg.HTTPEnabled && cfg.HTTPAddr == "" {
		return nil, errors.New("HTTP_ENABLED is true but HTTP_ADDR is not set")
	}

	return cfg, nil
}
