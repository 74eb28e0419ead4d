package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the yaml leaves a knob unset.
const (
	DefaultPort           = 16180
	DefaultReadIntervalMS = 30000
	DefaultTimeoutMS      = 10000
	DefaultClockTickMS    = 250
	DefaultRecomputeMS    = 1000
	DefaultMinRecomputeMS = 200
)

// Load reads and validates the application configuration. When path is empty
// the usual locations are tried. A .env file is loaded first so environment
// variables can override the port and feed URLs.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	paths := []string{"config.yml", "./deploy/config.yml"}
	if path != "" {
		paths = []string{path}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("TRAINWATCH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TRAINWATCH_GTFS_STATIC_URL"); v != "" {
		cfg.GTFS.StaticURL = v
	}
	if v := os.Getenv("TRAINWATCH_TRIP_UPDATES_URL"); v != "" {
		cfg.GTFSRT.TripUpdatesURLs = []string{v}
	}
	if v := os.Getenv("TRAINWATCH_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("TRAINWATCH_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.GTFSRT.ReadIntervalMS == 0 {
		cfg.GTFSRT.ReadIntervalMS = DefaultReadIntervalMS
	}
	if cfg.GTFSRT.TimeoutMS == 0 {
		cfg.GTFSRT.TimeoutMS = DefaultTimeoutMS
	}
	if cfg.Tracker.ClockTickMS == 0 {
		cfg.Tracker.ClockTickMS = DefaultClockTickMS
	}
	if cfg.Tracker.RecomputeMS == 0 {
		cfg.Tracker.RecomputeMS = DefaultRecomputeMS
	}
	if cfg.Tracker.MinRecomputeMS == 0 {
		cfg.Tracker.MinRecomputeMS = DefaultMinRecomputeMS
	}
	if cfg.NATS.SubjectPrefix == "" {
		cfg.NATS.SubjectPrefix = "trains"
	}
}
