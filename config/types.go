package config

// ServerConfig contains the HTTP API listener configuration.
type ServerConfig struct {
	Port           int      `yaml:"port" validate:"gt=0"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// GTFSConfig contains GTFS static feed configuration.
type GTFSConfig struct {
	StaticURL string `yaml:"staticURL" validate:"omitempty"`
	AgencyID  string `yaml:"agency_id" validate:"omitempty"`
	CachePath string `yaml:"cachePath" validate:"omitempty"`
}

// GTFSRTConfig contains the GTFS-Realtime trip-updates feed configuration.
// Multiple URLs may be given when an operator splits lines across endpoints;
// each is fetched independently and a failing endpoint does not invalidate
// the others.
type GTFSRTConfig struct {
	TripUpdatesURLs []string `yaml:"tripUpdatesURLs" validate:"omitempty,dive,url"`
	ReadIntervalMS  int      `yaml:"readIntervalMS" validate:"gte=0"`
	TimeoutMS       int      `yaml:"timeoutMS" validate:"gte=0"`
}

// TrackerConfig controls the progress clock and recompute scheduling.
type TrackerConfig struct {
	ClockTickMS    int `yaml:"clockTickMS" validate:"gte=0"`    // shared now-reference update period
	RecomputeMS    int `yaml:"recomputeMS" validate:"gte=0"`    // periodic recompute cadence
	MinRecomputeMS int `yaml:"minRecomputeMS" validate:"gte=0"` // coalescing window for forced recomputes
}

// NATSConfig controls the optional position stream. An empty URL disables it.
type NATSConfig struct {
	URL           string `yaml:"url" validate:"omitempty"`
	SubjectPrefix string `yaml:"subjectPrefix" validate:"omitempty"`
}

// MetricsConfig controls the Prometheus listener. An empty address disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server" validate:"required"`
	GTFS    GTFSConfig    `yaml:"gtfs"`
	GTFSRT  GTFSRTConfig  `yaml:"gtfsrt"`
	Tracker TrackerConfig `yaml:"tracker"`
	NATS    NATSConfig    `yaml:"nats"`
	Metrics MetricsConfig `yaml:"metrics"`
}
