package metrics

// Config holds the run-metrics settings.
type Config struct {
	// PushgatewayURL is the Prometheus pushgateway base URL. Empty disables pushing.
	PushgatewayURL string `mapstructure:"pushgateway_url" default:""`
	// Job is the pushgateway job label.
	Job string `mapstructure:"job" default:"package_migrator"`
	// TimeoutSeconds bounds the push request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}

// Enabled reports whether a pushgateway is configured.
func (c Config) Enabled() bool {
	return c.PushgatewayURL != ""
}
