package config

import "fmt"

// TelemetryConfig configures tracing and metrics output.
type TelemetryConfig struct {
	// TraceExporter is "none" or "stdout".
	TraceExporter string `yaml:"trace_exporter"`

	// MetricsFile, when set, receives a Prometheus text-format dump of the
	// run metrics on exit.
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// ValidTraceExporters lists the supported trace exporters.
var ValidTraceExporters = []string{"none", "stdout"}

// Validate validates the exporter name.
func (c *TelemetryConfig) Validate() error {
	if c.TraceExporter == "" {
		return nil
	}
	for _, e := range ValidTraceExporters {
		if c.TraceExporter == e {
			return nil
		}
	}
	return fmt.Errorf("invalid trace exporter: %s (valid: %v)", c.TraceExporter, ValidTraceExporters)
}
