package metrics

import "github.com/Kargones/mediaio/internal/pkg/logging"

// NewCollector выбирает реализацию по config.Enabled.
func NewCollector(config Config, logger logging.Logger) (Collector, error) {
	if !config.Enabled {
		return NewNopCollector(), nil
	}
	return NewPrometheusCollector(config, logger)
}
