package alerting

import "github.com/Kargones/mediaio/internal/pkg/logging"

// NewAlerter создаёт WebhookAlerter для включённой конфигурации и
// NopAlerter для выключенной.
func NewAlerter(config Config, logger logging.Logger) (Alerter, error) {
	if !config.Enabled {
		return NewNopAlerter(), nil
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return NewWebhookAlerter(config, logger), nil
}
