package config

import (
	"time"

	"github.com/Kargones/mediaio/internal/pkg/alerting"
)

// AlertingConfig содержит настройки оповещений storage-status.
type AlertingConfig struct {
	// Enabled: отправлять ли алерты при статусе хранилища кроме normal.
	Enabled bool `yaml:"enabled" env:"MIO_ALERT_ENABLED"`

	// URLs: адреса webhook через запятую.
	URLs []string `yaml:"urls" env:"MIO_ALERT_URLS" env-separator:","`

	// Headers: дополнительные заголовки в виде "Имя:значение,...".
	Headers map[string]string `yaml:"headers" env:"MIO_ALERT_HEADERS"`

	// MinSeverity: минимальный уровень алерта (INFO, WARNING, CRITICAL).
	MinSeverity string `yaml:"minSeverity" env:"MIO_ALERT_MIN_SEVERITY" env-default:"WARNING"`

	// Timeout: таймаут HTTP запроса.
	Timeout time.Duration `yaml:"timeout" env:"MIO_ALERT_TIMEOUT" env-default:"10s"`

	// MaxRetries: повторы при сетевых ошибках и 5xx.
	MaxRetries int `yaml:"maxRetries" env:"MIO_ALERT_MAX_RETRIES" env-default:"3"`
}

// Alerting преобразует секцию в alerting.Config. Неизвестный уровень
// заменяется на WARNING; Validate сообщает о нём заранее.
func (c AlertingConfig) Alerting() alerting.Config {
	sev, err := alerting.ParseSeverity(c.MinSeverity)
	if err != nil {
		sev = alerting.SeverityWarning
	}
	return alerting.Config{
		Enabled:     c.Enabled,
		MinSeverity: sev,
		URLs:        c.URLs,
		Headers:     c.Headers,
		Timeout:     c.Timeout,
		MaxRetries:  c.MaxRetries,
	}
}

// Validate проверяет уровень и адреса.
func (c AlertingConfig) Validate() error {
	if _, err := alerting.ParseSeverity(c.MinSeverity); err != nil {
		return err
	}
	ac := c.Alerting()
	return ac.Validate()
}
