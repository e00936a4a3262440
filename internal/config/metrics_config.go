package config

import (
	"time"

	"github.com/Kargones/mediaio/internal/pkg/metrics"
)

// MetricsConfig содержит настройки для Prometheus метрик.
type MetricsConfig struct {
	// Enabled: включены ли метрики (по умолчанию false).
	Enabled bool `yaml:"enabled" env:"MIO_METRICS_ENABLED"`

	// PushgatewayURL: URL Prometheus Pushgateway.
	// Пример: "http://pushgateway:9091"
	PushgatewayURL string `yaml:"pushgatewayUrl" env:"MIO_METRICS_PUSHGATEWAY_URL"`

	// JobName: имя job для группировки метрик.
	JobName string `yaml:"jobName" env:"MIO_METRICS_JOB_NAME" env-default:"mediaio"`

	// Timeout: таймаут HTTP запросов к Pushgateway.
	Timeout time.Duration `yaml:"timeout" env:"MIO_METRICS_TIMEOUT" env-default:"10s"`

	// InstanceLabel: переопределение instance label.
	// Если пусто: используется hostname.
	InstanceLabel string `yaml:"instanceLabel" env:"MIO_METRICS_INSTANCE"`
}

// Collector преобразует секцию в metrics.Config.
func (c MetricsConfig) Collector() metrics.Config {
	return metrics.Config{
		Enabled:        c.Enabled,
		PushgatewayURL: c.PushgatewayURL,
		JobName:        c.JobName,
		Timeout:        c.Timeout,
		InstanceLabel:  c.InstanceLabel,
	}
}

// Validate делегирует проверку metrics.Config.Validate.
func (c MetricsConfig) Validate() error {
	mc := c.Collector()
	return mc.Validate()
}
