package config

import (
	"time"

	"github.com/Kargones/mediaio/internal/pkg/tracing"
)

// TracingConfig содержит настройки OpenTelemetry трейсинга.
type TracingConfig struct {
	// Enabled включает отправку трейсов в OTLP бэкенд.
	Enabled bool `yaml:"enabled" env:"MIO_TRACING_ENABLED"`

	// Endpoint: URL OTLP HTTP endpoint (например, http://jaeger:4318).
	Endpoint string `yaml:"endpoint" env:"MIO_TRACING_ENDPOINT"`

	// ServiceName: имя сервиса для resource attributes.
	ServiceName string `yaml:"serviceName" env:"MIO_TRACING_SERVICE_NAME" env-default:"mediaio"`

	// Environment: окружение (production, staging, development).
	Environment string `yaml:"environment" env:"MIO_TRACING_ENVIRONMENT" env-default:"production"`

	// Secure: использовать HTTPS для OTLP endpoint. По умолчанию HTTP
	// для внутренних сетей.
	Secure bool `yaml:"secure" env:"MIO_TRACING_SECURE"`

	// Timeout: таймаут для экспорта трейсов.
	Timeout time.Duration `yaml:"timeout" env:"MIO_TRACING_TIMEOUT" env-default:"5s"`

	// SamplingRate: доля сэмплируемых трейсов (0.0: ни один, 1.0: все).
	SamplingRate float64 `yaml:"samplingRate" env:"MIO_TRACING_SAMPLING_RATE" env-default:"1.0"`
}

// Tracer преобразует секцию в tracing.Config для версии приложения version.
func (c TracingConfig) Tracer(version string) tracing.Config {
	return tracing.Config{
		Enabled:      c.Enabled,
		Endpoint:     c.Endpoint,
		ServiceName:  c.ServiceName,
		Version:      version,
		Environment:  c.Environment,
		Insecure:     !c.Secure,
		Timeout:      c.Timeout,
		SamplingRate: c.SamplingRate,
	}
}

// Validate делегирует проверку tracing.Config.Validate.
func (c TracingConfig) Validate() error {
	tc := c.Tracer("")
	return tc.Validate()
}
