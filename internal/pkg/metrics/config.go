package metrics

import (
	"errors"
	"net/url"
	"time"
)

var (
	ErrPushgatewayURLRequired = errors.New("pushgateway URL is required when metrics enabled")
	ErrPushgatewayURLInvalid  = errors.New("pushgateway URL has invalid format")
	ErrJobNameRequired        = errors.New("job name is required")
	ErrInvalidTimeout         = errors.New("timeout must be positive")
)

// Config: параметры отправки метрик.
type Config struct {
	Enabled        bool
	PushgatewayURL string
	JobName        string
	Timeout        time.Duration

	// InstanceLabel переопределяет label instance; пусто: hostname.
	InstanceLabel string
}

// DefaultConfig возвращает конфигурацию с выключенными метриками.
func DefaultConfig() Config {
	return Config{
		JobName: "mediaio",
		Timeout: 10 * time.Second,
	}
}

// Validate проверяет конфигурацию. Выключенные метрики валидны всегда.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.PushgatewayURL == "" {
		return ErrPushgatewayURLRequired
	}
	u, err := url.Parse(c.PushgatewayURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrPushgatewayURLInvalid
	}
	if c.JobName == "" {
		return ErrJobNameRequired
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
