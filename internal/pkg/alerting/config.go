package alerting

import (
	"net/url"
	"time"
)

// Значения по умолчанию.
const (
	// DefaultWebhookTimeout: таймаут одного HTTP запроса.
	DefaultWebhookTimeout = 10 * time.Second

	// DefaultMaxRetries: количество повторов после первой попытки.
	DefaultMaxRetries = 3
)

// Config содержит настройки алертинга.
type Config struct {
	// Enabled: включён ли алертинг (по умолчанию false).
	Enabled bool

	// MinSeverity: алерты ниже этого уровня не отправляются.
	MinSeverity Severity

	// URLs: адреса, на которые отправляется POST с JSON.
	URLs []string

	// Headers: дополнительные HTTP заголовки, например Authorization.
	Headers map[string]string

	// Timeout: таймаут HTTP запроса. 0: DefaultWebhookTimeout.
	Timeout time.Duration

	// MaxRetries: повторы при сетевых ошибках и ответах 5xx.
	MaxRetries int
}

// Validate проверяет адреса и заголовки включённой конфигурации.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.URLs) == 0 {
		return ErrWebhookURLRequired
	}
	for _, rawURL := range c.URLs {
		u, err := url.Parse(rawURL)
		if err != nil || u.Host == "" {
			return ErrWebhookURLInvalid
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return ErrWebhookURLInvalid
		}
	}
	for key, value := range c.Headers {
		if invalidHeader(key) || invalidHeader(value) {
			return ErrWebhookHeaderInvalid
		}
	}
	return nil
}

// invalidHeader ищет управляющие символы; HTAB допустим (RFC 7230).
func invalidHeader(s string) bool {
	for _, r := range s {
		if r == '\t' {
			continue
		}
		if r <= 0x1f || r == 0x7f {
			return true
		}
	}
	return false
}
