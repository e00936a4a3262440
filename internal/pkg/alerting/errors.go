package alerting

import "errors"

// Ошибки валидации конфигурации.
var (
	// ErrWebhookURLRequired: не указан ни один URL.
	ErrWebhookURLRequired = errors.New("alerting: at least one url is required when alerting is enabled")

	// ErrWebhookURLInvalid: URL без схемы или хоста либо со схемой кроме http(s).
	ErrWebhookURLInvalid = errors.New("alerting: webhook url has invalid format (must be http or https with host)")

	// ErrWebhookHeaderInvalid: заголовок содержит управляющие символы.
	ErrWebhookHeaderInvalid = errors.New("alerting: webhook header contains invalid characters")

	// ErrSeverityInvalid: неизвестный уровень критичности.
	ErrSeverityInvalid = errors.New("alerting: unknown severity")
)
