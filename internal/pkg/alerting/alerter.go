// Package alerting отправляет оповещения о состоянии хранилища во внешние
// системы через HTTP webhook.
package alerting

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Severity определяет уровень критичности алерта.
type Severity int

const (
	// SeverityInfo: информационный алерт.
	SeverityInfo Severity = iota
	// SeverityWarning: предупреждающий алерт.
	SeverityWarning
	// SeverityCritical: критический алерт.
	SeverityCritical
)

// String возвращает строковое представление Severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity разбирает имя уровня без учёта регистра.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFO":
		return SeverityInfo, nil
	case "WARNING", "WARN":
		return SeverityWarning, nil
	case "CRITICAL":
		return SeverityCritical, nil
	}
	return SeverityInfo, fmt.Errorf("%w: %q", ErrSeverityInvalid, s)
}

// Alert: одно оповещение.
type Alert struct {
	// Code: код состояния (например, STORAGE.CRITICAL).
	Code string

	// Message: человекочитаемое описание.
	Message string

	// TraceID: идентификатор трассировки для корреляции с логами.
	TraceID string

	// Timestamp: момент оценки.
	Timestamp time.Time

	// Command: команда, обнаружившая состояние.
	Command string

	// Dir: каталог, к которому относится алерт.
	Dir string

	// FreeBytes и UsedBytes: показатели хранилища на момент оценки.
	FreeBytes int64
	UsedBytes int64

	Severity Severity
}

// Alerter отправляет алерты.
//
// Send не прерывает команду при сбоях доставки: ошибки логируются,
// возвращается nil.
type Alerter interface {
	Send(ctx context.Context, alert Alert) error
}

// NopAlerter ничего не отправляет. Используется при выключенном алертинге.
type NopAlerter struct{}

// NewNopAlerter создаёт NopAlerter.
func NewNopAlerter() Alerter { return &NopAlerter{} }

// Send ничего не делает.
func (n *NopAlerter) Send(_ context.Context, _ Alert) error { return nil }
