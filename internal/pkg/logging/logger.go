// Package logging предоставляет интерфейс структурированного логирования
// для mediaio и его реализации поверх log/slog.
package logging

import "log/slog"

// Logger: структурированный логгер с key-value атрибутами:
//
//	logger.Info("буфер сброшен", "path", path, "bytes", n)
//
// Логи пишутся только в stderr или файл; stdout занят результатами команд.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With возвращает Logger, добавляющий args к каждой записи.
	With(args ...any) Logger
}

// SlogAdapter реализует Logger поверх *slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter оборачивает logger. nil заменяется на slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

// With возвращает новый адаптер; исходный не меняется.
func (s *SlogAdapter) With(args ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(args...)}
}

// NopLogger отбрасывает все записи. Используется в тестах и как
// значение по умолчанию в подсистемах, которым логгер не передали.
type NopLogger struct{}

// NewNopLogger возвращает Logger, который ничего не пишет.
func NewNopLogger() Logger { return NopLogger{} }

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

// With возвращает тот же NopLogger: атрибуты всё равно некуда писать.
func (n NopLogger) With(...any) Logger { return n }
