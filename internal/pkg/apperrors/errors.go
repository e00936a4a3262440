// Package apperrors предоставляет структурированные ошибки приложения.
// Переименован из errors чтобы избежать конфликта со стандартной библиотекой.
package apperrors

import (
	"errors"
	"fmt"
)

// Коды ошибок в иерархическом формате: CATEGORY.SPECIFIC_ERROR.
// Позволяет grep по категориям: `grep "IO\."` для всех ошибок ввода-вывода.
const (
	// Category: CONFIG: ошибки загрузки и парсинга конфигурации.
	ErrConfigLoad     = "CONFIG.LOAD_FAILED"
	ErrConfigParse    = "CONFIG.PARSE_FAILED"
	ErrConfigValidate = "CONFIG.VALIDATION_FAILED"

	// Category: COMMAND: ошибки выполнения команд.
	ErrCommandNotFound = "COMMAND.NOT_FOUND"
	ErrCommandExec     = "COMMAND.EXEC_FAILED"

	// Category: OUTPUT: ошибки форматирования вывода.
	ErrOutputFormat = "OUTPUT.FORMAT_FAILED"

	// Category: IO: ошибки буферизованного ввода-вывода.
	ErrIOOpen            = "IO.OPEN_FAILED"
	ErrIOReadShortfall   = "IO.READ_SHORTFALL"
	ErrIOWriteShortfall  = "IO.WRITE_SHORTFALL"
	ErrIOAlloc           = "IO.ALLOC_FAILED"
	ErrIODuplicateHandle = "IO.DUPLICATE_HANDLE"
	ErrIOCancelled       = "IO.CANCELLED"
	ErrIOFailed          = "IO.FAILED"

	// Category: DISK: ошибки мониторинга дискового пространства.
	ErrDiskTimeout     = "DISK.TIMEOUT"
	ErrDiskUnavailable = "DISK.UNAVAILABLE"
)

// AppError представляет структурированную ошибку приложения.
// Реализует error interface и поддерживает wrapping через Unwrap().
//
// ВАЖНО: Message НЕ ДОЛЖЕН содержать секреты (пароли, токены, ключи).
//
// Пример использования:
//
//	return apperrors.NewAppError(apperrors.ErrIOOpen,
//	    "не удалось открыть исходный файл",
//	    err)
type AppError struct {
	// Code: машиночитаемый код ошибки в формате CATEGORY.SPECIFIC.
	Code string `json:"code"`

	// Message: человекочитаемое описание ошибки.
	Message string `json:"message"`

	// Cause: wrapped оригинальная ошибка.
	// Не сериализуется в JSON.
	Cause error `json:"-"`
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает wrapped ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError создаёт новый AppError с заданным кодом, сообщением и причиной.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf возвращает код первого AppError в цепочке err.
// Для ошибок без AppError возвращает fallback.
func CodeOf(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return fallback
}
