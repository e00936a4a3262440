package fileio

import (
	"errors"
	"fmt"
)

// Предопределённые ошибки подсистемы ввода-вывода.
var (
	// ErrNotFound: буферизованный дескриптор не зарегистрирован (закрыт или не открывался).
	ErrNotFound = errors.New("fileio: дескриптор не найден")

	// ErrWrongMode: операция чтения над писателем или наоборот.
	ErrWrongMode = errors.New("fileio: операция не поддерживается в текущем режиме")

	// ErrReadShortfall: прочитано меньше запрошенного в строгом режиме.
	ErrReadShortfall = errors.New("fileio: прочитано меньше запрошенного")

	// ErrWriteShortfall: записано меньше запрошенного.
	ErrWriteShortfall = errors.New("fileio: записано меньше запрошенного")

	// ErrAllocation: не удалось выделить или заблокировать память буфера.
	ErrAllocation = errors.New("fileio: не удалось выделить буфер")

	// ErrDuplicateHandle: для одного файла уже есть запись в реестре.
	ErrDuplicateHandle = errors.New("fileio: повторная регистрация файла")

	// ErrCancelled: фоновая операция отменена.
	ErrCancelled = errors.New("fileio: операция отменена")

	// ErrClosed: дескриптор закрыт после неустранимой ошибки.
	ErrClosed = errors.New("fileio: дескриптор закрыт")

	// ErrInvalidHandle: нулевое значение Handle.
	ErrInvalidHandle = errors.New("fileio: недопустимый дескриптор")
)

// IOError: ошибка операции над конкретным файлом.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("fileio: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ShortfallError: физическая операция перенесла меньше байт, чем требовалось.
// Unwrap возвращает ErrReadShortfall или ErrWriteShortfall.
type ShortfallError struct {
	Op        string
	Path      string
	Requested int64
	Actual    int64

	// Cause: ошибка ОС, если она была.
	Cause error
}

func (e *ShortfallError) Error() string {
	msg := fmt.Sprintf("fileio: %s %s: обработано %d из %d байт", e.Op, e.Path, e.Actual, e.Requested)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ShortfallError) Unwrap() []error {
	kind := ErrReadShortfall
	if e.Op == opWrite || e.Op == opFlush || e.Op == opClose {
		kind = ErrWriteShortfall
	}
	if e.Cause != nil {
		return []error{kind, e.Cause}
	}
	return []error{kind}
}

// Имена операций для ошибок и диагностики.
const (
	opOpen  = "open"
	opRead  = "read"
	opWrite = "write"
	opFlush = "flush"
	opSeek  = "seek"
	opClose = "close"
	opSlurp = "slurp"
)
