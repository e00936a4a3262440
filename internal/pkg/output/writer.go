package output

import (
	"io"
	"strings"
)

// Поддерживаемые форматы вывода.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Writer сериализует Result в w.
type Writer interface {
	Write(w io.Writer, result *Result) error
}

// NewWriter возвращает Writer для format (регистр не важен).
// Неизвестный формат: текст.
func NewWriter(format string) Writer {
	if strings.EqualFold(format, FormatJSON) {
		return NewJSONWriter()
	}
	return NewTextWriter()
}
