// Package metrics собирает метрики mediaio и отправляет их в Prometheus Pushgateway.
//
// NewCollector возвращает NopCollector, если метрики отключены, поэтому
// вызывающему коду не нужно проверять конфигурацию.
package metrics

import (
	"context"
	"time"
)

// Направления физического ввода-вывода.
const (
	DirectionRead  = "read"
	DirectionWrite = "write"
)

// Collector: приёмник метрик команд, буферизованного ввода-вывода и сканирования каталогов.
type Collector interface {
	// RecordCommandStart отмечает запуск команды CLI.
	RecordCommandStart(command string)

	// RecordCommandEnd фиксирует длительность и исход команды.
	RecordCommandEnd(command string, duration time.Duration, success bool)

	// RecordTransfer учитывает байты, прошедшие через буфер класса class.
	RecordTransfer(direction, class string, bytes int64)

	// RecordPhysicalIO учитывает одно обращение к файлу в обход буфера
	// или при заполнении/сбросе буфера.
	RecordPhysicalIO(direction string, bytes int64, duration time.Duration, success bool)

	// RecordSlurp фиксирует фоновую загрузку файла целиком.
	RecordSlurp(bytes int64, duration time.Duration, success bool)

	// RecordDirScan фиксирует подсчёт размера каталога.
	RecordDirScan(duration time.Duration, success bool)

	// Push отправляет накопленные метрики. Ошибки отправки логируются
	// и не возвращаются: метрики не должны ломать команду.
	Push(ctx context.Context) error
}
