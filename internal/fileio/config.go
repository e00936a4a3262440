package fileio

import (
	"encoding/binary"
	"time"

	"github.com/Kargones/mediaio/internal/pkg/logging"
	"github.com/Kargones/mediaio/internal/pkg/metrics"
)

// Значения по умолчанию для Config.
const (
	DefaultBlockSize       = 4096
	DefaultCacheLineSize   = 64
	DefaultAutoTuneSamples = 16
)

// Config: пассивная конфигурация подсистемы. Размеры классов буферов
// вычисляются из BlockSize и CacheLineSize один раз в New.
type Config struct {
	// BlockSize: размер блока целевой файловой системы.
	BlockSize int

	// CacheLineSize задаёт самый малый класс чтения.
	CacheLineSize int

	// AutoTune включает подстройку размеров классов чтения по замерам.
	AutoTune bool

	// AutoTuneSamples: число замеров на одно пробное значение.
	AutoTuneSamples int

	// Preallocate резервирует место под писателей (fallocate) и обрезает
	// хвост при закрытии.
	Preallocate bool

	// MemoryLock блокирует в памяти буферы slurp.
	MemoryLock bool

	// EndianBug отключает перестановку байт в ReadLE/WriteLE на big-endian хостах.
	EndianBug bool
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		BlockSize:       DefaultBlockSize,
		CacheLineSize:   DefaultCacheLineSize,
		AutoTuneSamples: DefaultAutoTuneSamples,
		MemoryLock:      true,
	}
}

// Option настраивает Subsystem.
type Option func(*Subsystem)

// WithLogger задаёт логгер. По умолчанию: NopLogger.
func WithLogger(l logging.Logger) Option {
	return func(s *Subsystem) { s.logger = l }
}

// WithMetrics задаёт сборщик метрик. По умолчанию: NopCollector.
func WithMetrics(m metrics.Collector) Option {
	return func(s *Subsystem) { s.metrics = m }
}

// WithOpener подменяет открытие файлов (в тестах: заглушки).
func WithOpener(open OpenFunc) Option {
	return func(s *Subsystem) { s.open = open }
}

// WithClock подменяет источник времени для замеров авто-подстройки.
func WithClock(now func() time.Time) Option {
	return func(s *Subsystem) { s.now = now }
}

// WithHinter подменяет рекомендации ОС (fadvise/fallocate/mlock).
func WithHinter(h Hinter) Option {
	return func(s *Subsystem) { s.hints = h }
}

// WithHostByteOrder переопределяет порядок байт хоста для ReadLE/WriteLE.
func WithHostByteOrder(order binary.ByteOrder) Option {
	return func(s *Subsystem) { s.hostOrder = order }
}
