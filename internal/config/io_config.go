package config

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/Kargones/mediaio/internal/fileio"
)

// IOConfig содержит настройки буферизованного ввода-вывода.
type IOConfig struct {
	// BlockSize: размер блока файловой системы, от него считаются классы буферов.
	BlockSize int `yaml:"blockSize" env:"MIO_IO_BLOCK_SIZE" env-default:"4096"`

	// CacheLineSize: размер самого малого класса чтения.
	CacheLineSize int `yaml:"cacheLineSize" env:"MIO_IO_CACHE_LINE_SIZE" env-default:"64"`

	// AutoTune включает подстройку размеров классов чтения.
	AutoTune bool `yaml:"autoTune" env:"MIO_IO_AUTO_TUNE"`

	// AutoTuneSamples: число замеров на одно пробное значение.
	AutoTuneSamples int `yaml:"autoTuneSamples" env:"MIO_IO_AUTO_TUNE_SAMPLES" env-default:"16"`

	// SlurpMaxSize: файлы больше этого размера scrub читает кусками, без slurp.
	SlurpMaxSize int64 `yaml:"slurpMaxSize" env:"MIO_IO_SLURP_MAX_SIZE" env-default:"1073741824"`

	// Ring включает отложенный сброс для писателей copy.
	Ring bool `yaml:"ring" env:"MIO_RING"`

	// Preallocate резервирует место под писателей и обрезает хвост при закрытии.
	Preallocate bool `yaml:"preallocate" env:"MIO_IO_PREALLOCATE"`

	// SkipMemoryLock отключает mlock для буферов slurp.
	// Флаг инвертирован: bool с env-default:"true" нельзя выключить из YAML.
	SkipMemoryLock bool `yaml:"skipMemoryLock" env:"MIO_IO_SKIP_MLOCK"`
}

// FileIO преобразует секцию в fileio.Config.
func (c IOConfig) FileIO() fileio.Config {
	return fileio.Config{
		BlockSize:       c.BlockSize,
		CacheLineSize:   c.CacheLineSize,
		AutoTune:        c.AutoTune,
		AutoTuneSamples: c.AutoTuneSamples,
		Preallocate:     c.Preallocate,
		MemoryLock:      !c.SkipMemoryLock,
	}
}

// Validate проверяет размеры: оба должны быть степенями двойки,
// линия кэша не больше блока.
func (c IOConfig) Validate() error {
	if c.BlockSize < 512 || bits.OnesCount(uint(c.BlockSize)) != 1 {
		return fmt.Errorf("blockSize должен быть степенью двойки не меньше 512, получено %d", c.BlockSize)
	}
	if c.CacheLineSize < 16 || bits.OnesCount(uint(c.CacheLineSize)) != 1 {
		return fmt.Errorf("cacheLineSize должен быть степенью двойки не меньше 16, получено %d", c.CacheLineSize)
	}
	if c.CacheLineSize > c.BlockSize {
		return errors.New("cacheLineSize не может превышать blockSize")
	}
	if c.AutoTune && c.AutoTuneSamples <= 0 {
		return errors.New("autoTuneSamples должен быть положительным при autoTune=true")
	}
	if c.SlurpMaxSize <= 0 {
		return errors.New("slurpMaxSize должен быть положительным")
	}
	return nil
}
