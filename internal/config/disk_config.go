package config

import (
	"errors"
	"time"

	"github.com/Kargones/mediaio/internal/diskmon"
)

// DiskConfig содержит настройки контроля дискового пространства.
type DiskConfig struct {
	// WorkDir: рабочий каталог, состояние которого оценивает storage-status.
	WorkDir string `yaml:"workDir" env:"MIO_DISK_WORK_DIR" env-default:"."`

	// QuotaBytes: квота на объём каталога, 0 отключает квоту.
	QuotaBytes int64 `yaml:"quotaBytes" env:"MIO_DISK_QUOTA_BYTES"`

	// QuotaWarnPercent: доля квоты в процентах, после которой статус OverQuota.
	QuotaWarnPercent float64 `yaml:"quotaWarnPercent" env:"MIO_DISK_QUOTA_WARN_PERCENT" env-default:"90"`

	// WarningLevel: свободное место в байтах, ниже которого статус Warning.
	WarningLevel int64 `yaml:"warningLevel" env:"MIO_DISK_WARNING_LEVEL" env-default:"250000000"`

	// CriticalLevel: свободное место в байтах, ниже которого статус Critical.
	CriticalLevel int64 `yaml:"criticalLevel" env:"MIO_DISK_CRITICAL_LEVEL" env-default:"20000000"`

	// ReservedBytes вычитается из свободного места перед оценкой.
	ReservedBytes int64 `yaml:"reservedBytes" env:"MIO_DISK_RESERVED_BYTES"`

	// WaitTimeout: сколько ждать подсчёта размера каталога.
	// Отрицательное значение: ждать без ограничения.
	WaitTimeout time.Duration `yaml:"waitTimeout" env:"MIO_DISK_WAIT_TIMEOUT" env-default:"30s"`
}

// Thresholds преобразует секцию в пороги diskmon.
func (c DiskConfig) Thresholds() diskmon.Thresholds {
	return diskmon.Thresholds{
		QuotaBytes:       c.QuotaBytes,
		QuotaWarnPercent: c.QuotaWarnPercent,
		WarningLevel:     c.WarningLevel,
		CriticalLevel:    c.CriticalLevel,
	}
}

// Validate проверяет пороги и рабочий каталог.
func (c DiskConfig) Validate() error {
	if c.WorkDir == "" {
		return errors.New("workDir обязателен")
	}
	if c.ReservedBytes < 0 {
		return errors.New("reservedBytes не может быть отрицательным")
	}
	return c.Thresholds().Validate()
}
