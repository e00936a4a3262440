package diskmon

import (
	"errors"
	"fmt"
)

// StorageStatus: оценка свободного места в рабочем каталоге.
type StorageStatus int

const (
	StatusUnknown StorageStatus = iota
	StatusNormal
	StatusWarning
	StatusCritical
	StatusOverflow
	StatusOverQuota
)

func (s StorageStatus) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusWarning:
		return "warning"
	case StatusCritical:
		return "critical"
	case StatusOverflow:
		return "overflow"
	case StatusOverQuota:
		return "over-quota"
	default:
		return "unknown"
	}
}

// MarshalText кодирует статус строкой (JSON-вывод команд).
func (s StorageStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Пороги по умолчанию, байты.
const (
	DefaultWarningLevel     int64   = 250_000_000
	DefaultCriticalLevel    int64   = 20_000_000
	DefaultQuotaWarnPercent float64 = 90
)

// Thresholds: пороги оценки. QuotaBytes == 0 означает «без квоты».
type Thresholds struct {
	QuotaBytes       int64
	QuotaWarnPercent float64
	WarningLevel     int64
	CriticalLevel    int64
}

// DefaultThresholds возвращает пороги по умолчанию.
func DefaultThresholds() Thresholds {
	return Thresholds{
		QuotaWarnPercent: DefaultQuotaWarnPercent,
		WarningLevel:     DefaultWarningLevel,
		CriticalLevel:    DefaultCriticalLevel,
	}
}

// Validate проверяет согласованность порогов.
func (t Thresholds) Validate() error {
	var errs []error
	if t.QuotaBytes < 0 {
		errs = append(errs, fmt.Errorf("квота не может быть отрицательной: %d", t.QuotaBytes))
	}
	if t.QuotaWarnPercent < 0 || t.QuotaWarnPercent > 100 {
		errs = append(errs, fmt.Errorf("процент квоты вне диапазона 0..100: %g", t.QuotaWarnPercent))
	}
	if t.CriticalLevel < 0 || t.WarningLevel < 0 {
		errs = append(errs, errors.New("пороги свободного места не могут быть отрицательными"))
	}
	if t.CriticalLevel > t.WarningLevel {
		errs = append(errs, fmt.Errorf("критический порог %d больше порога предупреждения %d", t.CriticalLevel, t.WarningLevel))
	}
	return errors.Join(errs...)
}

// overQuota сообщает, превышен ли предупредительный процент квоты.
func (t Thresholds) overQuota(used int64) bool {
	return t.QuotaBytes > 0 && float64(used) > float64(t.QuotaBytes)*t.QuotaWarnPercent/100
}

// EvaluateStatus оценивает свободное место free при занятом used.
// Переполнение и критический уровень важнее превышения квоты,
// превышение квоты важнее предупреждения.
func EvaluateStatus(free, used int64, t Thresholds) StorageStatus {
	switch {
	case free <= 0:
		return StatusOverflow
	case free < t.CriticalLevel:
		return StatusCritical
	case t.overQuota(used):
		return StatusOverQuota
	case free < t.WarningLevel:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// Report: результат Status.
type Report struct {
	Status StorageStatus `json:"status"`
	Dir    string        `json:"dir"`
	Free   int64         `json:"free_bytes"`
	Used   int64         `json:"used_bytes"`
}

// Status оценивает каталог dir: свободное место минус reserved
// сравнивается с порогами. Если в каталог нельзя писать, возвращается
// StatusUnknown (или StatusOverQuota, если квота уже превышена).
func Status(dir string, used, reserved int64, t Thresholds) (Report, error) {
	r := Report{Status: StatusUnknown, Dir: dir, Used: used}
	if t.overQuota(used) {
		r.Status = StatusOverQuota
	}
	if !Writable(dir) {
		return r, nil
	}
	free, err := FreeSpace(dir)
	if err != nil {
		return r, err
	}
	r.Free = int64(free) - reserved
	r.Status = EvaluateStatus(r.Free, used, t)
	return r, nil
}
