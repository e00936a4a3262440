package diskmon

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateStatus(t *testing.T) {
	th := Thresholds{
		QuotaBytes:       1000,
		QuotaWarnPercent: 90,
		WarningLevel:     500,
		CriticalLevel:    100,
	}

	tests := []struct {
		name       string
		free, used int64
		th         Thresholds
		want       StorageStatus
	}{
		{"достаточно места", 10_000, 0, th, StatusNormal},
		{"ниже порога предупреждения", 400, 0, th, StatusWarning},
		{"ниже критического порога", 50, 0, th, StatusCritical},
		{"места нет", 0, 0, th, StatusOverflow},
		{"отрицательный остаток после резерва", -10, 0, th, StatusOverflow},
		{"превышен процент квоты", 10_000, 901, th, StatusOverQuota},
		{"ровно на границе квоты", 10_000, 900, th, StatusNormal},
		{"квота важнее предупреждения", 400, 950, th, StatusOverQuota},
		{"критический уровень важнее квоты", 50, 950, th, StatusCritical},
		{"переполнение важнее квоты", 0, 950, th, StatusOverflow},
		{"без квоты used не учитывается", 10_000, 1 << 40, Thresholds{WarningLevel: 500, CriticalLevel: 100}, StatusNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateStatus(tt.free, tt.used, tt.th))
		})
	}
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())

	bad := Thresholds{QuotaBytes: -1, QuotaWarnPercent: 120, WarningLevel: 10, CriticalLevel: 20}
	err := bad.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "квота не может быть отрицательной")
	assert.Contains(t, err.Error(), "0..100")
	assert.Contains(t, err.Error(), "критический порог")
}

func TestStorageStatus_Text(t *testing.T) {
	assert.Equal(t, "over-quota", StatusOverQuota.String())
	assert.Equal(t, "unknown", StorageStatus(99).String())

	data, err := json.Marshal(Report{Status: StatusWarning, Dir: "/w", Free: 1, Used: 2})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"status":"warning","dir":"/w","free_bytes":1,"used_bytes":2}`, string(data))
}

func TestStatus_UnwritableDir(t *testing.T) {
	th := DefaultThresholds()

	r, err := Status("/nonexistent/mediaio/work", 0, 0, th)
	assert.NoError(t, err)
	assert.Equal(t, StatusUnknown, r.Status)

	th.QuotaBytes = 100
	r, err = Status("/nonexistent/mediaio/work", 95, 0, th)
	assert.NoError(t, err)
	assert.Equal(t, StatusOverQuota, r.Status)
}
