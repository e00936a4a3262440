// Package output форматирует результаты команд mediaio в JSON или текст.
package output

// Значения Result.Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIVersion: текущая версия формата Result.
const APIVersion = "v1"

// Result: результат команды. Пишется в stdout; логи идут в stderr.
type Result struct {
	Status  string     `json:"status"`
	Command string     `json:"command"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`

	Metadata *Metadata `json:"metadata,omitempty"`

	// Summary попадает в metadata.summary в JSON и в блок сводки в тексте.
	Summary *SummaryInfo `json:"-"`
}

// ErrorInfo: код и сообщение ошибки. Message не должен содержать секретов.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Metadata: служебные сведения о выполнении команды.
type Metadata struct {
	DurationMs int64        `json:"duration_ms"`
	TraceID    string       `json:"trace_id,omitempty"`
	APIVersion string       `json:"api_version"`
	Summary    *SummaryInfo `json:"summary,omitempty"`
}

// SummaryInfo: ключевые показатели и предупреждения команды.
type SummaryInfo struct {
	KeyMetrics    []KeyMetric `json:"key_metrics,omitempty"`
	WarningsCount int         `json:"warnings_count"`
	Warnings      []string    `json:"warnings,omitempty"`
}

// KeyMetric: одна строка сводки, например {"Скопировано", "1.50 MB", ""}.
type KeyMetric struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// AddMetric добавляет показатель в сводку.
func (s *SummaryInfo) AddMetric(name, value, unit string) {
	s.KeyMetrics = append(s.KeyMetrics, KeyMetric{Name: name, Value: value, Unit: unit})
}

// AddWarning добавляет предупреждение и увеличивает счётчик.
func (s *SummaryInfo) AddWarning(msg string) {
	s.Warnings = append(s.Warnings, msg)
	s.WarningsCount++
}
