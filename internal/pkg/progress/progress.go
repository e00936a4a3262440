// Package progress показывает ход долгих операций ввода-вывода: полосу в
// терминале, записи в лог при выводе не в терминал или поток JSON-событий.
// Вывод идёт в stderr, чтобы не смешиваться с результатом команды.
package progress

import (
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/Kargones/mediaio/internal/pkg/logging"
)

// Режимы MIO_PROGRESS.
const (
	ModeAuto = "auto"
	ModeOff  = "off"
	ModeJSON = "json"
)

// DefaultThrottle: минимальный интервал между перерисовками полосы и
// JSON-событиями.
const DefaultThrottle = time.Second

// Progress отображает прогресс одной операции.
type Progress interface {
	// Start начинает отсчёт времени и выводит начальное сообщение.
	Start(message string)
	// Update сообщает, сколько единиц работы выполнено.
	Update(current int64)
	// Finish завершает вывод.
	Finish()
}

// Options настраивает отображение.
type Options struct {
	// Total: общий объём работы. При Total <= 0 New возвращает Noop.
	Total int64
	// Output: куда выводить полосу и JSON-события.
	Output io.Writer
	// Logger получает записи в режиме без терминала.
	Logger logging.Logger
	// Throttle: минимальный интервал между выводами. New заменяет 0 на
	// DefaultThrottle; отрицательное значение: без ограничения.
	Throttle time.Duration
	// Amount форматирует объём (например, байты). По умолчанию: число.
	Amount func(int64) string
}

// New выбирает реализацию: off или неизвестный объём: Noop, json: JSON,
// терминал: Bar, иначе: Log.
func New(mode string, opts Options) Progress {
	if opts.Output == nil || opts.Total <= 0 || strings.EqualFold(mode, ModeOff) {
		return Noop{}
	}
	if opts.Throttle == 0 {
		opts.Throttle = DefaultThrottle
	}

	switch {
	case strings.EqualFold(mode, ModeJSON):
		return NewJSON(opts)
	case IsTTY(opts.Output):
		return NewBar(opts)
	default:
		return NewLog(opts)
	}
}

// withDefaults заполняет Logger и Amount. Нулевой Throttle здесь
// означает вывод без ограничения частоты.
func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logging.NewNopLogger()
	}
	if o.Amount == nil {
		o.Amount = func(n int64) string { return strconv.FormatInt(n, 10) }
	}
	return o
}

// ValidMode сообщает, допустимо ли значение MIO_PROGRESS.
func ValidMode(mode string) bool {
	switch strings.ToLower(mode) {
	case ModeAuto, ModeOff, ModeJSON:
		return true
	}
	return false
}

// IsTTY проверяет, является ли writer терминалом.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Noop ничего не выводит.
type Noop struct{}

func (Noop) Start(string) {}
func (Noop) Update(int64) {}
func (Noop) Finish()      {}

// percent: доля current от total в процентах, не больше 100.
func percent(current, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(min(current*100/total, 100))
}

// eta оценивает оставшееся время по средней скорости с начала операции.
// 0: оценки нет.
func eta(elapsed time.Duration, current, total int64) time.Duration {
	if current <= 0 || current >= total {
		return 0
	}
	return time.Duration(float64(elapsed) / float64(current) * float64(total-current))
}

// throttled сообщает, что с last прошло меньше интервала.
func throttled(last time.Time, interval time.Duration) bool {
	return interval > 0 && !last.IsZero() && time.Since(last) < interval
}

// FormatDuration форматирует длительность: 1h 7m 30s, 5m 30s, 45s.
// Нулевые составляющие опускаются.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d <= 0 {
		return "0s"
	}
	h, m, s := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60

	var parts []string
	if h > 0 {
		parts = append(parts, strconv.Itoa(h)+"h")
	}
	if m > 0 {
		parts = append(parts, strconv.Itoa(m)+"m")
	}
	if s > 0 {
		parts = append(parts, strconv.Itoa(s)+"s")
	}
	return strings.Join(parts, " ")
}
