package progress

import "time"

// Log пишет в лог при пересечении каждых 10%. Используется, когда
// stderr не терминал (CI, перенаправление в файл).
type Log struct {
	opts     Options
	start    time.Time
	message  string
	reported int
}

// NewLog создаёт Log.
func NewLog(opts Options) *Log {
	return &Log{opts: opts.withDefaults()}
}

func (l *Log) Start(message string) {
	l.start = time.Now()
	l.message = message
	l.reported = 0
	l.opts.Logger.Info("Операция начата", "message", message, "total", l.opts.Amount(l.opts.Total))
}

func (l *Log) Update(current int64) {
	step := percent(current, l.opts.Total) / 10 * 10
	if step <= l.reported || step >= 100 {
		return
	}
	l.reported = step
	l.opts.Logger.Info("Прогресс операции",
		"percent", step,
		"done", l.opts.Amount(current),
		"elapsed", FormatDuration(time.Since(l.start)),
		"message", l.message,
	)
}

func (l *Log) Finish() {
	l.opts.Logger.Info("Операция завершена",
		"message", l.message,
		"duration", FormatDuration(time.Since(l.start)),
	)
}
