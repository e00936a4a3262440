package progress

import (
	"encoding/json"
	"time"
)

// Типы JSON-событий.
const (
	EventStart    = "progress_start"
	EventProgress = "progress"
	EventEnd      = "progress_end"
)

// Event: одна строка JSON-потока прогресса.
type Event struct {
	Type       string `json:"type"`
	Message    string `json:"message,omitempty"`
	Total      int64  `json:"total,omitempty"`
	Current    *int64 `json:"current,omitempty"`
	Percent    *int   `json:"percent,omitempty"`
	ETASeconds *int64 `json:"eta_seconds,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// JSON выводит события в формате JSON Lines.
type JSON struct {
	opts     Options
	enc      *json.Encoder
	start    time.Time
	lastEmit time.Time
	message  string
}

// NewJSON создаёт JSON.
func NewJSON(opts Options) *JSON {
	return &JSON{opts: opts.withDefaults(), enc: json.NewEncoder(opts.Output)}
}

func (j *JSON) Start(message string) {
	j.start = time.Now()
	j.lastEmit = time.Time{}
	j.message = message
	j.emit(Event{Type: EventStart, Message: message, Total: j.opts.Total})
}

func (j *JSON) Update(current int64) {
	if throttled(j.lastEmit, j.opts.Throttle) {
		return
	}
	j.lastEmit = time.Now()

	p := percent(current, j.opts.Total)
	ev := Event{Type: EventProgress, Current: &current, Percent: &p}
	if left := eta(time.Since(j.start), current, j.opts.Total); left > 0 {
		secs := int64(left.Seconds())
		ev.ETASeconds = &secs
	}
	j.emit(ev)
}

func (j *JSON) Finish() {
	j.emit(Event{Type: EventEnd, Message: j.message, DurationMs: time.Since(j.start).Milliseconds()})
}

func (j *JSON) emit(ev Event) {
	if err := j.enc.Encode(ev); err != nil {
		j.opts.Logger.Debug("не удалось записать событие прогресса", "error", err.Error())
	}
}
