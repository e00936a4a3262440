package progress

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const barWidth = 30

// Bar перерисовывает полосу прогресса в одной строке терминала.
type Bar struct {
	mu       sync.Mutex
	opts     Options
	start    time.Time
	lastDraw time.Time
	current  int64
	message  string
}

// NewBar создаёт полосу прогресса.
func NewBar(opts Options) *Bar {
	return &Bar{opts: opts.withDefaults()}
}

func (b *Bar) Start(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.start = time.Now()
	b.message = message
	b.current = 0
	b.draw()
}

func (b *Bar) Update(current int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = current
	if throttled(b.lastDraw, b.opts.Throttle) {
		return
	}
	b.draw()
}

func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.opts.Total
	b.draw()
	_, _ = fmt.Fprintln(b.opts.Output) //nolint:errcheck // terminal output
}

// draw выводит строку вида: [=====>    ] 45% 1.20 MB / 2.67 MB | ETA: 3s | copy
func (b *Bar) draw() {
	b.lastDraw = time.Now()
	p := percent(b.current, b.opts.Total)

	var line strings.Builder
	line.WriteString("\r")
	line.WriteString(renderBar(p))
	fmt.Fprintf(&line, " %d%% %s / %s", p, b.opts.Amount(b.current), b.opts.Amount(b.opts.Total))
	if left := eta(time.Since(b.start), b.current, b.opts.Total); left > 0 {
		fmt.Fprintf(&line, " | ETA: %s", FormatDuration(left))
	}
	if b.message != "" {
		fmt.Fprintf(&line, " | %s", b.message)
	}
	line.WriteString("\033[K")
	_, _ = fmt.Fprint(b.opts.Output, line.String()) //nolint:errcheck // terminal output
}

// renderBar рисует полосу; стрелка ставится только при ненулевом прогрессе.
func renderBar(percent int) string {
	filled := min(percent*barWidth/100, barWidth)

	var bar strings.Builder
	bar.WriteByte('[')
	for i := range barWidth {
		switch {
		case i < filled:
			bar.WriteByte('=')
		case i == filled && filled > 0:
			bar.WriteByte('>')
		default:
			bar.WriteByte(' ')
		}
	}
	bar.WriteByte(']')
	return bar.String()
}
