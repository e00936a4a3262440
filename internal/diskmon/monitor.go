// Package diskmon считает размер рабочего каталога в фоне и оценивает
// свободное место относительно порогов и квоты.
//
// Monitor хранит один слот: одновременно считается размер только одного
// каталога. Вызывающий код обязан учитывать, что результат может быть
// ещё не готов (NotReady), и либо опрашивать, либо ждать с таймаутом,
// либо считать синхронно.
package diskmon

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Kargones/mediaio/internal/pkg/logging"
	"github.com/Kargones/mediaio/internal/pkg/metrics"
	"github.com/Kargones/mediaio/internal/pkg/tracing"
)

// NotReady: результат CheckResult, пока подсчёт не завершён.
const NotReady int64 = -1

var (
	// ErrTimeout: WaitResult не дождался результата.
	ErrTimeout = errors.New("diskmon: истекло время ожидания")

	// ErrNotRunning: для каталога не запущен подсчёт.
	ErrNotRunning = errors.New("diskmon: подсчёт не запущен")

	// ErrUnavailable: каталог или сведения о томе недоступны.
	ErrUnavailable = errors.New("diskmon: каталог недоступен")
)

// State: состояние слота монитора.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateReady
	StateConsumed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateReady:
		return "ready"
	case StateConsumed:
		return "consumed"
	default:
		return "idle"
	}
}

// SizeFunc считает размер каталога.
type SizeFunc func(ctx context.Context, dir string) (int64, error)

// scan: один запуск подсчёта.
type scan struct {
	dir    string
	cancel context.CancelFunc
	done   chan struct{}
	bytes  int64
	err    error
}

// Monitor: однослотовый фоновый подсчёт размера каталога.
type Monitor struct {
	mu     sync.Mutex
	state  State
	dir    string
	cached int64
	run    *scan

	size    SizeFunc
	logger  logging.Logger
	metrics metrics.Collector
	now     func() time.Time
}

// Option настраивает Monitor.
type Option func(*Monitor)

// WithSizeFunc подменяет подсчёт размера (по умолчанию DirSize).
func WithSizeFunc(f SizeFunc) Option {
	return func(m *Monitor) { m.size = f }
}

// WithLogger задаёт логгер.
func WithLogger(l logging.Logger) Option {
	return func(m *Monitor) { m.logger = l }
}

// WithMetrics задаёт сборщик метрик.
func WithMetrics(c metrics.Collector) Option {
	return func(m *Monitor) { m.metrics = c }
}

// NewMonitor создаёт монитор в состоянии StateIdle.
func NewMonitor(opts ...Option) *Monitor {
	m := &Monitor{
		size:    DirSize,
		logger:  logging.NewNopLogger(),
		metrics: metrics.NewNopCollector(),
		now:     time.Now,
		cached:  NotReady,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State возвращает состояние слота и каталог, к которому оно относится.
func (m *Monitor) State() (State, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.dir
}

// Start запускает подсчёт размера dir. Подсчёт другого каталога
// отменяется; уже идущий подсчёт того же каталога продолжается.
func (m *Monitor) Start(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateRunning {
		if m.dir == dir {
			return
		}
		m.forgetLocked()
	}

	ctx, cancel := context.WithCancel(context.Background())
	sc := &scan{dir: dir, cancel: cancel, done: make(chan struct{})}
	m.run = sc
	m.dir = dir
	m.state = StateRunning
	m.cached = NotReady
	m.logger.Debug("запущен подсчёт размера каталога", "dir", dir)

	go m.scan(ctx, sc)
}

func (m *Monitor) scan(ctx context.Context, sc *scan) {
	defer close(sc.done)
	defer sc.cancel()

	begin := m.now()
	ctx, span := tracing.StartSpan(ctx, "diskmon.scan", attribute.String("dir", sc.dir))
	bytes, err := m.size(ctx, sc.dir)
	tracing.EndSpan(span, err)
	m.metrics.RecordDirScan(m.now().Sub(begin), err == nil)

	sc.bytes, sc.err = bytes, err
	if err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Warn("не удалось посчитать размер каталога", "dir", sc.dir, "error", err)
	}

	m.mu.Lock()
	if m.run == sc {
		m.state = StateReady
	}
	m.mu.Unlock()
}

// IsRunning сообщает, идёт ли подсчёт; пустой dir: для любого каталога.
func (m *Monitor) IsRunning(dir string) bool {
	return m.is(StateRunning, dir)
}

// IsReady сообщает, готов ли результат; пустой dir: для любого каталога.
func (m *Monitor) IsReady(dir string) bool {
	return m.is(StateReady, dir)
}

func (m *Monitor) is(st State, dir string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == st && (dir == "" || dir == m.dir)
}

// CheckResult возвращает размер dir. Для каталога слота: пока идёт
// подсчёт: NotReady; готовый результат забирается и кэшируется, и
// последующие вызовы возвращают то же значение до следующего Start.
// Для другого каталога размер считается синхронно.
func (m *Monitor) CheckResult(ctx context.Context, dir string) (int64, error) {
	m.mu.Lock()
	if dir != m.dir || m.state == StateIdle {
		m.mu.Unlock()
		return m.size(ctx, dir)
	}
	defer m.mu.Unlock()
	return m.resultLocked()
}

// resultLocked выполняет переходы Running/Ready/Consumed для каталога слота.
func (m *Monitor) resultLocked() (int64, error) {
	switch m.state {
	case StateRunning:
		return NotReady, nil
	case StateReady:
		sc := m.run
		<-sc.done
		m.run = nil
		if sc.err != nil {
			m.state = StateIdle
			return NotReady, sc.err
		}
		m.cached = sc.bytes
		m.state = StateConsumed
		return m.cached, nil
	case StateConsumed:
		return m.cached, nil
	default:
		return NotReady, ErrNotRunning
	}
}

// WaitResult ждёт результат для dir. Если подсчёт для dir не идёт:
// при timeout == 0 сразу возвращает ErrNotRunning, иначе считает
// синхронно. Если идёт: ждёт не дольше timeout (timeout < 0: без
// ограничения); по истечении подсчёт забывается и возвращается ErrTimeout.
func (m *Monitor) WaitResult(ctx context.Context, dir string, timeout time.Duration) (int64, error) {
	m.mu.Lock()
	if dir != m.dir || m.state == StateIdle {
		m.mu.Unlock()
		if timeout == 0 {
			return NotReady, ErrNotRunning
		}
		return m.size(ctx, dir)
	}
	if m.state != StateRunning {
		defer m.mu.Unlock()
		return m.resultLocked()
	}
	sc := m.run
	m.mu.Unlock()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-sc.done:
	case <-expired:
		m.Forget()
		m.logger.Warn("подсчёт размера каталога не завершился вовремя", "dir", dir, "timeout", timeout)
		return NotReady, ErrTimeout
	case <-ctx.Done():
		return NotReady, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.run != sc {
		return NotReady, ErrNotRunning
	}
	return m.resultLocked()
}

// Forget отменяет идущий подсчёт и возвращает слот в StateIdle, не
// дожидаясь выхода задачи.
func (m *Monitor) Forget() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateRunning {
		m.forgetLocked()
	}
}

func (m *Monitor) forgetLocked() {
	m.run.cancel()
	m.run = nil
	m.state = StateIdle
	m.logger.Debug("подсчёт размера каталога отменён", "dir", m.dir)
}
