package fileio

import (
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Kargones/mediaio/internal/pkg/metrics"
)

// newTestSubsystem создаёт подсистему без рекомендаций ОС и mlock.
func newTestSubsystem(opts ...Option) *Subsystem {
	cfg := DefaultConfig()
	cfg.MemoryLock = false
	return New(cfg, append([]Option{WithHinter(NopHinter{})}, opts...)...)
}

// statsCollector считает физические операции ввода-вывода.
type statsCollector struct {
	metrics.NopCollector

	mu         sync.Mutex
	physReads  int
	physWrites int
	readBytes  int64
	writeBytes int64
	slurps     int
}

func (c *statsCollector) RecordPhysicalIO(direction string, bytes int64, _ time.Duration, _ bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if direction == metrics.DirectionRead {
		c.physReads++
		c.readBytes += bytes
		return
	}
	c.physWrites++
	c.writeBytes += bytes
}

func (c *statsCollector) RecordSlurp(int64, time.Duration, bool) {
	c.mu.Lock()
	c.slurps++
	c.mu.Unlock()
}

func (c *statsCollector) reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.physReads
}

func (c *statsCollector) writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.physWrites
}

// recordingHinter запоминает предвыделения и, как fallocate, расширяет файл.
type recordingHinter struct {
	NopHinter

	mu       sync.Mutex
	prealloc [][2]int64
	locks    int
	unlocks  int
	lockErr  error
}

func (h *recordingHinter) Preallocate(f File, offset, length int64) error {
	h.mu.Lock()
	h.prealloc = append(h.prealloc, [2]int64{offset, length})
	h.mu.Unlock()
	st, err := f.Stat()
	if err != nil {
		return err
	}
	if end := offset + length; end > st.Size() {
		return f.Truncate(end)
	}
	return nil
}

func (h *recordingHinter) Lock([]byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.lockErr != nil {
		return h.lockErr
	}
	h.locks++
	return nil
}

func (h *recordingHinter) Unlock([]byte) error {
	h.mu.Lock()
	h.unlocks++
	h.mu.Unlock()
	return nil
}

func (h *recordingHinter) preallocations() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.prealloc)
}

// stubFile оборачивает настоящий файл: замедляет запись и чтение,
// ограничивает объём записанного и прочитанного и следит за
// параллельными вызовами Write.
type stubFile struct {
	File

	delay     time.Duration
	limit     int64 // < 0: без ограничения
	written   atomic.Int64
	readDelay time.Duration
	readLimit int64 // < 0: без ограничения
	readTotal atomic.Int64
	active    atomic.Int32
	maxActive atomic.Int32

	mu     sync.Mutex
	starts []time.Time
	ends   []time.Time
}

func newStubFile(f File) *stubFile {
	s := &stubFile{File: f}
	s.limit = -1
	s.readLimit = -1
	return s
}

func (f *stubFile) Read(p []byte) (int, error) {
	if f.readDelay > 0 {
		time.Sleep(f.readDelay)
	}
	if f.readLimit >= 0 {
		allowed := f.readLimit - f.readTotal.Load()
		if allowed <= 0 {
			return 0, syscall.EIO
		}
		if allowed < int64(len(p)) {
			p = p[:allowed]
		}
	}
	n, err := f.File.Read(p)
	f.readTotal.Add(int64(n))
	return n, err
}

// writeSpans возвращает моменты начала и конца вызовов Write.
func (f *stubFile) writeSpans() (starts, ends []time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.starts...), append([]time.Time(nil), f.ends...)
}

func (f *stubFile) Write(p []byte) (int, error) {
	cur := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		m := f.maxActive.Load()
		if cur <= m || f.maxActive.CompareAndSwap(m, cur) {
			break
		}
	}

	f.mu.Lock()
	f.starts = append(f.starts, time.Now())
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.ends = append(f.ends, time.Now())
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.limit >= 0 {
		allowed := f.limit - f.written.Load()
		if allowed < int64(len(p)) {
			n, err := f.File.Write(p[:max(allowed, 0)])
			f.written.Add(int64(n))
			if err == nil {
				err = syscall.ENOSPC
			}
			return n, err
		}
	}
	n, err := f.File.Write(p)
	f.written.Add(int64(n))
	return n, err
}

// stubOpener открывает настоящие файлы и оборачивает их в stubFile.
func stubOpener(setup func(*stubFile)) (OpenFunc, *[]*stubFile) {
	var (
		mu    sync.Mutex
		files []*stubFile
	)
	open := func(name string, flag int, perm os.FileMode) (File, error) {
		f, err := osOpen(name, flag, perm)
		if err != nil {
			return nil, err
		}
		sf := newStubFile(f)
		if setup != nil {
			setup(sf)
		}
		mu.Lock()
		files = append(files, sf)
		mu.Unlock()
		return sf, nil
	}
	return open, &files
}
