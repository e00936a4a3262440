package fileio

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Kargones/mediaio/internal/pkg/tracing"
)

// slurpState: прогресс фоновой загрузки. Загружено fb.cur.n байт,
// начиная с позиции start; cur.n, finished и err меняются под fb.mu.
type slurpState struct {
	start    int64
	length   int64
	finished bool
	err      error
	locked   bool
	cancel   context.CancelFunc
	done     chan struct{}
}

func (st *slurpState) end() int64 { return st.start + st.length }

// slurpRegion вычисляет загружаемую область файла размера size.
// skip >= 0 пропускает skip байт в начале, skip < 0 отбрасывает |skip|
// байт в конце.
func slurpRegion(size, skip int64) (start, length int64) {
	if skip >= 0 {
		start, length = min(skip, size), size-skip
	} else {
		length = size + skip
	}
	return start, max(length, 0)
}

// SlurpTask: подготовленная, но ещё не запущенная загрузка файла целиком.
type SlurpTask struct {
	s       *Subsystem
	fb      *FileBuffer
	skip    int64
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

// PrepareSlurp готовит загрузку файла читателя h в память. Задача
// запускается методом Ready; до этого чтение идёт обычным путём.
func (s *Subsystem) PrepareSlurp(ctx context.Context, h Handle, skip int64) (*SlurpTask, error) {
	fb, err := s.acquire(h)
	if err != nil {
		return nil, err
	}
	defer fb.opMu.Unlock()

	if !fb.mode.has(modeRead) || fb.mode.has(modeSlurp) {
		return nil, ErrWrongMode
	}
	ctx, cancel := context.WithCancel(ctx)
	return &SlurpTask{s: s, fb: fb, skip: skip, ctx: ctx, cancel: cancel}, nil
}

// Ready переводит файл в режим slurp, запускает загрузку и ждёт, пока
// фоновая задача выделит буфер. После возврата файл можно читать:
// чтение за пределами загруженного блокируется до подгрузки.
func (t *SlurpTask) Ready() error {
	fb := t.fb
	fb.opMu.Lock()
	defer fb.opMu.Unlock()

	if t.started {
		return ErrWrongMode
	}
	if fb.closed {
		t.cancel()
		return ErrClosed
	}
	if fb.mode.has(modeSlurp) {
		t.cancel()
		return ErrWrongMode
	}

	t.started = true
	fb.mode |= modeSlurp
	fb.class = ClassSlurp
	fb.totBytes, fb.totOps, fb.nseq = 0, 0, 0
	fb.cur = cursor{}
	fb.eof = false

	st := &slurpState{cancel: t.cancel, done: make(chan struct{})}
	fb.slurp = st
	fb.setBackground(true)

	ready := make(chan error, 1)
	go t.s.loadSlurp(t.ctx, fb, st, t.skip, ready)
	return <-ready
}

// Cancel отменяет задачу, которая ещё не запущена или уже грузится.
func (t *SlurpTask) Cancel() { t.cancel() }

// Slurp: PrepareSlurp и Ready одним вызовом.
func (s *Subsystem) Slurp(ctx context.Context, h Handle, skip int64) error {
	t, err := s.PrepareSlurp(ctx, h, skip)
	if err != nil {
		return err
	}
	return t.Ready()
}

func (s *Subsystem) loadSlurp(ctx context.Context, fb *FileBuffer, st *slurpState, skip int64, ready chan<- error) {
	defer close(st.done)
	defer fb.setBackground(false)

	begin := s.now()
	ctx, span := tracing.StartSpan(ctx, "fileio.slurp", attribute.String("path", fb.path))
	var loadErr error
	defer func() {
		tracing.EndSpan(span, loadErr)
		s.metrics.RecordSlurp(int64(fb.loaded()), s.now().Sub(begin), loadErr == nil)
	}()

	// до сигнала ready файлом владеет эта задача
	block, err := s.setupSlurp(fb, st, skip)
	if err != nil {
		loadErr = err
		s.finishSlurp(fb, st, err)
		ready <- err
		return
	}
	ready <- nil
	if block == nil {
		s.finishSlurp(fb, st, nil)
		return
	}

	span.SetAttributes(attribute.Int64("bytes", st.length))
	loadErr = s.fillSlurp(ctx, fb, st, block)
	s.finishSlurp(fb, st, loadErr)
}

// setupSlurp вычисляет область, выделяет и блокирует память, ставит
// позицию файла. Для пустой области возвращает nil-буфер.
func (s *Subsystem) setupSlurp(fb *FileBuffer, st *slurpState, skip int64) ([]byte, error) {
	size, err := fileSize(fb.file)
	if err != nil {
		return nil, &IOError{Op: opSlurp, Path: fb.path, Err: err}
	}
	fb.origSize = size
	st.start, st.length = slurpRegion(size, skip)
	if st.length == 0 {
		return nil, nil
	}

	for _, a := range []Advice{AdviceSequential, AdviceNoReuse, AdviceWillNeed} {
		if err := s.hints.Advise(fb.file, st.start, st.length, a); err != nil {
			s.logger.Debug("рекомендация ОС не принята", "path", fb.path, "error", err)
			break
		}
	}

	block, err := allocate(st.length)
	if err != nil {
		s.diag.record(Failure{Op: opSlurp, Path: fb.path, Requested: st.length, Err: err, At: s.now()})
		s.logger.Error("не удалось выделить буфер slurp", "path", fb.path, "bytes", st.length, "error", err)
		return nil, &IOError{Op: opSlurp, Path: fb.path, Err: err}
	}
	if s.cfg.MemoryLock {
		if err := s.hints.Lock(block); err != nil {
			s.logger.Debug("mlock не выполнен", "path", fb.path, "error", err)
		} else {
			st.locked = true
		}
	}

	if _, err := fb.file.Seek(st.start, io.SeekStart); err != nil {
		s.unlockSlurp(fb, st, block)
		return nil, &IOError{Op: opSlurp, Path: fb.path, Err: err}
	}

	fb.mu.Lock()
	fb.cur.load(block, 0, st.start, 0)
	fb.mu.Unlock()
	return block, nil
}

// fillSlurp читает файл кусками растущего размера; каждый кусок сразу
// становится доступен читателю.
func (s *Subsystem) fillSlurp(ctx context.Context, fb *FileBuffer, st *slurpState, block []byte) error {
	var (
		small    = s.policy.ReadSize(ClassSmall)
		smallMed = s.policy.ReadSize(ClassSmallMed)
		med      = s.policy.ReadSize(ClassMed)
		large    = s.policy.ReadSize(ClassLarge)
	)
	chunk := small
	loaded := 0

	for loaded < len(block) {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		k := min(chunk, len(block)-loaded)
		n, err := s.physicalRead(fb, block[loaded:loaded+k])

		fb.mu.Lock()
		fb.cur.n += n
		fb.cur.offset += int64(n)
		fb.mu.Unlock()
		fb.cond.Broadcast()
		loaded += n

		if err != nil || n < k {
			s.diag.record(Failure{Op: opSlurp, Path: fb.path, Requested: st.length, Actual: int64(loaded), Err: err, At: s.now()})
			s.logger.Error("чтение прервано при загрузке slurp", "path", fb.path,
				"loaded", loaded, "expected", st.length, "error", err)
			return &ShortfallError{Op: opSlurp, Path: fb.path, Requested: st.length, Actual: int64(loaded), Cause: err}
		}

		remain := len(block) - loaded
		switch {
		case remain >= large && chunk >= med:
			chunk = large
		case remain >= med && chunk >= smallMed:
			chunk = med
		case remain >= smallMed:
			chunk = smallMed
		}
	}
	return nil
}

// finishSlurp отмечает окончание загрузки и будит ожидающих читателей.
// Ошибка чтения делает буфер недействительным; отмена: нет.
func (s *Subsystem) finishSlurp(fb *FileBuffer, st *slurpState, err error) {
	fb.mu.Lock()
	st.finished = true
	st.err = err
	if err != nil && !errors.Is(err, ErrCancelled) {
		fb.invalid = true
	}
	fb.mu.Unlock()
	fb.cond.Broadcast()
}

// stopSlurp отменяет загрузку, дожидается выхода задачи и снимает mlock.
func (s *Subsystem) stopSlurp(fb *FileBuffer) {
	st := fb.slurp
	if st == nil {
		return
	}
	st.cancel()
	<-st.done
	s.unlockSlurp(fb, st, fb.cur.buf)
}

func (s *Subsystem) unlockSlurp(fb *FileBuffer, st *slurpState, block []byte) {
	if !st.locked {
		return
	}
	if err := s.hints.Unlock(block); err != nil {
		s.logger.Debug("munlock не выполнен", "path", fb.path, "error", err)
	}
	st.locked = false
}

// loaded: сколько байт загружено.
func (fb *FileBuffer) loaded() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.cur.n
}

// readSlurp читает из загруженного блока. Вперёд: ждёт, пока загрузится
// нужное или загрузка закончится. Назад: отдаёт байты перед курсором,
// дождавшись их загрузки.
func (s *Subsystem) readSlurp(fb *FileBuffer, p []byte) int {
	st := fb.slurp
	fb.mu.Lock()
	defer fb.mu.Unlock()

	if fb.mode.has(modeReversed) {
		for fb.cur.n < fb.cur.pos && !st.finished {
			fb.cond.Wait()
		}
		if fb.cur.n < fb.cur.pos {
			fb.eof = true
			return 0
		}
		k := min(len(p), fb.cur.pos)
		copy(p, fb.cur.takeBack(k))
		fb.eof = fb.cur.pos == 0
		return k
	}

	for fb.cur.n-fb.cur.pos < len(p) && !st.finished {
		fb.cond.Wait()
	}
	k := min(len(p), max(fb.cur.n-fb.cur.pos, 0))
	copy(p, fb.cur.take(k))
	if k < len(p) {
		fb.eof = true
	}
	return k
}

// seekSlurp перемещает курсор внутри области загрузки без ввода-вывода.
func (s *Subsystem) seekSlurp(fb *FileBuffer, target int64) int64 {
	st := fb.slurp
	target = min(max(target, st.start), st.end())
	fb.cur.pos = int(target - st.start)
	fb.eof = false
	return target
}

func (s *Subsystem) slurpEOF(fb *FileBuffer) bool {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.mode.has(modeReversed) {
		return fb.cur.pos == 0
	}
	return fb.slurp.finished && fb.cur.pos >= fb.cur.n
}

// IsSlurping сообщает, переведён ли файл в режим slurp.
func (s *Subsystem) IsSlurping(h Handle) bool {
	fb, err := s.acquire(h)
	if err != nil {
		return false
	}
	defer fb.opMu.Unlock()
	return fb.mode.has(modeSlurp)
}

// WaitLoaded ждёт окончания загрузки и возвращает её ошибку.
func (s *Subsystem) WaitLoaded(ctx context.Context, h Handle) error {
	fb, err := s.acquire(h)
	if err != nil {
		return err
	}
	st := fb.slurp
	fb.opMu.Unlock()
	if st == nil {
		return ErrWrongMode
	}

	select {
	case <-st.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return st.err
}

// allocate выделяет n байт; невозможный размер превращается в ErrAllocation.
func allocate(n int64) (b []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()
	if n < 0 || n != int64(int(n)) {
		return nil, fmt.Errorf("%w: размер %d", ErrAllocation, n)
	}
	return make([]byte, n), nil
}
