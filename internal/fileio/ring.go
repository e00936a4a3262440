package fileio

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Kargones/mediaio/internal/pkg/tracing"
)

// ringState: запись с отложенным сбросом: один буфер пишется в фоне,
// пока в другой продолжают писать.
type ringState struct {
	spare    []byte
	inflight chan struct{}
	result   ringResult
}

// ringResult: итог фоновой записи; читается после закрытия inflight.
type ringResult struct {
	requested int64
	actual    int64
	prevMax   int64
	err       error
}

// SetRingMode сбрасывает буфер писателя и включает запись с отложенным сбросом.
func (s *Subsystem) SetRingMode(h Handle) error {
	fb, err := s.acquire(h)
	if err != nil {
		return err
	}
	defer fb.opMu.Unlock()

	if !fb.mode.has(modeWrite) {
		return ErrWrongMode
	}
	if fb.mode.has(modeRing) {
		return nil
	}
	if _, err := s.flushLocked(fb); err != nil {
		return err
	}
	fb.mode |= modeRing
	fb.ring = &ringState{}
	return nil
}

// flushRing дожидается предыдущей фоновой записи, меняет буферы местами
// и запускает запись заполненного. Позиция писателя сдвигается сразу;
// ошибка фоновой записи вернётся следующей операцией.
func (s *Subsystem) flushRing(fb *FileBuffer) (int, error) {
	if err := s.drainRing(fb); err != nil {
		return 0, err
	}

	full := fb.cur.buf
	data := fb.cur.pending()
	n := len(data)

	spare := fb.ring.spare
	if len(spare) != len(full) {
		spare = make([]byte, len(full))
	}
	fb.ring.spare = nil
	fb.cur.buf = spare
	fb.cur.flushed(n)
	prevMax := fb.maxOffset
	fb.maxOffset = max(fb.maxOffset, fb.cur.offset)

	done := make(chan struct{})
	fb.ring.inflight = done
	fb.setBackground(true)

	go func() {
		defer close(done)
		defer fb.setBackground(false)

		_, span := tracing.StartSpan(context.Background(), "fileio.ring_flush",
			attribute.String("path", fb.path), attribute.Int("bytes", n))
		written, err := s.physicalWrite(fb, data)
		tracing.EndSpan(span, err)

		fb.ring.result = ringResult{requested: int64(n), actual: int64(written), prevMax: prevMax, err: err}
		fb.ring.spare = full
	}()
	return n, nil
}

// waitRing дожидается фоновой записи и возвращает её итог.
func (s *Subsystem) waitRing(fb *FileBuffer) (ringResult, bool) {
	if fb.ring == nil || fb.ring.inflight == nil {
		return ringResult{}, false
	}
	<-fb.ring.inflight
	fb.ring.inflight = nil
	res := fb.ring.result
	fb.ring.result = ringResult{}
	return res, true
}

// drainRing дожидается фоновой записи; её сбой обрабатывается как сбой сброса.
// Позиция писателя и граница обрезки откатываются на недописанные байты.
func (s *Subsystem) drainRing(fb *FileBuffer) error {
	res, ok := s.waitRing(fb)
	if !ok || res.err == nil {
		return nil
	}
	if short := res.requested - res.actual; short > 0 {
		fb.cur.offset -= short
		fb.maxOffset = max(res.prevMax, fb.cur.offset)
	}
	return s.fail(fb, opFlush, res.requested, res.actual, res.err, !fb.mode.has(modeAllowFail))
}

// pollRing проверяет завершившуюся фоновую запись без ожидания.
func (s *Subsystem) pollRing(fb *FileBuffer) error {
	if fb.ring == nil || fb.ring.inflight == nil {
		return nil
	}
	select {
	case <-fb.ring.inflight:
		return s.drainRing(fb)
	default:
		return nil
	}
}

// takeSpare отдаёт свободный буфер ring подходящего размера, если он есть.
func (s *Subsystem) takeSpare(fb *FileBuffer, size int) []byte {
	if fb.ring == nil || fb.ring.inflight != nil || len(fb.ring.spare) != size {
		return nil
	}
	buf := fb.ring.spare
	fb.ring.spare = nil
	return buf
}
