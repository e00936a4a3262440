package fileio

import (
	"io"

	"github.com/Kargones/mediaio/internal/pkg/metrics"
)

// Read читает len(p) байт. В прямом режиме данные берутся из буфера,
// затем буфер перезаполняется; запросы от порога большого класса читаются
// напрямую в p. В обратном режиме (SetReversed) читаются len(p) байт,
// предшествующих текущей позиции, и позиция сдвигается назад.
//
// Если прочитано меньше len(p): при allowPartial возвращается n без
// ошибки, иначе дескриптор закрывается и возвращается *ShortfallError.
func (s *Subsystem) Read(h Handle, p []byte, allowPartial bool) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if h.kind == KindRaw {
		return rawRead(h.raw, p, allowPartial)
	}
	fb, err := s.acquire(h)
	if err != nil {
		return 0, err
	}
	defer fb.opMu.Unlock()

	if !fb.mode.has(modeRead) {
		return 0, ErrWrongMode
	}

	var n int
	switch {
	case fb.mode.has(modeSlurp):
		n = s.readSlurp(fb, p)
	default:
		start := s.now()
		class := fb.class
		if fb.mode.has(modeReversed) {
			n, err = s.readBackward(fb, p)
		} else {
			n, err = s.readForward(fb, p)
		}
		if err != nil {
			return n, s.fail(fb, opRead, int64(len(p)), int64(n), err, !allowPartial)
		}
		fb.lastPos = fb.cur.virtual()
		if fb.class != ClassCustom && s.policy.autoTuning() {
			s.policy.observeRead(class, s.now().Sub(start), 1/(1+float64(fb.nseq)))
		}
	}

	fb.totOps++
	fb.totBytes += int64(n)
	s.metrics.RecordTransfer(metrics.DirectionRead, fb.class.String(), int64(n))

	if n < len(p) && !allowPartial {
		return n, s.fail(fb, opRead, int64(len(p)), int64(n), nil, true)
	}
	return n, nil
}

// revalidate перечитывает буфер после InvalidateAll.
func (s *Subsystem) revalidate(fb *FileBuffer) error {
	if !fb.isInvalid() {
		return nil
	}
	v := fb.cur.virtual()
	if _, err := fb.file.Seek(v, io.SeekStart); err != nil {
		return err
	}
	fb.cur.drop(v)
	fb.eof = false
	fb.setInvalid(false)
	return nil
}

func (s *Subsystem) readForward(fb *FileBuffer, p []byte) (int, error) {
	if err := s.revalidate(fb); err != nil {
		return 0, err
	}

	count := len(p)
	if fb.totOps > 0 && fb.cur.virtual() == fb.lastPos {
		fb.nseq++
	}
	done := copy(p, fb.cur.take(min(fb.cur.ahead(), count)))

	for done < count && !fb.eof {
		need := count - done
		fb.class = s.policy.ClassifyRead(fb.class, count, fb.totBytes)

		if fb.class != ClassCustom && need >= s.policy.LargeReadThreshold() {
			n, err := s.physicalRead(fb, p[done:])
			fb.cur.drop(fb.cur.offset + int64(n))
			done += n
			if err != nil {
				return done, err
			}
			if n < need {
				fb.eof = true
			}
			break
		}

		if err := s.fillForward(fb, fb.bufferSize(s.policy)); err != nil {
			return done, err
		}
		done += copy(p[done:], fb.cur.take(min(fb.cur.ahead(), need)))
	}
	return done, nil
}

// fillForward заполняет буфер с текущей позиции файла. Буфер выделяется
// заново, если размер класса изменился. Короткое заполнение означает конец файла.
func (s *Subsystem) fillForward(fb *FileBuffer, size int) error {
	buf := fb.cur.buf
	if len(buf) != size {
		buf = make([]byte, size)
	}
	at := fb.cur.offset
	n, err := s.physicalRead(fb, buf)
	fb.cur.load(buf, n, at, 0)
	if err != nil {
		return err
	}
	if n < size {
		fb.eof = true
	}
	return nil
}

func (s *Subsystem) readBackward(fb *FileBuffer, p []byte) (int, error) {
	if err := s.revalidate(fb); err != nil {
		return 0, err
	}

	remaining := len(p)
	for remaining > 0 {
		if b := fb.cur.behind(); b > 0 {
			k := min(b, remaining)
			copy(p[remaining-k:remaining], fb.cur.takeBack(k))
			remaining -= k
			continue
		}
		v := fb.cur.virtual()
		if v == 0 {
			break
		}
		fb.class = s.policy.ClassifyRead(fb.class, len(p), fb.totBytes)
		if err := s.fillBackward(fb, fb.bufferSize(s.policy), remaining); err != nil {
			n := len(p) - remaining
			copy(p, p[remaining:])
			return n, err
		}
	}

	fb.eof = fb.cur.virtual() == 0
	n := len(p) - remaining
	if remaining > 0 {
		copy(p, p[remaining:])
	}
	return n, nil
}

// fillBackward загружает область перед текущей позицией v: отступает на
// 3/4 размера буфера (но не меньше need), читает буфер вперёд и ставит
// курсор обратно на v. Байты перед курсором отдаются следующими чтениями
// назад, байты после него: чтениями вперёд без повторного ввода-вывода.
func (s *Subsystem) fillBackward(fb *FileBuffer, size, need int) error {
	v := fb.cur.virtual()
	delta := int64(max(size*3/4, need))
	if delta > v {
		delta = v
	}
	at := v - delta
	size = max(size, int(delta))

	if _, err := fb.file.Seek(at, io.SeekStart); err != nil {
		return err
	}
	buf := fb.cur.buf
	if len(buf) != size {
		buf = make([]byte, size)
	}
	n, err := s.physicalRead(fb, buf)
	if err == nil && int64(n) < delta {
		// v лежит за физическим концом файла: чтение назад продолжается
		// с конца, курсор встаёт за последним прочитанным байтом
		if n > 0 || at == 0 {
			fb.cur.load(buf, n, at, n)
			return nil
		}
		end, serr := fileSize(fb.file)
		if serr == nil && end < v {
			fb.cur.drop(end)
			return nil
		}
		err = io.ErrUnexpectedEOF
		if serr != nil {
			err = serr
		}
	}
	if err != nil {
		// позиция файла неизвестна: вернуть её к at, буфер пуст
		_, _ = fb.file.Seek(at+int64(n), io.SeekStart) //nolint:errcheck // уже возвращаем ошибку
		fb.cur.drop(at + int64(n))
		return err
	}
	fb.cur.load(buf, n, at, int(delta))
	return nil
}

// Preload заполняет буфер не менее чем count байтами с текущей позиции,
// не потребляя их. При exact буфер переводится в класс Custom ровно на count байт.
func (s *Subsystem) Preload(h Handle, count int, exact bool) (int, error) {
	if count <= 0 {
		return 0, nil
	}
	fb, err := s.acquire(h)
	if err != nil {
		return 0, err
	}
	defer fb.opMu.Unlock()

	if !fb.mode.has(modeRead) || fb.mode.has(modeSlurp) {
		return 0, ErrWrongMode
	}
	if err := s.revalidate(fb); err != nil {
		return 0, &IOError{Op: opRead, Path: fb.path, Err: err}
	}

	switch {
	case exact:
		fb.class = ClassCustom
		fb.custom = count
	case fb.class == ClassCustom:
		fb.class = s.policy.ClassifyRead(ClassSmall, count, 0)
	default:
		fb.class = s.policy.ClassifyRead(fb.class, count, 0)
	}
	size := max(count, fb.bufferSize(s.policy))

	v := fb.cur.virtual()
	if _, err := fb.file.Seek(v, io.SeekStart); err != nil {
		return 0, &IOError{Op: opSeek, Path: fb.path, Err: err}
	}
	fb.cur.drop(v)
	fb.eof = false
	if err := s.fillForward(fb, size); err != nil {
		return 0, s.fail(fb, opRead, int64(count), 0, err, true)
	}
	return fb.cur.n, nil
}

// Seek меняет позицию; whence: io.SeekStart, io.SeekCurrent или io.SeekEnd.
// Для читателя позиция внутри загруженной области меняется без
// ввода-вывода; иначе буфер сбрасывается, файл позиционируется, а
// заполнение откладывается до следующего чтения. Отрицательная итоговая
// позиция приводится к нулю. Для писателя перед перемещением
// сбрасываются несохранённые данные.
func (s *Subsystem) Seek(h Handle, offset int64, whence int) (int64, error) {
	if h.kind == KindRaw {
		return h.raw.Seek(offset, whence)
	}
	fb, err := s.acquire(h)
	if err != nil {
		return 0, err
	}
	defer fb.opMu.Unlock()

	if fb.mode.has(modeWrite) {
		return s.seekWriter(fb, offset, whence)
	}

	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = fb.readPos()
	case io.SeekEnd:
		if fb.mode.has(modeSlurp) {
			base = fb.slurp.end()
		} else if base, err = fileSize(fb.file); err != nil {
			return 0, &IOError{Op: opSeek, Path: fb.path, Err: err}
		}
	default:
		return 0, &IOError{Op: opSeek, Path: fb.path, Err: ErrWrongMode}
	}
	target := max(base+offset, 0)

	if fb.mode.has(modeSlurp) {
		return s.seekSlurp(fb, target), nil
	}

	fb.eof = false
	if !fb.isInvalid() && fb.cur.contains(target) {
		fb.cur.moveTo(target)
		return target, nil
	}
	if _, err := fb.file.Seek(target, io.SeekStart); err != nil {
		return 0, &IOError{Op: opSeek, Path: fb.path, Err: err}
	}
	fb.cur.drop(target)
	fb.setInvalid(false)
	return target, nil
}

// SeekAbsolute: Seek от начала файла.
func (s *Subsystem) SeekAbsolute(h Handle, pos int64) (int64, error) {
	return s.Seek(h, pos, io.SeekStart)
}

// SeekRelative: Seek от текущей позиции.
func (s *Subsystem) SeekRelative(h Handle, delta int64) (int64, error) {
	return s.Seek(h, delta, io.SeekCurrent)
}

// readPos: позиция читателя в файле.
func (fb *FileBuffer) readPos() int64 {
	if fb.mode.has(modeSlurp) {
		return fb.slurp.start + int64(fb.cur.pos)
	}
	return fb.cur.virtual()
}

// Eof сообщает, исчерпан ли поток: в прямом режиме: достигнут конец
// файла и буфер пуст, в обратном: достигнуто начало файла.
func (s *Subsystem) Eof(h Handle) bool {
	if h.kind != KindBuffered {
		return false
	}
	fb, err := s.acquire(h)
	if err != nil {
		return false
	}
	defer fb.opMu.Unlock()

	if fb.mode.has(modeSlurp) {
		return s.slurpEOF(fb)
	}
	if fb.mode.has(modeReversed) {
		return fb.eof && fb.cur.virtual() == 0
	}
	return fb.eof && fb.cur.ahead() == 0
}

// SetReversed переключает направление чтения.
func (s *Subsystem) SetReversed(h Handle, reversed bool) error {
	fb, err := s.acquire(h)
	if err != nil {
		return err
	}
	defer fb.opMu.Unlock()

	if !fb.mode.has(modeRead) {
		return ErrWrongMode
	}
	if reversed {
		fb.mode |= modeReversed
	} else {
		fb.mode &^= modeReversed
	}
	fb.eof = false
	return nil
}
