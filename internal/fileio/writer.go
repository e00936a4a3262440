package fileio

import (
	"fmt"
	"io"
	"os"

	"github.com/Kargones/mediaio/internal/pkg/metrics"
)

// OpenWriter открывает файл на запись, создавая его при необходимости.
// Без appendMode файл усекается, с appendMode запись продолжается с конца,
// а исходный размер запоминается для обрезки при закрытии.
func (s *Subsystem) OpenWriter(path string, perm os.FileMode, appendMode bool) (Handle, error) {
	flag := os.O_WRONLY | os.O_CREATE
	if !appendMode {
		flag |= os.O_TRUNC
	}
	return s.openWriter(path, flag, perm, appendMode)
}

// Create создаёт или усекает файл с синхронной записью (O_SYNC).
func (s *Subsystem) Create(path string, perm os.FileMode) (Handle, error) {
	return s.openWriter(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC|os.O_SYNC, perm, false)
}

// CreateNoSync создаёт или усекает файл без O_SYNC.
func (s *Subsystem) CreateNoSync(path string, perm os.FileMode) (Handle, error) {
	return s.openWriter(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm, false)
}

func (s *Subsystem) openWriter(path string, flag int, perm os.FileMode, appendMode bool) (Handle, error) {
	f, err := s.open(path, flag, perm)
	if err != nil {
		return Handle{}, &IOError{Op: opOpen, Path: path, Err: err}
	}

	var orig int64
	m := modeWrite
	if appendMode {
		m |= modeAppend
		if orig, err = f.Seek(0, io.SeekEnd); err != nil {
			_ = f.Close() //nolint:errcheck // возвращаем ошибку позиционирования
			return Handle{}, &IOError{Op: opOpen, Path: path, Err: err}
		}
	}

	h, fb, err := s.register(f, path, m)
	if err != nil {
		return Handle{}, err
	}
	fb.origSize = orig
	fb.maxOffset = orig
	fb.cur.offset = orig
	s.logger.Debug("файл открыт на запись", "path", path, "handle", h.ID(), "append", appendMode)
	return h, nil
}

// Write добавляет p в буфер, сбрасывая его при переполнении. Запросы
// от порога большого класса пишутся напрямую. При allowFail неполная
// физическая запись возвращается как ошибка без закрытия дескриптора;
// без allowFail дескриптор закрывается.
func (s *Subsystem) Write(h Handle, p []byte, allowFail bool) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if h.kind == KindRaw {
		return rawWrite(h.raw, p, allowFail)
	}
	fb, err := s.acquire(h)
	if err != nil {
		return 0, err
	}
	defer fb.opMu.Unlock()

	if !fb.mode.has(modeWrite) {
		return 0, ErrWrongMode
	}
	if allowFail {
		fb.mode |= modeAllowFail
	} else {
		fb.mode &^= modeAllowFail
	}
	if err := s.pollRing(fb); err != nil {
		return 0, err
	}

	if len(p) >= s.policy.LargeWriteThreshold() {
		return s.writeDirect(fb, p)
	}

	fb.totOps++
	fb.totBytes += int64(len(p))
	target := s.policy.ClassifyWrite(fb.class, len(p), fb.totBytes)

	done := 0
	for done < len(p) {
		if len(fb.cur.buf) == 0 {
			if fb.class != ClassCustom {
				fb.class = target
			}
			s.allocWriteBuffer(fb)
		}
		done += fb.cur.put(p[done:])
		if fb.cur.space() > 0 {
			break
		}
		if _, err := s.flushLocked(fb); err != nil {
			return done, err
		}
		if fb.class != ClassCustom && fb.class != target {
			fb.cur.buf = nil
		}
	}

	s.metrics.RecordTransfer(metrics.DirectionWrite, fb.class.String(), int64(done))
	return done, nil
}

// WritePrintf форматирует строку и пишет её через Write.
func (s *Subsystem) WritePrintf(h Handle, allowFail bool, format string, args ...any) (int, error) {
	return s.Write(h, []byte(fmt.Sprintf(format, args...)), allowFail)
}

// allocWriteBuffer выделяет буфер текущего класса и, если включено,
// резервирует под него место в файле.
func (s *Subsystem) allocWriteBuffer(fb *FileBuffer) {
	size := fb.bufferSize(s.policy)
	buf := s.takeSpare(fb, size)
	if buf == nil {
		buf = make([]byte, size)
	}
	fb.cur.buf = buf
	fb.cur.pos = 0

	if !s.cfg.Preallocate {
		return
	}
	if err := s.hints.Preallocate(fb.file, fb.cur.offset, int64(size)); err != nil {
		s.logger.Debug("предвыделение места не выполнено", "path", fb.path, "error", err)
		return
	}
	fb.mode |= modePrealloc
}

// writeDirect сбрасывает буфер и пишет p одним вызовом.
func (s *Subsystem) writeDirect(fb *FileBuffer, p []byte) (int, error) {
	if _, err := s.flushLocked(fb); err != nil {
		return 0, err
	}
	if err := s.drainRing(fb); err != nil {
		return 0, err
	}

	n, err := s.physicalWrite(fb, p)
	fb.cur.offset += int64(n)
	fb.maxOffset = max(fb.maxOffset, fb.cur.offset)
	fb.totOps++
	fb.totBytes += int64(n)
	s.metrics.RecordTransfer(metrics.DirectionWrite, ClassLarge.String(), int64(n))
	if err != nil {
		return n, s.fail(fb, opWrite, int64(len(p)), int64(n), err, !fb.mode.has(modeAllowFail))
	}
	return n, nil
}

// flushLocked отдаёт буфер на физическую запись. Пустой буфер: no-op.
// В режиме ring запись выполняется в фоне.
func (s *Subsystem) flushLocked(fb *FileBuffer) (int, error) {
	if fb.closed || fb.cur.pos == 0 {
		return 0, nil
	}
	if fb.mode.has(modeRing) {
		return s.flushRing(fb)
	}

	data := fb.cur.pending()
	n, err := s.physicalWrite(fb, data)
	fb.cur.flushed(n)
	fb.maxOffset = max(fb.maxOffset, fb.cur.offset)
	if err != nil {
		return n, s.fail(fb, opFlush, int64(len(data)), int64(n), err, !fb.mode.has(modeAllowFail))
	}
	return n, nil
}

// Flush немедленно отдаёт буфер на запись и возвращает число переданных
// байт. Повторный Flush без записи между ними физически ничего не пишет.
func (s *Subsystem) Flush(h Handle) (int, error) {
	if h.kind == KindRaw {
		return 0, nil
	}
	fb, err := s.acquire(h)
	if err != nil {
		return 0, err
	}
	defer fb.opMu.Unlock()

	if !fb.mode.has(modeWrite) {
		return 0, ErrWrongMode
	}
	if err := s.pollRing(fb); err != nil {
		return 0, err
	}
	return s.flushLocked(fb)
}

// Sync сбрасывает буфер, дожидается фоновой записи и вызывает fsync.
func (s *Subsystem) Sync(h Handle) error {
	if h.kind == KindRaw {
		return h.raw.Sync()
	}
	fb, err := s.acquire(h)
	if err != nil {
		return err
	}
	defer fb.opMu.Unlock()

	if !fb.mode.has(modeWrite) {
		return ErrWrongMode
	}
	if _, err := s.flushLocked(fb); err != nil {
		return err
	}
	if err := s.drainRing(fb); err != nil {
		return err
	}
	if err := fb.file.Sync(); err != nil {
		return &IOError{Op: opFlush, Path: fb.path, Err: err}
	}
	return nil
}

// SetCustomSize сбрасывает буфер и переключает его на явный размер,
// округлённый вниз до кратного 16 (не меньше 16). Для читателя буфер
// перечитывается с текущей позиции при следующем чтении.
func (s *Subsystem) SetCustomSize(h Handle, size int) error {
	fb, err := s.acquire(h)
	if err != nil {
		return err
	}
	defer fb.opMu.Unlock()

	if fb.mode.has(modeSlurp) {
		return ErrWrongMode
	}
	size = max(size&^15, 16)

	if fb.mode.has(modeWrite) {
		if _, err := s.flushLocked(fb); err != nil {
			return err
		}
		if err := s.drainRing(fb); err != nil {
			return err
		}
		fb.cur.buf = nil
	} else {
		v := fb.cur.virtual()
		if _, err := fb.file.Seek(v, io.SeekStart); err != nil {
			return &IOError{Op: opSeek, Path: fb.path, Err: err}
		}
		fb.cur.release()
		fb.eof = false
	}
	fb.class = ClassCustom
	fb.custom = size
	return nil
}

// seekWriter сбрасывает буфер, дожидается фоновой записи и перемещает файл.
func (s *Subsystem) seekWriter(fb *FileBuffer, offset int64, whence int) (int64, error) {
	if _, err := s.flushLocked(fb); err != nil {
		return 0, err
	}
	if err := s.drainRing(fb); err != nil {
		return 0, err
	}

	if whence == io.SeekCurrent {
		offset, whence = fb.cur.position()+offset, io.SeekStart
	}
	pos, err := fb.file.Seek(offset, whence)
	if err != nil {
		return 0, &IOError{Op: opSeek, Path: fb.path, Err: err}
	}
	fb.cur.offset = pos
	fb.cur.pos = 0
	return pos, nil
}

// closeWriter сбрасывает буфер, ждёт фоновую запись и, если место
// предвыделялось, обрезает файл до max(наибольшая позиция записи,
// исходный размер).
func (s *Subsystem) closeWriter(fb *FileBuffer) error {
	_, err := s.flushLocked(fb)
	if err == nil {
		err = s.drainRing(fb)
	}
	if fb.closed {
		return err
	}
	if fb.mode.has(modePrealloc) {
		size := max(fb.maxOffset, fb.origSize)
		if terr := fb.file.Truncate(size); terr != nil {
			s.logger.Warn("не удалось обрезать предвыделенное место", "path", fb.path, "size", size, "error", terr)
		}
	}
	return err
}
