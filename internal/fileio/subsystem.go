// Package fileio: буферизованный файловый ввод-вывод mediaio.
//
// Subsystem владеет реестром открытых файлов и политикой размеров буферов.
// Поддерживаются три стратегии: буферизация кусками (чтение вперёд и
// назад), фоновая загрузка файла целиком (slurp) и запись с отложенным
// сбросом (ring). Все операции принимают Handle; для Raw-варианта они
// выполняются над файлом напрямую, без буфера.
package fileio

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"time"

	"github.com/Kargones/mediaio/internal/pkg/logging"
	"github.com/Kargones/mediaio/internal/pkg/metrics"
)

// Subsystem: экземпляр подсистемы ввода-вывода.
type Subsystem struct {
	cfg       Config
	logger    logging.Logger
	metrics   metrics.Collector
	open      OpenFunc
	now       func() time.Time
	hints     Hinter
	hostOrder binary.ByteOrder

	policy   *Policy
	registry *Registry
	diag     Diagnostics
}

// New создаёт подсистему. Размеры классов вычисляются из cfg один раз.
func New(cfg Config, opts ...Option) *Subsystem {
	s := &Subsystem{
		cfg:       cfg,
		logger:    logging.NewNopLogger(),
		metrics:   metrics.NewNopCollector(),
		open:      osOpen,
		now:       time.Now,
		hints:     NewOSHinter(),
		hostOrder: binary.NativeEndian,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.policy = NewPolicy(cfg.BlockSize, cfg.CacheLineSize)
	if cfg.AutoTune {
		s.policy.EnableAutoTune(cfg.AutoTuneSamples)
	}
	s.registry = NewRegistry(s.logger)
	return s
}

// Policy возвращает политику размеров буферов.
func (s *Subsystem) Policy() *Policy { return s.policy }

// Registry возвращает реестр открытых файлов.
func (s *Subsystem) Registry() *Registry { return s.registry }

// Diagnostics возвращает сведения о последних сбоях.
func (s *Subsystem) Diagnostics() *Diagnostics { return &s.diag }

// acquire находит запись и захватывает её для операции. Вызывающий
// обязан вызвать fb.opMu.Unlock().
func (s *Subsystem) acquire(h Handle) (*FileBuffer, error) {
	fb, err := s.registry.Find(h)
	if err != nil {
		return nil, err
	}
	fb.opMu.Lock()
	if fb.closed {
		fb.opMu.Unlock()
		return nil, ErrClosed
	}
	return fb, nil
}

func (s *Subsystem) register(f File, path string, m mode) (Handle, *FileBuffer, error) {
	fb := newFileBuffer(f, path, m)
	h, err := s.registry.Register(fb)
	if err != nil {
		return Handle{}, nil, err
	}
	return h, fb, nil
}

// Open открывает файл на чтение. Буфер пуст и начинается с малого класса.
func (s *Subsystem) Open(path string) (Handle, error) {
	f, err := s.open(path, os.O_RDONLY, 0)
	if err != nil {
		return Handle{}, &IOError{Op: opOpen, Path: path, Err: err}
	}
	h, _, err := s.register(f, path, modeRead)
	if err != nil {
		return Handle{}, err
	}
	s.logger.Debug("файл открыт на чтение", "path", path, "handle", h.ID())
	return h, nil
}

// Close сбрасывает несохранённые данные писателя, дожидается фоновых
// операций и закрывает файл. Запись удаляется из реестра в любом случае.
func (s *Subsystem) Close(h Handle) error {
	if h.kind == KindRaw {
		return h.raw.Close()
	}
	fb, err := s.acquire(h)
	if err != nil {
		return err
	}
	defer fb.opMu.Unlock()

	var flushErr error
	if fb.mode.has(modeWrite) {
		flushErr = s.closeWriter(fb)
	} else {
		s.stopSlurp(fb)
	}

	closeErr := s.teardown(fb)
	if flushErr != nil && !fb.mode.has(modeAllowFail) {
		return flushErr
	}
	if closeErr != nil {
		return &IOError{Op: opClose, Path: fb.path, Err: closeErr}
	}
	return nil
}

// teardown освобождает буферы, закрывает файл и удаляет запись из реестра.
// Фоновые задачи к этому моменту должны быть остановлены.
func (s *Subsystem) teardown(fb *FileBuffer) error {
	if fb.closed {
		return nil
	}
	fb.closed = true
	fb.cur.release()
	if fb.ring != nil {
		fb.ring.spare = nil
	}
	s.registry.Remove(fb.id)
	return fb.file.Close()
}

// fail фиксирует сбой и, в строгом режиме, закрывает дескриптор:
// последующие операции получат ErrNotFound.
func (s *Subsystem) fail(fb *FileBuffer, op string, requested, actual int64, cause error, strict bool) error {
	s.diag.record(Failure{
		Op:        op,
		Path:      fb.path,
		Requested: requested,
		Actual:    actual,
		Err:       cause,
		At:        s.now(),
	})
	err := &ShortfallError{Op: op, Path: fb.path, Requested: requested, Actual: actual, Cause: cause}

	if !strict {
		s.logger.Debug("неполная операция ввода-вывода", "op", op, "path", fb.path,
			"requested", requested, "actual", actual)
		return err
	}

	s.logger.Error("сбой ввода-вывода, дескриптор закрыт", "op", op, "path", fb.path,
		"requested", requested, "actual", actual, "error", cause)
	if fb.mode.has(modeWrite) {
		_, _ = s.waitRing(fb) //nolint:errcheck // дескриптор закрывается по первой ошибке
	} else {
		s.stopSlurp(fb)
	}
	_ = s.teardown(fb) //nolint:errcheck // основная ошибка уже возвращается
	return err
}

// physicalRead читает до заполнения p или конца файла.
func (s *Subsystem) physicalRead(fb *FileBuffer, p []byte) (int, error) {
	start := s.now()
	n, err := io.ReadFull(fb.file, p)
	fb.physOps.Add(1)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = nil
	}
	s.metrics.RecordPhysicalIO(metrics.DirectionRead, int64(n), s.now().Sub(start), err == nil)
	return n, err
}

// physicalWrite пишет p целиком; n < len(p) без ошибки ОС тоже считается сбоем.
func (s *Subsystem) physicalWrite(fb *FileBuffer, p []byte) (int, error) {
	start := s.now()
	n, err := fb.file.Write(p)
	fb.physOps.Add(1)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	s.metrics.RecordPhysicalIO(metrics.DirectionWrite, int64(n), s.now().Sub(start), err == nil)
	return n, err
}

// Offset возвращает логическую позицию: для чтения: следующий байт
// потока, для записи: позицию с учётом несброшенных байт.
func (s *Subsystem) Offset(h Handle) (int64, error) {
	if h.kind == KindRaw {
		return h.raw.Seek(0, io.SeekCurrent)
	}
	fb, err := s.acquire(h)
	if err != nil {
		return 0, err
	}
	defer fb.opMu.Unlock()

	switch {
	case fb.mode.has(modeWrite):
		return fb.cur.position(), nil
	default:
		return fb.readPos(), nil
	}
}

// OrigSize возвращает исходный размер файла: для писателя: размер до
// открытия, для читателя: текущий размер (вычисляется при первом запросе).
func (s *Subsystem) OrigSize(h Handle) (int64, error) {
	if h.kind == KindRaw {
		return fileSize(h.raw)
	}
	fb, err := s.acquire(h)
	if err != nil {
		return 0, err
	}
	defer fb.opMu.Unlock()

	if fb.origSize < 0 {
		size, err := fileSize(fb.file)
		if err != nil {
			return 0, &IOError{Op: opSeek, Path: fb.path, Err: err}
		}
		fb.origSize = size
	}
	return fb.origSize, nil
}

// Stats: счётчики одного буферизованного файла.
type Stats struct {
	Path  string
	Class SizeClass

	// Ops и Bytes: логические операции и байты с момента открытия
	// (для slurp: с момента запуска загрузки).
	Ops   int64
	Bytes int64

	// PhysicalOps: обращения к файлу на чтение или запись.
	PhysicalOps int64
}

// Stats возвращает счётчики файла h.
func (s *Subsystem) Stats(h Handle) (Stats, error) {
	fb, err := s.acquire(h)
	if err != nil {
		return Stats{}, err
	}
	defer fb.opMu.Unlock()

	return Stats{
		Path:        fb.path,
		Class:       fb.class,
		Ops:         fb.totOps,
		Bytes:       fb.totBytes,
		PhysicalOps: fb.physOps.Load(),
	}, nil
}

// Len возвращает число открытых буферизованных файлов.
func (s *Subsystem) Len() int { return s.registry.Len() }

// InvalidateAll сбрасывает на диск буферы всех писателей и отвязывает их
// память, а читателей помечает недействительными: следующее чтение
// перечитает файл с текущей позиции. Дескрипторы не закрываются.
// Читатели в режиме slurp не затрагиваются.
func (s *Subsystem) InvalidateAll() error {
	var errs []error
	for _, fb := range s.registry.snapshot() {
		fb.opMu.Lock()
		if !fb.closed {
			switch {
			case fb.mode.has(modeWrite):
				if _, err := s.flushLocked(fb); err != nil {
					errs = append(errs, err)
				} else if err := s.drainRing(fb); err != nil {
					errs = append(errs, err)
				}
				if !fb.closed {
					fb.cur.buf = nil
				}
			case !fb.mode.has(modeSlurp):
				fb.setInvalid(true)
			}
		}
		fb.opMu.Unlock()
	}
	return errors.Join(errs...)
}

func fileSize(f File) (int64, error) {
	st, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return st.Size(), nil
}
