package fileio

import (
	"sync"
	"sync/atomic"
)

// mode: флаги режима FileBuffer.
type mode uint16

const (
	modeRead mode = 1 << iota
	modeWrite
	modeAppend
	modeSlurp
	modeReversed
	modeAllowFail
	modePrealloc
	modeRing
)

func (m mode) has(f mode) bool { return m&f != 0 }

// FileBuffer: состояние одного буферизованного файла.
//
// opMu упорядочивает публичные операции над записью. mu и cond защищают
// флаги invalid и background, а также поля, которые меняет фоновая
// задача (прогресс slurp); остальные поля принадлежат владельцу opMu.
type FileBuffer struct {
	id   int64
	file File
	path string
	mode mode

	opMu sync.Mutex

	mu         sync.Mutex
	cond       *sync.Cond
	invalid    bool
	background bool

	eof      bool
	closed   bool
	cur      cursor
	class    SizeClass
	custom   int
	origSize int64

	// maxOffset: наибольшая позиция, до которой писатель дописал файл.
	maxOffset int64

	totBytes int64
	totOps   int64

	// physOps: обращения к файлу; растёт и из фоновых задач.
	physOps atomic.Int64

	// nseq: число чтений, начавшихся там, где закончилось предыдущее.
	nseq    int64
	lastPos int64

	slurp *slurpState
	ring  *ringState
}

func newFileBuffer(f File, path string, m mode) *FileBuffer {
	fb := &FileBuffer{
		file:     f,
		path:     path,
		mode:     m,
		class:    ClassSmall,
		origSize: -1,
	}
	fb.cond = sync.NewCond(&fb.mu)
	return fb
}

// ID возвращает идентификатор записи.
func (fb *FileBuffer) ID() int64 { return fb.id }

// Path возвращает путь, с которым файл был открыт.
func (fb *FileBuffer) Path() string { return fb.path }

// IsWriter сообщает, открыт ли файл на запись.
func (fb *FileBuffer) IsWriter() bool { return fb.mode.has(modeWrite) }

func (fb *FileBuffer) isInvalid() bool {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.invalid
}

func (fb *FileBuffer) setInvalid(v bool) {
	fb.mu.Lock()
	fb.invalid = v
	fb.mu.Unlock()
	fb.cond.Broadcast()
}

// setBackground помечает начало или конец фоновой операции.
func (fb *FileBuffer) setBackground(v bool) {
	fb.mu.Lock()
	fb.background = v
	fb.mu.Unlock()
	fb.cond.Broadcast()
}

func (fb *FileBuffer) inBackground() bool {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.background
}

// bufferSize: размер буфера чтения или записи для текущего класса.
func (fb *FileBuffer) bufferSize(p *Policy) int {
	switch {
	case fb.class == ClassCustom:
		return fb.custom
	case fb.mode.has(modeWrite):
		return p.WriteSize(fb.class)
	default:
		return p.ReadSize(fb.class)
	}
}
