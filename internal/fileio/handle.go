package fileio

import (
	"io"
	"os"
	"strconv"
)

// File: открытый файл, которым владеет подсистема. *os.File подходит без обёрток.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	Name() string
	Stat() (os.FileInfo, error)
	Truncate(size int64) error
	Sync() error
}

// OpenFunc открывает файл; по умолчанию os.OpenFile.
type OpenFunc func(name string, flag int, perm os.FileMode) (File, error)

func osOpen(name string, flag int, perm os.FileMode) (File, error) {
	f, err := os.OpenFile(name, flag, perm) //nolint:gosec // путь задаёт вызывающий
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Kind различает варианты Handle.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBuffered
	KindRaw
)

// Handle: либо буферизованный дескриптор из реестра, либо «сырой» файл,
// операции над которым идут напрямую в ОС. Вариант выбирается один раз
// при создании и не зависит от наличия записи в реестре.
type Handle struct {
	kind Kind
	id   int64
	raw  File
}

// Buffered возвращает Handle буферизованного файла с идентификатором id.
func Buffered(id int64) Handle { return Handle{kind: KindBuffered, id: id} }

// Raw оборачивает файл без буферизации.
func Raw(f File) Handle { return Handle{kind: KindRaw, raw: f} }

func (h Handle) Kind() Kind    { return h.kind }
func (h Handle) ID() int64     { return h.id }
func (h Handle) File() File    { return h.raw }
func (h Handle) IsValid() bool { return h.kind != KindInvalid }

func (h Handle) String() string {
	switch h.kind {
	case KindBuffered:
		return "buffered:" + strconv.FormatInt(h.id, 10)
	case KindRaw:
		if h.raw != nil {
			return "raw:" + h.raw.Name()
		}
		return "raw:<nil>"
	default:
		return "invalid"
	}
}
