package fileio

import (
	"sync"
	"sync/atomic"

	"github.com/Kargones/mediaio/internal/pkg/logging"
)

// Registry: таблица открытых буферизованных файлов подсистемы.
// Блокировка берётся только на вставку, поиск и удаление.
type Registry struct {
	mu     sync.RWMutex
	byID   map[int64]*FileBuffer
	byFile map[File]int64
	next   atomic.Int64
	logger logging.Logger
}

// NewRegistry создаёт пустой реестр.
func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Registry{
		byID:   make(map[int64]*FileBuffer),
		byFile: make(map[File]int64),
		logger: logger,
	}
}

// Register добавляет запись и возвращает её Handle. Идентификаторы
// монотонно растут и не переиспользуются. Повторная регистрация того же
// File: дефект вызывающего кода: новая запись отбрасывается.
func (r *Registry) Register(fb *FileBuffer) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, dup := r.byFile[fb.file]; dup {
		r.logger.Error("повторная регистрация файла в реестре",
			"path", fb.path,
			"existing_handle", prev,
		)
		return Handle{}, &IOError{Op: opOpen, Path: fb.path, Err: ErrDuplicateHandle}
	}

	fb.id = r.next.Add(1)
	r.byID[fb.id] = fb
	r.byFile[fb.file] = fb.id
	return Buffered(fb.id), nil
}

// Find возвращает запись по Handle. Запись может быть закрыта
// конкурентно сразу после возврата.
func (r *Registry) Find(h Handle) (*FileBuffer, error) {
	switch h.kind {
	case KindBuffered:
	case KindRaw:
		return nil, ErrWrongMode
	default:
		return nil, ErrInvalidHandle
	}
	r.mu.RLock()
	fb, ok := r.byID[h.id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return fb, nil
}

// FindByPath возвращает первую найденную запись, открытую по path.
func (r *Registry) FindByPath(path string) (*FileBuffer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, fb := range r.byID {
		if fb.path == path {
			return fb, true
		}
	}
	return nil, false
}

// Remove удаляет запись. Повторное удаление: no-op.
func (r *Registry) Remove(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fb, ok := r.byID[id]; ok {
		delete(r.byFile, fb.file)
		delete(r.byID, id)
	}
}

// Len возвращает число записей.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// snapshot копирует записи, чтобы обходить их без блокировки реестра.
func (r *Registry) snapshot() []*FileBuffer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*FileBuffer, 0, len(r.byID))
	for _, fb := range r.byID {
		out = append(out, fb)
	}
	return out
}
