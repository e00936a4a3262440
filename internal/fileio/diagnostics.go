package fileio

import (
	"sync"
	"time"
)

// Failure: сведения о последнем сбое физического чтения или записи.
type Failure struct {
	Op        string
	Path      string
	Requested int64
	Actual    int64
	Err       error
	At        time.Time
}

// Diagnostics хранит последний сбой чтения и записи. Операции
// возвращают ошибку сами; Diagnostics нужен тем, кто смотрит на
// подсистему снаружи (команды, отчёты).
type Diagnostics struct {
	mu    sync.Mutex
	read  *Failure
	write *Failure
}

func (d *Diagnostics) record(f Failure) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f.Op == opRead || f.Op == opSlurp {
		d.read = &f
	} else {
		d.write = &f
	}
}

// LastRead возвращает последний сбой чтения.
func (d *Diagnostics) LastRead() (Failure, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.read == nil {
		return Failure{}, false
	}
	return *d.read, true
}

// LastWrite возвращает последний сбой записи.
func (d *Diagnostics) LastWrite() (Failure, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.write == nil {
		return Failure{}, false
	}
	return *d.write, true
}

// Reset очищает сохранённые сбои.
func (d *Diagnostics) Reset() {
	d.mu.Lock()
	d.read, d.write = nil, nil
	d.mu.Unlock()
}
