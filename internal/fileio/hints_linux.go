//go:build linux

package fileio

import (
	"golang.org/x/sys/unix"
)

// OSHinter передаёт рекомендации через fadvise, fallocate и mlock.
type OSHinter struct{}

// NewOSHinter возвращает Hinter текущей ОС.
func NewOSHinter() Hinter { return OSHinter{} }

var fadvice = map[Advice]int{
	AdviceNormal:     unix.FADV_NORMAL,
	AdviceSequential: unix.FADV_SEQUENTIAL,
	AdviceRandom:     unix.FADV_RANDOM,
	AdviceWillNeed:   unix.FADV_WILLNEED,
	AdviceNoReuse:    unix.FADV_NOREUSE,
}

func (OSHinter) Advise(f File, offset, length int64, advice Advice) error {
	fd, ok := f.(fdFile)
	if !ok {
		return nil
	}
	return unix.Fadvise(int(fd.Fd()), offset, length, fadvice[advice])
}

// Preallocate резервирует место как posix_fallocate: размер файла может
// вырасти до offset+length, лишнее обрезается при закрытии писателя.
func (OSHinter) Preallocate(f File, offset, length int64) error {
	fd, ok := f.(fdFile)
	if !ok || length <= 0 {
		return nil
	}
	return unix.Fallocate(int(fd.Fd()), 0, offset, length)
}

func (OSHinter) Lock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Mlock(b)
}

func (OSHinter) Unlock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munlock(b)
}
