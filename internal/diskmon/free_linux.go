//go:build linux

package diskmon

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Writable сообщает, есть ли у процесса право записи в каталог dir.
func Writable(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}

// FreeSpace возвращает доступное процессу место на томе с каталогом dir.
// Для каталога без права записи и тома только для чтения возвращает 0.
func FreeSpace(dir string) (uint64, error) {
	if !Writable(dir) {
		return 0, nil
	}
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0, fmt.Errorf("%w: statfs %s: %v", ErrUnavailable, dir, err)
	}
	if st.Flags&unix.ST_RDONLY != 0 {
		return 0, nil
	}
	return uint64(st.Bsize) * st.Bavail, nil //nolint:gosec // Bsize положителен
}

// BlockSize возвращает размер блока файловой системы с каталогом dir.
func BlockSize(dir string) (int, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0, fmt.Errorf("%w: statfs %s: %v", ErrUnavailable, dir, err)
	}
	return int(st.Bsize), nil
}
