//go:build !linux

package diskmon

import "os"

// Writable сообщает, существует ли каталог dir и доступен ли он для записи.
func Writable(dir string) bool {
	st, err := os.Stat(dir)
	return err == nil && st.IsDir() && st.Mode().Perm()&0o200 != 0
}

// FreeSpace на этой платформе не поддерживается.
func FreeSpace(string) (uint64, error) { return 0, ErrUnavailable }

// BlockSize на этой платформе не поддерживается.
func BlockSize(string) (int, error) { return 0, ErrUnavailable }
