//go:build unix

package diskmon

import "golang.org/x/sys/unix"

// diskUsage возвращает место, занятое path на диске, и признак жёсткой ссылки.
func diskUsage(path string) (int64, fileID, bool, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return 0, fileID{}, false, err
	}
	id := fileID{dev: uint64(st.Dev), ino: st.Ino} //nolint:unconvert // тип Dev зависит от платформы
	shared := st.Nlink > 1 && st.Mode&unix.S_IFMT != unix.S_IFDIR
	return st.Blocks * 512, id, shared, nil
}
