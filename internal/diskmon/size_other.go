//go:build !unix

package diskmon

import "os"

// diskUsage возвращает логический размер path: число блоков недоступно.
func diskUsage(path string) (int64, fileID, bool, error) {
	st, err := os.Lstat(path)
	if err != nil {
		return 0, fileID{}, false, err
	}
	return st.Size(), fileID{}, false, nil
}
