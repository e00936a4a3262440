package diskmon

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// fileID различает жёсткие ссылки на один файл.
type fileID struct {
	dev, ino uint64
}

// DirSize считает место, занятое каталогом dir на диске (как du -sB1):
// жёсткие ссылки учитываются один раз, символические ссылки не
// разыменовываются. Отмена ctx проверяется между элементами каталога.
func DirSize(ctx context.Context, dir string) (int64, error) {
	st, err := os.Lstat(dir)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !st.IsDir() {
		return 0, fmt.Errorf("%w: %s не является каталогом", ErrUnavailable, dir)
	}

	seen := make(map[fileID]struct{})
	var total int64
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// недоступные подкаталоги пропускаются, как у du
			if d != nil && d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		usage, id, shared, uerr := diskUsage(path)
		if uerr != nil {
			return nil //nolint:nilerr // файл исчез во время обхода
		}
		if shared {
			if _, dup := seen[id]; dup {
				return nil
			}
			seen[id] = struct{}{}
		}
		total += usage
		return nil
	})
	if err != nil {
		return total, err
	}
	return total, nil
}
