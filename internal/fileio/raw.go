package fileio

import (
	"errors"
	"io"
)

// rawRead читает из файла без буфера. Без allowPartial недобор закрывает файл.
func rawRead(f File, p []byte, allowPartial bool) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := io.ReadFull(f, p)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = nil
	}
	if n == len(p) && err == nil {
		return n, nil
	}
	if !allowPartial || err != nil {
		serr := &ShortfallError{Op: opRead, Path: f.Name(), Requested: int64(len(p)), Actual: int64(n), Cause: err}
		if !allowPartial {
			_ = f.Close() //nolint:errcheck // возвращаем ошибку недобора
		}
		return n, serr
	}
	return n, nil
}

// rawWrite пишет без буфера. Без allowFail неполная запись закрывает файл.
func rawWrite(f File, p []byte, allowFail bool) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := f.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err == nil {
		return n, nil
	}
	if !allowFail {
		_ = f.Close() //nolint:errcheck // возвращаем ошибку записи
	}
	return n, &ShortfallError{Op: opWrite, Path: f.Name(), Requested: int64(len(p)), Actual: int64(n), Cause: err}
}
