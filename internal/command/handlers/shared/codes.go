package shared

import (
	"context"
	"errors"
	"io/fs"

	"github.com/Kargones/mediaio/internal/diskmon"
	"github.com/Kargones/mediaio/internal/fileio"
	"github.com/Kargones/mediaio/internal/pkg/apperrors"
)

// IOCode подбирает код apperrors для ошибки fileio или diskmon.
// AppError в цепочке имеет приоритет.
func IOCode(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case errors.Is(err, fileio.ErrReadShortfall):
		return apperrors.ErrIOReadShortfall
	case errors.Is(err, fileio.ErrWriteShortfall):
		return apperrors.ErrIOWriteShortfall
	case errors.Is(err, fileio.ErrAllocation):
		return apperrors.ErrIOAlloc
	case errors.Is(err, fileio.ErrDuplicateHandle):
		return apperrors.ErrIODuplicateHandle
	case errors.Is(err, fileio.ErrCancelled), errors.Is(err, context.Canceled):
		return apperrors.ErrIOCancelled
	case errors.Is(err, diskmon.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrDiskTimeout
	case errors.Is(err, diskmon.ErrUnavailable):
		return apperrors.ErrDiskUnavailable
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return apperrors.ErrIOOpen
	default:
		return apperrors.ErrIOFailed
	}
}
