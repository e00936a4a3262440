package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		expected string
	}{
		{"ErrConfigLoad", ErrConfigLoad, "CONFIG.LOAD_FAILED"},
		{"ErrConfigValidate", ErrConfigValidate, "CONFIG.VALIDATION_FAILED"},
		{"ErrCommandNotFound", ErrCommandNotFound, "COMMAND.NOT_FOUND"},
		{"ErrIOOpen", ErrIOOpen, "IO.OPEN_FAILED"},
		{"ErrIOReadShortfall", ErrIOReadShortfall, "IO.READ_SHORTFALL"},
		{"ErrIOWriteShortfall", ErrIOWriteShortfall, "IO.WRITE_SHORTFALL"},
		{"ErrDiskTimeout", ErrDiskTimeout, "DISK.TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.constant)
		})
	}
}

func TestAppError_Error_WithCause(t *testing.T) {
	cause := errors.New("оригинальная ошибка")
	appErr := &AppError{
		Code:    ErrIOOpen,
		Message: "не удалось открыть файл",
		Cause:   cause,
	}

	assert.Equal(t, "IO.OPEN_FAILED: не удалось открыть файл (оригинальная ошибка)", appErr.Error())
}

func TestAppError_Error_WithoutCause(t *testing.T) {
	appErr := &AppError{Code: ErrDiskTimeout, Message: "ожидание истекло"}

	assert.Equal(t, "DISK.TIMEOUT: ожидание истекло", appErr.Error())
}

func TestAppError_ErrorsIs(t *testing.T) {
	cause := errors.New("оригинальная ошибка")
	appErr := NewAppError(ErrConfigLoad, "не удалось загрузить конфигурацию", cause)

	assert.True(t, errors.Is(appErr, cause))
	assert.Equal(t, cause, appErr.Unwrap())
}

func TestNewAppError_NilCause(t *testing.T) {
	appErr := NewAppError(ErrConfigLoad, "не удалось загрузить конфигурацию", nil)

	require.NotNil(t, appErr)
	assert.Equal(t, ErrConfigLoad, appErr.Code)
	assert.Nil(t, appErr.Cause)
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("копирование: %w", NewAppError(ErrIOWriteShortfall, "запись не завершена", nil))

	assert.Equal(t, ErrIOWriteShortfall, CodeOf(wrapped, ErrCommandExec))
	assert.Equal(t, ErrCommandExec, CodeOf(errors.New("plain"), ErrCommandExec))
	assert.Equal(t, ErrCommandExec, CodeOf(nil, ErrCommandExec))
}

func TestAppError_JSON_Serialization(t *testing.T) {
	appErr := NewAppError(ErrIOOpen, "не удалось открыть файл", errors.New("секрет"))

	data, err := json.Marshal(appErr)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, ErrIOOpen, parsed["code"])
	assert.Equal(t, "не удалось открыть файл", parsed["message"])
	_, hasCause := parsed["cause"]
	assert.False(t, hasCause, "Cause не должен сериализоваться в JSON")
}
