package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/config"
	"github.com/Kargones/mediaio/internal/constants"
	"github.com/Kargones/mediaio/internal/pkg/apperrors"
	"github.com/Kargones/mediaio/internal/pkg/output"
	"github.com/Kargones/mediaio/internal/pkg/progress"
	"github.com/Kargones/mediaio/internal/pkg/tracing"
)

type sample struct {
	Name string `json:"name"`
}

func (s *sample) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Имя: %s\n", s.Name)
	return err
}

func newReporter(t *testing.T, format string) (*Reporter, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	ctx := tracing.WithTraceID(context.Background(), "trace-1")
	cfg := &config.Config{OutputFormat: format}
	rep := NewReporter(ctx, "sample", cfg, &command.Deps{Stdout: out, Stderr: errOut})
	return rep, out, errOut
}

func TestReporter_SuccessText(t *testing.T) {
	rep, out, _ := newReporter(t, output.FormatText)
	assert.False(t, rep.JSON())

	summary := &output.SummaryInfo{}
	summary.AddMetric("Обработано", "1 KB", "")
	require.NoError(t, rep.Success(&sample{Name: "a"}, summary))

	text := out.String()
	assert.Contains(t, text, "Имя: a")
	assert.Contains(t, text, "sample: success")
	assert.Contains(t, text, "Обработано: 1 KB")
}

func TestReporter_SuccessTextWithoutSummary(t *testing.T) {
	rep, out, _ := newReporter(t, output.FormatText)
	require.NoError(t, rep.Success(&sample{Name: "a"}, nil))
	assert.Equal(t, "Имя: a\n", out.String())
}

func TestReporter_SuccessJSON(t *testing.T) {
	rep, out, _ := newReporter(t, output.FormatJSON)
	assert.True(t, rep.JSON())

	summary := &output.SummaryInfo{}
	summary.AddWarning("осторожно")
	require.NoError(t, rep.Success(&sample{Name: "b"}, summary))

	var res map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, output.StatusSuccess, res["status"])
	assert.Equal(t, "sample", res["command"])
	assert.Equal(t, map[string]any{"name": "b"}, res["data"])

	meta := res["metadata"].(map[string]any)
	assert.Equal(t, "trace-1", meta["trace_id"])
	assert.Equal(t, constants.APIVersion, meta["api_version"])
	assert.EqualValues(t, 1, meta["summary"].(map[string]any)["warnings_count"])
}

func TestReporter_Fail(t *testing.T) {
	cause := errors.New("диск отвалился")

	t.Run("text", func(t *testing.T) {
		rep, out, _ := newReporter(t, output.FormatText)
		err := rep.Fail(apperrors.ErrIOFailed, "не вышло", cause)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrIOFailed, appErr.Code)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "Ошибка: не вышло\nКод: IO.FAILED\n", out.String())
	})

	t.Run("json", func(t *testing.T) {
		rep, out, _ := newReporter(t, output.FormatJSON)
		_ = rep.Fail(apperrors.ErrIOOpen, "нет файла", cause)

		var res output.Result
		require.NoError(t, json.Unmarshal(out.Bytes(), &res))
		assert.Equal(t, output.StatusError, res.Status)
		require.NotNil(t, res.Error)
		assert.Equal(t, apperrors.ErrIOOpen, res.Error.Code)
		assert.Equal(t, "нет файла", res.Error.Message)
	})
}

func TestReporter_FailErr(t *testing.T) {
	rep, _, _ := newReporter(t, output.FormatText)

	inner := apperrors.NewAppError(apperrors.ErrDiskTimeout, "долго", nil)
	err := rep.FailErr(apperrors.ErrIOFailed, "ошибка", fmt.Errorf("обёртка: %w", inner))
	assert.Equal(t, apperrors.ErrDiskTimeout, apperrors.CodeOf(err, ""))

	err = rep.FailErr(apperrors.ErrIOFailed, "ошибка", errors.New("x"))
	assert.Equal(t, apperrors.ErrIOFailed, apperrors.CodeOf(err, ""))
}

func TestReporter_Progress(t *testing.T) {
	tests := []struct {
		name   string
		format string
		mode   string
		total  int64
		noop   bool
	}{
		{"auto в тексте", output.FormatText, progress.ModeAuto, 100, false},
		{"auto в JSON", output.FormatJSON, progress.ModeAuto, 100, true},
		{"json в JSON", output.FormatJSON, progress.ModeJSON, 100, false},
		{"off", output.FormatText, progress.ModeOff, 100, true},
		{"пустой объём", output.FormatText, progress.ModeJSON, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, _, errOut := newReporter(t, tt.format)
			p := rep.Progress(tt.mode, tt.total)
			_, isNoop := p.(progress.Noop)
			assert.Equal(t, tt.noop, isNoop)

			p.Start("старт")
			p.Update(tt.total)
			p.Finish()
			if tt.noop {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestReporter_ProgressWithoutStderr(t *testing.T) {
	cfg := &config.Config{OutputFormat: output.FormatText}
	rep := NewReporter(context.Background(), "sample", cfg, &command.Deps{Stdout: &bytes.Buffer{}})
	_, isNoop := rep.Progress(progress.ModeJSON, 100).(progress.Noop)
	assert.True(t, isNoop)
}
