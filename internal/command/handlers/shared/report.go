// Package shared содержит общие компоненты обработчиков команд:
// вывод результата и ошибки в формате, выбранном MIO_OUTPUT_FORMAT.
package shared

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/config"
	"github.com/Kargones/mediaio/internal/constants"
	"github.com/Kargones/mediaio/internal/diskmon"
	"github.com/Kargones/mediaio/internal/pkg/apperrors"
	"github.com/Kargones/mediaio/internal/pkg/logging"
	"github.com/Kargones/mediaio/internal/pkg/output"
	"github.com/Kargones/mediaio/internal/pkg/progress"
	"github.com/Kargones/mediaio/internal/pkg/tracing"
)

// TextData: данные команды со своим текстовым представлением.
type TextData interface {
	WriteText(w io.Writer) error
}

// Reporter выводит результат одной команды.
type Reporter struct {
	command string
	json    bool
	writer  output.Writer
	out     io.Writer
	errOut  io.Writer
	start   time.Time
	traceID string

	// Log: логгер с полями trace_id и command.
	Log logging.Logger
}

// NewReporter создаёт Reporter для команды name. Отсчёт длительности
// начинается в момент вызова.
func NewReporter(ctx context.Context, name string, cfg *config.Config, deps *command.Deps) *Reporter {
	traceID := tracing.TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = tracing.GenerateTraceID()
	}
	writer := deps.Output
	if writer == nil {
		writer = output.NewWriter(cfg.OutputFormat)
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Reporter{
		command: name,
		json:    isJSON(cfg.OutputFormat),
		writer:  writer,
		out:     deps.Stdout,
		errOut:  deps.Stderr,
		start:   time.Now(),
		traceID: traceID,
		Log:     logger.With("trace_id", traceID, "command", name),
	}
}

// TraceID возвращает идентификатор трассировки команды.
func (r *Reporter) TraceID() string { return r.traceID }

// JSON сообщает, выбран ли машиночитаемый вывод.
func (r *Reporter) JSON() bool { return r.json }

// Success выводит data: в тексте через data.WriteText и сводку summary,
// в JSON как output.Result.
func (r *Reporter) Success(data TextData, summary *output.SummaryInfo) error {
	if !r.json {
		if err := data.WriteText(r.out); err != nil {
			return err
		}
		if summary == nil {
			return nil
		}
		return r.writer.Write(r.out, &output.Result{
			Status:   output.StatusSuccess,
			Command:  r.command,
			Metadata: r.metadata(),
			Summary:  summary,
		})
	}

	result := &output.Result{
		Status:   output.StatusSuccess,
		Command:  r.command,
		Data:     data,
		Metadata: r.metadata(),
		Summary:  summary,
	}
	return r.writer.Write(r.out, result)
}

// Fail логирует ошибку, выводит её и возвращает *apperrors.AppError
// с кодом code.
func (r *Reporter) Fail(code, message string, cause error) error {
	appErr := apperrors.NewAppError(code, message, cause)
	r.Log.Error(message, "code", code, "error", appErr.Error())

	if !r.json {
		_, _ = fmt.Fprintf(r.out, "Ошибка: %s\nКод: %s\n", message, code)
		return appErr
	}

	result := &output.Result{
		Status:   output.StatusError,
		Command:  r.command,
		Error:    &output.ErrorInfo{Code: code, Message: message},
		Metadata: r.metadata(),
	}
	if err := r.writer.Write(r.out, result); err != nil {
		r.Log.Error("Не удалось записать JSON-ответ об ошибке", "error", err.Error())
	}
	return appErr
}

// FailErr: Fail, где код берётся из AppError в цепочке err,
// а при его отсутствии используется fallback.
func (r *Reporter) FailErr(fallback, message string, err error) error {
	return r.Fail(apperrors.CodeOf(err, fallback), message, err)
}

// Progress создаёт индикатор прогресса на total байт в режиме mode.
// В режиме auto при JSON-выводе прогресс отключается, чтобы не смешивать
// машиночитаемый результат с индикатором.
func (r *Reporter) Progress(mode string, total int64) progress.Progress {
	if strings.EqualFold(mode, progress.ModeAuto) && r.json {
		mode = progress.ModeOff
	}
	return progress.New(mode, progress.Options{
		Total:  total,
		Output: r.errOut,
		Logger: r.Log,
		Amount: func(n int64) string { return diskmon.FormatStorageSpace(uint64(max(n, 0))) },
	})
}

func (r *Reporter) metadata() *output.Metadata {
	return &output.Metadata{
		DurationMs: time.Since(r.start).Milliseconds(),
		TraceID:    r.traceID,
		APIVersion: constants.APIVersion,
	}
}

func isJSON(format string) bool {
	return strings.EqualFold(format, output.FormatJSON)
}
