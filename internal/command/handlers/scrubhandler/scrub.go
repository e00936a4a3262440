// Package scrubhandler реализует команду scrub: MIO_SRC читается с конца
// кусками по MIO_CHUNK байт, куски в обратном порядке пишутся в MIO_DST.
package scrubhandler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/command/handlers/shared"
	"github.com/Kargones/mediaio/internal/config"
	"github.com/Kargones/mediaio/internal/constants"
	"github.com/Kargones/mediaio/internal/diskmon"
	"github.com/Kargones/mediaio/internal/fileio"
	"github.com/Kargones/mediaio/internal/pkg/apperrors"
	"github.com/Kargones/mediaio/internal/pkg/dryrun"
	"github.com/Kargones/mediaio/internal/pkg/output"
	"github.com/Kargones/mediaio/internal/pkg/progress"
	"github.com/Kargones/mediaio/internal/pkg/tracing"
)

// Режимы чтения источника.
const (
	ModeSlurp    = "slurp"
	ModeBuffered = "buffered"
)

// RegisterCmd регистрирует команду в реестре.
func RegisterCmd() {
	command.Register(&Handler{})
}

// Data: итог прохода.
type Data struct {
	Src    string `json:"src"`
	Dst    string `json:"dst"`
	Mode   string `json:"mode"`
	Bytes  int64  `json:"bytes"`
	Chunks int64  `json:"chunks"`

	// LoadOps: физические чтения до начала прохода (загрузка slurp).
	LoadOps int64 `json:"load_physical_ops"`
	// ScanOps: физические чтения во время прохода.
	ScanOps int64 `json:"scan_physical_ops"`
}

// WriteText выводит итог прохода.
func (d *Data) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Обратный проход: %s → %s\nРежим: %s\nБайт: %d, кусков: %d\nФизических чтений: загрузка %d, проход %d\n",
		d.Src, d.Dst, d.Mode, d.Bytes, d.Chunks, d.LoadOps, d.ScanOps)
	return err
}

// Handler обрабатывает команду scrub.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string { return constants.ActScrub }

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Чтение MIO_SRC с конца кусками MIO_CHUNK с записью в MIO_DST"
}

// Execute выполняет обратный проход. Файлы не больше MIO_IO_SLURP_MAX_SIZE
// загружаются в память целиком, остальные читаются через буфер.
func (h *Handler) Execute(ctx context.Context, cfg *config.Config, deps *command.Deps) error {
	rep := shared.NewReporter(ctx, constants.ActScrub, cfg, deps)
	src, dst := cfg.Params.Src, cfg.Params.Dst

	if src == "" || dst == "" {
		return rep.Fail(apperrors.ErrConfigValidate, "не заданы MIO_SRC и MIO_DST", nil)
	}
	if filepath.Clean(src) == filepath.Clean(dst) {
		return rep.Fail(apperrors.ErrConfigValidate, "MIO_SRC и MIO_DST указывают на один файл", nil)
	}
	info, err := os.Stat(src)
	if err != nil {
		return rep.Fail(apperrors.ErrIOOpen, fmt.Sprintf("исходный файл недоступен: %s", src), err)
	}
	if !info.Mode().IsRegular() {
		return rep.Fail(apperrors.ErrIOOpen, fmt.Sprintf("%s не является обычным файлом", src), nil)
	}

	mode := ModeSlurp
	if info.Size() > cfg.IO.SlurpMaxSize {
		mode = ModeBuffered
	}

	if dryrun.IsDryRun() {
		return rep.Success(buildPlan(cfg, mode, info.Size()), nil)
	}

	rep.Log.Info("Обратный проход", "src", src, "dst", dst, "mode", mode, "chunk", cfg.Params.Chunk)

	ctx, span := tracing.StartSpan(ctx, "command.scrub",
		attribute.String("src", src), attribute.String("mode", mode), attribute.Int("chunk", cfg.Params.Chunk))
	bar := rep.Progress(cfg.Progress, info.Size())
	bar.Start(fmt.Sprintf("Обратный проход %s", filepath.Base(src)))
	data, err := scrub(ctx, deps.IO, src, dst, mode, cfg.Params.Chunk, bar)
	bar.Finish()
	tracing.EndSpan(span, err)
	if err != nil {
		return rep.Fail(shared.IOCode(err), "обратный проход не выполнен", err)
	}

	summary := &output.SummaryInfo{}
	summary.AddMetric("Обработано", diskmon.FormatStorageSpace(uint64(data.Bytes)), "")
	summary.AddMetric("Кусков", fmt.Sprintf("%d", data.Chunks), "")
	if mode == ModeSlurp && data.ScanOps > 0 {
		summary.AddWarning(fmt.Sprintf("после загрузки выполнено %d физических чтений", data.ScanOps))
	}
	return rep.Success(data, summary)
}

func scrub(ctx context.Context, sub *fileio.Subsystem, src, dst, mode string, chunk int, bar progress.Progress) (_ *Data, err error) {
	rh, err := sub.Open(src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = sub.Close(rh) }()

	if mode == ModeSlurp {
		if err := sub.Slurp(ctx, rh, 0); err != nil {
			return nil, err
		}
		if err := sub.WaitLoaded(ctx, rh); err != nil {
			return nil, err
		}
	}
	loaded, err := sub.Stats(rh)
	if err != nil {
		return nil, err
	}

	if _, err := sub.Seek(rh, 0, io.SeekEnd); err != nil {
		return nil, err
	}
	if err := sub.SetReversed(rh, true); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dst), constants.DirPermStandard); err != nil {
		return nil, err
	}
	wh, err := sub.CreateNoSync(dst, constants.FilePermReadWrite)
	if err != nil {
		return nil, err
	}
	defer func() {
		cerr := sub.Close(wh)
		if errors.Is(cerr, fileio.ErrNotFound) || errors.Is(cerr, fileio.ErrClosed) {
			return
		}
		if cerr != nil && err == nil {
			err = cerr
		}
	}()

	data := &Data{Src: src, Dst: dst, Mode: mode, LoadOps: loaded.PhysicalOps}
	buf := make([]byte, chunk)
	for !sub.Eof(rh) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := sub.Read(rh, buf, true)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
		if _, err := sub.Write(wh, buf[:n], false); err != nil {
			return nil, err
		}
		data.Bytes += int64(n)
		data.Chunks++
		bar.Update(data.Bytes)
	}

	if _, err := sub.Flush(wh); err != nil {
		return nil, err
	}
	st, err := sub.Stats(rh)
	if err != nil {
		return nil, err
	}
	data.ScanOps = st.PhysicalOps - loaded.PhysicalOps
	return data, nil
}

func buildPlan(cfg *config.Config, mode string, size int64) *dryrun.Plan {
	return dryrun.BuildPlan(constants.ActScrub, []dryrun.Step{
		{
			Operation:  "open-reader",
			Parameters: map[string]any{"path": cfg.Params.Src, "bytes": size, "mode": mode},
		},
		{
			Operation:  "read-reversed",
			Parameters: map[string]any{"chunk": cfg.Params.Chunk},
		},
		{
			Operation:       "create-writer",
			Parameters:      map[string]any{"path": cfg.Params.Dst},
			ExpectedChanges: []string{fmt.Sprintf("%s будет создан или перезаписан", cfg.Params.Dst)},
		},
	}, fmt.Sprintf("обратный проход %s", diskmon.FormatStorageSpace(uint64(size))))
}
