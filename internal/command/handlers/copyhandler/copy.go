// Package copyhandler реализует команду copy: файл MIO_SRC копируется в
// MIO_DST через буферизованные чтение и запись.
package copyhandler

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/language"

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

// RegisterCmd регистрирует команду в реестре.
func RegisterCmd() {
	command.Register(&Handler{})
}

var formatter = diskmon.NewFormatter(language.Russian)

// Data: итог копирования.
type Data struct {
	Src   string `json:"src"`
	Dst   string `json:"dst"`
	Bytes int64  `json:"bytes"`
	Ring  bool   `json:"ring"`

	// Checksum: BLAKE3 скопированных байт в hex.
	Checksum string `json:"blake3"`

	ReadOps       int64  `json:"read_ops"`
	ReadPhysical  int64  `json:"read_physical_ops"`
	ReadClass     string `json:"read_class"`
	WriteOps      int64  `json:"write_ops"`
	WritePhysical int64  `json:"write_physical_ops"`
	WriteClass    string `json:"write_class"`
}

// WriteText выводит итог копирования.
func (d *Data) WriteText(w io.Writer) error {
	mode := "синхронный сброс"
	if d.Ring {
		mode = "фоновый сброс (ring)"
	}
	_, err := fmt.Fprintf(w,
		"Скопировано: %s → %s\nБайт: %s\nBLAKE3: %s\nЗапись: %s\nЧтение: %d операций, %d обращений к файлу, класс %s\nЗапись: %d операций, %d обращений к файлу, класс %s\n",
		d.Src, d.Dst, formatter.Bytes(d.Bytes), d.Checksum, mode,
		d.ReadOps, d.ReadPhysical, d.ReadClass,
		d.WriteOps, d.WritePhysical, d.WriteClass)
	return err
}

// Handler обрабатывает команду copy.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string { return constants.ActCopy }

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Копирование MIO_SRC в MIO_DST через буферизованный ввод-вывод"
}

// Execute проверяет параметры и копирует файл. При MIO_DRY_RUN выводит план.
func (h *Handler) Execute(ctx context.Context, cfg *config.Config, deps *command.Deps) error {
	rep := shared.NewReporter(ctx, constants.ActCopy, cfg, deps)
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

	if dryrun.IsDryRun() {
		return rep.Success(buildPlan(cfg, info.Size()), nil)
	}

	rep.Log.Info("Копирование файла", "src", src, "dst", dst, "bytes", info.Size(), "ring", cfg.IO.Ring)
	start := time.Now()

	ctx, span := tracing.StartSpan(ctx, "command.copy",
		attribute.String("src", src), attribute.String("dst", dst), attribute.Bool("ring", cfg.IO.Ring))
	bar := rep.Progress(cfg.Progress, info.Size())
	bar.Start(fmt.Sprintf("Копирование %s", filepath.Base(src)))
	data, err := copyFile(ctx, deps.IO, src, dst, cfg.IO.Ring, cfg.Params.Chunk, bar)
	bar.Finish()
	tracing.EndSpan(span, err)
	if err != nil {
		return rep.Fail(shared.IOCode(err), "копирование не выполнено", err)
	}

	elapsed := time.Since(start)
	rep.Log.Info("Копирование завершено", "bytes", data.Bytes, "duration", elapsed.String())

	summary := &output.SummaryInfo{}
	summary.AddMetric("Скопировано", diskmon.FormatStorageSpace(uint64(data.Bytes)), "")
	if secs := elapsed.Seconds(); secs > 0 {
		summary.AddMetric("Скорость", diskmon.FormatStorageSpace(uint64(float64(data.Bytes)/secs)), "/с")
	}
	if data.Bytes != info.Size() {
		summary.AddWarning(fmt.Sprintf("размер источника изменился во время копирования: было %d, скопировано %d",
			info.Size(), data.Bytes))
	}
	return rep.Success(data, summary)
}

// copyFile копирует src в dst кусками по chunk байт. Приёмник создаётся
// заново; при ring сброс буфера записи идёт в фоне. После каждого куска
// bar получает число скопированных байт.
func copyFile(ctx context.Context, sub *fileio.Subsystem, src, dst string, ring bool, chunk int, bar progress.Progress) (_ *Data, err error) {
	rh, err := sub.Open(src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = sub.Close(rh) }()

	if err := os.MkdirAll(filepath.Dir(dst), constants.DirPermStandard); err != nil {
		return nil, err
	}
	wh, err := sub.CreateNoSync(dst, constants.FilePermReadWrite)
	if err != nil {
		return nil, err
	}
	defer func() {
		// после сбоя записи дескриптор уже закрыт подсистемой
		cerr := sub.Close(wh)
		if errors.Is(cerr, fileio.ErrNotFound) || errors.Is(cerr, fileio.ErrClosed) {
			return
		}
		if cerr != nil && err == nil {
			err = cerr
		}
	}()

	if ring {
		if err := sub.SetRingMode(wh); err != nil {
			return nil, err
		}
	}

	data := &Data{Src: src, Dst: dst, Ring: ring}
	sum := blake3.New()
	buf := make([]byte, chunk)
	for {
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
		_, _ = sum.Write(buf[:n])
		data.Bytes += int64(n)
		bar.Update(data.Bytes)
	}

	if err := sub.Sync(wh); err != nil {
		return nil, err
	}
	data.Checksum = hex.EncodeToString(sum.Sum(nil))

	rs, err := sub.Stats(rh)
	if err != nil {
		return nil, err
	}
	ws, err := sub.Stats(wh)
	if err != nil {
		return nil, err
	}
	data.ReadOps, data.ReadPhysical, data.ReadClass = rs.Ops, rs.PhysicalOps, rs.Class.String()
	data.WriteOps, data.WritePhysical, data.WriteClass = ws.Ops, ws.PhysicalOps, ws.Class.String()
	return data, nil
}

func buildPlan(cfg *config.Config, size int64) *dryrun.Plan {
	mode := "sync"
	if cfg.IO.Ring {
		mode = "ring"
	}
	return dryrun.BuildPlan(constants.ActCopy, []dryrun.Step{
		{
			Operation:  "open-reader",
			Parameters: map[string]any{"path": cfg.Params.Src, "bytes": size},
		},
		{
			Operation:       "create-writer",
			Parameters:      map[string]any{"path": cfg.Params.Dst, "flush": mode, "preallocate": cfg.IO.Preallocate},
			ExpectedChanges: []string{fmt.Sprintf("%s будет создан или перезаписан", cfg.Params.Dst)},
		},
		{
			Operation:  "copy",
			Parameters: map[string]any{"chunk": cfg.Params.Chunk},
		},
	}, fmt.Sprintf("копирование %s", diskmon.FormatStorageSpace(uint64(size))))
}
