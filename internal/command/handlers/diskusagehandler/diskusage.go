// Package diskusagehandler реализует команду disk-usage: размер каталога
// считается монитором в фоне, команда ждёт результат не дольше
// MIO_DISK_WAIT_TIMEOUT.
package diskusagehandler

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"

	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/command/handlers/shared"
	"github.com/Kargones/mediaio/internal/config"
	"github.com/Kargones/mediaio/internal/constants"
	"github.com/Kargones/mediaio/internal/diskmon"
	"github.com/Kargones/mediaio/internal/pkg/output"
)

// RegisterCmd регистрирует команду в реестре.
func RegisterCmd() {
	command.Register(&Handler{})
}

var formatter = diskmon.NewFormatter(language.Russian)

// Data: размер каталога.
type Data struct {
	Dir   string `json:"dir"`
	Bytes int64  `json:"bytes"`
	Human string `json:"human"`
}

// WriteText выводит размер каталога.
func (d *Data) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Каталог: %s\nЗанято: %s (%s байт)\n", d.Dir, d.Human, formatter.Bytes(d.Bytes))
	return err
}

// Handler обрабатывает команду disk-usage.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string { return constants.ActDiskUsage }

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Размер каталога MIO_DIR (по умолчанию рабочего каталога)"
}

// Execute запускает подсчёт и ждёт результат.
func (h *Handler) Execute(ctx context.Context, cfg *config.Config, deps *command.Deps) error {
	rep := shared.NewReporter(ctx, constants.ActDiskUsage, cfg, deps)
	dir := cfg.Params.Dir
	if dir == "" {
		dir = cfg.Disk.WorkDir
	}

	mon := deps.Monitor
	if mon == nil {
		mon = diskmon.NewMonitor(diskmon.WithLogger(rep.Log))
	}

	rep.Log.Info("Подсчёт размера каталога", "dir", dir, "timeout", cfg.Disk.WaitTimeout.String())
	start := time.Now()
	mon.Start(dir)
	size, err := mon.WaitResult(ctx, dir, cfg.Disk.WaitTimeout)
	if err != nil {
		return rep.Fail(shared.IOCode(err), fmt.Sprintf("не удалось определить размер каталога %s", dir), err)
	}
	rep.Log.Debug("Размер каталога получен", "dir", dir, "bytes", size, "duration", time.Since(start).String())

	data := &Data{Dir: dir, Bytes: size, Human: formatter.StorageSpace(uint64(size))}
	summary := &output.SummaryInfo{}
	summary.AddMetric("Занято", diskmon.FormatStorageSpace(uint64(size)), "")
	return rep.Success(data, summary)
}
