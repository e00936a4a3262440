// Package storagestatushandler реализует команду storage-status: оценку
// свободного места рабочего каталога по порогам и квоте.
package storagestatushandler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/command/handlers/shared"
	"github.com/Kargones/mediaio/internal/config"
	"github.com/Kargones/mediaio/internal/constants"
	"github.com/Kargones/mediaio/internal/diskmon"
	"github.com/Kargones/mediaio/internal/pkg/alerting"
	"github.com/Kargones/mediaio/internal/pkg/output"
)

// RegisterCmd регистрирует команду в реестре.
func RegisterCmd() {
	command.Register(&Handler{})
}

var formatter = diskmon.NewFormatter(language.Russian)

// Data: отчёт о состоянии хранилища с порогами, по которым он получен.
type Data struct {
	diskmon.Report

	QuotaBytes    int64 `json:"quota_bytes"`
	WarningLevel  int64 `json:"warning_level"`
	CriticalLevel int64 `json:"critical_level"`
	ReservedBytes int64 `json:"reserved_bytes"`
}

// WriteText выводит отчёт.
func (d *Data) WriteText(w io.Writer) error {
	quota := "нет"
	if d.QuotaBytes > 0 {
		quota = formatter.StorageSpace(uint64(d.QuotaBytes))
	}
	free := "0 bytes"
	if d.Free > 0 {
		free = formatter.StorageSpace(uint64(d.Free))
	}
	_, err := fmt.Fprintf(w, "Каталог: %s\nСтатус: %s\nСвободно: %s\nЗанято: %s\nКвота: %s\n",
		d.Dir, d.Status, free, formatter.StorageSpace(uint64(d.Used)), quota)
	return err
}

// Handler обрабатывает команду storage-status.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string { return constants.ActStorageStatus }

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Оценка свободного места рабочего каталога по порогам и квоте"
}

// Execute считает занятое место и оценивает состояние. Любой статус,
// кроме normal, попадает в предупреждения сводки.
func (h *Handler) Execute(ctx context.Context, cfg *config.Config, deps *command.Deps) error {
	rep := shared.NewReporter(ctx, constants.ActStorageStatus, cfg, deps)
	dir := cfg.Params.Dir
	if dir == "" {
		dir = cfg.Disk.WorkDir
	}

	mon := deps.Monitor
	if mon == nil {
		mon = diskmon.NewMonitor(diskmon.WithLogger(rep.Log))
	}

	mon.Start(dir)
	used, err := mon.WaitResult(ctx, dir, cfg.Disk.WaitTimeout)
	if err != nil {
		return rep.Fail(shared.IOCode(err), fmt.Sprintf("не удалось определить размер каталога %s", dir), err)
	}

	th := cfg.Disk.Thresholds()
	report, err := diskmon.Status(dir, used, cfg.Disk.ReservedBytes, th)
	if err != nil {
		return rep.Fail(shared.IOCode(err), fmt.Sprintf("не удалось оценить свободное место %s", dir), err)
	}
	rep.Log.Info("Состояние хранилища", "dir", dir, "status", report.Status.String(),
		"free", report.Free, "used", report.Used)

	summary := &output.SummaryInfo{}
	summary.AddMetric("Статус", report.Status.String(), "")
	if report.Free > 0 {
		summary.AddMetric("Свободно", diskmon.FormatStorageSpace(uint64(report.Free)), "")
	}
	if msg := warning(report, th); msg != "" {
		rep.Log.Warn(msg, "dir", dir)
		summary.AddWarning(msg)
		notify(ctx, deps.Alerter, rep, report, msg)
	}

	return rep.Success(&Data{
		Report:        report,
		QuotaBytes:    th.QuotaBytes,
		WarningLevel:  th.WarningLevel,
		CriticalLevel: th.CriticalLevel,
		ReservedBytes: cfg.Disk.ReservedBytes,
	}, summary)
}

// notify отправляет алерт о состоянии хранилища. Ошибки доставки
// не влияют на результат команды.
func notify(ctx context.Context, a alerting.Alerter, rep *shared.Reporter, r diskmon.Report, msg string) {
	if a == nil {
		return
	}
	_ = a.Send(ctx, alerting.Alert{
		Code:      "STORAGE." + strings.ToUpper(r.Status.String()),
		Message:   msg,
		TraceID:   rep.TraceID(),
		Timestamp: time.Now(),
		Command:   constants.ActStorageStatus,
		Dir:       r.Dir,
		FreeBytes: r.Free,
		UsedBytes: r.Used,
		Severity:  severity(r.Status),
	})
}

func severity(s diskmon.StorageStatus) alerting.Severity {
	switch s {
	case diskmon.StatusCritical, diskmon.StatusOverflow:
		return alerting.SeverityCritical
	case diskmon.StatusNormal:
		return alerting.SeverityInfo
	default:
		return alerting.SeverityWarning
	}
}

func warning(r diskmon.Report, th diskmon.Thresholds) string {
	switch r.Status {
	case diskmon.StatusWarning:
		return fmt.Sprintf("свободного места меньше %s", diskmon.FormatStorageSpace(uint64(th.WarningLevel)))
	case diskmon.StatusCritical:
		return fmt.Sprintf("свободного места меньше критического уровня %s", diskmon.FormatStorageSpace(uint64(th.CriticalLevel)))
	case diskmon.StatusOverflow:
		return "место на томе исчерпано"
	case diskmon.StatusOverQuota:
		return fmt.Sprintf("занято больше %g%% квоты %s", th.QuotaWarnPercent, diskmon.FormatStorageSpace(uint64(th.QuotaBytes)))
	case diskmon.StatusUnknown:
		return "каталог недоступен для записи, свободное место не определено"
	default:
		return ""
	}
}
