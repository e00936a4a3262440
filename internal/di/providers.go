package di

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/config"
	"github.com/Kargones/mediaio/internal/constants"
	"github.com/Kargones/mediaio/internal/diskmon"
	"github.com/Kargones/mediaio/internal/fileio"
	"github.com/Kargones/mediaio/internal/pkg/alerting"
	"github.com/Kargones/mediaio/internal/pkg/logging"
	"github.com/Kargones/mediaio/internal/pkg/metrics"
	"github.com/Kargones/mediaio/internal/pkg/output"
	"github.com/Kargones/mediaio/internal/pkg/tracing"
)

// ProvideLogger создаёт Logger по секции logging. При nil Config
// используются значения по умолчанию: info, text, stderr.
func ProvideLogger(cfg *config.Config) logging.Logger {
	if cfg == nil {
		return logging.NewLogger(logging.DefaultConfig())
	}
	return logging.NewLogger(cfg.Logging.Logging())
}

// ProvideOutputWriter создаёт JSONWriter или TextWriter по MIO_OUTPUT_FORMAT
// (поле OutputFormat, заполненное cleanenv).
func ProvideOutputWriter(cfg *config.Config) output.Writer {
	if cfg == nil || cfg.OutputFormat == "" {
		return output.NewWriter(output.FormatText)
	}
	return output.NewWriter(cfg.OutputFormat)
}

// ProvideTraceID генерирует trace_id запуска: 32 hex-символа.
func ProvideTraceID() string {
	return tracing.GenerateTraceID()
}

// ProvideMetricsCollector создаёт Collector по секции metrics.
// При выключенных метриках или ошибке создания возвращает NopCollector.
func ProvideMetricsCollector(cfg *config.Config, logger logging.Logger) metrics.Collector {
	if cfg == nil {
		return metrics.NewNopCollector()
	}

	collector, err := metrics.NewCollector(cfg.Metrics.Collector(), logger)
	if err != nil {
		logger.Error("ошибка создания MetricsCollector, используется NopCollector",
			slog.String("error", err.Error()),
		)
		return metrics.NewNopCollector()
	}
	return collector
}

// ProvideTracerProvider инициализирует OTel TracerProvider и возвращает
// функцию его завершения. При выключенном трейсинге или ошибке: nop.
func ProvideTracerProvider(cfg *config.Config, logger logging.Logger) tracing.Shutdown {
	nop := tracing.Shutdown(func(context.Context) error { return nil })
	if cfg == nil {
		return nop
	}

	shutdown, err := tracing.NewTracerProvider(cfg.Tracing.Tracer(constants.Version), logger)
	if err != nil {
		logger.Error("ошибка инициализации tracing, используется nop provider",
			slog.String("error", err.Error()),
		)
		return nop
	}
	return shutdown
}

// ProvideSubsystem создаёт подсистему ввода-вывода с рекомендациями ОС
// для текущей платформы.
func ProvideSubsystem(cfg *config.Config, logger logging.Logger, collector metrics.Collector) *fileio.Subsystem {
	fcfg := fileio.DefaultConfig()
	if cfg != nil {
		fcfg = cfg.IO.FileIO()
	}
	return fileio.New(fcfg,
		fileio.WithLogger(logger.With("component", "fileio")),
		fileio.WithMetrics(collector),
		fileio.WithHinter(fileio.NewOSHinter()),
	)
}

// ProvideAlerter создаёт Alerter по секции alerting. При выключенном
// алертинге или ошибке конфигурации: NopAlerter.
func ProvideAlerter(cfg *config.Config, logger logging.Logger) alerting.Alerter {
	if cfg == nil {
		return alerting.NewNopAlerter()
	}
	a, err := alerting.NewAlerter(cfg.Alert.Alerting(), logger.With("component", "alerting"))
	if err != nil {
		logger.Error("ошибка создания Alerter, используется NopAlerter",
			slog.String("error", err.Error()),
		)
		return alerting.NewNopAlerter()
	}
	return a
}

// ProvideMonitor создаёт монитор размера каталогов.
func ProvideMonitor(logger logging.Logger, collector metrics.Collector) *diskmon.Monitor {
	return diskmon.NewMonitor(
		diskmon.WithLogger(logger.With("component", "diskmon")),
		diskmon.WithMetrics(collector),
	)
}

// ProvideStdout возвращает поток результата команд.
func ProvideStdout() io.Writer {
	return os.Stdout
}

// ProvideDeps собирает зависимости обработчиков команд. Прогресс
// выводится в stderr процесса.
func ProvideDeps(
	logger logging.Logger,
	collector metrics.Collector,
	writer output.Writer,
	sub *fileio.Subsystem,
	mon *diskmon.Monitor,
	alerter alerting.Alerter,
	stdout io.Writer,
) *command.Deps {
	return &command.Deps{
		Logger:  logger,
		Metrics: collector,
		Output:  writer,
		IO:      sub,
		Monitor: mon,
		Alerter: alerter,
		Stdout:  stdout,
		Stderr:  os.Stderr,
	}
}
