// Package main содержит точку входа mediaio: утилиты буферизованного
// копирования и обхода медиафайлов и контроля дискового пространства.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/command/handlers"
	"github.com/Kargones/mediaio/internal/config"
	"github.com/Kargones/mediaio/internal/constants"
	"github.com/Kargones/mediaio/internal/di"
	"github.com/Kargones/mediaio/internal/pkg/tracing"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run выполняет команду и возвращает код завершения. os.Exit вызывается
// только в main, чтобы defer-ы (завершение трейсинга, span.End)
// успели отработать.
func run(args []string) int {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Не удалось загрузить конфигурацию приложения: %v\n", err)
		return constants.ExitConfig
	}
	if cfg.Command == "" && len(args) > 0 {
		cfg.Command = args[0]
	}
	if cfg.Command == "" {
		cfg.Command = constants.ActHelp
	}

	handlers.RegisterAll()

	app, err := di.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Не удалось инициализировать приложение: %v\n", err)
		return constants.ExitConfig
	}
	l := app.Logger.With("trace_id", app.TraceID, "command", cfg.Command)
	l.Debug("Информация о сборке",
		slog.String("version", constants.Version),
		slog.String("commit_hash", constants.PreCommitHash),
	)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.TracerShutdown(shutdownCtx); err != nil {
			l.Error("ошибка завершения tracing", slog.String("error", err.Error()))
		}
	}()

	handler, ok := command.Get(cfg.Command)
	if !ok {
		l.Error("неизвестная команда",
			slog.String("MIO_COMMAND", cfg.Command),
			slog.String(constants.MsgErrProcessing, constants.MsgAppExit),
		)
		fmt.Fprintf(os.Stderr, "Неизвестная команда %q, список команд: mediaio help\n", cfg.Command)
		return constants.ExitUnknownCommand
	}

	ctx := tracing.WithTraceID(context.Background(), app.TraceID)
	ctx = tracing.ContextWithOTelTraceID(ctx, app.TraceID)
	ctx, span := otel.Tracer("mediaio").Start(ctx, cfg.Command,
		trace.WithAttributes(
			attribute.String("command", cfg.Command),
			attribute.String("trace_id", app.TraceID),
		),
	)
	defer span.End()

	app.MetricsCollector.RecordCommandStart(cfg.Command)
	start := time.Now()

	execErr := handler.Execute(ctx, cfg, app.Deps)

	app.MetricsCollector.RecordCommandEnd(cfg.Command, time.Since(start), execErr == nil)
	_ = app.MetricsCollector.Push(ctx) // ошибки push логируются внутри

	if execErr != nil {
		l.Error("Ошибка выполнения команды",
			slog.String("error", execErr.Error()),
			slog.String(constants.MsgErrProcessing, constants.MsgAppExit),
		)
		return constants.ExitCommandFailed
	}
	return constants.ExitOK
}
