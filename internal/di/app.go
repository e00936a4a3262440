package di

import (
	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/config"
	"github.com/Kargones/mediaio/internal/diskmon"
	"github.com/Kargones/mediaio/internal/fileio"
	"github.com/Kargones/mediaio/internal/pkg/alerting"
	"github.com/Kargones/mediaio/internal/pkg/logging"
	"github.com/Kargones/mediaio/internal/pkg/metrics"
	"github.com/Kargones/mediaio/internal/pkg/output"
	"github.com/Kargones/mediaio/internal/pkg/tracing"
)

// App содержит инициализированные зависимости приложения.
// Создаётся через Wire DI в InitializeApp().
//
// При добавлении новых зависимостей:
// 1. Добавить поле в App struct
// 2. Создать провайдер в providers.go
// 3. Добавить провайдер в ProviderSet в wire.go
// 4. Перегенерировать wire_gen.go: go generate ./internal/di/...
type App struct {
	// Config передаётся извне через InitializeApp().
	Config *config.Config

	// Logger создаётся через ProvideLogger на основе секции logging.
	Logger logging.Logger

	// OutputWriter форматирует результаты команд (MIO_OUTPUT_FORMAT).
	OutputWriter output.Writer

	// TraceID: идентификатор запуска для корреляции логов и span-ов.
	TraceID string

	// MetricsCollector отправляет метрики в Pushgateway.
	// Если метрики отключены: NopCollector.
	MetricsCollector metrics.Collector

	// TracerShutdown завершает OTel TracerProvider и отправляет
	// буферизированные span-ы. Если трейсинг отключён: nop.
	TracerShutdown tracing.Shutdown

	// IO: подсистема буферизованного ввода-вывода.
	IO *fileio.Subsystem

	// Monitor считает размер каталогов в фоне.
	Monitor *diskmon.Monitor

	// Alerter отправляет оповещения о состоянии хранилища.
	Alerter alerting.Alerter

	// Deps: зависимости, передаваемые обработчикам команд.
	Deps *command.Deps
}
