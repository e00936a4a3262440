// Package command предоставляет интерфейсы и реестр для команд приложения.
// Обработчики регистрируются явно через handlers.RegisterAll.
package command

import (
	"context"
	"io"

	"github.com/Kargones/mediaio/internal/config"
	"github.com/Kargones/mediaio/internal/diskmon"
	"github.com/Kargones/mediaio/internal/fileio"
	"github.com/Kargones/mediaio/internal/pkg/alerting"
	"github.com/Kargones/mediaio/internal/pkg/logging"
	"github.com/Kargones/mediaio/internal/pkg/metrics"
	"github.com/Kargones/mediaio/internal/pkg/output"
)

// Handler определяет интерфейс обработчика команды.
type Handler interface {
	// Name возвращает имя команды для регистрации в реестре.
	// Должно соответствовать константам из internal/constants.
	Name() string

	// Description возвращает описание команды для вывода в help.
	Description() string

	// Execute выполняет команду. Результат пишется в deps.Stdout,
	// ошибка возвращается для кода завершения процесса.
	Execute(ctx context.Context, cfg *config.Config, deps *Deps) error
}

// Deps: зависимости, общие для всех обработчиков. Собирается через Wire
// (di.ProvideDeps) в main и вручную в тестах.
type Deps struct {
	Logger  logging.Logger
	Metrics metrics.Collector
	Output  output.Writer

	// IO: подсистема буферизованного ввода-вывода.
	IO *fileio.Subsystem

	// Monitor: монитор размера каталогов.
	Monitor *diskmon.Monitor

	// Alerter получает оповещения storage-status. nil: без оповещений.
	Alerter alerting.Alerter

	// Stdout принимает результат команды; логи идут в Logger.
	Stdout io.Writer

	// Stderr принимает индикатор прогресса. nil отключает прогресс.
	Stderr io.Writer
}
