// Package handlers явно регистрирует все обработчики команд. Регистрация
// без init() делает набор команд видимым в одном месте и не зависит от
// порядка импорта.
package handlers

import (
	"github.com/Kargones/mediaio/internal/command/handlers/copyhandler"
	"github.com/Kargones/mediaio/internal/command/handlers/diskusagehandler"
	"github.com/Kargones/mediaio/internal/command/handlers/help"
	"github.com/Kargones/mediaio/internal/command/handlers/scrubhandler"
	"github.com/Kargones/mediaio/internal/command/handlers/storagestatushandler"
	"github.com/Kargones/mediaio/internal/command/handlers/version"
)

// RegisterAll регистрирует все команды в глобальном реестре.
// Вызывается один раз из main(); повторный вызов паникует на дубликате.
func RegisterAll() {
	copyhandler.RegisterCmd()
	scrubhandler.RegisterCmd()
	diskusagehandler.RegisterCmd()
	storagestatushandler.RegisterCmd()
	version.RegisterCmd()
	help.RegisterCmd()
}
