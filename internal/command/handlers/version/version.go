// Package version реализует команду version: версия приложения,
// версия Go и параметры подсистемы ввода-вывода.
package version

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/command/handlers/shared"
	"github.com/Kargones/mediaio/internal/config"
	"github.com/Kargones/mediaio/internal/constants"
	"github.com/Kargones/mediaio/internal/fileio"
)

// RegisterCmd регистрирует команду в реестре.
func RegisterCmd() {
	command.Register(&VersionHandler{})
}

// VersionData содержит информацию о версии приложения.
type VersionData struct {
	// Version: полная версия приложения.
	Version string `json:"version"`

	// GoVersion: версия Go, использованная при сборке.
	GoVersion string `json:"go_version"`

	// Commit: хеш коммита на момент сборки.
	Commit string `json:"commit"`

	// Platform: GOOS/GOARCH.
	Platform string `json:"platform"`

	// BufferSizes: размеры классов буферов чтения при текущей конфигурации.
	BufferSizes map[string]int `json:"buffer_sizes"`
}

// WriteText выводит информацию о версии в человекочитаемом формате.
func (d *VersionData) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "mediaio version %s\n  Go:       %s\n  Commit:   %s\n  Platform: %s\n",
		d.Version, d.GoVersion, d.Commit, d.Platform)
	return err
}

// buildVersionData создаёт VersionData с fallback значениями.
// Если version пустой: используется "dev", если commit пустой: "unknown".
func buildVersionData(version, commit string, policy *fileio.Policy) *VersionData {
	if version == "" {
		version = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
	sizes := make(map[string]int)
	for _, c := range []fileio.SizeClass{fileio.ClassSmall, fileio.ClassSmallMed, fileio.ClassMed, fileio.ClassLarge} {
		sizes[c.String()] = policy.ReadSize(c)
	}
	return &VersionData{
		Version:     version,
		GoVersion:   runtime.Version(),
		Commit:      commit,
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		BufferSizes: sizes,
	}
}

// VersionHandler обрабатывает команду version.
type VersionHandler struct{}

// Name возвращает имя команды.
func (h *VersionHandler) Name() string {
	return constants.ActVersion
}

// Description возвращает описание команды для вывода в help.
func (h *VersionHandler) Description() string {
	return "Вывод информации о версии приложения"
}

// Execute собирает данные о версии и выводит результат.
func (h *VersionHandler) Execute(ctx context.Context, cfg *config.Config, deps *command.Deps) error {
	rep := shared.NewReporter(ctx, constants.ActVersion, cfg, deps)

	policy := fileio.NewPolicy(cfg.IO.BlockSize, cfg.IO.CacheLineSize)
	if deps.IO != nil {
		policy = deps.IO.Policy()
	}
	return rep.Success(buildVersionData(constants.Version, constants.PreCommitHash, policy), nil)
}
