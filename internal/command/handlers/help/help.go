// Package help реализует команду help для вывода списка всех доступных команд.
package help

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/command/handlers/shared"
	"github.com/Kargones/mediaio/internal/config"
	"github.com/Kargones/mediaio/internal/constants"
)

// RegisterCmd регистрирует команду в реестре.
func RegisterCmd() {
	command.Register(&Handler{})
}

// Data содержит информацию обо всех доступных командах.
type Data struct {
	Commands []CommandInfo `json:"commands"`
}

// CommandInfo описывает одну команду.
type CommandInfo struct {
	// Name: имя команды.
	Name string `json:"name"`
	// Description: описание команды.
	Description string `json:"description"`
}

// options: переменные окружения, влияющие на все команды.
var options = [][2]string{
	{"MIO_COMMAND=<имя>", "Команда (или первый аргумент)"},
	{"MIO_CONFIG=<путь>", "YAML-файл конфигурации"},
	{"MIO_OUTPUT_FORMAT=json", "Машиночитаемый вывод"},
	{"MIO_DRY_RUN=true", "Dry-run: план без изменения файлов"},
	{"MIO_SRC, MIO_DST", "Файлы для copy и scrub"},
	{"MIO_CHUNK=<байт>", "Размер куска чтения в copy и scrub"},
	{"MIO_RING=true", "Фоновый сброс буфера записи в copy"},
	{"MIO_DIR=<каталог>", "Каталог для disk-usage и storage-status"},
	{"MIO_PROGRESS=auto|off|json", "Индикатор прогресса copy и scrub в stderr"},
	{"MIO_ALERT_URLS=<url,...>", "Webhook для алертов storage-status (с MIO_ALERT_ENABLED=true)"},
}

// Handler обрабатывает команду help.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActHelp
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Вывод списка доступных команд"
}

// Execute собирает список команд из реестра и выводит результат.
func (h *Handler) Execute(ctx context.Context, cfg *config.Config, deps *command.Deps) error {
	rep := shared.NewReporter(ctx, constants.ActHelp, cfg, deps)
	return rep.Success(buildData(), nil)
}

// buildData собирает информацию обо всех зарегистрированных командах.
func buildData() *Data {
	data := &Data{}
	for name, handler := range command.All() {
		data.Commands = append(data.Commands, CommandInfo{
			Name:        name,
			Description: handler.Description(),
		})
	}
	sort.Slice(data.Commands, func(i, j int) bool {
		return data.Commands[i].Name < data.Commands[j].Name
	})
	return data
}

// WriteText выводит информацию о командах в человекочитаемом формате.
func (d *Data) WriteText(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("mediaio: буферизованный файловый ввод-вывод и контроль дискового пространства\n")
	sb.WriteString("\nКоманды:\n")

	// Определяем максимальную длину имени для выравнивания
	maxLen := 0
	for _, cmd := range d.Commands {
		maxLen = max(maxLen, len(cmd.Name))
	}
	for _, cmd := range d.Commands {
		fmt.Fprintf(&sb, "  %-*s  %s\n", maxLen, cmd.Name, cmd.Description)
	}

	sb.WriteString("\nОпции:\n")
	for _, opt := range options {
		fmt.Fprintf(&sb, "  %-24s %s\n", opt[0], opt[1])
	}

	_, err := fmt.Fprint(w, sb.String())
	return err
}
