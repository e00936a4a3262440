// Package dryrun предоставляет функции для работы с dry-run режимом.
// В dry-run режиме команды возвращают план действий без реального выполнения.
package dryrun

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Kargones/mediaio/internal/constants"
)

// IsDryRun проверяет включён ли dry-run режим.
// Возвращает true если переменная окружения MIO_DRY_RUN равна "true" или "1"
// (регистр не важен).
func IsDryRun() bool {
	val := os.Getenv(constants.EnvDryRun)
	return strings.EqualFold(val, "true") || val == "1"
}

// Plan содержит план операций команды.
type Plan struct {
	// Command: имя команды
	Command string `json:"command"`
	// Steps: шаги плана
	Steps []Step `json:"steps"`
	// Summary: краткое описание плана
	Summary string `json:"summary,omitempty"`
}

// Step описывает один шаг плана.
type Step struct {
	Order      int            `json:"order"`
	Operation  string         `json:"operation"`
	Parameters map[string]any `json:"parameters"`
	// ExpectedChanges: что изменится на диске, если выполнить шаг
	ExpectedChanges []string `json:"expected_changes,omitempty"`
}

// BuildPlan нумерует шаги по порядку и собирает план.
func BuildPlan(command string, steps []Step, summary string) *Plan {
	for i := range steps {
		steps[i].Order = i + 1
	}
	return &Plan{Command: command, Steps: steps, Summary: summary}
}

// WriteText выводит план в человекочитаемом формате.
// Параметры шага печатаются в порядке ключей.
func (p *Plan) WriteText(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("\n=== DRY RUN ===\n")
	fmt.Fprintf(&sb, "Команда: %s\n\n", p.Command)
	sb.WriteString("План выполнения:\n")
	for _, step := range p.Steps {
		fmt.Fprintf(&sb, "  %d. %s\n", step.Order, step.Operation)

		keys := make([]string, 0, len(step.Parameters))
		for k := range step.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "     %s: %v\n", k, step.Parameters[k])
		}
		for _, change := range step.ExpectedChanges {
			fmt.Fprintf(&sb, "     → %s\n", change)
		}
	}
	if p.Summary != "" {
		fmt.Fprintf(&sb, "\nИтого: %s\n", p.Summary)
	}
	sb.WriteString("=== END DRY RUN ===\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
