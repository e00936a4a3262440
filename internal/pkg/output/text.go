package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const summaryDivider = "══════════════════════════════════════════════════════"

// TextWriter пишет Result в человекочитаемом виде.
type TextWriter struct{}

// NewTextWriter создаёт TextWriter.
func NewTextWriter() *TextWriter { return &TextWriter{} }

// Write выводит статус, ошибку, данные и, для успешных команд, сводку.
func (t *TextWriter) Write(w io.Writer, result *Result) error {
	if result == nil {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", result.Command, result.Status)

	if result.Error != nil {
		fmt.Fprintf(&b, "Error [%s]: %s\n", result.Error.Code, result.Error.Message)
	}

	if result.Data != nil {
		data, err := json.MarshalIndent(result.Data, "", "  ")
		if err != nil {
			return fmt.Errorf("не удалось сериализовать Data: %w", err)
		}
		fmt.Fprintf(&b, "Data: %s\n", data)
	}

	if result.Status != StatusError {
		writeSummary(&b, result)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSummary(b *strings.Builder, result *Result) {
	fmt.Fprintf(b, "\n%s\n📊 Сводка\n%s\n", summaryDivider, summaryDivider)

	if result.Metadata != nil && result.Metadata.DurationMs > 0 {
		fmt.Fprintf(b, "⏱️  Время выполнения: %s\n", formatDuration(result.Metadata.DurationMs))
	}

	if s := result.Summary; s != nil {
		for _, m := range s.KeyMetrics {
			if m.Unit != "" {
				fmt.Fprintf(b, "📈 %s: %s %s\n", m.Name, m.Value, m.Unit)
			} else {
				fmt.Fprintf(b, "📈 %s: %s\n", m.Name, m.Value)
			}
		}
		if s.WarningsCount > 0 {
			fmt.Fprintf(b, "\n⚠️  Предупреждений: %d\n", s.WarningsCount)
			for _, warn := range s.Warnings {
				fmt.Fprintf(b, "   • %s\n", warn)
			}
		}
	}

	fmt.Fprintf(b, "%s\n", summaryDivider)
}

// formatDuration: "850мс", "2.5с", "3м 12с".
func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dмс", ms)
	}
	sec := ms / 1000
	if sec < 60 {
		return fmt.Sprintf("%.1fс", float64(ms)/1000)
	}
	return fmt.Sprintf("%dм %dс", sec/60, sec%60)
}
