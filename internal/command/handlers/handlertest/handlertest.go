// Package handlertest: общая обвязка тестов обработчиков команд.
package handlertest

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/config"
	"github.com/Kargones/mediaio/internal/diskmon"
	"github.com/Kargones/mediaio/internal/fileio"
	"github.com/Kargones/mediaio/internal/pkg/logging"
	"github.com/Kargones/mediaio/internal/pkg/metrics"
	"github.com/Kargones/mediaio/internal/pkg/output"
)

// Env: зависимости обработчика и перехваченный stdout.
type Env struct {
	Cfg  *config.Config
	Deps *command.Deps
	Out  *bytes.Buffer
}

// New собирает окружение с конфигурацией по умолчанию и форматом format.
// Подсистема ввода-вывода работает без mlock и рекомендаций ОС.
func New(t *testing.T, format string) *Env {
	t.Helper()
	t.Setenv("MIO_CONFIG", "")

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.OutputFormat = format
	cfg.IO.SkipMemoryLock = true

	out := &bytes.Buffer{}
	logger := logging.NewNopLogger()
	collector := metrics.NewNopCollector()
	return &Env{
		Cfg: cfg,
		Deps: &command.Deps{
			Logger:  logger,
			Metrics: collector,
			Output:  output.NewWriter(format),
			IO: fileio.New(cfg.IO.FileIO(),
				fileio.WithLogger(logger),
				fileio.WithMetrics(collector),
				fileio.WithHinter(fileio.NopHinter{}),
			),
			Monitor: diskmon.NewMonitor(diskmon.WithLogger(logger)),
			Stdout:  out,
		},
		Out: out,
	}
}

// Result разбирает JSON-вывод и проверяет его по схеме output.Result.
func (e *Env) Result(t *testing.T) map[string]any {
	t.Helper()

	raw := e.Out.Bytes()
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	require.NoError(t, err, "stdout должен содержать валидный JSON: %s", raw)
	require.NoError(t, schema(t).Validate(inst), "вывод не соответствует схеме: %s", raw)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

// Data возвращает секцию data JSON-вывода.
func (e *Env) Data(t *testing.T) map[string]any {
	t.Helper()
	data, ok := e.Result(t)["data"].(map[string]any)
	require.True(t, ok, "data должен быть объектом")
	return data
}

func schema(t *testing.T) *jsonschema.Schema {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	root := strings.TrimSuffix(filepath.Dir(file), filepath.Join("command", "handlers", "handlertest"))
	path := filepath.Join(root, "pkg", "output", "testdata", "schema", "result.schema.json")

	s, err := jsonschema.NewCompiler().Compile(path)
	require.NoError(t, err, "не удалось загрузить JSON Schema")
	return s
}
