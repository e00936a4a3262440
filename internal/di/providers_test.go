package di

import (
	"bytes"
	"context"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/mediaio/internal/config"
	"github.com/Kargones/mediaio/internal/fileio"
	"github.com/Kargones/mediaio/internal/pkg/alerting"
	"github.com/Kargones/mediaio/internal/pkg/logging"
	"github.com/Kargones/mediaio/internal/pkg/metrics"
	"github.com/Kargones/mediaio/internal/pkg/output"
)

var traceIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("MIO_CONFIG", "")
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestProvideLogger(t *testing.T) {
	assert.NotNil(t, ProvideLogger(nil), "nil Config даёт логгер по умолчанию")
	assert.NotNil(t, ProvideLogger(loadConfig(t)))
}

func TestProvideOutputWriter(t *testing.T) {
	tests := []struct {
		name   string
		cfg    *config.Config
		isJSON bool
	}{
		{"nil config", nil, false},
		{"пустой формат", &config.Config{}, false},
		{"text", &config.Config{OutputFormat: "text"}, false},
		{"json", &config.Config{OutputFormat: "json"}, true},
		{"JSON в верхнем регистре", &config.Config{OutputFormat: "JSON"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ProvideOutputWriter(tt.cfg)
			require.NotNil(t, w)
			_, ok := w.(*output.JSONWriter)
			assert.Equal(t, tt.isJSON, ok)
		})
	}
}

func TestProvideTraceID(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		id := ProvideTraceID()
		require.Regexp(t, traceIDPattern, id)
		_, dup := seen[id]
		require.False(t, dup, "trace_id должен быть уникальным")
		seen[id] = struct{}{}
	}
}

func TestProvideMetricsCollector(t *testing.T) {
	logger := logging.NewNopLogger()

	t.Run("nil config", func(t *testing.T) {
		_, ok := ProvideMetricsCollector(nil, logger).(*metrics.NopCollector)
		assert.True(t, ok)
	})

	t.Run("выключены", func(t *testing.T) {
		_, ok := ProvideMetricsCollector(loadConfig(t), logger).(*metrics.NopCollector)
		assert.True(t, ok)
	})

	t.Run("включены", func(t *testing.T) {
		cfg := loadConfig(t)
		cfg.Metrics.Enabled = true
		cfg.Metrics.PushgatewayURL = "http://localhost:9091"
		_, ok := ProvideMetricsCollector(cfg, logger).(*metrics.PrometheusCollector)
		assert.True(t, ok)
	})

	t.Run("ошибка конфигурации", func(t *testing.T) {
		cfg := loadConfig(t)
		cfg.Metrics.Enabled = true
		cfg.Metrics.PushgatewayURL = ""
		_, ok := ProvideMetricsCollector(cfg, logger).(*metrics.NopCollector)
		assert.True(t, ok, "при ошибке используется NopCollector")
	})
}

func TestProvideTracerProvider_Disabled(t *testing.T) {
	logger := logging.NewNopLogger()

	for _, cfg := range []*config.Config{nil, loadConfig(t)} {
		shutdown := ProvideTracerProvider(cfg, logger)
		require.NotNil(t, shutdown)
		assert.NoError(t, shutdown(context.Background()))
	}
}

func TestProvideTracerProvider_InvalidFallsBackToNop(t *testing.T) {
	cfg := loadConfig(t)
	cfg.Tracing.Enabled = true
	cfg.Tracing.Endpoint = ""

	shutdown := ProvideTracerProvider(cfg, logging.NewNopLogger())
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestProvideSubsystem(t *testing.T) {
	logger := logging.NewNopLogger()
	collector := metrics.NewNopCollector()

	def := ProvideSubsystem(nil, logger, collector)
	require.NotNil(t, def)
	assert.Equal(t, 64, def.Policy().ReadSize(fileio.ClassSmall), "малый класс равен строке кэша")

	cfg := loadConfig(t)
	cfg.IO.CacheLineSize = 128
	sub := ProvideSubsystem(cfg, logger, collector)
	assert.Equal(t, 128, sub.Policy().ReadSize(fileio.ClassSmall))
	assert.Zero(t, sub.Len())
}

func TestProvideAlerter(t *testing.T) {
	logger := logging.NewNopLogger()

	assert.IsType(t, &alerting.NopAlerter{}, ProvideAlerter(nil, logger))

	cfg := loadConfig(t)
	assert.IsType(t, &alerting.NopAlerter{}, ProvideAlerter(cfg, logger), "выключено по умолчанию")

	cfg.Alert.Enabled = true
	cfg.Alert.URLs = []string{"https://hooks.example.com/storage"}
	assert.IsType(t, &alerting.WebhookAlerter{}, ProvideAlerter(cfg, logger))

	cfg.Alert.URLs = []string{"ftp://hooks.example.com"}
	assert.IsType(t, &alerting.NopAlerter{}, ProvideAlerter(cfg, logger), "ошибка конфигурации")
}

func TestProvideDeps(t *testing.T) {
	logger := logging.NewNopLogger()
	collector := metrics.NewNopCollector()
	writer := output.NewWriter(output.FormatText)
	sub := ProvideSubsystem(nil, logger, collector)
	mon := ProvideMonitor(logger, collector)
	out := &bytes.Buffer{}

	alerter := alerting.NewNopAlerter()

	deps := ProvideDeps(logger, collector, writer, sub, mon, alerter, out)

	assert.Same(t, sub, deps.IO)
	assert.Same(t, mon, deps.Monitor)
	assert.Equal(t, alerter, deps.Alerter)
	assert.Equal(t, out, deps.Stdout)
	assert.Equal(t, os.Stderr, deps.Stderr)
	assert.Equal(t, os.Stdout, ProvideStdout())
}

func TestInitializeApp(t *testing.T) {
	cfg := loadConfig(t)
	cfg.Command = "version"
	cfg.Disk.WaitTimeout = time.Second

	app, err := InitializeApp(cfg)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Same(t, cfg, app.Config)
	assert.NotNil(t, app.Logger)
	assert.NotNil(t, app.OutputWriter)
	assert.Regexp(t, traceIDPattern, app.TraceID)
	assert.NotNil(t, app.MetricsCollector)
	assert.NotNil(t, app.TracerShutdown)
	require.NotNil(t, app.IO)
	require.NotNil(t, app.Monitor)

	require.NotNil(t, app.Deps)
	assert.Same(t, app.IO, app.Deps.IO)
	assert.Same(t, app.Monitor, app.Deps.Monitor)
	assert.Equal(t, app.Alerter, app.Deps.Alerter)
	assert.Equal(t, app.OutputWriter, app.Deps.Output)

	assert.NotPanics(t, func() {
		app.Logger.With("trace_id", app.TraceID).Info("проверка логгера")
	})
	assert.NoError(t, app.TracerShutdown(context.Background()))
}
