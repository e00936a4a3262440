package metrics

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/Kargones/mediaio/internal/pkg/logging"
	"github.com/Kargones/mediaio/internal/pkg/urlutil"
)

const namespace = "mediaio"

// PrometheusCollector держит метрики в собственном registry и
// отправляет их в Pushgateway по Push.
type PrometheusCollector struct {
	config   Config
	logger   logging.Logger
	registry *prometheus.Registry
	instance string

	commandDuration *prometheus.HistogramVec
	transferBytes   *prometheus.CounterVec
	physicalOps     *prometheus.CounterVec
	physicalBytes   *prometheus.CounterVec
	physicalLatency *prometheus.HistogramVec
	slurpDuration   *prometheus.HistogramVec
	slurpBytes      prometheus.Counter
	dirScanDuration *prometheus.HistogramVec
}

// NewPrometheusCollector регистрирует метрики:
//   - mediaio_command_duration_seconds{command,status}
//   - mediaio_transfer_bytes_total{direction,class}
//   - mediaio_physical_io_total{direction,status}
//   - mediaio_physical_io_bytes_total{direction}
//   - mediaio_physical_io_seconds{direction}
//   - mediaio_slurp_seconds{status}, mediaio_slurp_bytes_total
//   - mediaio_dir_scan_seconds{status}
func NewPrometheusCollector(config Config, logger logging.Logger) (*PrometheusCollector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	instance := config.InstanceLabel
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			logger.Warn("не удалось получить hostname для label instance", "error", err.Error())
			hostname = "unknown"
		}
		instance = hostname
	}

	c := &PrometheusCollector{
		config:   config,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		instance: instance,
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Duration of command execution in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 1800},
		}, []string{"command", "status"}),
		transferBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_bytes_total",
			Help:      "Bytes passed through buffered handles by size class",
		}, []string{"direction", "class"}),
		physicalOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "physical_io_total",
			Help:      "Physical read/write calls issued to the file system",
		}, []string{"direction", "status"}),
		physicalBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "physical_io_bytes_total",
			Help:      "Bytes moved by physical read/write calls",
		}, []string{"direction"}),
		physicalLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "physical_io_seconds",
			Help:      "Latency of physical read/write calls",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"direction"}),
		slurpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "slurp_seconds",
			Help:      "Duration of whole-file background loads",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"status"}),
		slurpBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slurp_bytes_total",
			Help:      "Bytes loaded by whole-file background loads",
		}),
		dirScanDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dir_scan_seconds",
			Help:      "Duration of directory size computations",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 30, 120, 600},
		}, []string{"status"}),
	}

	for _, m := range []prometheus.Collector{
		c.commandDuration, c.transferBytes, c.physicalOps, c.physicalBytes,
		c.physicalLatency, c.slurpDuration, c.slurpBytes, c.dirScanDuration,
	} {
		if err := c.registry.Register(m); err != nil {
			return nil, fmt.Errorf("ошибка регистрации метрики: %w", err)
		}
	}
	return c, nil
}

// maxLabelLength ограничивает кардинальность значений label.
const maxLabelLength = 128

// sanitizeLabel заменяет управляющие символы и обрезает значение по рунам.
func sanitizeLabel(value string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return '_'
		}
		return r
	}, value)

	runes := []rune(clean)
	if len(runes) > maxLabelLength {
		return string(runes[:maxLabelLength])
	}
	return clean
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

func (c *PrometheusCollector) RecordCommandStart(command string) {
	c.logger.Debug("metrics: command started", "command", command)
}

func (c *PrometheusCollector) RecordCommandEnd(command string, duration time.Duration, success bool) {
	c.commandDuration.WithLabelValues(sanitizeLabel(command), status(success)).Observe(duration.Seconds())
}

func (c *PrometheusCollector) RecordTransfer(direction, class string, bytes int64) {
	if bytes <= 0 {
		return
	}
	c.transferBytes.WithLabelValues(direction, sanitizeLabel(class)).Add(float64(bytes))
}

func (c *PrometheusCollector) RecordPhysicalIO(direction string, bytes int64, duration time.Duration, success bool) {
	c.physicalOps.WithLabelValues(direction, status(success)).Inc()
	if bytes > 0 {
		c.physicalBytes.WithLabelValues(direction).Add(float64(bytes))
	}
	c.physicalLatency.WithLabelValues(direction).Observe(duration.Seconds())
}

func (c *PrometheusCollector) RecordSlurp(bytes int64, duration time.Duration, success bool) {
	c.slurpDuration.WithLabelValues(status(success)).Observe(duration.Seconds())
	if bytes > 0 {
		c.slurpBytes.Add(float64(bytes))
	}
}

func (c *PrometheusCollector) RecordDirScan(duration time.Duration, success bool) {
	c.dirScanDuration.WithLabelValues(status(success)).Observe(duration.Seconds())
}

// Push отправляет registry в Pushgateway с группировкой по instance.
// Всегда возвращает nil; ошибка отправки только логируется.
func (c *PrometheusCollector) Push(ctx context.Context) error {
	if ctx.Err() != nil {
		c.logger.Debug("metrics push отменён")
		return nil
	}

	pushCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	pusher := push.New(c.config.PushgatewayURL, c.config.JobName).
		Gatherer(c.registry).
		Grouping("instance", c.instance)

	if err := pusher.PushContext(pushCtx); err != nil {
		c.logger.Error("ошибка отправки метрик в Pushgateway",
			"error", err.Error(),
			"url", urlutil.MaskURL(c.config.PushgatewayURL),
			"job", c.config.JobName,
		)
		return nil
	}

	c.logger.Info("метрики отправлены в Pushgateway",
		"url", urlutil.MaskURL(c.config.PushgatewayURL),
		"job", c.config.JobName,
		"instance", c.instance,
	)
	return nil
}

// Registry возвращает внутренний registry (для тестов).
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}
