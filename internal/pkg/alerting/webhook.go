package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Kargones/mediaio/internal/pkg/logging"
	"github.com/Kargones/mediaio/internal/pkg/urlutil"
)

// HTTPClient: интерфейс HTTP клиента, подменяемый в тестах.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxResponseBodySize ограничивает чтение тела ответа для диагностики.
const maxResponseBodySize = 1024

// maxBackoff: потолок паузы между повторами для короткоживущего процесса.
const maxBackoff = 4 * time.Second

// WebhookPayload: JSON тело запроса.
type WebhookPayload struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	TraceID   string    `json:"trace_id"`
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
	Dir       string    `json:"dir"`
	FreeBytes int64     `json:"free_bytes"`
	UsedBytes int64     `json:"used_bytes"`
	Source    string    `json:"source"`
	Hostname  string    `json:"hostname,omitempty"`
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// WebhookAlerter отправляет алерты POST-запросом на каждый URL из Config.
type WebhookAlerter struct {
	config     Config
	logger     logging.Logger
	httpClient HTTPClient
	hostname   string
	backoff    time.Duration
}

// NewWebhookAlerter создаёт WebhookAlerter. Конфигурация должна быть
// проверена заранее.
func NewWebhookAlerter(config Config, logger logging.Logger) *WebhookAlerter {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultWebhookTimeout
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &WebhookAlerter{
		config:     config,
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		hostname:   hostname,
		backoff:    time.Second,
	}
}

// SetHTTPClient подменяет HTTP клиент.
func (w *WebhookAlerter) SetHTTPClient(client HTTPClient) {
	w.httpClient = client
}

// Send отправляет алерт на все URL. Алерты ниже MinSeverity пропускаются.
// Ошибки доставки логируются, Send всегда возвращает nil.
func (w *WebhookAlerter) Send(ctx context.Context, alert Alert) error {
	if alert.Severity < w.config.MinSeverity {
		w.logger.Debug("алерт ниже порога", "code", alert.Code,
			"severity", alert.Severity.String(), "min_severity", w.config.MinSeverity.String())
		return nil
	}

	payload := WebhookPayload{
		Code:      alert.Code,
		Message:   alert.Message,
		Severity:  alert.Severity.String(),
		TraceID:   alert.TraceID,
		Timestamp: alert.Timestamp,
		Command:   alert.Command,
		Dir:       alert.Dir,
		FreeBytes: alert.FreeBytes,
		UsedBytes: alert.UsedBytes,
		Source:    "mediaio",
		Hostname:  w.hostname,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		w.logger.Error("не удалось сериализовать алерт", "error", err.Error())
		return nil
	}

	delivered := 0
	for i, u := range w.config.URLs {
		if ctx.Err() != nil {
			w.logger.Debug("отправка алерта отменена", "code", alert.Code, "remaining_urls", len(w.config.URLs)-i)
			return nil
		}
		if err := w.sendWithRetry(ctx, u, body); err != nil {
			w.logger.Error("ошибка отправки алерта", "error", err.Error(), "url", urlutil.MaskURL(u), "code", alert.Code)
			continue
		}
		delivered++
	}

	if delivered > 0 {
		w.logger.Info("алерт отправлен", "code", alert.Code, "severity", alert.Severity.String(),
			"urls_success", delivered, "urls_total", len(w.config.URLs))
	} else {
		w.logger.Warn("алерт не доставлен ни на один URL", "code", alert.Code, "urls_total", len(w.config.URLs))
	}
	return nil
}

// sendWithRetry повторяет запрос при сетевых ошибках и 5xx с
// экспоненциальной паузой. 4xx не повторяется.
func (w *WebhookAlerter) sendWithRetry(ctx context.Context, u string, body []byte) error {
	var lastErr error
	backoff := w.backoff

	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff = min(backoff*2, maxBackoff)
			}
			w.logger.Debug("повтор отправки алерта", "attempt", attempt,
				"error", lastErr.Error(), "url", urlutil.MaskURL(u))
		}

		lastErr = w.send(ctx, u, body)
		if lastErr == nil || isClientError(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", w.config.MaxRetries+1, lastErr)
}

func (w *WebhookAlerter) send(ctx context.Context, u string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "mediaio/1.0")
	for k, v := range w.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize))
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	return &httpError{StatusCode: resp.StatusCode, Body: string(msg)}
}

func isClientError(err error) bool {
	var he *httpError
	return errors.As(err, &he) && he.StatusCode >= 400 && he.StatusCode < 500
}
