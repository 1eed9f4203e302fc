package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"readyToHelp/internal/domain"
	"readyToHelp/pkg/e"
)

// HTTPChannel posts notifications as JSON to <baseURL>/notify.
type HTTPChannel struct {
	url    string
	http   *http.Client
	logger *slog.Logger
}

func NewHTTPChannel(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPChannel {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPChannel{
		url:    strings.TrimRight(baseURL, "/") + "/notify",
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (c *HTTPChannel) Send(ctx context.Context, n domain.NotificationRequest) error {
	const op = "notify.HTTPChannel.Send"

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return e.WrapError(ctx, op, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: %w: notifier answered %s", op, e.ErrDependency, resp.Status)
	}

	c.logger.Debug("notification delivered",
		slog.String("occurrence_id", n.OccurrenceID.String()),
		slog.String("url", c.url),
	)
	return nil
}
