package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"readyToHelp/internal/domain"
	"readyToHelp/pkg/e"

	"github.com/nats-io/nats.go"
)

// Publisher is the part of *nats.Conn the channel needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSChannel publishes notifications on <subject>.<organization category>.
type NATSChannel struct {
	pub     Publisher
	subject string
}

func NewNATSChannel(pub Publisher, subject string) *NATSChannel {
	return &NATSChannel{pub: pub, subject: subject}
}

func (c *NATSChannel) Subject(category domain.OrganizationCategory) string {
	return c.subject + "." + strings.ToLower(string(category))
}

func (c *NATSChannel) Send(ctx context.Context, n domain.NotificationRequest) error {
	const op = "notify.NATSChannel.Send"

	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}
	if err := c.pub.Publish(c.Subject(n.Category), payload); err != nil {
		return fmt.Errorf("%s: %w: %w", op, e.ErrDependency, err)
	}
	return nil
}

// ConnectNATS dials the server with reconnects enabled.
func ConnectNATS(url, name string, logger *slog.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}
