// Package notify sends the periodic task reminder to every registered device.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"task-planner/internal/config"
)

// ErrInvalidToken is returned by a Transport when the provider rejects the
// device token as unknown or expired.
var ErrInvalidToken = errors.New("invalid device token")

// Message is a single push notification addressed to one device token.
type Message struct {
	Title string
	Body  string
	Token string
}

// Transport delivers one push message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// TokenSource returns a snapshot of every stored device token, one entry per
// user that has one.
type TokenSource interface {
	ListDeviceTokens(ctx context.Context) ([]string, error)
}

// LogTransport writes messages to the log instead of delivering them.
type LogTransport struct {
	logger *log.Logger
}

func NewLogTransport(logger *log.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Send(_ context.Context, msg Message) error {
	t.logger.Info("push", "token", maskToken(msg.Token), "title", msg.Title, "body", msg.Body)
	return nil
}

// NewTransport builds the transport selected by cfg.PushTransport. The
// returned transport may implement io.Closer.
func NewTransport(cfg config.Config, logger *log.Logger) (Transport, error) {
	switch cfg.PushTransport {
	case config.TransportLog, "":
		return NewLogTransport(logger.WithPrefix("push")), nil
	case config.TransportTelegram:
		return NewTelegramTransport(cfg.TelegramToken)
	case config.TransportNATS:
		return NewNATSTransport(cfg.NATSURL, cfg.NATSSubject)
	default:
		return nil, fmt.Errorf("unknown push transport %q", cfg.PushTransport)
	}
}

// Close releases the transport if it holds a connection.
func Close(t Transport) error {
	if c, ok := t.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func maskToken(token string) string {
	if len(token) <= 6 {
		return token
	}
	return token[:6] + "…"
}
