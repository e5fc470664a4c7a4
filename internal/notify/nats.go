package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

type publisher interface {
	Publish(subject string, data []byte) error
}

// PushRequest is the payload published for an external push gateway.
type PushRequest struct {
	Token  string    `json:"token"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sentAt"`
}

// NATSTransport publishes one PushRequest per message on a subject.
type NATSTransport struct {
	conn    publisher
	subject string
	close   func()
}

func NewNATSTransport(url, subject string) (*NATSTransport, error) {
	nc, err := nats.Connect(url, nats.Name("task-planner"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return &NATSTransport{
		conn:    nc,
		subject: subject,
		close: func() {
			if err := nc.Drain(); err != nil {
				nc.Close()
			}
		},
	}, nil
}

func (t *NATSTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(PushRequest{
		Token:  msg.Token,
		Title:  msg.Title,
		Body:   msg.Body,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode push request: %w", err)
	}
	if err := t.conn.Publish(t.subject, payload); err != nil {
		return fmt.Errorf("publish push request: %w", err)
	}
	return nil
}

func (t *NATSTransport) Close() error {
	if t.close != nil {
		t.close()
	}
	return nil
}
