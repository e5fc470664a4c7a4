package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Summary reports the outcome of one dispatch.
type Summary struct {
	Users  int `json:"users"`
	Unique int `json:"unique"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Dispatcher fans one fixed reminder out to every unique device token.
type Dispatcher struct {
	tokens    TokenSource
	transport Transport
	title     string
	body      string
	logger    *log.Logger
}

func NewDispatcher(tokens TokenSource, transport Transport, title, body string, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		tokens:    tokens,
		transport: transport,
		title:     title,
		body:      body,
		logger:    logger.WithPrefix("dispatch"),
	}
}

// Dispatch snapshots the device tokens, drops duplicates and sends to each
// unique token concurrently. A failed send is logged and counted; it never
// stops the others and is not retried. The only error returned is a failure
// to read the tokens.
func (d *Dispatcher) Dispatch(ctx context.Context) (Summary, error) {
	tokens, err := d.tokens.ListDeviceTokens(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("snapshot device tokens: %w", err)
	}

	unique := UniqueTokens(tokens)
	summary := Summary{Users: len(tokens), Unique: len(unique)}
	if len(unique) == 0 {
		d.logger.Info("no device tokens registered, nothing to send")
		return summary, nil
	}

	var (
		wg     sync.WaitGroup
		sent   atomic.Int64
		failed atomic.Int64
	)
	for _, token := range unique {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			if err := d.send(ctx, token); err != nil {
				failed.Add(1)
				if errors.Is(err, ErrInvalidToken) {
					d.logger.Warn("device token rejected", "token", maskToken(token), "err", err)
				} else {
					d.logger.Error("send failed", "token", maskToken(token), "err", err)
				}
				return
			}
			sent.Add(1)
		}(token)
	}
	wg.Wait()

	summary.Sent = int(sent.Load())
	summary.Failed = int(failed.Load())
	d.logger.Info("dispatch finished", "users", summary.Users, "unique", summary.Unique,
		"sent", summary.Sent, "failed", summary.Failed)
	return summary, nil
}

func (d *Dispatcher) send(ctx context.Context, token string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transport panic: %v", r)
		}
	}()
	return d.transport.Send(ctx, Message{Title: d.title, Body: d.body, Token: token})
}

// UniqueTokens drops empty and repeated tokens, keeping first-seen order.
func UniqueTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
