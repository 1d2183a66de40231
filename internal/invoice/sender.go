package invoice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"orderdesk/internal/logger"

	"go.uber.org/zap"
)

// Message is what a Sender delivers: the invoice plus its rendered body.
type Message struct {
	Channel   Channel  `json:"channel"`
	Recipient string   `json:"recipient"`
	Body      string   `json:"body"`
	Invoice   *Invoice `json:"invoice"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Dispatcher struct {
	sender Sender
}

func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// Dispatch renders inv and hands it to the configured sender.
func (d *Dispatcher) Dispatch(ctx context.Context, inv *Invoice) (*Message, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "invoice"),
		zap.String("method", "Dispatch"),
		zap.String("invoice", inv.Number),
		zap.String("order_id", inv.OrderID),
		zap.String("channel", string(inv.Channel)),
	)

	body, err := Render(inv)
	if err != nil {
		log.Error("failed to render invoice", zap.Error(err))
		return nil, err
	}

	msg := Message{Channel: inv.Channel, Recipient: inv.Recipient, Body: body, Invoice: inv}
	if err := d.sender.Send(ctx, msg); err != nil {
		log.Error("failed to send invoice", zap.Error(err))
		return nil, err
	}

	log.Info("invoice sent")
	return &msg, nil
}

// LogSender only records the dispatch.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	logger.FromCtx(ctx).Info("invoice dispatched",
		zap.String("channel", string(msg.Channel)),
		zap.String("recipient", msg.Recipient),
		zap.Int("body_len", len(msg.Body)),
	)
	return nil
}

type webhookSender struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewWebhookSender posts each message as JSON to url. An empty token sends no Authorization header.
func NewWebhookSender(url, token string) Sender {
	if token == "" {
		logger.L().Warn("invoice webhook token is empty")
	}
	return &webhookSender{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (w *webhookSender) Send(ctx context.Context, msg Message) error {
	log := logger.FromCtx(ctx).With(zap.String("channel", string(msg.Channel)))

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal invoice message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}
	if id := logger.RequestIDFrom(ctx); id != "" {
		req.Header.Set(logger.RequestIDHeader, id)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		log.Error("invoice webhook request failed", zap.Error(err))
		return fmt.Errorf("invoice webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("invoice webhook returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body),
		)
		return fmt.Errorf("invoice webhook: status %d: %s", resp.StatusCode, body)
	}
	return nil
}
