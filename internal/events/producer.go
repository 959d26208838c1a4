// Package events publishes client telemetry (cart updates, auth state
// changes). Publishing is strictly best effort: a nil producer is a
// no-op and write failures are logged, never propagated.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const publishTimeout = 5 * time.Second

type Producer struct {
	writer *kafka.Writer
	key    string
	log    *slog.Logger
}

// NewProducer returns nil when no broker address is configured.
func NewProducer(address, topic, clientID string, log *slog.Logger) *Producer {
	if address == "" {
		return nil
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(address),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: w, key: clientID, log: log}
}

func (p *Producer) Publish(ctx context.Context, eventType string, fields map[string]any) {
	if p == nil {
		return
	}
	event := map[string]any{"type": eventType}
	for k, v := range fields {
		event[k] = v
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.log.Error("event encode failed", "type", eventType, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := kafka.Message{Key: []byte(p.key), Value: data}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("event publish failed", "type", eventType, "error", err)
	}
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
