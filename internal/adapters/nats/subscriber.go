package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/fireflight/fireflight/internal/core/domain"
)

// Subscriber consumes nearby-fire alerts from JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeNearbyAlerts delivers each alert to handler on the durable consumer
// named durable. A handler error naks the message for redelivery.
func (s *Subscriber) SubscribeNearbyAlerts(ctx context.Context, durable string, handler func(ctx context.Context, alert *domain.NearbyAlert) error) error {
	sub, err := s.js.Subscribe(AlertSubject, func(msg *nats.Msg) {
		var alert domain.NearbyAlert
		if err := json.Unmarshal(msg.Data, &alert); err != nil {
			// poison message, never redeliver
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &alert); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
