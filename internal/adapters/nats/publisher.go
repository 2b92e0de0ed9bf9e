package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fireflight/fireflight/internal/core/domain"
)

const (
	StateSubjectPrefix = "fireflight.state."
	AlertSubject       = "fireflight.alerts.nearby"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "FIREFLIGHT_STATE",
			Subjects:  []string{"fireflight.state.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.MemoryStorage,
		},
		{
			Name:      "FIREFLIGHT_ALERTS",
			Subjects:  []string{"fireflight.alerts.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// StateSubject returns the subject a state change for action is published on.
func StateSubject(action string) string {
	return StateSubjectPrefix + strings.ToLower(action)
}

func (p *Publisher) PublishStateChange(ctx context.Context, change *domain.StateChange) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(StateSubject(change.Action), data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishNearbyAlert(ctx context.Context, alert *domain.NearbyAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(AlertSubject, data, nats.Context(ctx))
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
