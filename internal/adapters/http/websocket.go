package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/fireflight/fireflight/internal/adapters/nats"
	"github.com/fireflight/fireflight/internal/pkg/metrics"
)

const (
	allStateSubject  = "fireflight.state.>"
	allAlertsSubject = "fireflight.alerts.>"
	wsPingInterval   = 30 * time.Second
)

// wsMessage is sent from client to subscribe/unsubscribe to feeds.
type wsMessage struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Channel string `json:"channel"` // "state" | "alerts"
	Filter  string `json:"filter"`  // state action name, "" = all
}

// wsSubject resolves the NATS subject for a client message.
func wsSubject(m wsMessage) (string, bool) {
	switch m.Channel {
	case "", "state":
		if m.Filter != "" {
			return natsadapter.StateSubject(m.Filter), true
		}
		return allStateSubject, true
	case "alerts":
		return allAlertsSubject, true
	default:
		return "", false
	}
}

// WebSocketHandler relays state changes and nearby alerts from NATS to
// connected clients. Every client starts subscribed to both feeds and can
// narrow them with {"action":"subscribe","channel":"state","filter":"SET_ALL_FIRES"}.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		logger := slog.With("remote", c.RemoteAddr().String())
		if nc == nil {
			logger.Warn("ws rejected: nats not configured")
			return
		}

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()
		logger.Info("ws client connected")

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		writeJSON := func(v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		relay := func(msg *nats.Msg) {
			_ = writeJSON(wsEvent{Subject: msg.Subject, Data: json.RawMessage(msg.Data)})
		}

		for _, subject := range []string{allStateSubject, allAlertsSubject} {
			sub, err := nc.Subscribe(subject, relay)
			if err != nil {
				logger.Error("ws default subscribe failed", "subject", subject, "error", err)
				return
			}
			subs[subject] = sub
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(wsPingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			subject, known := wsSubject(m)
			if !known {
				_ = writeJSON(map[string]string{"error": "unknown channel: " + m.Channel})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				s, err := nc.Subscribe(subject, relay)
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				subs[subject] = s
				_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})

			case "unsubscribe":
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		logger.Info("ws client disconnected")
	}
}

// wsEvent is one relayed NATS message.
type wsEvent struct {
	Subject string          `json:"subject"`
	Data    json.RawMessage `json:"data"`
}
