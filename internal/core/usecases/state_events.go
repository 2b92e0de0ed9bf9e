package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/fireflight/fireflight/internal/core/domain"
	"github.com/fireflight/fireflight/internal/core/ports"
	"github.com/fireflight/fireflight/internal/core/store"
	"github.com/fireflight/fireflight/internal/pkg/metrics"
)

const publishTimeout = 2 * time.Second

// BroadcastStateChanges counts every recognized dispatch on st and, when
// events is non-nil, publishes a StateChange for it.
func BroadcastStateChanges(st *store.Store, events ports.EventPublisher) {
	st.Subscribe(func(a store.Action, s *store.State) {
		metrics.StateDispatches.WithLabelValues(string(a.Type())).Inc()
		if events == nil {
			return
		}

		change := &domain.StateChange{Action: string(a.Type()), Version: s.Version, At: time.Now().UTC()}
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := events.PublishStateChange(ctx, change); err != nil {
			slog.Warn("publish state change failed", "action", change.Action, "error", err)
		}
	})
}
