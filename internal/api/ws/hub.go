package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"github.com/staffhub/staffhub/internal/domain"
	redisstore "github.com/staffhub/staffhub/internal/store/redis"
)

// ChangeEvent is the wire format for entity-change notifications streamed to
// WebSocket clients.
type ChangeEvent struct {
	EntityType string             `json:"entity_type"`
	EntityID   int64              `json:"entity_id"`
	Action     domain.AuditAction `json:"action"`
}

// Hub fans entity-change events out to WebSocket connections through Redis
// pub/sub, so every instance behind the load balancer sees every change.
type Hub struct {
	pubsub *redisstore.PubSub
}

func NewHub(pubsub *redisstore.PubSub) *Hub {
	return &Hub{pubsub: pubsub}
}

// PublishChange broadcasts one entity change. Publishing is best-effort:
// failures are logged, the mutation that triggered the event has already
// committed.
func (h *Hub) PublishChange(ctx context.Context, entityType string, entityID int64, action domain.AuditAction) {
	payload, err := json.Marshal(ChangeEvent{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
	})
	if err != nil {
		log.Error().Err(err).Str("entity_type", entityType).Msg("ws: marshal event")
		return
	}

	if err := h.pubsub.Publish(ctx, redisstore.EventsChannel, payload); err != nil {
		log.Warn().Err(err).Str("entity_type", entityType).Int64("entity_id", entityID).
			Msg("ws: publish event")
	}
}

// ServeEvents handles WebSocket connections on /ws/events. Subscribes to the
// events channel and streams change events until the client disconnects.
func (h *Hub) ServeEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	messages, cleanup, err := h.pubsub.Subscribe(ctx, redisstore.EventsChannel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
