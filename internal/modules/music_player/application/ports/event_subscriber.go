package ports

import (
	"context"

	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

// EventSubscriber defines the interface for subscribing to player events.
// Handlers of one event type are invoked sequentially in publish order.
type EventSubscriber interface {
	OnPlayerStateChanged(handler func(context.Context, domain.PlayerStateChangedEvent))
	OnConnectionLost(handler func(context.Context, domain.ConnectionLostEvent))
}
