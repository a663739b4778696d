package ports

import "github.com/sglre6355/tunebot/internal/modules/music_player/domain"

// EventPublisher defines the interface for publishing player events asynchronously.
type EventPublisher interface {
	PublishPlayerStateChanged(event domain.PlayerStateChangedEvent)
	PublishConnectionLost(event domain.ConnectionLostEvent)
}
