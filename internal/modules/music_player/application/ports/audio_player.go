package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

// AudioPlayer defines the interface for audio playback operations.
// State changes are reported asynchronously through the EventPublisher as
// PlayerStateChangedEvent.
type AudioPlayer interface {
	// Play starts streaming the given resource, replacing anything playing.
	Play(ctx context.Context, guildID snowflake.ID, resource *domain.PlayableResource) error

	// Stop stops the current playback. The player reports Idle afterwards.
	Stop(ctx context.Context, guildID snowflake.ID) error
}
