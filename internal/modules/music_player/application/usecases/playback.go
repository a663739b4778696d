package usecases

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application"
	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

// PlayInput contains the input for the Play use case.
type PlayInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
	Query                 string
}

// SkipInput contains the input for the Skip use case.
type SkipInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID
	NotificationChannelID snowflake.ID
}

// ToggleLoopInput contains the input for the ToggleLoop use case.
type ToggleLoopInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID
}

// ToggleRepeatInput contains the input for the ToggleRepeat use case.
type ToggleRepeatInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID
}

// PlaybackService handles playback operations.
type PlaybackService struct {
	deps application.ControllerDeps
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(deps application.ControllerDeps) *PlaybackService {
	return &PlaybackService{deps: deps}
}

// Play enqueues the query, joining the user's voice channel first if the
// guild has no controller yet.
func (p *PlaybackService) Play(ctx context.Context, input PlayInput) domain.Result {
	controller, ok := activeController(p.deps.Registry, input.GuildID, input.NotificationChannelID)
	if !ok {
		var err error
		controller, err = openController(ctx, p.deps, input.GuildID, input.UserID, input.NotificationChannelID)
		if err != nil {
			return domain.FailureFrom(err)
		}
	}

	return controller.Enqueue(ctx, input.Query, input.UserID)
}

// Skip registers the user's vote to skip the current song.
func (p *PlaybackService) Skip(ctx context.Context, input SkipInput) domain.Result {
	controller, ok := activeController(p.deps.Registry, input.GuildID, input.NotificationChannelID)
	if !ok {
		return domain.FailureFrom(ErrNotPlaying)
	}

	return controller.VoteSkip(ctx, input.UserID)
}

// ToggleLoop flips queue looping for the guild.
func (p *PlaybackService) ToggleLoop(input ToggleLoopInput) domain.Result {
	controller, ok := activeController(p.deps.Registry, input.GuildID, input.NotificationChannelID)
	if !ok {
		return domain.FailureFrom(ErrNotPlaying)
	}

	return controller.ToggleLoop()
}

// ToggleRepeat flips repetition of the current song for the guild.
func (p *PlaybackService) ToggleRepeat(input ToggleRepeatInput) domain.Result {
	controller, ok := activeController(p.deps.Registry, input.GuildID, input.NotificationChannelID)
	if !ok {
		return domain.FailureFrom(ErrNotPlaying)
	}

	return controller.ToggleRepeat()
}

// activeController returns the guild's controller and, when channelID is
// set, moves its status messages to the channel the command came from.
func activeController(
	registry application.ControllerRegistry,
	guildID, channelID snowflake.ID,
) (*application.PlaybackController, bool) {
	controller, ok := registry.Get(guildID)
	if ok && channelID != 0 {
		controller.SetNotificationChannel(channelID)
	}
	return controller, ok
}
