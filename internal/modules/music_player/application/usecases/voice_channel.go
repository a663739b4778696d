package usecases

import (
	"context"
	"errors"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application"
	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

// JoinInput contains the input for the Join use case.
type JoinInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID
	NotificationChannelID snowflake.ID
}

// LeaveInput contains the input for the Leave use case.
type LeaveInput struct {
	GuildID snowflake.ID
}

// VoiceChannelService handles voice channel operations.
type VoiceChannelService struct {
	deps application.ControllerDeps
}

// NewVoiceChannelService creates a new VoiceChannelService.
func NewVoiceChannelService(deps application.ControllerDeps) *VoiceChannelService {
	return &VoiceChannelService{deps: deps}
}

// Join connects the bot to the user's voice channel. A controller that is
// still valid is kept; a broken one is torn down and replaced.
func (v *VoiceChannelService) Join(ctx context.Context, input JoinInput) domain.Result {
	if existing, ok := v.deps.Registry.Get(input.GuildID); ok {
		if existing.Validate() {
			if input.NotificationChannelID != 0 {
				existing.SetNotificationChannel(input.NotificationChannelID)
			}
			return domain.Success("I'm already in a voice channel!")
		}
		slog.Warn("discarding invalid playback controller", "guild", input.GuildID)
		existing.Destroy(ctx)
	}

	if _, err := openController(ctx, v.deps, input.GuildID, input.UserID, input.NotificationChannelID); err != nil {
		return domain.FailureFrom(err)
	}

	return domain.Success("Joining your channel!")
}

// Leave tears down the guild's controller.
func (v *VoiceChannelService) Leave(ctx context.Context, input LeaveInput) domain.Result {
	controller, ok := v.deps.Registry.Get(input.GuildID)
	if !ok {
		return domain.FailureFrom(ErrNotConnected)
	}

	controller.Destroy(ctx)

	return domain.Success("Left the voice channel!")
}

// openController creates a controller bound to the user's voice channel.
// If another caller registered one first, that controller is returned.
func openController(
	ctx context.Context,
	deps application.ControllerDeps,
	guildID, userID, notificationChannelID snowflake.ID,
) (*application.PlaybackController, error) {
	voiceChannelID, err := deps.VoiceState.GetUserVoiceChannel(guildID, userID)
	if err != nil {
		return nil, domain.WrapError(domain.KindConnectionFailure, ErrUserNotInVoice.Message, err)
	}
	if voiceChannelID == 0 {
		return nil, ErrUserNotInVoice
	}
	if !deps.VoiceState.CanJoin(guildID, voiceChannelID) {
		return nil, ErrCannotJoin
	}

	controller, err := application.NewPlaybackController(
		ctx,
		deps,
		guildID,
		voiceChannelID,
		notificationChannelID,
	)
	if err != nil {
		if errors.Is(err, application.ErrControllerExists) {
			if existing, ok := deps.Registry.Get(guildID); ok {
				return existing, nil
			}
		}
		slog.Error("failed to create playback controller",
			"guild", guildID,
			"voice_channel", voiceChannelID,
			"error", err,
		)
		return nil, ErrJoinFailed
	}

	return controller, nil
}
