package ports

import (
	"github.com/disgoorg/snowflake/v2"
)

// VoiceStateProvider defines the interface for getting Discord voice state information.
type VoiceStateProvider interface {
	// GetUserVoiceChannel returns the voice channel ID the user is currently in.
	// Returns 0 if the user is not in a voice channel.
	GetUserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error)

	// ChannelListeners returns the non-bot users currently in the voice channel.
	ChannelListeners(guildID, channelID snowflake.ID) ([]snowflake.ID, error)

	// CanJoin reports whether the bot has permission to connect to the channel.
	CanJoin(guildID, channelID snowflake.ID) bool
}
