package infrastructure

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application/ports"
)

// MemberFetcher loads a guild member over REST. *discordgo.Session
// implements it.
type MemberFetcher interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// VoiceStateProvider provides Discord voice state information from the
// session's state cache. The bot runs without the privileged GuildMembers
// intent, so members missing from the cache are fetched through members
// and cached.
type VoiceStateProvider struct {
	state   *discordgo.State
	members MemberFetcher // may be nil
}

// NewVoiceStateProvider creates a new VoiceStateProvider.
func NewVoiceStateProvider(state *discordgo.State, members MemberFetcher) *VoiceStateProvider {
	return &VoiceStateProvider{
		state:   state,
		members: members,
	}
}

// GetUserVoiceChannel returns the voice channel ID that the user is currently in.
// Returns 0 if the user is not in a voice channel.
func (v *VoiceStateProvider) GetUserVoiceChannel(
	guildID, userID snowflake.ID,
) (snowflake.ID, error) {
	// Get guild from state
	guild, err := v.state.Guild(guildID.String())
	if err != nil {
		return 0, err
	}

	// Find user's voice state
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID.String() && vs.ChannelID != "" {
			channelID, err := snowflake.Parse(vs.ChannelID)
			if err != nil {
				return 0, err
			}
			return channelID, nil
		}
	}

	return 0, nil
}

// ChannelListeners returns the users in the voice channel, excluding bots.
func (v *VoiceStateProvider) ChannelListeners(
	guildID, channelID snowflake.ID,
) ([]snowflake.ID, error) {
	guild, err := v.state.Guild(guildID.String())
	if err != nil {
		return nil, err
	}

	var listeners []snowflake.ID
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != channelID.String() || v.isBot(guild.ID, vs) {
			continue
		}
		userID, err := snowflake.Parse(vs.UserID)
		if err != nil {
			return nil, err
		}
		listeners = append(listeners, userID)
	}

	return listeners, nil
}

func (v *VoiceStateProvider) isBot(guildID string, vs *discordgo.VoiceState) bool {
	if v.state.User != nil && vs.UserID == v.state.User.ID {
		return true
	}
	if vs.Member != nil && vs.Member.User != nil {
		return vs.Member.User.Bot
	}
	if member, err := v.state.Member(guildID, vs.UserID); err == nil && member.User != nil {
		return member.User.Bot
	}
	if v.members == nil {
		return false
	}

	member, err := v.members.GuildMember(guildID, vs.UserID)
	if err != nil || member.User == nil {
		// Unknown members are counted as listeners.
		slog.Debug("failed to fetch voice channel member",
			"guild", guildID,
			"user", vs.UserID,
			"error", err,
		)
		return false
	}
	if member.GuildID == "" {
		member.GuildID = guildID
	}
	if err := v.state.MemberAdd(member); err != nil {
		slog.Debug("failed to cache member", "guild", guildID, "user", vs.UserID, "error", err)
	}
	return member.User.Bot
}

// CanJoin reports whether the bot may connect to the voice channel.
func (v *VoiceStateProvider) CanJoin(guildID, channelID snowflake.ID) bool {
	if v.state.User == nil {
		return false
	}

	permissions, err := v.state.UserChannelPermissions(v.state.User.ID, channelID.String())
	if err != nil {
		slog.Warn("failed to compute voice channel permissions",
			"guild", guildID,
			"channel", channelID,
			"error", err,
		)
		return false
	}

	return permissions&discordgo.PermissionVoiceConnect != 0
}

// Ensure VoiceStateProvider implements ports.VoiceStateProvider.
var _ ports.VoiceStateProvider = (*VoiceStateProvider)(nil)
