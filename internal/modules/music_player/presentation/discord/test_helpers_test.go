package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

const (
	testGuildID   = "1"
	testUserID    = "2"
	testChannelID = "3"
)

// stubVoiceChannel is a VoiceChannelUseCases returning fixed results.
type stubVoiceChannel struct {
	joinResult  usecases.Result
	leaveResult usecases.Result
	lastJoin    *usecases.JoinInput
	lastLeave   *usecases.LeaveInput
}

func (s *stubVoiceChannel) Join(_ context.Context, input usecases.JoinInput) usecases.Result {
	s.lastJoin = &input
	return s.joinResult
}

func (s *stubVoiceChannel) Leave(_ context.Context, input usecases.LeaveInput) usecases.Result {
	s.lastLeave = &input
	return s.leaveResult
}

// stubPlayback is a PlaybackUseCases returning fixed results.
type stubPlayback struct {
	result   usecases.Result
	lastPlay *usecases.PlayInput
	lastSkip *usecases.SkipInput
	loops    int
	repeats  int
	channels []snowflake.ID // notification channel of every call
}

func (s *stubPlayback) Play(_ context.Context, input usecases.PlayInput) usecases.Result {
	s.lastPlay = &input
	s.channels = append(s.channels, input.NotificationChannelID)
	return s.result
}

func (s *stubPlayback) Skip(_ context.Context, input usecases.SkipInput) usecases.Result {
	s.lastSkip = &input
	s.channels = append(s.channels, input.NotificationChannelID)
	return s.result
}

func (s *stubPlayback) ToggleLoop(input usecases.ToggleLoopInput) usecases.Result {
	s.loops++
	s.channels = append(s.channels, input.NotificationChannelID)
	return s.result
}

func (s *stubPlayback) ToggleRepeat(input usecases.ToggleRepeatInput) usecases.Result {
	s.repeats++
	s.channels = append(s.channels, input.NotificationChannelID)
	return s.result
}

// stubQueue is a QueueUseCases returning fixed results.
type stubQueue struct {
	page          domain.QueuePage
	listErr       error
	shuffleResult usecases.Result
	lastList      *usecases.QueueListInput
	channels      []snowflake.ID
}

func (s *stubQueue) List(input usecases.QueueListInput) (*usecases.QueueListOutput, error) {
	s.lastList = &input
	s.channels = append(s.channels, input.NotificationChannelID)
	if s.listErr != nil {
		return nil, s.listErr
	}
	return &usecases.QueueListOutput{Page: s.page}, nil
}

func (s *stubQueue) Shuffle(input usecases.QueueShuffleInput) usecases.Result {
	s.channels = append(s.channels, input.NotificationChannelID)
	return s.shuffleResult
}

// stubSearcher is a TrackSearcher returning fixed tracks.
type stubSearcher struct {
	tracks  []domain.TrackInfo
	err     error
	queries []string
}

func (s *stubSearcher) SearchTracks(
	_ context.Context,
	input usecases.SearchTracksInput,
) (*usecases.SearchTracksOutput, error) {
	s.queries = append(s.queries, input.Query)
	if s.err != nil {
		return nil, s.err
	}
	return &usecases.SearchTracksOutput{Tracks: s.tracks}, nil
}

// stubVoiceSink records forwarded voice events.
type stubVoiceSink struct {
	serverUpdates int
	stateUpdates  int
}

func (s *stubVoiceSink) OnVoiceServerUpdate(*discordgo.VoiceServerUpdate) { s.serverUpdates++ }
func (s *stubVoiceSink) OnVoiceStateUpdate(*discordgo.VoiceStateUpdate)   { s.stateUpdates++ }

func newInteraction(
	interactionType discordgo.InteractionType,
	name string,
	options ...*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      interactionType,
			GuildID:   testGuildID,
			ChannelID: testChannelID,
			Member: &discordgo.Member{
				User: &discordgo.User{ID: testUserID},
			},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
		},
	}
}

func newCommand(
	name string,
	options ...*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.InteractionCreate {
	return newInteraction(discordgo.InteractionApplicationCommand, name, options...)
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func intOption(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}
