package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunebot/internal/bot"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application/usecases"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// VoiceChannelUseCases joins and leaves voice channels.
type VoiceChannelUseCases interface {
	Join(ctx context.Context, input usecases.JoinInput) usecases.Result
	Leave(ctx context.Context, input usecases.LeaveInput) usecases.Result
}

// PlaybackUseCases controls playback.
type PlaybackUseCases interface {
	Play(ctx context.Context, input usecases.PlayInput) usecases.Result
	Skip(ctx context.Context, input usecases.SkipInput) usecases.Result
	ToggleLoop(input usecases.ToggleLoopInput) usecases.Result
	ToggleRepeat(input usecases.ToggleRepeatInput) usecases.Result
}

// QueueUseCases inspects and reorders the queue.
type QueueUseCases interface {
	List(input usecases.QueueListInput) (*usecases.QueueListOutput, error)
	Shuffle(input usecases.QueueShuffleInput) usecases.Result
}

// Compile-time checks that the services satisfy the handler interfaces.
var (
	_ VoiceChannelUseCases = (*usecases.VoiceChannelService)(nil)
	_ PlaybackUseCases     = (*usecases.PlaybackService)(nil)
	_ QueueUseCases        = (*usecases.QueueService)(nil)
)

// CommandHandlers holds all the command handlers.
type CommandHandlers struct {
	voiceChannel VoiceChannelUseCases
	playback     PlaybackUseCases
	queue        QueueUseCases
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(
	voiceChannel VoiceChannelUseCases,
	playback PlaybackUseCases,
	queue QueueUseCases,
) *CommandHandlers {
	return &CommandHandlers{
		voiceChannel: voiceChannel,
		playback:     playback,
		queue:        queue,
	}
}

// invocation holds the ids every command needs.
type invocation struct {
	guildID   snowflake.ID
	userID    snowflake.ID
	channelID snowflake.ID
}

func parseInvocation(i *discordgo.InteractionCreate) (invocation, error) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return invocation{}, fmt.Errorf("command used outside a server")
	}

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return invocation{}, fmt.Errorf("invalid guild: %w", err)
	}
	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return invocation{}, fmt.Errorf("invalid user: %w", err)
	}
	channelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return invocation{}, fmt.Errorf("invalid channel: %w", err)
	}

	return invocation{guildID: guildID, userID: userID, channelID: channelID}, nil
}

// HandleJoin handles the /join command.
func (h *CommandHandlers) HandleJoin(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := parseInvocation(i)
	if err != nil {
		return respondError(r, "This command only works in a server!")
	}

	result := h.voiceChannel.Join(context.Background(), usecases.JoinInput{
		GuildID:               inv.guildID,
		UserID:                inv.userID,
		NotificationChannelID: inv.channelID,
	})
	return respondResult(r, result)
}

// HandleLeave handles the /leave command.
func (h *CommandHandlers) HandleLeave(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := parseInvocation(i)
	if err != nil {
		return respondError(r, "This command only works in a server!")
	}

	result := h.voiceChannel.Leave(context.Background(), usecases.LeaveInput{
		GuildID: inv.guildID,
	})
	return respondResult(r, result)
}

// HandlePlay handles the /play command. Looking up a query can take longer
// than Discord allows for an initial reply, so the reply is deferred and
// edited once the song is queued.
func (h *CommandHandlers) HandlePlay(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := parseInvocation(i)
	if err != nil {
		return respondError(r, "This command only works in a server!")
	}

	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "query" {
			query = opt.StringValue()
		}
	}

	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		return err
	}

	result := h.playback.Play(context.Background(), usecases.PlayInput{
		GuildID:               inv.guildID,
		UserID:                inv.userID,
		NotificationChannelID: inv.channelID,
		Query:                 query,
	})

	embeds := []*discordgo.MessageEmbed{resultEmbed(result)}
	return r.Edit(&discordgo.WebhookEdit{
		Embeds:          &embeds,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	})
}

// HandleSkip handles the /skip command.
func (h *CommandHandlers) HandleSkip(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := parseInvocation(i)
	if err != nil {
		return respondError(r, "This command only works in a server!")
	}

	result := h.playback.Skip(context.Background(), usecases.SkipInput{
		GuildID:               inv.guildID,
		UserID:                inv.userID,
		NotificationChannelID: inv.channelID,
	})
	return respondResult(r, result)
}

// HandleLoop handles the /loop command.
func (h *CommandHandlers) HandleLoop(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := parseInvocation(i)
	if err != nil {
		return respondError(r, "This command only works in a server!")
	}

	return respondResult(r, h.playback.ToggleLoop(usecases.ToggleLoopInput{
		GuildID:               inv.guildID,
		NotificationChannelID: inv.channelID,
	}))
}

// HandleRepeat handles the /repeat command.
func (h *CommandHandlers) HandleRepeat(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := parseInvocation(i)
	if err != nil {
		return respondError(r, "This command only works in a server!")
	}

	return respondResult(r, h.playback.ToggleRepeat(usecases.ToggleRepeatInput{
		GuildID:               inv.guildID,
		NotificationChannelID: inv.channelID,
	}))
}

// HandleShuffle handles the /shuffle command.
func (h *CommandHandlers) HandleShuffle(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := parseInvocation(i)
	if err != nil {
		return respondError(r, "This command only works in a server!")
	}

	return respondResult(r, h.queue.Shuffle(usecases.QueueShuffleInput{
		GuildID:               inv.guildID,
		NotificationChannelID: inv.channelID,
	}))
}

// HandleQueue handles the /queue command.
func (h *CommandHandlers) HandleQueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	inv, err := parseInvocation(i)
	if err != nil {
		return respondError(r, "This command only works in a server!")
	}

	var page int
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "page" {
			page = int(opt.IntValue())
		}
	}

	output, err := h.queue.List(usecases.QueueListInput{
		GuildID:               inv.guildID,
		NotificationChannelID: inv.channelID,
		Page:                  page,
	})
	if err != nil {
		return respondResult(r, usecases.FailureFrom(err))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Queue for %s", guildName(s, i.GuildID)),
		Description: escapeLines(output.Page.Lines),
		Color:       colorSuccess,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d of %d", output.Page.Page, output.Page.TotalPages),
		},
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:          []*discordgo.MessageEmbed{embed},
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		},
	})
}

// guildName returns the cached guild name, or a generic label when the
// guild is not in the state cache.
func guildName(s *discordgo.Session, guildID string) string {
	if s != nil && s.State != nil {
		if guild, err := s.State.Guild(guildID); err == nil && guild.Name != "" {
			return guild.Name
		}
	}
	return "this server"
}

// escapeLines joins queue lines. A leading "1." would otherwise be rendered
// as a markdown list that renumbers from one.
func escapeLines(lines []string) string {
	escaped := make([]string, len(lines))
	for i, line := range lines {
		if idx := strings.Index(line, ". "); idx > 0 && isDigits(line[:idx]) {
			line = line[:idx] + "\\" + line[idx:]
		}
		escaped[i] = line
	}
	return strings.Join(escaped, "\n")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Response helpers.

func resultEmbed(result usecases.Result) *discordgo.MessageEmbed {
	if result.OK() {
		return &discordgo.MessageEmbed{
			Description: result.Message(),
			Color:       colorSuccess,
		}
	}
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: result.Message(),
		Color:       colorError,
	}
}

// respondResult replies with the result. Failures are only shown to the
// user who ran the command.
func respondResult(r bot.Responder, result usecases.Result) error {
	data := &discordgo.InteractionResponseData{
		Embeds:          []*discordgo.MessageEmbed{resultEmbed(result)},
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if !result.OK() {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Error",
					Description: message,
					Color:       colorError,
				},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}
