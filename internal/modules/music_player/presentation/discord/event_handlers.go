package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tunebot/internal/bot"
)

// VoiceEventSink receives the gateway events the voice backend needs to
// establish and track voice connections.
type VoiceEventSink interface {
	OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate)
	OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate)
}

// EventHandlers handles Discord gateway events for the music player.
type EventHandlers struct {
	voice        VoiceEventSink
	autocomplete *AutocompleteHandler
}

// NewEventHandlers creates a new EventHandlers.
func NewEventHandlers(voice VoiceEventSink, autocomplete *AutocompleteHandler) *EventHandlers {
	return &EventHandlers{
		voice:        voice,
		autocomplete: autocomplete,
	}
}

// HandleVoiceServerUpdate forwards voice server updates to the voice backend.
func (h *EventHandlers) HandleVoiceServerUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceServerUpdate,
) {
	h.voice.OnVoiceServerUpdate(event)
}

// HandleVoiceStateUpdate forwards voice state updates to the voice backend.
func (h *EventHandlers) HandleVoiceStateUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	h.voice.OnVoiceStateUpdate(event)
}

// HandleInteractionCreate routes autocomplete interactions. Commands are
// routed by the bot.
func (h *EventHandlers) HandleInteractionCreate(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	if i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return
	}
	h.routeAutocomplete(i, bot.NewDiscordResponder(s, i.Interaction))
}

func (h *EventHandlers) routeAutocomplete(i *discordgo.InteractionCreate, r bot.Responder) {
	data := i.ApplicationCommandData()

	switch data.Name {
	case "play":
		if err := h.autocomplete.HandlePlay(i, r); err != nil {
			slog.Warn("failed to respond to autocomplete", "command", data.Name, "error", err)
		}
	default:
		slog.Debug("found no autocomplete handler", "command", data.Name)
	}
}
