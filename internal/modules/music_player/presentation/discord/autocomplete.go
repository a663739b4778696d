package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tunebot/internal/bot"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application/usecases"
)

const (
	// maxChoices is the number of choices Discord accepts per autocomplete.
	maxChoices = 25
	// maxChoiceLength is the limit for a choice's name and value.
	maxChoiceLength = 100
	// minQueryLength is the shortest query worth searching for.
	minQueryLength = 2
	// autocompleteTimeout keeps the search inside Discord's reply window.
	autocompleteTimeout = 2500 * time.Millisecond
)

// TrackSearcher searches for tracks by free text.
type TrackSearcher interface {
	SearchTracks(ctx context.Context, input usecases.SearchTracksInput) (*usecases.SearchTracksOutput, error)
}

var _ TrackSearcher = (*usecases.TrackLoaderService)(nil)

// AutocompleteHandler handles autocomplete requests.
type AutocompleteHandler struct {
	trackSearcher TrackSearcher
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(trackSearcher TrackSearcher) *AutocompleteHandler {
	return &AutocompleteHandler{
		trackSearcher: trackSearcher,
	}
}

// HandlePlay suggests search results for the /play query.
func (h *AutocompleteHandler) HandlePlay(i *discordgo.InteractionCreate, r bot.Responder) error {
	// Get the current query value
	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "query" && opt.Focused {
			query = opt.StringValue()
			break
		}
	}

	// Don't search for very short queries
	if len([]rune(query)) < minQueryLength {
		return respondChoices(r, nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), autocompleteTimeout)
	defer cancel()

	output, err := h.trackSearcher.SearchTracks(ctx, usecases.SearchTracksInput{
		Query: query,
		Limit: maxChoices,
	})
	if err != nil {
		slog.Debug("failed to search tracks for autocomplete", "query", query, "error", err)
		return respondChoices(r, nil)
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(output.Tracks))
	for _, track := range output.Tracks {
		// A locator that does not fit would be cut into an invalid URL.
		if track.Locator == "" || len(track.Locator) > maxChoiceLength {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(fmt.Sprintf("%s (%s)", track.Title, formatDuration(track.Duration)), maxChoiceLength),
			Value: track.Locator,
		})
	}

	return respondChoices(r, choices)
}

func respondChoices(r bot.Responder, choices []*discordgo.ApplicationCommandOptionChoice) error {
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
}

// formatDuration renders d as m:ss, or h:mm:ss for an hour or more.
func formatDuration(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	hours, minutes, seconds := total/3600, total%3600/60, total%60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
