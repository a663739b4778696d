package presentation

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tunebot/internal/bot"
	"github.com/sglre6355/tunebot/internal/modules/utility/application"
)

// PingHandler handles the /ping command.
type PingHandler struct {
	interactor *application.PingInteractor
}

// NewPingHandler creates a new PingHandler.
func NewPingHandler() *PingHandler {
	return newPingHandler(time.Now)
}

func newPingHandler(now func() time.Time) *PingHandler {
	return &PingHandler{
		interactor: application.NewPingInteractor(now),
	}
}

// Handle replies, then edits the reply with the time it took to get there.
func (h *PingHandler) Handle(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Pinging...",
		},
	}); err != nil {
		return err
	}

	result, err := h.interactor.Execute(i.ID)
	if err != nil {
		return err
	}

	content := result.Message()
	return r.Edit(&discordgo.WebhookEdit{
		Content: &content,
	})
}
