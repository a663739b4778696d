package utility

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tunebot/internal/bot"
	"github.com/sglre6355/tunebot/internal/modules/utility/presentation"
)

func init() {
	bot.Register(&UtilityModule{})
}

// UtilityModule provides general purpose commands like /ping.
type UtilityModule struct {
	pingHandler *presentation.PingHandler
}

// Name returns the module name.
func (m *UtilityModule) Name() string {
	return "utility"
}

// Commands returns the slash commands for this module.
func (m *UtilityModule) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Show the bot's roundtrip latency",
		},
	}
}

// CommandHandlers returns the command handlers for this module.
func (m *UtilityModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"ping": m.pingHandler.Handle,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *UtilityModule) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *UtilityModule) Init(deps bot.ModuleDependencies) error {
	m.pingHandler = presentation.NewPingHandler()
	return nil
}

// Shutdown cleans up module resources.
func (m *UtilityModule) Shutdown() error {
	return nil
}
