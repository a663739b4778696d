package bot

import "github.com/bwmarrin/discordgo"

// InteractionHandler responds to one slash command invocation.
type InteractionHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error

// EventHandler is any function discordgo.Session.AddHandler accepts, such as
// func(*discordgo.Session, *discordgo.VoiceStateUpdate).
type EventHandler any

// ModuleDependencies are handed to Module.Init.
type ModuleDependencies struct {
	// Session is already connected to the gateway, so Session.State.User
	// holds the bot's own user.
	Session *discordgo.Session
}

// Module is a self-contained feature of the bot. Modules register themselves
// from init() with Register; the bot then drives them through
//
//	LoadConfig (ConfigurableModule only) -> gateway connect -> Init ->
//	command registration -> ... -> Shutdown
type Module interface {
	// Name identifies the module in logs and must be unique.
	Name() string

	// Commands returns the module's slash command definitions. They must be
	// available before Init.
	Commands() []*discordgo.ApplicationCommand

	// CommandHandlers maps each of the module's command names to its handler.
	CommandHandlers() map[string]InteractionHandler

	// EventHandlers returns gateway event handlers, added after Init.
	EventHandlers() []EventHandler

	Init(deps ModuleDependencies) error

	// Shutdown releases what Init acquired. It is called in reverse
	// registration order while the session is still open.
	Shutdown() error
}

// ConfigurableModule is implemented by modules that read their own
// configuration. LoadConfig runs before the gateway connection is opened, so
// a missing variable fails startup without touching Discord.
type ConfigurableModule interface {
	LoadConfig() error
}
