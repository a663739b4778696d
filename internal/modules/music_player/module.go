package music_player

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tunebot/internal/bot"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/tunebot/internal/modules/music_player/infrastructure"
	"github.com/sglre6355/tunebot/internal/modules/music_player/presentation/discord"
	"golang.org/x/time/rate"
)

// lavalinkConnectTimeout bounds the initial connection to the Lavalink node.
const lavalinkConnectTimeout = 15 * time.Second

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*MusicPlayerModule)(nil)

// MusicPlayerModule provides music playback commands.
type MusicPlayerModule struct {
	config          *Config
	commandHandlers *discord.CommandHandlers
	eventHandlers   *discord.EventHandlers
	lavalinkAdapter *infrastructure.LavalinkAdapter
	registry        *infrastructure.MemoryRegistry

	// Event-driven components
	eventBus      *infrastructure.ChannelEventBus
	playerHandler *application.PlayerEventHandler
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the slash commands for this module.
func (m *MusicPlayerModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MusicPlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"join":    m.commandHandlers.HandleJoin,
		"leave":   m.commandHandlers.HandleLeave,
		"play":    m.commandHandlers.HandlePlay,
		"skip":    m.commandHandlers.HandleSkip,
		"loop":    m.commandHandlers.HandleLoop,
		"repeat":  m.commandHandlers.HandleRepeat,
		"queue":   m.commandHandlers.HandleQueue,
		"shuffle": m.commandHandlers.HandleShuffle,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		m.eventHandlers.HandleVoiceServerUpdate,
		m.eventHandlers.HandleVoiceStateUpdate,
		m.eventHandlers.HandleInteractionCreate,
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		return errors.New("music_player module requires a Discord session")
	}
	if m.config == nil {
		return errors.New("music_player module config not loaded")
	}

	// Create event bus (needed by Lavalink adapter for publishing events)
	m.eventBus = infrastructure.NewChannelEventBus(infrastructure.DefaultEventBufferSize)

	// Create Lavalink adapter
	ctx, cancel := context.WithTimeout(context.Background(), lavalinkConnectTimeout)
	defer cancel()

	lavalinkAdapter, err := infrastructure.NewLavalinkAdapter(ctx, deps.Session, infrastructure.LavalinkConfig{
		Address:  m.config.LavalinkAddress,
		Password: m.config.LavalinkPassword,
		Secure:   m.config.LavalinkSecure,
	})
	if err != nil {
		m.eventBus.Close()
		return err
	}
	lavalinkAdapter.SetEventPublisher(m.eventBus)
	m.lavalinkAdapter = lavalinkAdapter

	// Create media provider
	var catalog infrastructure.Catalog
	if m.config.SpotifyEnabled() {
		catalog = infrastructure.NewSpotifyCatalog(infrastructure.SpotifyConfig{
			ClientID:     m.config.SpotifyClientID,
			ClientSecret: m.config.SpotifyClientSecret,
		})
	} else {
		slog.Info("spotify credentials not configured, spotify links disabled")
	}
	provider := infrastructure.NewMediaProvider(
		lavalinkAdapter,
		catalog,
		rate.NewLimiter(rate.Limit(m.config.LookupRate), m.config.LookupBurst),
	)

	// Create infrastructure
	m.registry = infrastructure.NewMemoryRegistry()
	controllerDeps := application.ControllerDeps{
		Registry:    m.registry,
		Voice:       lavalinkAdapter,
		Player:      lavalinkAdapter,
		Provider:    provider,
		VoiceState:  infrastructure.NewVoiceStateProvider(deps.Session.State, deps.Session),
		Notifier:    infrastructure.NewNotifier(deps.Session),
		Scheduler:   infrastructure.NewTimeScheduler(),
		IdleTimeout: m.config.IdleTimeout,
	}

	// Create services
	voiceChannel := usecases.NewVoiceChannelService(controllerDeps)
	playback := usecases.NewPlaybackService(controllerDeps)
	queue := usecases.NewQueueService(m.registry)
	trackLoader := usecases.NewTrackLoaderService(provider)

	// Route player events to controllers
	m.playerHandler = application.NewPlayerEventHandler(m.registry, m.eventBus)
	m.playerHandler.Start()

	// Create presentation handlers
	m.commandHandlers = discord.NewCommandHandlers(voiceChannel, playback, queue)
	m.eventHandlers = discord.NewEventHandlers(
		lavalinkAdapter,
		discord.NewAutocompleteHandler(trackLoader),
	)

	slog.Info("music_player module initialized with Lavalink",
		"spotify", m.config.SpotifyEnabled(),
		"idle_timeout", m.config.IdleTimeout,
	)

	return nil
}

// Shutdown cleans up module resources.
func (m *MusicPlayerModule) Shutdown() error {
	// Leave every voice channel before the node connection goes away
	if m.registry != nil {
		for _, controller := range m.registry.All() {
			controller.Destroy(context.Background())
		}
	}

	// Close event bus
	if m.eventBus != nil {
		m.eventBus.Close()
	}
	if m.playerHandler != nil {
		m.playerHandler.Wait()
	}

	// Close Lavalink connection
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Close()
	}

	return nil
}
