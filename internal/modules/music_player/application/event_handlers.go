package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

// PlayerEventHandler routes audio player and voice connection events to the
// guild's PlaybackController. Player state changes are queued per guild and
// applied in order by a worker goroutine, so a slow lookup in one guild never
// holds up the event bus.
type PlayerEventHandler struct {
	registry   ControllerRegistry
	subscriber ports.EventSubscriber

	mu        sync.Mutex
	mailboxes map[snowflake.ID]*mailbox
	wg        sync.WaitGroup
}

// mailbox holds the pending state changes of one guild.
type mailbox struct {
	pending []domain.PlayerStatus
}

// NewPlayerEventHandler creates a new PlayerEventHandler.
func NewPlayerEventHandler(
	registry ControllerRegistry,
	subscriber ports.EventSubscriber,
) *PlayerEventHandler {
	return &PlayerEventHandler{
		registry:   registry,
		subscriber: subscriber,
		mailboxes:  make(map[snowflake.ID]*mailbox),
	}
}

// Start registers event handlers with the subscriber.
func (h *PlayerEventHandler) Start() {
	h.subscriber.OnPlayerStateChanged(h.handlePlayerStateChanged)
	h.subscriber.OnConnectionLost(h.handleConnectionLost)

	slog.Debug("player event handlers registered")
}

func (h *PlayerEventHandler) handlePlayerStateChanged(
	ctx context.Context,
	event domain.PlayerStateChangedEvent,
) {
	if _, ok := h.registry.Get(event.GuildID); !ok {
		slog.Debug("no playback controller for player event",
			"guild", event.GuildID,
			"status", event.Status.String(),
		)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if box, ok := h.mailboxes[event.GuildID]; ok {
		box.pending = append(box.pending, event.Status)
		return
	}

	box := &mailbox{pending: []domain.PlayerStatus{event.Status}}
	h.mailboxes[event.GuildID] = box
	h.wg.Add(1)
	go h.drain(ctx, event.GuildID, box)
}

// drain applies the guild's queued state changes until its mailbox is empty.
func (h *PlayerEventHandler) drain(ctx context.Context, guildID snowflake.ID, box *mailbox) {
	defer h.wg.Done()

	for {
		h.mu.Lock()
		if len(box.pending) == 0 {
			delete(h.mailboxes, guildID)
			h.mu.Unlock()
			return
		}
		status := box.pending[0]
		box.pending = box.pending[1:]
		h.mu.Unlock()

		if controller, ok := h.registry.Get(guildID); ok {
			controller.HandlePlayerStateChanged(ctx, status)
		}
	}
}

// Wait blocks until every queued state change has been applied.
func (h *PlayerEventHandler) Wait() {
	h.wg.Wait()
}

func (h *PlayerEventHandler) handleConnectionLost(
	ctx context.Context,
	event domain.ConnectionLostEvent,
) {
	controller, ok := h.registry.Get(event.GuildID)
	if !ok {
		return
	}

	slog.Warn("voice connection lost, destroying playback controller",
		"guild", event.GuildID,
		"reason", event.Reason,
		"detail", event.Detail,
	)
	controller.Destroy(ctx)
}
