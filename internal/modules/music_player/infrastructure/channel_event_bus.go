package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sglre6355/tunebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunebot/internal/modules/music_player/domain"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

// Compile-time checks that ChannelEventBus implements ports interfaces.
var (
	_ ports.EventPublisher  = (*ChannelEventBus)(nil)
	_ ports.EventSubscriber = (*ChannelEventBus)(nil)
)

// ChannelEventBus provides a channel-based event bus for async event handling.
// It implements both EventPublisher and EventSubscriber interfaces. Each
// event type has its own dispatcher goroutine, so handlers of one type run
// sequentially in publish order.
type ChannelEventBus struct {
	// Channels for event delivery
	playerStateChanged chan domain.PlayerStateChangedEvent
	connectionLost     chan domain.ConnectionLostEvent

	// Handler slices for callback-based subscription
	playerStateChangedHandlers []func(context.Context, domain.PlayerStateChangedEvent)
	connectionLostHandlers     []func(context.Context, domain.ConnectionLostEvent)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewChannelEventBus creates a new ChannelEventBus with the given buffer size.
func NewChannelEventBus(bufferSize int) *ChannelEventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &ChannelEventBus{
		playerStateChanged: make(chan domain.PlayerStateChangedEvent, bufferSize),
		connectionLost:     make(chan domain.ConnectionLostEvent, bufferSize),
		ctx:                ctx,
		cancel:             cancel,
	}

	// Start dispatcher goroutines
	bus.wg.Add(2)
	go dispatch[domain.PlayerStateChangedEvent](bus, bus.playerStateChanged, func() []func(context.Context, domain.PlayerStateChangedEvent) {
		return bus.playerStateChangedHandlers
	})
	go dispatch[domain.ConnectionLostEvent](bus, bus.connectionLost, func() []func(context.Context, domain.ConnectionLostEvent) {
		return bus.connectionLostHandlers
	})

	return bus
}

// dispatch delivers events from ch to the handlers returned by handlers until
// the bus is closed.
func dispatch[E any](
	b *ChannelEventBus,
	ch <-chan E,
	handlers func() []func(context.Context, E),
) {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			b.mu.RLock()
			hs := handlers()
			b.mu.RUnlock()
			for _, handler := range hs {
				handler(b.ctx, event)
			}
		}
	}
}

// publish sends event on ch without blocking. If the channel buffer is full,
// the event is dropped with a warning.
func publish[E any](b *ChannelEventBus, ch chan<- E, event E, eventType string, guild any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", eventType)
		return
	}

	select {
	case ch <- event:
		slog.Debug("published event", "type", eventType, "guild", guild)
	default:
		slog.Warn("event buffer full, dropping event", "type", eventType, "guild", guild)
	}
}

// PublishPlayerStateChanged publishes a PlayerStateChangedEvent.
func (b *ChannelEventBus) PublishPlayerStateChanged(event domain.PlayerStateChangedEvent) {
	publish[domain.PlayerStateChangedEvent](b, b.playerStateChanged, event, "PlayerStateChanged", event.GuildID)
}

// PublishConnectionLost publishes a ConnectionLostEvent.
func (b *ChannelEventBus) PublishConnectionLost(event domain.ConnectionLostEvent) {
	publish[domain.ConnectionLostEvent](b, b.connectionLost, event, "ConnectionLost", event.GuildID)
}

// OnPlayerStateChanged registers a handler for PlayerStateChangedEvent.
func (b *ChannelEventBus) OnPlayerStateChanged(
	handler func(context.Context, domain.PlayerStateChangedEvent),
) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playerStateChangedHandlers = append(b.playerStateChangedHandlers, handler)
}

// OnConnectionLost registers a handler for ConnectionLostEvent.
func (b *ChannelEventBus) OnConnectionLost(
	handler func(context.Context, domain.ConnectionLostEvent),
) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connectionLostHandlers = append(b.connectionLostHandlers, handler)
}

// Close closes all event channels and stops dispatchers.
// After calling Close, publishing will no longer send events.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	// Cancel context to stop dispatchers
	b.cancel()

	// Close channels to unblock any pending reads
	close(b.playerStateChanged)
	close(b.connectionLost)

	// Wait for dispatchers to finish
	b.wg.Wait()

	slog.Debug("channel event bus closed")
}
