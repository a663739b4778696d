package infrastructure

import (
	"maps"
	"slices"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application"
)

// MemoryRegistry is an in-memory implementation of ControllerRegistry.
type MemoryRegistry struct {
	mu          sync.RWMutex
	controllers map[snowflake.ID]*application.PlaybackController
}

// NewMemoryRegistry creates a new MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		controllers: make(map[snowflake.ID]*application.PlaybackController),
	}
}

// Get returns the controller for the given guild, if one is registered.
func (r *MemoryRegistry) Get(guildID snowflake.ID) (*application.PlaybackController, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	controller, ok := r.controllers[guildID]
	return controller, ok
}

// Register stores the controller under its guild. It fails with
// application.ErrControllerExists if the guild already has one.
func (r *MemoryRegistry) Register(controller *application.PlaybackController) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.controllers[controller.GuildID()]; ok {
		return application.ErrControllerExists
	}
	r.controllers[controller.GuildID()] = controller
	return nil
}

// Remove deletes the guild's entry if it is still controller.
func (r *MemoryRegistry) Remove(guildID snowflake.ID, controller *application.PlaybackController) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.controllers[guildID]; !ok || current != controller {
		return false
	}
	delete(r.controllers, guildID)
	return true
}

// All returns a snapshot of the registered controllers.
func (r *MemoryRegistry) All() []*application.PlaybackController {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Collect(maps.Values(r.controllers))
}

// Count returns the number of registered controllers (for testing/monitoring).
func (r *MemoryRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.controllers)
}

// Ensure MemoryRegistry implements application.ControllerRegistry.
var _ application.ControllerRegistry = (*MemoryRegistry)(nil)
