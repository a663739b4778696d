package bot

import (
	"fmt"
	"sync"
)

// Registry holds registered modules in registration order. Module names
// and command names are unique across the registry.
type Registry struct {
	mu       sync.RWMutex
	modules  []Module
	commands map[string]string // command name -> owning module
}

// NewRegistry creates a new module registry.
func NewRegistry() *Registry {
	return &Registry{
		modules:  make([]Module, 0),
		commands: make(map[string]string),
	}
}

// Register adds a module. It fails if a module with the same name is
// already registered or if one of its commands is claimed by another module.
func (r *Registry) Register(m Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.modules {
		if existing.Name() == m.Name() {
			return fmt.Errorf("module %q is already registered", m.Name())
		}
	}

	commands := m.Commands()
	for _, cmd := range commands {
		if owner, ok := r.commands[cmd.Name]; ok {
			return fmt.Errorf("module %q: command /%s is already provided by %q", m.Name(), cmd.Name, owner)
		}
	}

	for _, cmd := range commands {
		r.commands[cmd.Name] = m.Name()
	}
	r.modules = append(r.modules, m)
	return nil
}

// Modules returns a snapshot of all registered modules.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Module, len(r.modules))
	copy(result, r.modules)
	return result
}

// globalRegistry collects the modules that register themselves from init().
var globalRegistry = NewRegistry()

// Register adds a module to the global registry. It is meant to be called
// from a module's init() and panics on a conflicting registration, since
// that can only be a programming error.
func Register(m Module) {
	if err := globalRegistry.Register(m); err != nil {
		panic("bot: " + err.Error())
	}
}

// Modules returns all modules from the global registry.
func Modules() []Module {
	return globalRegistry.Modules()
}

// ResetGlobalRegistry empties the global registry. Tests only.
func ResetGlobalRegistry() {
	globalRegistry = NewRegistry()
}
