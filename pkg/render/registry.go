package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownRenderer is returned by Get when neither a renderer nor an alias
// matches the requested name.
var ErrUnknownRenderer = errors.New("render: unknown renderer")

// Registry resolves renderers by name or alias. Lookups ignore case. It is
// safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Renderer
	// aliases maps every accepted key, canonical names included, to the
	// canonical name.
	aliases map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Renderer),
		aliases: make(map[string]string),
	}
}

// Register adds renderer under its Name() plus any aliases. Nothing is
// registered when a name or alias is already taken.
func (r *Registry) Register(renderer Renderer, aliases ...string) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := strings.ToLower(strings.TrimSpace(renderer.Name()))
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	keys := []string{name}
	for _, alias := range aliases {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if alias == "" || slices.Contains(keys, alias) {
			continue
		}
		keys = append(keys, alias)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		if owner, taken := r.aliases[key]; taken {
			return fmt.Errorf("render: %q is already registered to %s", key, owner)
		}
	}
	r.entries[name] = renderer
	for _, key := range keys {
		r.aliases[key] = name
	}
	return nil
}

// MustRegister is Register for init-time wiring; it panics on error.
func (r *Registry) MustRegister(renderer Renderer, aliases ...string) {
	if err := r.Register(renderer, aliases...); err != nil {
		panic(err)
	}
}

// Get resolves name, which may be an alias.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if canonical, ok := r.aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return r.entries[canonical], nil
	}
	return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownRenderer, name, strings.Join(r.names(), ", "))
}

// Has reports whether name or an alias of that name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// Names lists the canonical renderer names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
