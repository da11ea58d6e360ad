// Package registry provides a global registry of entity factories.
// Entity packages register their kinds in init() functions, so scenario
// files can refer to entities by name without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/gridworld/internal/world"
)

// ErrUnknownKind is returned by Create for kinds nobody registered.
var ErrUnknownKind = errors.New("registry: unknown entity kind")

// Layer says which grid an entity kind is meant for.
type Layer string

const (
	LayerTile   Layer = "tile"
	LayerObject Layer = "object"
)

// Params are numeric construction parameters, as read from scenario files.
type Params map[string]float64

// Float returns the parameter or def when it is missing.
func (p Params) Float(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Int returns the parameter truncated to an int, or def when it is missing.
func (p Params) Int(key string, def int) int {
	if v, ok := p[key]; ok {
		return int(v)
	}
	return def
}

// Factory creates a new entity instance from its parameters.
type Factory func(p Params) (world.Entity, error)

// KindInfo contains metadata about a registered kind.
type KindInfo struct {
	Kind        string
	Layer       Layer
	Description string
}

type entry struct {
	info    KindInfo
	factory Factory
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds an entity factory to the registry.
// Typically called from an entity package's init() function.
// Panics if the kind is already registered.
func Register(info KindInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[info.Kind]; exists {
		panic(fmt.Sprintf("registry: kind %q already registered", info.Kind))
	}
	entries[info.Kind] = entry{info: info, factory: f}
}

// Kinds returns information about all registered kinds, sorted by name.
func Kinds() []KindInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]KindInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})

	return result
}

// Create instantiates a new entity of the given kind.
func Create(kind string, p Params) (world.Entity, error) {
	mu.RLock()
	e, ok := entries[kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}

	ent, err := e.factory(p)
	if err != nil {
		return nil, fmt.Errorf("registry: create %q: %w", kind, err)
	}
	return ent, nil
}

// Exists checks if an entity kind is registered.
func Exists(kind string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[kind]
	return ok
}

// Lookup returns the metadata of a registered kind.
func Lookup(kind string) (KindInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[kind]
	return e.info, ok
}
