package mcp

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type ToolsetFactory func() Toolset

type toolsetCatalog struct {
	mu        sync.RWMutex
	factories map[string]ToolsetFactory
}

var catalog = toolsetCatalog{factories: map[string]ToolsetFactory{}}

// RegisterToolset makes a toolset available under id. Toolset packages call
// it from init.
func RegisterToolset(id string, factory ToolsetFactory) error {
	if id == "" {
		return fmt.Errorf("toolset id required")
	}
	if factory == nil {
		return fmt.Errorf("toolset %s: factory required", id)
	}
	catalog.mu.Lock()
	defer catalog.mu.Unlock()
	if _, exists := catalog.factories[id]; exists {
		return fmt.Errorf("toolset %s already registered", id)
	}
	catalog.factories[id] = factory
	return nil
}

func MustRegisterToolset(id string, factory ToolsetFactory) {
	if err := RegisterToolset(id, factory); err != nil {
		panic(err)
	}
}

func ToolsetFactoryFor(id string) (ToolsetFactory, bool) {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	factory, ok := catalog.factories[id]
	return factory, ok
}

func RegisteredToolsets() []string {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	ids := make([]string, 0, len(catalog.factories))
	for id := range catalog.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NewToolsets instantiates the requested toolsets in order, skipping
// duplicates. Unknown ids are an error naming the registered ones.
func NewToolsets(ids []string) ([]Toolset, error) {
	seen := map[string]struct{}{}
	var out []Toolset
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		factory, ok := ToolsetFactoryFor(id)
		if !ok {
			return nil, fmt.Errorf("unknown toolset %q (registered: %s)", id, strings.Join(RegisteredToolsets(), ", "))
		}
		out = append(out, factory())
	}
	return out, nil
}
