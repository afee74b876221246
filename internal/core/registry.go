// Package core wires the plugin policy into the gateway: a registry of known
// plugin implementations and an activation service that turns raw user
// configuration into the report the router consumes.
package core

import (
	"fmt"

	"slotgate/pkg/plugincfg"
)

// TierExternal is assigned to plugins the gateway has no descriptor for. They
// are never default-on; only an explicit entry or the allow-list can enable
// them.
const TierExternal plugincfg.Tier = "external"

// PluginDescriptor describes an installed plugin implementation.
type PluginDescriptor struct {
	ID      plugincfg.PluginID
	Version string
	Tier    plugincfg.Tier
	Slots   []plugincfg.SlotName // slots the plugin can fill
}

// Registry holds plugin descriptors keyed by identifier. Registration order is
// preserved for deterministic reporting.
type Registry struct {
	order []plugincfg.PluginID
	byID  map[plugincfg.PluginID]PluginDescriptor
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[plugincfg.PluginID]PluginDescriptor)}
}

// Register adds a descriptor. Duplicate identifiers are rejected.
func (r *Registry) Register(desc PluginDescriptor) error {
	if desc.ID == "" {
		return fmt.Errorf("plugin descriptor requires an identifier")
	}
	if _, exists := r.byID[desc.ID]; exists {
		return fmt.Errorf("plugin %s already registered", desc.ID)
	}
	desc.Slots = append([]plugincfg.SlotName(nil), desc.Slots...)
	r.byID[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	return nil
}

// Lookup returns the descriptor for the identifier, if registered.
func (r *Registry) Lookup(id plugincfg.PluginID) (PluginDescriptor, bool) {
	desc, ok := r.byID[id]
	if ok {
		desc.Slots = append([]plugincfg.SlotName(nil), desc.Slots...)
	}
	return desc, ok
}

// Tier returns the plugin's declared tier, or TierExternal when unregistered.
func (r *Registry) Tier(id plugincfg.PluginID) plugincfg.Tier {
	if desc, ok := r.byID[id]; ok {
		return desc.Tier
	}
	return TierExternal
}

// Descriptors returns registered descriptors in registration order.
func (r *Registry) Descriptors() []PluginDescriptor {
	out := make([]PluginDescriptor, 0, len(r.order))
	for _, id := range r.order {
		desc := r.byID[id]
		desc.Slots = append([]plugincfg.SlotName(nil), desc.Slots...)
		out = append(out, desc)
	}
	return out
}

// Builtin returns the registry of plugins the gateway ships with.
func Builtin() *Registry {
	r := NewRegistry()
	// Registration of the bundled set cannot fail: identifiers are unique.
	_ = r.Register(PluginDescriptor{
		ID:      plugincfg.DefaultMemoryPlugin,
		Version: "builtin",
		Tier:    plugincfg.TierBundled,
		Slots:   []plugincfg.SlotName{plugincfg.SlotMemory},
	})
	return r
}
