// Package plugincfg implements the slot and enablement resolution policy the
// gateway applies to pluggable capabilities. Raw user configuration flows
// through Normalize into a canonical NormalizedConfig, which a Resolver then
// consults to decide whether a given plugin may run. Both operations are pure
// and safe for concurrent use.
package plugincfg

import "sort"

// SlotName identifies a named extension point that holds at most one active
// plugin identifier.
type SlotName string

// PluginID identifies a concrete plugin implementation.
type PluginID string

// String returns the identifier as a plain string.
func (id PluginID) String() string { return string(id) }

// Tier classifies a plugin's default enablement posture.
type Tier string

// TierBundled marks plugins that ship with the gateway and are enabled by
// default. Every other tier is disabled unless explicitly enabled or
// allow-listed.
const TierBundled Tier = "bundled"

// RawEntry carries a user's explicit per-plugin preference. A nil Enabled
// means no preference was stated.
type RawEntry struct {
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// RawConfig is the loosely-typed plugins section of the gateway configuration
// as parsed from disk or the environment. Every field may be absent; malformed
// values degrade to defaults during normalization rather than failing.
type RawConfig struct {
	Slots   map[string]string   `json:"slots,omitempty" yaml:"slots,omitempty"`
	Entries map[string]RawEntry `json:"entries,omitempty" yaml:"entries,omitempty"`
	Allow   []string            `json:"allow,omitempty" yaml:"allow,omitempty"`
}

// SlotValue is the canonical state of a slot after normalization: either
// disabled or bound to a plugin identifier. Downstream code never re-parses
// sentinel strings; the disabling sentinel exists only at the raw layer.
type SlotValue struct {
	id       PluginID
	disabled bool
}

// SlotDisabled returns the value representing an intentionally empty slot.
func SlotDisabled() SlotValue { return SlotValue{disabled: true} }

// SlotPlugin returns a slot value bound to the given plugin identifier.
func SlotPlugin(id PluginID) SlotValue { return SlotValue{id: id} }

// Disabled reports whether the slot holds no plugin.
func (v SlotValue) Disabled() bool { return v.disabled }

// Plugin returns the bound plugin identifier and whether one is present.
func (v SlotValue) Plugin() (PluginID, bool) {
	if v.disabled {
		return "", false
	}
	return v.id, true
}

// Entry is the normalized per-plugin preference. Enabled stays nil when the
// user expressed none; defaulting is the Resolver's job because it also knows
// the plugin's tier.
type Entry struct {
	Enabled *bool
}

// NormalizedConfig is the fully resolved plugins configuration. It is
// immutable after construction by Normalize; accessors hand out copies.
type NormalizedConfig struct {
	slots   map[SlotName]SlotValue
	entries map[PluginID]Entry
	allow   map[PluginID]struct{}
}

// Slot returns the normalized value for the named slot and whether the slot is
// known to the configuration.
func (c NormalizedConfig) Slot(name SlotName) (SlotValue, bool) {
	v, ok := c.slots[name]
	return v, ok
}

// Slots returns a copy of all slot bindings.
func (c NormalizedConfig) Slots() map[SlotName]SlotValue {
	out := make(map[SlotName]SlotValue, len(c.slots))
	for name, v := range c.slots {
		out[name] = v
	}
	return out
}

// Entry returns the explicit preference recorded for the plugin, if any.
func (c NormalizedConfig) Entry(id PluginID) (Entry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Allowed reports whether the plugin is a member of the allow-list.
func (c NormalizedConfig) Allowed(id PluginID) bool {
	_, ok := c.allow[id]
	return ok
}

// AllowList returns the allow-listed plugin identifiers in sorted order.
func (c NormalizedConfig) AllowList() []PluginID {
	out := make([]PluginID, 0, len(c.allow))
	for id := range c.allow {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PluginIDs returns every plugin identifier the configuration references,
// whether through a slot binding, an explicit entry, or the allow-list.
func (c NormalizedConfig) PluginIDs() []PluginID {
	seen := make(map[PluginID]struct{})
	for _, v := range c.slots {
		if id, ok := v.Plugin(); ok {
			seen[id] = struct{}{}
		}
	}
	for id := range c.entries {
		seen[id] = struct{}{}
	}
	for id := range c.allow {
		seen[id] = struct{}{}
	}
	out := make([]PluginID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Raw re-exports the configuration in its wire shape. Feeding the result back
// through Normalize yields an identical configuration, which keeps
// normalization idempotent.
func (c NormalizedConfig) Raw() RawConfig {
	raw := RawConfig{}
	if len(c.slots) > 0 {
		raw.Slots = make(map[string]string, len(c.slots))
		for name, v := range c.slots {
			if id, ok := v.Plugin(); ok {
				raw.Slots[string(name)] = id.String()
			} else {
				raw.Slots[string(name)] = slotDisableSentinel
			}
		}
	}
	if len(c.entries) > 0 {
		raw.Entries = make(map[string]RawEntry, len(c.entries))
		for id, e := range c.entries {
			var enabled *bool
			if e.Enabled != nil {
				b := *e.Enabled
				enabled = &b
			}
			raw.Entries[id.String()] = RawEntry{Enabled: enabled}
		}
	}
	for _, id := range c.AllowList() {
		raw.Allow = append(raw.Allow, id.String())
	}
	return raw
}

// EnableDecision is the terminal outcome of resolving a plugin's enablement.
// Reason is non-empty only when the plugin ends up disabled, and explains why
// rather than restating the boolean.
type EnableDecision struct {
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"`
}
