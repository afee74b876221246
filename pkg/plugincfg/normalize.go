package plugincfg

import "strings"

// slotDisableSentinel is the raw-layer word that empties a slot. It is matched
// case-insensitively and never survives normalization; SlotValue carries the
// disabled state from then on.
const slotDisableSentinel = "none"

// Normalize converts a raw plugins configuration into its canonical form. It
// is pure and total: absent, empty, or whitespace-only values fall back to the
// catalog default for the slot, and no input causes a failure.
//
// Slots the catalog does not declare are kept rather than dropped, so configs
// written for newer gateways keep their meaning on older ones. They receive
// the same trimming and sentinel handling; with no default to fall back to, an
// empty value disables the slot.
func Normalize(raw RawConfig, catalog Catalog) NormalizedConfig {
	cfg := NormalizedConfig{
		slots:   make(map[SlotName]SlotValue),
		entries: make(map[PluginID]Entry, len(raw.Entries)),
		allow:   make(map[PluginID]struct{}, len(raw.Allow)),
	}

	for _, spec := range catalog.Specs() {
		value, present := raw.Slots[string(spec.Name)]
		cfg.slots[spec.Name] = normalizeSlotValue(value, present, SlotPlugin(spec.Default))
	}
	for name, value := range raw.Slots {
		slot := SlotName(name)
		if _, known := catalog.Lookup(slot); known {
			continue
		}
		cfg.slots[slot] = normalizeSlotValue(value, true, SlotDisabled())
	}

	for id, entry := range raw.Entries {
		var enabled *bool
		if entry.Enabled != nil {
			b := *entry.Enabled
			enabled = &b
		}
		cfg.entries[PluginID(id)] = Entry{Enabled: enabled}
	}

	for _, id := range raw.Allow {
		if id == "" {
			continue
		}
		cfg.allow[PluginID(id)] = struct{}{}
	}

	return cfg
}

// normalizeSlotValue applies the per-slot rules: missing or blank input yields
// the fallback, the disabling sentinel yields a disabled slot, anything else
// is taken verbatim after trimming.
func normalizeSlotValue(value string, present bool, fallback SlotValue) SlotValue {
	if !present {
		return fallback
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	if strings.EqualFold(trimmed, slotDisableSentinel) {
		return SlotDisabled()
	}
	return SlotPlugin(PluginID(trimmed))
}
