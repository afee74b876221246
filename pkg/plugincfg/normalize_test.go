package plugincfg

import (
	"reflect"
	"testing"
)

func TestNormalizeSlotDefaults(t *testing.T) {
	cases := []struct {
		name string
		raw  RawConfig
		want SlotValue
	}{
		{name: "empty config falls back to default", raw: RawConfig{}, want: SlotPlugin(DefaultMemoryPlugin)},
		{name: "nil slots map falls back to default", raw: RawConfig{Slots: nil}, want: SlotPlugin(DefaultMemoryPlugin)},
		{name: "empty string falls back to default", raw: RawConfig{Slots: map[string]string{"memory": ""}}, want: SlotPlugin(DefaultMemoryPlugin)},
		{name: "whitespace only falls back to default", raw: RawConfig{Slots: map[string]string{"memory": "   \t "}}, want: SlotPlugin(DefaultMemoryPlugin)},
		{name: "identifier is trimmed", raw: RawConfig{Slots: map[string]string{"memory": "  custom-memory  "}}, want: SlotPlugin("custom-memory")},
		{name: "case preserved", raw: RawConfig{Slots: map[string]string{"memory": "MyMemory"}}, want: SlotPlugin("MyMemory")},
		{name: "none disables", raw: RawConfig{Slots: map[string]string{"memory": "none"}}, want: SlotDisabled()},
		{name: "None disables", raw: RawConfig{Slots: map[string]string{"memory": "None"}}, want: SlotDisabled()},
		{name: "NONE disables", raw: RawConfig{Slots: map[string]string{"memory": "NONE"}}, want: SlotDisabled()},
		{name: "nOnE disables", raw: RawConfig{Slots: map[string]string{"memory": "nOnE"}}, want: SlotDisabled()},
		{name: "padded none disables", raw: RawConfig{Slots: map[string]string{"memory": "  None \t"}}, want: SlotDisabled()},
		{name: "none prefix is an identifier", raw: RawConfig{Slots: map[string]string{"memory": "nonexistent"}}, want: SlotPlugin("nonexistent")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Normalize(tc.raw, DefaultCatalog())
			got, ok := cfg.Slot(SlotMemory)
			if !ok {
				t.Fatalf("memory slot missing from normalized config")
			}
			if got != tc.want {
				t.Fatalf("memory slot = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestNormalizeUnknownSlotsPassThrough(t *testing.T) {
	raw := RawConfig{Slots: map[string]string{
		"memory":    "memory-core",
		"telemetry": "  otel-bridge ",
		"search":    "None",
		"future":    "   ",
	}}
	cfg := Normalize(raw, DefaultCatalog())

	if v, ok := cfg.Slot("telemetry"); !ok || v != SlotPlugin("otel-bridge") {
		t.Fatalf("telemetry slot = %+v (%v), want otel-bridge", v, ok)
	}
	if v, ok := cfg.Slot("search"); !ok || !v.Disabled() {
		t.Fatalf("search slot = %+v (%v), want disabled", v, ok)
	}
	// An unknown slot has no catalog default: blank input disables it.
	if v, ok := cfg.Slot("future"); !ok || !v.Disabled() {
		t.Fatalf("future slot = %+v (%v), want disabled", v, ok)
	}
}

func TestNormalizeEntriesPreserveTriState(t *testing.T) {
	on, off := true, false
	raw := RawConfig{Entries: map[string]RawEntry{
		"alpha": {Enabled: &on},
		"beta":  {Enabled: &off},
		"gamma": {},
	}}
	cfg := Normalize(raw, DefaultCatalog())

	if e, ok := cfg.Entry("alpha"); !ok || e.Enabled == nil || !*e.Enabled {
		t.Fatalf("alpha entry = %+v (%v), want enabled=true", e, ok)
	}
	if e, ok := cfg.Entry("beta"); !ok || e.Enabled == nil || *e.Enabled {
		t.Fatalf("beta entry = %+v (%v), want enabled=false", e, ok)
	}
	if e, ok := cfg.Entry("gamma"); !ok || e.Enabled != nil {
		t.Fatalf("gamma entry = %+v (%v), want no preference", e, ok)
	}
	if _, ok := cfg.Entry("delta"); ok {
		t.Fatalf("delta entry should be absent")
	}
}

func TestNormalizeAllowDeduplicates(t *testing.T) {
	raw := RawConfig{Allow: []string{"beta", "alpha", "beta", "", "alpha"}}
	cfg := Normalize(raw, DefaultCatalog())

	want := []PluginID{"alpha", "beta"}
	if got := cfg.AllowList(); !reflect.DeepEqual(got, want) {
		t.Fatalf("allow list = %v, want %v", got, want)
	}
	if !cfg.Allowed("alpha") || !cfg.Allowed("beta") {
		t.Fatalf("membership lookup failed")
	}
	if cfg.Allowed("") {
		t.Fatalf("empty identifier must not be allow-listed")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	off := false
	raw := RawConfig{
		Slots:   map[string]string{"memory": "  Custom-Memory ", "search": "NONE", "telemetry": "otel-bridge"},
		Entries: map[string]RawEntry{"alpha": {Enabled: &off}, "beta": {}},
		Allow:   []string{"gamma", "gamma", "alpha"},
	}
	catalog := DefaultCatalog()

	once := Normalize(raw, catalog)
	twice := Normalize(once.Raw(), catalog)

	if !reflect.DeepEqual(once.Slots(), twice.Slots()) {
		t.Fatalf("slots changed on renormalization: %v vs %v", once.Slots(), twice.Slots())
	}
	if !reflect.DeepEqual(once.AllowList(), twice.AllowList()) {
		t.Fatalf("allow list changed on renormalization")
	}
	for _, id := range once.PluginIDs() {
		a, aok := once.Entry(id)
		b, bok := twice.Entry(id)
		if aok != bok {
			t.Fatalf("entry presence for %s changed on renormalization", id)
		}
		if aok && !reflect.DeepEqual(a, b) {
			t.Fatalf("entry for %s changed on renormalization: %+v vs %+v", id, a, b)
		}
	}
}

func TestNormalizedConfigAccessorsCopy(t *testing.T) {
	cfg := Normalize(RawConfig{Slots: map[string]string{"memory": "custom"}}, DefaultCatalog())

	slots := cfg.Slots()
	slots[SlotMemory] = SlotDisabled()
	if v, _ := cfg.Slot(SlotMemory); v != SlotPlugin("custom") {
		t.Fatalf("mutating the Slots copy leaked into the config")
	}
}

func TestNormalizePluginIDs(t *testing.T) {
	on := true
	raw := RawConfig{
		Slots:   map[string]string{"memory": "custom-memory"},
		Entries: map[string]RawEntry{"alpha": {Enabled: &on}},
		Allow:   []string{"beta"},
	}
	cfg := Normalize(raw, DefaultCatalog())

	want := []PluginID{"alpha", "beta", "custom-memory"}
	if got := cfg.PluginIDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("plugin ids = %v, want %v", got, want)
	}
}
