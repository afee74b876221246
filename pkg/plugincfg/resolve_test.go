package plugincfg

import "testing"

func boolPtr(b bool) *bool { return &b }

func TestResolveEnableStatePrecedence(t *testing.T) {
	resolver := NewResolver("retired-plugin")

	cases := []struct {
		name string
		id   PluginID
		tier Tier
		raw  RawConfig
		want EnableDecision
	}{
		{
			name: "deprecated beats explicit enable and allow-list",
			id:   "retired-plugin",
			tier: TierBundled,
			raw: RawConfig{
				Entries: map[string]RawEntry{"retired-plugin": {Enabled: boolPtr(true)}},
				Allow:   []string{"retired-plugin"},
			},
			want: EnableDecision{Enabled: false, Reason: ReasonDeprecated},
		},
		{
			name: "deprecated regardless of tier",
			id:   "retired-plugin",
			tier: "community",
			raw:  RawConfig{},
			want: EnableDecision{Enabled: false, Reason: ReasonDeprecated},
		},
		{
			name: "explicit enable is authoritative",
			id:   "extra",
			tier: "community",
			raw:  RawConfig{Entries: map[string]RawEntry{"extra": {Enabled: boolPtr(true)}}},
			want: EnableDecision{Enabled: true},
		},
		{
			name: "explicit disable beats bundled tier",
			id:   "core-tool",
			tier: TierBundled,
			raw:  RawConfig{Entries: map[string]RawEntry{"core-tool": {Enabled: boolPtr(false)}}},
			want: EnableDecision{Enabled: false, Reason: ReasonExplicitlyDisabled},
		},
		{
			name: "explicit disable beats allow-list",
			id:   "extra",
			tier: "community",
			raw: RawConfig{
				Entries: map[string]RawEntry{"extra": {Enabled: boolPtr(false)}},
				Allow:   []string{"extra"},
			},
			want: EnableDecision{Enabled: false, Reason: ReasonExplicitlyDisabled},
		},
		{
			name: "entry without preference defers to allow-list",
			id:   "extra",
			tier: "community",
			raw: RawConfig{
				Entries: map[string]RawEntry{"extra": {}},
				Allow:   []string{"extra"},
			},
			want: EnableDecision{Enabled: true},
		},
		{
			name: "allow-list grants outside default tier",
			id:   "extra",
			tier: "community",
			raw:  RawConfig{Allow: []string{"extra"}},
			want: EnableDecision{Enabled: true},
		},
		{
			name: "bundled tier default on",
			id:   "core-tool",
			tier: TierBundled,
			raw:  RawConfig{},
			want: EnableDecision{Enabled: true},
		},
		{
			name: "non-bundled tier default off with reason",
			id:   "extra",
			tier: "community",
			raw:  RawConfig{},
			want: EnableDecision{Enabled: false, Reason: ReasonNotDefaultTier},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Normalize(tc.raw, DefaultCatalog())
			got := resolver.ResolveEnableState(tc.id, tc.tier, cfg)
			if got != tc.want {
				t.Fatalf("decision = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestResolveDefaultDeprecationScenario(t *testing.T) {
	// The retired activepieces plugin must stay off even when explicitly
	// enabled, allow-listed, and declared bundled.
	raw := RawConfig{
		Entries: map[string]RawEntry{"pmos-activepieces": {Enabled: boolPtr(true)}},
		Allow:   []string{"pmos-activepieces"},
	}
	cfg := Normalize(raw, DefaultCatalog())

	got := NewDefaultResolver().ResolveEnableState("pmos-activepieces", TierBundled, cfg)
	want := EnableDecision{Enabled: false, Reason: ReasonDeprecated}
	if got != want {
		t.Fatalf("decision = %+v, want %+v", got, want)
	}
}

func TestResolverInjectedSet(t *testing.T) {
	cfg := Normalize(RawConfig{}, DefaultCatalog())

	// A resolver with an empty set revives nothing implicitly; the default
	// set is opt-in via NewDefaultResolver.
	if dec := NewResolver().ResolveEnableState("pmos-activepieces", TierBundled, cfg); !dec.Enabled {
		t.Fatalf("empty deprecation set should not disable: %+v", dec)
	}
	if !NewDefaultResolver().Deprecated("pmos-activepieces") {
		t.Fatalf("default deprecation set missing pmos-activepieces")
	}
	if NewDefaultResolver().Deprecated("memory-core") {
		t.Fatalf("memory-core must not be deprecated")
	}
}

func TestResolveReasonOnlyWhenDisabled(t *testing.T) {
	cfg := Normalize(RawConfig{Allow: []string{"extra"}}, DefaultCatalog())
	resolver := NewDefaultResolver()

	for _, tc := range []struct {
		id   PluginID
		tier Tier
	}{
		{"memory-core", TierBundled},
		{"extra", "community"},
	} {
		if dec := resolver.ResolveEnableState(tc.id, tc.tier, cfg); !dec.Enabled || dec.Reason != "" {
			t.Fatalf("%s: enabled decisions must carry no reason: %+v", tc.id, dec)
		}
	}
}
