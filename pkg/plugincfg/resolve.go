package plugincfg

// Disablement reasons surfaced in EnableDecision. They are part of the policy
// contract: callers and operators key off these strings.
const (
	ReasonDeprecated         = "deprecated plugin disabled"
	ReasonExplicitlyDisabled = "explicitly disabled"
	ReasonNotDefaultTier     = "not in default tier and not allow-listed"
)

// Resolver computes enablement decisions against a fixed deprecation set. The
// set is injected at construction so tests can substitute alternatives without
// touching process-wide state; a Resolver is immutable and safe for concurrent
// use.
type Resolver struct {
	deprecated map[PluginID]struct{}
}

// NewResolver constructs a resolver that force-disables the given plugin
// identifiers.
func NewResolver(deprecated ...PluginID) *Resolver {
	set := make(map[PluginID]struct{}, len(deprecated))
	for _, id := range deprecated {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return &Resolver{deprecated: set}
}

// NewDefaultResolver constructs a resolver carrying the gateway's built-in
// deprecation set.
func NewDefaultResolver() *Resolver {
	return NewResolver(DefaultDeprecated()...)
}

// Deprecated reports whether the plugin is in the resolver's deprecation set.
func (r *Resolver) Deprecated(id PluginID) bool {
	_, ok := r.deprecated[id]
	return ok
}

// ResolveEnableState decides whether the plugin may run. Rules are evaluated
// in strict precedence order and exactly one produces the outcome:
//
//  1. deprecation: a deprecated plugin is disabled no matter what the user
//     configured, including an explicit enable or an allow-list entry
//  2. explicit entry preference: a stated enabled value is authoritative
//  3. allow-list membership enables the plugin
//  4. tier default: bundled plugins are on, everything else is off
func (r *Resolver) ResolveEnableState(id PluginID, tier Tier, cfg NormalizedConfig) EnableDecision {
	if r.Deprecated(id) {
		return EnableDecision{Enabled: false, Reason: ReasonDeprecated}
	}
	if entry, ok := cfg.Entry(id); ok && entry.Enabled != nil {
		if *entry.Enabled {
			return EnableDecision{Enabled: true}
		}
		return EnableDecision{Enabled: false, Reason: ReasonExplicitlyDisabled}
	}
	if cfg.Allowed(id) {
		return EnableDecision{Enabled: true}
	}
	if tier == TierBundled {
		return EnableDecision{Enabled: true}
	}
	return EnableDecision{Enabled: false, Reason: ReasonNotDefaultTier}
}
