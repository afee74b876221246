package core

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"slotgate/internal/journal"
	"slotgate/pkg/plugincfg"
)

// ReasonSlotDisabled explains a slot binding that is empty because the user
// disabled the slot, as opposed to a selected plugin failing resolution.
const ReasonSlotDisabled = "slot disabled in configuration"

// SlotBinding is the resolved state of one slot.
type SlotBinding struct {
	Slot     plugincfg.SlotName        `json:"slot"`
	Plugin   plugincfg.PluginID        `json:"plugin,omitempty"`
	Disabled bool                      `json:"disabled"`
	Reason   string                    `json:"reason,omitempty"`
	Decision *plugincfg.EnableDecision `json:"decision,omitempty"`
}

// PluginDecision pairs a plugin with its resolved enablement.
type PluginDecision struct {
	Plugin     plugincfg.PluginID       `json:"plugin"`
	Tier       plugincfg.Tier           `json:"tier"`
	Registered bool                     `json:"registered"`
	Decision   plugincfg.EnableDecision `json:"decision"`
}

// ActivationReport is what the gateway's request routing consumes: the final
// slot bindings plus a decision for every known or referenced plugin.
type ActivationReport struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Slots       []SlotBinding    `json:"slots"`
	Plugins     []PluginDecision `json:"plugins"`
}

// Binding returns the report's binding for the named slot.
func (r ActivationReport) Binding(slot plugincfg.SlotName) (SlotBinding, bool) {
	for _, b := range r.Slots {
		if b.Slot == slot {
			return b, true
		}
	}
	return SlotBinding{}, false
}

// Decision returns the report's decision for the plugin.
func (r ActivationReport) Decision(id plugincfg.PluginID) (PluginDecision, bool) {
	for _, d := range r.Plugins {
		if d.Plugin == id {
			return d, true
		}
	}
	return PluginDecision{}, false
}

// Service resolves raw plugin configuration into activation reports. The
// heavy lifting stays in the pure policy core; the service adds the registry,
// observability, and the decision journal.
type Service struct {
	catalog  plugincfg.Catalog
	registry *Registry
	resolver *plugincfg.Resolver
	metrics  MetricsRecorder
	tracer   Tracer
	journal  journal.Journal
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs an activation service.
func NewService(catalog plugincfg.Catalog, registry *Registry, resolver *plugincfg.Resolver) *Service {
	return &Service{
		catalog:  catalog,
		registry: registry,
		resolver: resolver,
		logger:   slog.Default(),
		now:      time.Now,
	}
}

// NewDefaultService constructs a service over the built-in catalog, registry,
// and deprecation set.
func NewDefaultService() *Service {
	return NewService(plugincfg.DefaultCatalog(), Builtin(), plugincfg.NewDefaultResolver())
}

// SetMetrics wires a metrics recorder.
func (s *Service) SetMetrics(m MetricsRecorder) { s.metrics = m }

// SetTracer wires a tracer.
func (s *Service) SetTracer(t Tracer) { s.tracer = t }

// SetJournal wires a decision journal. Journal failures are logged, never
// surfaced: the policy outcome stays authoritative.
func (s *Service) SetJournal(j journal.Journal) { s.journal = j }

// SetLogger overrides the diagnostic logger.
func (s *Service) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Registry returns the service's plugin registry.
func (s *Service) Registry() *Registry { return s.registry }

// Normalize canonicalizes a raw configuration against the service catalog.
func (s *Service) Normalize(raw plugincfg.RawConfig) plugincfg.NormalizedConfig {
	return plugincfg.Normalize(raw, s.catalog)
}

// EnableState resolves a single plugin against an already-normalized
// configuration, using the registry for tier lookup. Suitable for per-request
// checks on hot paths.
func (s *Service) EnableState(id plugincfg.PluginID, cfg plugincfg.NormalizedConfig) plugincfg.EnableDecision {
	return s.resolver.ResolveEnableState(id, s.registry.Tier(id), cfg)
}

// Activate normalizes the raw configuration and resolves every slot and every
// known or referenced plugin. The returned report is self-contained; callers
// never consult the raw input again.
func (s *Service) Activate(ctx context.Context, raw plugincfg.RawConfig) ActivationReport {
	started := s.now()
	var span TraceSpan
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, "activate")
	}

	cfg := plugincfg.Normalize(raw, s.catalog)
	report := ActivationReport{GeneratedAt: started.UTC()}
	report.Plugins = s.resolvePlugins(cfg)
	report.Slots = s.resolveSlots(cfg, report)

	s.record(ctx, started, report)
	if span != nil {
		span.End(nil)
	}
	return report
}

// resolvePlugins decides every plugin the registry or the configuration
// mentions, sorted by identifier.
func (s *Service) resolvePlugins(cfg plugincfg.NormalizedConfig) []PluginDecision {
	ids := make(map[plugincfg.PluginID]struct{})
	for _, desc := range s.registry.Descriptors() {
		ids[desc.ID] = struct{}{}
	}
	for _, id := range cfg.PluginIDs() {
		ids[id] = struct{}{}
	}

	out := make([]PluginDecision, 0, len(ids))
	for id := range ids {
		_, registered := s.registry.Lookup(id)
		tier := s.registry.Tier(id)
		out = append(out, PluginDecision{
			Plugin:     id,
			Tier:       tier,
			Registered: registered,
			Decision:   s.resolver.ResolveEnableState(id, tier, cfg),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plugin < out[j].Plugin })
	return out
}

// resolveSlots binds each slot to its selected plugin, or reports why the
// slot is empty. Catalog slots come first in declaration order, then
// pass-through slots sorted by name.
func (s *Service) resolveSlots(cfg plugincfg.NormalizedConfig, report ActivationReport) []SlotBinding {
	slots := cfg.Slots()

	names := make([]plugincfg.SlotName, 0, len(slots))
	for _, spec := range s.catalog.Specs() {
		names = append(names, spec.Name)
	}
	var extra []plugincfg.SlotName
	for name := range slots {
		if _, known := s.catalog.Lookup(name); !known {
			extra = append(extra, name)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	names = append(names, extra...)

	out := make([]SlotBinding, 0, len(names))
	for _, name := range names {
		value := slots[name]
		if value.Disabled() {
			out = append(out, SlotBinding{Slot: name, Disabled: true, Reason: ReasonSlotDisabled})
			continue
		}
		id, _ := value.Plugin()
		binding := SlotBinding{Slot: name, Plugin: id}
		if dec, ok := report.Decision(id); ok {
			d := dec.Decision
			binding.Decision = &d
			if !d.Enabled {
				binding.Disabled = true
				binding.Reason = d.Reason
			}
		}
		out = append(out, binding)
	}
	return out
}

// record feeds metrics and the journal after an activation.
func (s *Service) record(ctx context.Context, started time.Time, report ActivationReport) {
	if s.metrics != nil {
		s.metrics.Observe(ctx, "activate", true, s.now().Sub(started))
		if dc, ok := s.metrics.(DecisionCounter); ok {
			for _, d := range report.Plugins {
				dc.CountDecision(d.Decision.Enabled, d.Decision.Reason)
			}
		}
	}
	if s.journal == nil {
		return
	}
	slotOf := make(map[plugincfg.PluginID]plugincfg.SlotName, len(report.Slots))
	for _, b := range report.Slots {
		if b.Plugin != "" {
			slotOf[b.Plugin] = b.Slot
		}
	}
	entries := make([]journal.Entry, 0, len(report.Plugins))
	for _, d := range report.Plugins {
		entries = append(entries, journal.Entry{
			At:      report.GeneratedAt,
			Plugin:  d.Plugin,
			Slot:    slotOf[d.Plugin],
			Enabled: d.Decision.Enabled,
			Reason:  d.Decision.Reason,
		})
	}
	if err := s.journal.Append(ctx, entries...); err != nil {
		s.logger.Warn("decision journal append failed", "error", err, "entries", len(entries))
	}
}
