package plugincfg

// SlotSpec declares a known slot together with the plugin identifier that
// fills it when the user expresses no choice.
type SlotSpec struct {
	Name    SlotName
	Default PluginID
}

// Catalog is the ordered set of slots the gateway recognises. Order is
// preserved so reports and manifests list slots deterministically.
type Catalog struct {
	specs []SlotSpec
}

// NewCatalog builds a catalog from the given specs. Later duplicates of a slot
// name are ignored.
func NewCatalog(specs ...SlotSpec) Catalog {
	seen := make(map[SlotName]struct{}, len(specs))
	out := make([]SlotSpec, 0, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			continue
		}
		if _, dup := seen[spec.Name]; dup {
			continue
		}
		seen[spec.Name] = struct{}{}
		out = append(out, spec)
	}
	return Catalog{specs: out}
}

// Specs returns a copy of the declared slots in declaration order.
func (c Catalog) Specs() []SlotSpec {
	out := make([]SlotSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Lookup returns the spec for the named slot, if declared.
func (c Catalog) Lookup(name SlotName) (SlotSpec, bool) {
	for _, spec := range c.specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return SlotSpec{}, false
}

// SlotMemory is the memory capability slot.
const SlotMemory SlotName = "memory"

// DefaultMemoryPlugin fills the memory slot unless the user picks another
// implementation or disables the slot.
const DefaultMemoryPlugin PluginID = "memory-core"

// DefaultCatalog returns the slots the gateway ships with.
func DefaultCatalog() Catalog {
	return NewCatalog(SlotSpec{Name: SlotMemory, Default: DefaultMemoryPlugin})
}

// DefaultDeprecated returns the plugin identifiers that are retired and can
// never be enabled, independent of user configuration.
func DefaultDeprecated() []PluginID {
	return []PluginID{"pmos-activepieces"}
}
