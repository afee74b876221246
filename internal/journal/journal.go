// Package journal records enablement decisions so operators can answer why a
// plugin was on or off at a point in time. It is an append-only advisory log:
// it never influences resolution and never stores configuration.
package journal

import (
	"context"
	"time"

	"slotgate/pkg/plugincfg"
)

// Entry is one recorded decision. Slot is empty for decisions that were not
// taken on behalf of a slot binding.
type Entry struct {
	At      time.Time          `json:"at"`
	Plugin  plugincfg.PluginID `json:"plugin"`
	Slot    plugincfg.SlotName `json:"slot,omitempty"`
	Enabled bool               `json:"enabled"`
	Reason  string             `json:"reason,omitempty"`
}

// Journal is the interface decision sinks implement.
type Journal interface {
	// Append records the entries in order.
	Append(ctx context.Context, entries ...Entry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
	// Close releases backing resources.
	Close() error
}
