package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"slotgate/pkg/plugincfg"
)

func sampleEntries(now time.Time) []Entry {
	return []Entry{
		{At: now, Plugin: "memory-core", Slot: "memory", Enabled: true},
		{At: now.Add(time.Second), Plugin: "pmos-activepieces", Enabled: false, Reason: plugincfg.ReasonDeprecated},
		{At: now.Add(2 * time.Second), Plugin: "extra", Enabled: false, Reason: plugincfg.ReasonNotDefaultTier},
	}
}

func TestMemoryJournal(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Now().UTC()

	if err := m.Append(ctx, sampleEntries(now)...); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := m.Append(ctx); err != nil {
		t.Fatalf("empty append: %v", err)
	}
	if m.Len() != 3 {
		t.Fatalf("len = %d, want 3", m.Len())
	}

	recent, err := m.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent len = %d, want 2", len(recent))
	}
	if recent[0].Plugin != "extra" || recent[1].Plugin != "pmos-activepieces" {
		t.Fatalf("recent must be newest first, got %v", recent)
	}

	all, err := m.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("recent all len = %d, want 3", len(all))
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestSQLiteJournalRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal", "decisions.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Path() != path {
		t.Fatalf("path = %q, want %q", s.Path(), path)
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := s.Append(ctx, sampleEntries(now)...); err != nil {
		t.Fatalf("append: %v", err)
	}

	recent, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("recent len = %d, want 3", len(recent))
	}
	if recent[0].Plugin != "extra" || !recent[2].Enabled {
		t.Fatalf("unexpected ordering: %v", recent)
	}
	if recent[1].Reason != plugincfg.ReasonDeprecated {
		t.Fatalf("reason lost: %+v", recent[1])
	}
	if !recent[2].At.Equal(now) {
		t.Fatalf("timestamp drift: got %v want %v", recent[2].At, now)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Entries survive reopening.
	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	recent, err = reopened.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("recent after reopen: %v", err)
	}
	if len(recent) != 1 || recent[0].Plugin != "extra" {
		t.Fatalf("persistence lost: %v", recent)
	}
}

func TestOpenFactory(t *testing.T) {
	ctx := context.Background()

	t.Setenv("SLOTGATE_JOURNAL_DRIVER", string(DriverMemory))
	j, err := Open(ctx)
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := j.(*Memory); !ok {
		t.Fatalf("driver memory returned %T", j)
	}

	t.Setenv("SLOTGATE_JOURNAL_DRIVER", string(DriverSQLite))
	t.Setenv("SLOTGATE_JOURNAL_SQLITE_PATH", filepath.Join(t.TempDir(), "j.db"))
	j, err = Open(ctx)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, ok := j.(*SQLite); !ok {
		t.Fatalf("driver sqlite returned %T", j)
	}
	_ = j.Close()

	t.Setenv("SLOTGATE_JOURNAL_DRIVER", "bogus")
	if _, err := Open(ctx); err == nil {
		t.Fatalf("unknown driver must error")
	}
}
