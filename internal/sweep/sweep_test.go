package sweep

import (
	"testing"
	"time"

	"plstrack/pkg/kv"
	"plstrack/pkg/models"
	"plstrack/pkg/store"
)

func seedRecord(t *testing.T, r *store.Records, id string, savedAt int64) {
	t.Helper()
	typ := models.Question
	r.WithClock(func() time.Time { return time.UnixMilli(savedAt) })
	if _, err := r.Save(id, models.Patch{Type: &typ}); err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestSweeper_EvictsStaleRecords(t *testing.T) {
	mem := kv.NewMemory()
	records := store.NewRecords(mem)

	now := int64(1_000_000_000_000)
	retention := 180 * 24 * time.Hour

	seedRecord(t, records, "stale", now-retention.Milliseconds()-1)
	seedRecord(t, records, "edge", now-retention.Milliseconds())
	seedRecord(t, records, "fresh", now-1000)

	s := New(records, retention).WithClock(func() time.Time { return time.UnixMilli(now) })
	removed, err := s.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 eviction; got %d", removed)
	}

	if rec, _ := records.Load("stale"); rec != nil {
		t.Fatalf("expected stale record deleted")
	}
	if rec, _ := records.Load("edge"); rec == nil {
		t.Fatalf("expected record exactly at the cutoff to survive")
	}
	if rec, _ := records.Load("fresh"); rec == nil {
		t.Fatalf("expected fresh record to survive")
	}

	idx, _ := records.Index()
	if _, ok := idx["stale"]; ok {
		t.Fatalf("expected stale id pruned from index")
	}
	if len(idx) != 2 {
		t.Fatalf("expected 2 surviving index entries; got %v", idx)
	}
}

func TestSweeper_SecondRunIsNoop(t *testing.T) {
	mem := kv.NewMemory()
	records := store.NewRecords(mem)

	now := int64(1_000_000_000_000)
	seedRecord(t, records, "stale", 1)

	s := New(records, DefaultRetention).WithClock(func() time.Time { return time.UnixMilli(now) })
	if removed, err := s.Run(); err != nil || removed != 1 {
		t.Fatalf("first run: removed=%d err=%v", removed, err)
	}
	if removed, err := s.Run(); err != nil || removed != 0 {
		t.Fatalf("expected second run to be a no-op; removed=%d err=%v", removed, err)
	}
}

func TestSweeper_EmptyIndex(t *testing.T) {
	records := store.NewRecords(kv.NewMemory())
	s := New(records, DefaultRetention)
	if removed, err := s.Run(); err != nil || removed != 0 {
		t.Fatalf("expected empty sweep; removed=%d err=%v", removed, err)
	}
}

func TestSweeper_IndexRewriteFailureSurfaces(t *testing.T) {
	mem := kv.NewMemory()
	records := store.NewRecords(mem)

	now := int64(1_000_000_000_000)
	seedRecord(t, records, "stale", 1)

	// record deletes are best-effort, but a failed index rewrite must be
	// reported
	mem.FailWrites = true
	s := New(records, DefaultRetention).WithClock(func() time.Time { return time.UnixMilli(now) })
	removed, err := s.Run()
	if err == nil {
		t.Fatalf("expected error when index rewrite fails")
	}
	if removed != 1 {
		t.Fatalf("expected the stale id counted despite failure; got %d", removed)
	}
}

func TestSweeper_DefaultRetention(t *testing.T) {
	s := New(store.NewRecords(kv.NewMemory()), 0)
	if s.retention != DefaultRetention {
		t.Fatalf("expected default retention for zero; got %v", s.retention)
	}
}
