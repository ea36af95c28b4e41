package store

import (
	"sort"
	"testing"

	"plstrack/pkg/kv"
)

func TestRevisits_AddOverwrites(t *testing.T) {
	q := NewRevisits(kv.NewMemory())

	if err := q.Add("1", 100); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := q.Add("1", 200); err != nil {
		t.Fatalf("second Add: %v", err)
	}
	m, err := q.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(m) != 1 || m["1"] != 200 {
		t.Fatalf("expected rescheduled entry; got %v", m)
	}
}

func TestRevisits_ListDueBoundary(t *testing.T) {
	q := NewRevisits(kv.NewMemory())
	_ = q.Add("past", 50)
	_ = q.Add("exact", 100)
	_ = q.Add("future", 101)

	due, err := q.ListDue(100)
	if err != nil {
		t.Fatalf("ListDue: %v", err)
	}
	sort.Strings(due)
	if len(due) != 2 || due[0] != "exact" || due[1] != "past" {
		t.Fatalf("expected entries at or before now; got %v", due)
	}
}

func TestRevisits_Remove(t *testing.T) {
	q := NewRevisits(kv.NewMemory())
	_ = q.Add("1", 10)
	_ = q.Add("2", 20)
	_ = q.Add("3", 30)

	if err := q.Remove([]string{"1", "3", "never-there"}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	m, _ := q.All()
	if len(m) != 1 || m["2"] != 20 {
		t.Fatalf("expected only id 2 left; got %v", m)
	}

	// empty removal is a no-op, not a write
	if err := q.Remove(nil); err != nil {
		t.Fatalf("Remove nil: %v", err)
	}
}

func TestRevisits_EmptyAndCorrupt(t *testing.T) {
	mem := kv.NewMemory()
	q := NewRevisits(mem)

	m, err := q.All()
	if err != nil || len(m) != 0 {
		t.Fatalf("expected empty schedule; got %v err=%v", m, err)
	}

	if err := mem.Set("revisits", "garbage"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	m, err = q.All()
	if err != nil || len(m) != 0 {
		t.Fatalf("expected corrupt schedule to read as empty; got %v err=%v", m, err)
	}
}
