package store

import (
	"testing"
	"time"

	"plstrack/pkg/kv"
	"plstrack/pkg/models"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func strptr(s string) *string { return &s }

func TestRecords_SaveAndLoad(t *testing.T) {
	mem := kv.NewMemory()
	r := NewRecords(mem).WithClock(fixedClock(1000))

	typ := models.Question
	rec, err := r.Save("100", models.Patch{
		Type:   &typ,
		URL:    strptr("https://stackoverflow.com/q/100"),
		Reason: strptr("Duplicate"),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.ID != "100" || rec.Time != 1000 || rec.Type != models.Question {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := r.Load("100")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || got.Reason != "Duplicate" {
		t.Fatalf("expected saved record back; got %+v", got)
	}
}

func TestRecords_SaveMergesAndRestamps(t *testing.T) {
	mem := kv.NewMemory()
	r := NewRecords(mem).WithClock(fixedClock(1000))

	typ := models.Question
	if _, err := r.Save("1", models.Patch{Type: &typ, Reason: strptr("old")}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	r.WithClock(fixedClock(2000))
	rec, err := r.Save("1", models.Patch{Details: strptr("more context")})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if rec.Time != 2000 {
		t.Fatalf("expected restamped time 2000; got %d", rec.Time)
	}
	if rec.Reason != "old" || rec.Details != "more context" || rec.Type != models.Question {
		t.Fatalf("expected merged record; got %+v", rec)
	}
}

func TestRecords_IndexTracksSaves(t *testing.T) {
	mem := kv.NewMemory()
	r := NewRecords(mem).WithClock(fixedClock(5))

	typ := models.Answer
	if _, err := r.Save("7", models.Patch{Type: &typ}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	idx, err := r.Index()
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if idx["7"] != 5 {
		t.Fatalf("expected index entry at save time; got %v", idx)
	}
}

func TestRecords_DeleteLeavesIndex(t *testing.T) {
	mem := kv.NewMemory()
	r := NewRecords(mem).WithClock(fixedClock(5))

	typ := models.Question
	if _, err := r.Save("9", models.Patch{Type: &typ}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := r.Delete("9"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec, err := r.Load("9"); err != nil || rec != nil {
		t.Fatalf("expected record gone; got %+v err=%v", rec, err)
	}
	idx, _ := r.Index()
	if _, ok := idx["9"]; !ok {
		t.Fatalf("expected index entry preserved for the sweeper")
	}
}

func TestRecords_LoadAbsentAndCorrupt(t *testing.T) {
	mem := kv.NewMemory()
	r := NewRecords(mem)

	if rec, err := r.Load("nope"); err != nil || rec != nil {
		t.Fatalf("expected (nil, nil) for absent record; got %+v err=%v", rec, err)
	}

	if err := mem.Set("post-bad", "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if rec, err := r.Load("bad"); err != nil || rec != nil {
		t.Fatalf("expected corrupt record to read as absent; got %+v err=%v", rec, err)
	}
}

func TestRecords_SaveSurfacesWriteFailure(t *testing.T) {
	mem := kv.NewMemory()
	mem.FailWrites = true
	r := NewRecords(mem)

	typ := models.Question
	if _, err := r.Save("1", models.Patch{Type: &typ}); err == nil {
		t.Fatalf("expected save to fail while store is unavailable")
	}
}

func TestRecords_LogSentAndLastSent(t *testing.T) {
	mem := kv.NewMemory()
	r := NewRecords(mem).WithClock(fixedClock(77))

	if st, err := r.LastSent("1"); err != nil || st != nil {
		t.Fatalf("expected nil stamp before any send; got %+v err=%v", st, err)
	}
	if err := r.LogSent("1", "cv-pls"); err != nil {
		t.Fatalf("LogSent: %v", err)
	}
	st, err := r.LastSent("1")
	if err != nil {
		t.Fatalf("LastSent: %v", err)
	}
	if st == nil || st.Type != "cv-pls" || st.Time != 77 {
		t.Fatalf("unexpected stamp: %+v", st)
	}

	r.WithClock(fixedClock(99))
	if err := r.LogSent("1", "del-pls"); err != nil {
		t.Fatalf("second LogSent: %v", err)
	}
	st, _ = r.LastSent("1")
	if st.Type != "del-pls" || st.Time != 99 {
		t.Fatalf("expected newest stamp to win; got %+v", st)
	}
}
