package models

import (
	"encoding/json"
	"testing"
)

func TestPostType(t *testing.T) {
	cases := []struct {
		t        PostType
		question bool
		deleted  bool
		valid    bool
	}{
		{Question, true, false, true},
		{Answer, false, false, true},
		{DeletedQuestion, true, true, true},
		{DeletedAnswer, false, true, true},
		{PostType("x"), false, false, false},
		{PostType(""), false, false, false},
	}
	for _, c := range cases {
		if c.t.IsQuestion() != c.question {
			t.Fatalf("%q IsQuestion = %v", c.t, c.t.IsQuestion())
		}
		if c.t.IsDeleted() != c.deleted {
			t.Fatalf("%q IsDeleted = %v", c.t, c.t.IsDeleted())
		}
		if c.t.Valid() != c.valid {
			t.Fatalf("%q Valid = %v", c.t, c.t.Valid())
		}
	}
}

func TestRecord_NullReasonCodeRoundTrips(t *testing.T) {
	rec := Record{ID: "1", Time: 42, Type: Question, URL: "https://example.com/q/1"}
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := m["reasonCode"]; !ok || v != nil {
		t.Fatalf("expected explicit null reasonCode; got %v (present=%v)", v, ok)
	}

	var back Record
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	if back.ReasonCode != nil {
		t.Fatalf("expected nil reason code after round trip")
	}
}

func TestPatch_Apply(t *testing.T) {
	code := "Duplicate"
	rec := Record{ID: "1", Type: Question, Reason: "old", ReasonCode: &code, Details: "d", NATO: true}

	t.Run("NilFieldsUntouched", func(t *testing.T) {
		r := rec
		Patch{}.Apply(&r)
		if r.Reason != "old" || r.ReasonCode == nil || !r.NATO {
			t.Fatalf("expected empty patch to change nothing; got %+v", r)
		}
	})

	t.Run("SetFields", func(t *testing.T) {
		r := rec
		reason := "new"
		nato := false
		Patch{Reason: &reason, NATO: &nato}.Apply(&r)
		if r.Reason != "new" || r.NATO {
			t.Fatalf("patch not applied: %+v", r)
		}
		if r.Details != "d" {
			t.Fatalf("expected untouched details; got %q", r.Details)
		}
	})

	t.Run("ClearReasonCode", func(t *testing.T) {
		r := rec
		Patch{ClearReasonCode: true}.Apply(&r)
		if r.ReasonCode != nil {
			t.Fatalf("expected reason code cleared")
		}
	})

	t.Run("SetWinsOverClear", func(t *testing.T) {
		r := rec
		c := "18"
		Patch{ReasonCode: &c, ClearReasonCode: true}.Apply(&r)
		if r.ReasonCode == nil || *r.ReasonCode != "18" {
			t.Fatalf("expected explicit set to win; got %v", r.ReasonCode)
		}
	})

	t.Run("CopiesReasonCodeValue", func(t *testing.T) {
		r := rec
		c := "19"
		Patch{ReasonCode: &c}.Apply(&r)
		c = "mutated"
		if *r.ReasonCode != "19" {
			t.Fatalf("expected stored code independent of caller's variable")
		}
	})
}
