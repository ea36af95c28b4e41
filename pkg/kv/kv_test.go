package kv

import (
	"reflect"
	"testing"
)

// stores under test share one behavioral contract; run both backends
// through the same suite.
func runStoreSuite(t *testing.T, s Store) {
	t.Helper()

	t.Run("GetAbsent", func(t *testing.T) {
		v, ok, err := s.Get("missing")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if ok || v != "" {
			t.Fatalf("expected absent key; got %q ok=%v", v, ok)
		}
	})

	t.Run("SetGet", func(t *testing.T) {
		if err := s.Set("post-1", `{"id":"1"}`); err != nil {
			t.Fatalf("Set error: %v", err)
		}
		v, ok, err := s.Get("post-1")
		if err != nil || !ok {
			t.Fatalf("Get after Set: %v ok=%v", err, ok)
		}
		if v != `{"id":"1"}` {
			t.Fatalf("got %q", v)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := s.Set("post-1", "second"); err != nil {
			t.Fatalf("Set error: %v", err)
		}
		v, _, _ := s.Get("post-1")
		if v != "second" {
			t.Fatalf("expected overwrite; got %q", v)
		}
	})

	t.Run("KeysByPrefix", func(t *testing.T) {
		for _, k := range []string{"post-2", "post-10", "index"} {
			if err := s.Set(k, "x"); err != nil {
				t.Fatalf("Set %s: %v", k, err)
			}
		}
		keys, err := s.Keys("post-")
		if err != nil {
			t.Fatalf("Keys error: %v", err)
		}
		want := []string{"post-1", "post-10", "post-2"}
		if !reflect.DeepEqual(keys, want) {
			t.Fatalf("Keys = %v; want %v", keys, want)
		}
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		if err := s.Delete("post-1"); err != nil {
			t.Fatalf("Delete error: %v", err)
		}
		if _, ok, _ := s.Get("post-1"); ok {
			t.Fatalf("expected key gone after delete")
		}
		if err := s.Delete("post-1"); err != nil {
			t.Fatalf("expected second delete to succeed: %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, NewMemory())
}

func TestPebbleStore(t *testing.T) {
	p, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()
	runStoreSuite(t, p)
}

func TestPebble_Reopen(t *testing.T) {
	dir := t.TempDir()
	p, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := p.Set("index", "{}"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	p2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer p2.Close()
	v, ok, err := p2.Get("index")
	if err != nil || !ok || v != "{}" {
		t.Fatalf("expected value to survive reopen; got %q ok=%v err=%v", v, ok, err)
	}
}

func TestMemory_FailWrites(t *testing.T) {
	m := NewMemory()
	if err := m.Set("a", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	m.FailWrites = true
	if err := m.Set("b", "2"); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable; got %v", err)
	}
	if err := m.Delete("a"); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable on delete; got %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("expected store unchanged while failing; got %d keys", m.Len())
	}
}
