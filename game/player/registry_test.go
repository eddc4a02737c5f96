package player

import "testing"

func TestRegistry(t *testing.T) {
	t.Run("register and lookup", func(t *testing.T) {
		r := NewRegistry()

		r.Register("conn-a", "alice", "Lobby")
		p, ok := r.Lookup("conn-a")
		if !ok {
			t.Fatal("Lookup failed for a registered connection")
		}
		if p.Username != "alice" || p.Room != "Lobby" {
			t.Errorf("record = %+v, want {alice Lobby}", p)
		}
	})

	t.Run("re-register replaces the record", func(t *testing.T) {
		r := NewRegistry()

		r.Register("conn-a", "alice", "Lobby")
		r.Register("conn-a", "alice", "abc123")
		p, _ := r.Lookup("conn-a")
		if p.Room != "abc123" {
			t.Errorf("room = %q, want abc123", p.Room)
		}
		if r.Count() != 1 {
			t.Errorf("Count() = %d, want 1", r.Count())
		}
	})

	t.Run("remove", func(t *testing.T) {
		r := NewRegistry()

		r.Register("conn-a", "alice", "Lobby")
		r.Register("conn-b", "bob", "Lobby")
		r.Remove("conn-a")

		if _, ok := r.Lookup("conn-a"); ok {
			t.Error("removed connection still present")
		}
		if r.Count() != 1 {
			t.Errorf("Count() = %d, want 1", r.Count())
		}

		// Removing an unknown id is a no-op.
		r.Remove("conn-z")
		if r.Count() != 1 {
			t.Errorf("Count() = %d after no-op remove, want 1", r.Count())
		}
	})
}
