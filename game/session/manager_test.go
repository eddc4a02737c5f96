package session

import (
	"errors"
	"testing"
	"time"
)

func TestManagerLifecycle(t *testing.T) {
	t.Run("get unknown id", func(t *testing.T) {
		m := NewManager()

		if _, err := m.Get("missing"); !errors.Is(err, ErrGameNotFound) {
			t.Errorf("Get() error = %v, want ErrGameNotFound", err)
		}
	})

	t.Run("get or create", func(t *testing.T) {
		m := NewManager()

		game, created := m.GetOrCreate("abc123")
		if !created {
			t.Fatal("first GetOrCreate reported created = false")
		}
		if game == nil {
			t.Fatal("GetOrCreate returned a nil game")
		}

		again, created := m.GetOrCreate("abc123")
		if created {
			t.Error("second GetOrCreate reported created = true")
		}
		if again != game {
			t.Error("second GetOrCreate returned a different game")
		}
		if m.Count() != 1 {
			t.Errorf("Count() = %d, want 1", m.Count())
		}
	})

	t.Run("delete", func(t *testing.T) {
		m := NewManager()
		m.GetOrCreate("abc123")

		if err := m.Delete("abc123"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := m.Get("abc123"); !errors.Is(err, ErrGameNotFound) {
			t.Error("game still present after Delete")
		}
		if err := m.Delete("abc123"); !errors.Is(err, ErrGameNotFound) {
			t.Errorf("second Delete() error = %v, want ErrGameNotFound", err)
		}
	})
}

func TestScheduleExpiry(t *testing.T) {
	m := NewManager()
	m.GetOrCreate("abc123")

	m.ScheduleExpiry("abc123", 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := m.Get("abc123"); errors.Is(err, ErrGameNotFound) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("game not expired after the scheduled delay")
}

func TestScheduleExpiryReschedule(t *testing.T) {
	m := NewManager()
	m.GetOrCreate("abc123")

	// The second schedule replaces the first; the game must survive the
	// first, shorter, deadline.
	m.ScheduleExpiry("abc123", 10*time.Millisecond)
	m.ScheduleExpiry("abc123", time.Hour)

	time.Sleep(50 * time.Millisecond)
	if _, err := m.Get("abc123"); err != nil {
		t.Fatalf("game expired despite rescheduled timer: %v", err)
	}
}

func TestDeleteCancelsExpiry(t *testing.T) {
	m := NewManager()
	m.GetOrCreate("abc123")
	m.ScheduleExpiry("abc123", 10*time.Millisecond)

	if err := m.Delete("abc123"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Recreate under the same id; the canceled timer must not remove it.
	m.GetOrCreate("abc123")
	time.Sleep(50 * time.Millisecond)
	if _, err := m.Get("abc123"); err != nil {
		t.Fatalf("recreated game removed by a canceled timer: %v", err)
	}
}

func TestNewGameID(t *testing.T) {
	id := NewGameID()
	if len(id) != 6 {
		t.Errorf("len(NewGameID()) = %d, want 6", len(id))
	}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[NewGameID()] = true
	}
	if len(seen) < 90 {
		t.Errorf("got %d distinct ids out of 100", len(seen))
	}
}
