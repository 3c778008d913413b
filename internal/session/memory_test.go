package session

import (
	"testing"
	"time"
)

func TestSnapshotReturnsIdleDefault(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	sess := store.Snapshot(42)
	if sess.State != StateIdle {
		t.Fatalf("expected idle state, got %q", sess.State)
	}
	if sess.Dialog != "" {
		t.Fatalf("expected no dialog, got %q", sess.Dialog)
	}
	if store.Len() != 0 {
		t.Fatalf("Snapshot must not create entries, have %d", store.Len())
	}
}

func TestStartDialogResetsFields(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	store.StartDialog(1, "appointment", "appt_name")
	store.SetField(1, "name", "Анна")
	store.SetField(1, "service", "Чистка")

	store.StartDialog(1, "feedback", "feedback_text")

	sess := store.Snapshot(1)
	if len(sess.Fields) != 0 {
		t.Fatalf("fields must be reset on dialog entry, got %v", sess.Fields)
	}
	if sess.Dialog != "feedback" || sess.State != "feedback_text" {
		t.Fatalf("unexpected session after restart: %+v", sess)
	}
}

func TestClearDialogKeepsEntry(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	store.StartDialog(7, "appointment", "appt_name")
	if !store.InProgress(7) {
		t.Fatal("dialog should be in progress")
	}

	store.ClearDialog(7)
	if store.InProgress(7) {
		t.Fatal("dialog should be cleared")
	}
	if store.State(7) != StateIdle {
		t.Fatalf("state should be idle, got %q", store.State(7))
	}
	if store.Len() != 1 {
		t.Fatalf("user entry should survive ClearDialog, have %d", store.Len())
	}
}

func TestSnapshotCopyIsDetached(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	store.StartDialog(3, "appointment", "appt_name")
	store.SetField(3, "name", "Олег")

	sess := store.Snapshot(3)
	sess.Fields["name"] = "changed"

	if v, _ := store.Field(3, "name"); v != "Олег" {
		t.Fatalf("snapshot mutation leaked into store: %q", v)
	}
}

func TestEvictIdleRespectsTTL(t *testing.T) {
	store := NewMemoryStore(time.Hour).(*memoryStore)

	current := time.Unix(1700000000, 0)
	store.now = func() time.Time { return current }

	store.StartDialog(1, "appointment", "appt_name")
	current = current.Add(30 * time.Minute)
	store.StartDialog(2, "feedback", "feedback_text")

	current = current.Add(45 * time.Minute)
	if n := store.evictIdle(); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if store.InProgress(1) {
		t.Fatal("stale session should be evicted")
	}
	if !store.InProgress(2) {
		t.Fatal("fresh session should survive")
	}
}
