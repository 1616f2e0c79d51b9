package inmemory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dvloznov/gastobot/internal/ledger"
)

func TestStore_CommitAssignsIncreasingIDs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now()

	var prev int64
	for i := 0; i < 5; i++ {
		id, err := store.Commit(ctx, "chat-1", "café", 5.50, now)
		if err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		if id <= prev {
			t.Errorf("Commit returned id %d, want > %d", id, prev)
		}
		prev = id
	}

	if prev != 5 {
		t.Errorf("Last id = %d, want 5 (ids start at 1)", prev)
	}
}

func TestStore_IDsNeverReusedAfterRemoval(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now()

	id1, _ := store.Commit(ctx, "chat-1", "café", 5.50, now)
	id2, _ := store.Commit(ctx, "chat-1", "pizza", 25, now)

	if _, err := store.Remove(ctx, "chat-1", id2); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	id3, _ := store.Commit(ctx, "chat-1", "uber", 15.90, now)
	if id3 <= id2 {
		t.Errorf("Commit after removal returned id %d, want > %d (ids are never reused)", id3, id2)
	}
	if id3 == id1 || id3 == id2 {
		t.Errorf("Commit reused id %d", id3)
	}
}

func TestStore_RemoveIsIdempotentToFailure(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	id, _ := store.Commit(ctx, "chat-1", "café", 5.50, time.Now())

	removed, err := store.Remove(ctx, "chat-1", id)
	if err != nil {
		t.Fatalf("First Remove failed: %v", err)
	}
	if removed.Item != "café" || removed.UnitPrice != 5.50 {
		t.Errorf("Remove returned %+v, want the committed entry", removed)
	}

	if _, err := store.Remove(ctx, "chat-1", id); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("Second Remove error = %v, want ledger.ErrNotFound", err)
	}
}

func TestStore_RemoveUnknownConversation(t *testing.T) {
	store := NewStore()

	_, err := store.Remove(context.Background(), "no-such-chat", 7)
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("Remove error = %v, want ledger.ErrNotFound", err)
	}
}

func TestStore_QueryUnknownConversationIsEmpty(t *testing.T) {
	store := NewStore()

	entries, err := store.Query(context.Background(), "no-such-chat", 30)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Query returned %d entries, want 0", len(entries))
	}
}

func TestStore_QueryWindowBoundary(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	now := time.Date(2025, 3, 15, 14, 30, 0, 0, time.Local)
	store.now = func() time.Time { return now }

	midnight := ledger.WindowStart(now, 1)

	// Exactly at the start of today: included in a daysBack=1 query.
	store.Commit(ctx, "chat-1", "café", 5, midnight)
	// One millisecond before the boundary: excluded.
	store.Commit(ctx, "chat-1", "pizza", 25, midnight.Add(-time.Millisecond))

	entries, err := store.Query(ctx, "chat-1", 1)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Query returned %d entries, want 1", len(entries))
	}
	if entries[0].Item != "café" {
		t.Errorf("Query returned %q, want the entry at the boundary", entries[0].Item)
	}
}

func TestStore_QueryFiltersOldEntriesPreservingOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	now := time.Date(2025, 3, 15, 14, 30, 0, 0, time.Local)
	store.now = func() time.Time { return now }

	store.Commit(ctx, "chat-1", "antigo", 99, now.AddDate(0, 0, -40))
	store.Commit(ctx, "chat-1", "café", 5.50, now)
	store.Commit(ctx, "chat-1", "almoço", 32, now)
	store.Commit(ctx, "chat-1", "uber", 25, now)

	entries, err := store.Query(ctx, "chat-1", 30)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Query returned %d entries, want 3 (40-day-old entry excluded)", len(entries))
	}

	wantOrder := []string{"café", "almoço", "uber"}
	for i, want := range wantOrder {
		if entries[i].Item != want {
			t.Errorf("entries[%d].Item = %q, want %q (commit order preserved)", i, entries[i].Item, want)
		}
	}
}

func TestStore_ConversationsAreIsolated(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now()

	idA, _ := store.Commit(ctx, "chat-a", "café", 5, now)
	idB, _ := store.Commit(ctx, "chat-b", "pizza", 25, now)

	if idA != 1 || idB != 1 {
		t.Errorf("First commits got ids %d and %d, want 1 and 1 (counters are per conversation)", idA, idB)
	}

	if _, err := store.Remove(ctx, "chat-a", idB); err == nil {
		entries, _ := store.Query(ctx, "chat-b", 1)
		if len(entries) != 1 {
			t.Error("Remove on chat-a affected chat-b's ledger")
		}
	}
}

func TestStore_ConcurrentCommitsNeverShareIDs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now()

	const commits = 100
	ids := make(chan int64, commits)

	var wg sync.WaitGroup
	for i := 0; i < commits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := store.Commit(ctx, "chat-1", "item", 1, now)
			if err != nil {
				t.Errorf("Commit failed: %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d assigned twice", id)
		}
		seen[id] = true
	}
	if len(seen) != commits {
		t.Errorf("got %d distinct ids, want %d", len(seen), commits)
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2025, 3, 15, 14, 30, 45, 0, time.Local)

	tests := []struct {
		name     string
		daysBack int
		want     time.Time
	}{
		{"today only", 1, time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local)},
		{"last week", 7, time.Date(2025, 3, 9, 0, 0, 0, 0, time.Local)},
		{"last 30 days", 30, time.Date(2025, 2, 14, 0, 0, 0, 0, time.Local)},
		{"zero clamps to one", 0, time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ledger.WindowStart(now, tt.daysBack)
			if !got.Equal(tt.want) {
				t.Errorf("WindowStart(%d) = %v, want %v", tt.daysBack, got, tt.want)
			}
		})
	}
}
