package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/dvloznov/gastobot/internal/domain"
)

// ErrNotFound is returned when a conversation has no ledger or no entry with
// the requested id.
var ErrNotFound = errors.New("ledger: entry not found")

// Store defines the interface for the per-conversation transaction ledger.
// This abstraction allows for different implementations (in-memory, database)
// and keeps the controller independent of the storage mechanism.
type Store interface {
	// Commit assigns the next id for the conversation, appends the entry and
	// returns the assigned id. It never fails for well-formed input.
	Commit(ctx context.Context, conversationID, item string, unitPrice float64, occurredAt time.Time) (int64, error)

	// Remove deletes and returns the entry with the given id, or ErrNotFound.
	// Removal never renumbers surviving entries and never reuses the id.
	Remove(ctx context.Context, conversationID string, id int64) (domain.Transaction, error)

	// Query returns all entries whose OccurredAt falls inside the window for
	// daysBack, preserving commit order. Unknown conversations yield an empty
	// result, never an error.
	Query(ctx context.Context, conversationID string, daysBack int) ([]domain.Transaction, error)
}

// WindowStart returns the inclusive lower bound of the "last daysBack calendar
// days including today" window: midnight at the start of the day daysBack-1
// days before now, in now's location. daysBack values below 1 are treated as 1.
func WindowStart(now time.Time, daysBack int) time.Time {
	if daysBack < 1 {
		daysBack = 1
	}
	day := now.AddDate(0, 0, -(daysBack - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
}

// InWindow reports whether ts falls inside [WindowStart(now, daysBack), now].
// The lower bound is inclusive.
func InWindow(ts, now time.Time, daysBack int) bool {
	start := WindowStart(now, daysBack)
	return !ts.Before(start) && !ts.After(now)
}
