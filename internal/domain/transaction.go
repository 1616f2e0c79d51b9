package domain

import (
	"time"
)

// Transaction represents one committed ledger record. Ids are assigned by the
// ledger store at commit time and are unique and strictly increasing within
// the owning conversation; they are never reused, even after removal.
type Transaction struct {
	ID             int64     // assigned by the store, starts at 1 per conversation
	ConversationID string    // owning chat/thread; no cross-conversation references
	Item           string    // normalized display label
	UnitPrice      float64   // non-negative, shown to 2 decimals
	OccurredAt     time.Time // assigned at commit time, not user-supplied
}

// Draft is an extracted but unconfirmed candidate transaction. It is never
// stored server-side: its entire state travels inside the confirmation token
// until the user confirms or cancels.
type Draft struct {
	Item       string
	TotalPrice float64
	Quantity   int
}

// UnitPrice returns the per-unit share of the draft's total price.
func (d Draft) UnitPrice() float64 {
	if d.Quantity <= 1 {
		return d.TotalPrice
	}
	return d.TotalPrice / float64(d.Quantity)
}
