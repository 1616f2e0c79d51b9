package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/dvloznov/gastobot/internal/domain"
	"github.com/dvloznov/gastobot/internal/ledger"
)

// conversationLedger holds one conversation's ordered entries together with
// its id counter. The counter only ever grows: removal deletes the record but
// never decrements nextID, so ids are never reused.
type conversationLedger struct {
	nextID  int64
	entries []domain.Transaction
}

// Store is an in-memory implementation of ledger.Store.
// It keeps one ordered sequence of transactions per conversation and is safe
// for concurrent use. Data is lost on service restart - for persistence, use
// a database-backed store behind the same interface.
type Store struct {
	mu      sync.Mutex
	ledgers map[string]*conversationLedger
	now     func() time.Time
}

// NewStore creates a new in-memory ledger store.
func NewStore() *Store {
	return &Store{
		ledgers: make(map[string]*conversationLedger),
		now:     time.Now,
	}
}

// Commit implements the ledger.Store interface. The read-increment-append of
// the conversation's id counter happens under one lock acquisition, so rapid
// concurrent commits on the same conversation can never share an id.
func (s *Store) Commit(ctx context.Context, conversationID, item string, unitPrice float64, occurredAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	led, ok := s.ledgers[conversationID]
	if !ok {
		led = &conversationLedger{}
		s.ledgers[conversationID] = led
	}

	led.nextID++
	led.entries = append(led.entries, domain.Transaction{
		ID:             led.nextID,
		ConversationID: conversationID,
		Item:           item,
		UnitPrice:      unitPrice,
		OccurredAt:     occurredAt,
	})

	return led.nextID, nil
}

// Remove implements the ledger.Store interface.
// Removing an id twice yields ledger.ErrNotFound the second time.
func (s *Store) Remove(ctx context.Context, conversationID string, id int64) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	led, ok := s.ledgers[conversationID]
	if !ok {
		return domain.Transaction{}, ledger.ErrNotFound
	}

	for i, entry := range led.entries {
		if entry.ID == id {
			led.entries = append(led.entries[:i], led.entries[i+1:]...)
			return entry, nil
		}
	}

	return domain.Transaction{}, ledger.ErrNotFound
}

// Query implements the ledger.Store interface. Entries are returned as copies
// in commit order; callers may not mutate the ledger through the result.
func (s *Store) Query(ctx context.Context, conversationID string, daysBack int) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	led, ok := s.ledgers[conversationID]
	if !ok {
		return []domain.Transaction{}, nil
	}

	now := s.now()
	result := make([]domain.Transaction, 0, len(led.entries))
	for _, entry := range led.entries {
		if ledger.InWindow(entry.OccurredAt, now, daysBack) {
			result = append(result, entry)
		}
	}

	return result, nil
}

// Ensure Store implements the ledger.Store interface.
var _ ledger.Store = (*Store)(nil)
