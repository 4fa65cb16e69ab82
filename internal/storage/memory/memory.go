package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"budgetbook/internal/core"
)

// Store is an in-memory ledger with the same contract as the SQL backends.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]core.Expense
	budget core.Money
}

func New() *Store {
	return &Store{nextID: 1, items: make(map[int64]core.Expense)}
}

// InsertExpense stores e under a fresh id. Ids only ever grow.
func (s *Store) InsertExpense(_ context.Context, e core.Expense) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	s.items[e.ID] = e
	return e.ID, nil
}

// ListExpenses returns all expenses, highest id first.
func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, core.ErrNotFound)
	}
	return e, nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *Store) GetBudget(_ context.Context) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget, nil
}

func (s *Store) PutBudget(_ context.Context, m core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = m
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }
