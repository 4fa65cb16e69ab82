package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgetbook/internal/core"
)

func TestMemoryStoreInsertListDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	var ids []int64
	for _, title := range []string{"a", "b", "c"} {
		id, err := s.InsertExpense(ctx, core.Expense{Title: title, Amount: core.Money{Cents: 1}, Date: time.Now()})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, id)
	}

	list, _ := s.ListExpenses(ctx)
	if len(list) != 3 || list[0].Title != "c" || list[2].Title != "a" {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if err := s.DeleteExpense(ctx, ids[2]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteExpense(ctx, ids[2]); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	id, _ := s.InsertExpense(ctx, core.Expense{Title: "d", Amount: core.Money{Cents: 1}, Date: time.Now()})
	if id <= ids[2] {
		t.Fatalf("id %d reused after deleting %d", id, ids[2])
	}

	if _, err := s.GetExpense(ctx, ids[2]); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreBudget(t *testing.T) {
	s := New()
	ctx := context.Background()
	if b, _ := s.GetBudget(ctx); b.Cents != 0 {
		t.Fatalf("default budget = %d", b.Cents)
	}
	_ = s.PutBudget(ctx, core.Money{Cents: 10000})
	if b, _ := s.GetBudget(ctx); b.Cents != 10000 {
		t.Fatalf("budget = %d", b.Cents)
	}
}
