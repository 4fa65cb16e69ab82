//go:build integration

package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"budgetbook/internal/core"
)

// Run with: BUDGETBOOK_TEST_DATABASE_URL=postgres://... go test -tags=integration ./internal/storage/postgres

func TestIntegration_PostgresLedger(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	connStr := os.Getenv("BUDGETBOOK_TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("BUDGETBOOK_TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	repo, err := New(ctx, connStr)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer repo.Close()

	id, err := repo.InsertExpense(ctx, core.Expense{
		Title: "Coffee", Amount: core.Money{Cents: 450}, Category: core.CategoryFood, Date: time.Now(),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	t.Cleanup(func() { _ = repo.DeleteExpense(ctx, id) })

	got, err := repo.GetExpense(ctx, id)
	if err != nil || got.Title != "Coffee" || got.Amount.Cents != 450 {
		t.Fatalf("get: %+v err=%v", got, err)
	}

	if err := repo.DeleteExpense(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteExpense(ctx, id); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := repo.GetExpense(ctx, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	prev, _ := repo.GetBudget(ctx)
	t.Cleanup(func() { _ = repo.PutBudget(ctx, prev) })
	if err := repo.PutBudget(ctx, core.Money{Cents: 12345}); err != nil {
		t.Fatalf("put budget: %v", err)
	}
	if b, _ := repo.GetBudget(ctx); b.Cents != 12345 {
		t.Fatalf("budget = %d", b.Cents)
	}
}
