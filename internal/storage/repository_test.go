package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"budgetbook/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "ledger.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustInsert(t *testing.T, repo *SQLiteRepository, title string, cents int64, cat core.Category, date time.Time) int64 {
	t.Helper()
	id, err := repo.InsertExpense(context.Background(), core.Expense{
		Title: title, Amount: core.Money{Cents: cents}, Category: cat, Date: date,
	})
	if err != nil {
		t.Fatalf("insert %s: %v", title, err)
	}
	return id
}

func TestSQLiteInsertAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ny := time.FixedZone("EST", -5*60*60)
	coffee := mustInsert(t, repo, "Coffee", 450, core.CategoryFood, time.Date(2024, 3, 1, 8, 30, 0, 0, ny))
	bus := mustInsert(t, repo, "Bus", 200, "Transport", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	if bus <= coffee {
		t.Fatalf("ids should increase: coffee=%d bus=%d", coffee, bus)
	}

	list, err := repo.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != bus || list[1].ID != coffee {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if list[0].Category != "Transport" {
		t.Fatalf("category should be stored verbatim, got %q", list[0].Category)
	}
	got := list[1]
	if got.Title != "Coffee" || got.Amount.Cents != 450 {
		t.Fatalf("unexpected coffee row: %+v", got)
	}
	if !got.Date.Equal(time.Date(2024, 3, 1, 8, 30, 0, 0, ny)) {
		t.Fatalf("date round trip failed: %v", got.Date)
	}
	if _, off := got.Date.Zone(); off != -5*60*60 {
		t.Fatalf("offset should be preserved, got %d", off)
	}
}

func TestSQLiteListEmpty(t *testing.T) {
	repo := newTestRepo(t)
	list, err := repo.ListExpenses(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", list)
	}
}

func TestSQLiteDeleteIsIdempotentAndIDsAreNotReused(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	first := mustInsert(t, repo, "A", 100, core.CategoryOther, now)
	second := mustInsert(t, repo, "B", 100, core.CategoryOther, now)

	if err := repo.DeleteExpense(ctx, second); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteExpense(ctx, second); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if err := repo.DeleteExpense(ctx, 9999); err != nil {
		t.Fatalf("delete of unknown id should be a no-op, got %v", err)
	}

	third := mustInsert(t, repo, "C", 100, core.CategoryOther, now)
	if third == second || third <= second {
		t.Fatalf("id %d reused or not increasing after delete of %d", third, second)
	}

	list, _ := repo.ListExpenses(ctx)
	for _, e := range list {
		if e.ID == second {
			t.Fatalf("deleted id %d still listed", second)
		}
	}
	if len(list) != 2 || list[1].ID != first {
		t.Fatalf("unexpected list after delete: %+v", list)
	}
}

func TestSQLiteGetExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustInsert(t, repo, "Book", 1999, core.CategoryEducation, time.Now())
	e, err := repo.GetExpense(ctx, id)
	if err != nil || e.Title != "Book" {
		t.Fatalf("get: %+v err=%v", e, err)
	}

	_, err = repo.GetExpense(ctx, id+100)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteBudget(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b, err := repo.GetBudget(ctx)
	if err != nil || b.Cents != 0 {
		t.Fatalf("unset budget should be zero, got %d err=%v", b.Cents, err)
	}

	if err := repo.PutBudget(ctx, core.Money{Cents: 10000}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.PutBudget(ctx, core.Money{Cents: 25000}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	b, _ = repo.GetBudget(ctx)
	if b.Cents != 25000 {
		t.Fatalf("budget = %d, want 25000", b.Cents)
	}
}

func TestSQLiteConstraintFailureIsStoreError(t *testing.T) {
	repo := newTestRepo(t)
	// The schema rejects non-positive amounts even if validation is bypassed.
	_, err := repo.InsertExpense(context.Background(), core.Expense{
		Title: "bad", Amount: core.Money{Cents: -1}, Category: core.CategoryOther, Date: time.Now(),
	})
	if !errors.Is(err, core.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	list, _ := repo.ListExpenses(context.Background())
	if len(list) != 0 {
		t.Fatalf("failed insert must not leave rows, got %+v", list)
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	if _, err := repo.InsertExpense(ctx, core.Expense{Title: "x", Amount: core.Money{Cents: 1}, Category: "food", Date: time.Now()}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.PutBudget(ctx, core.Money{Cents: 500}); err != nil {
		t.Fatalf("budget: %v", err)
	}
	repo.Close()

	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	list, _ := repo.ListExpenses(ctx)
	b, _ := repo.GetBudget(ctx)
	if len(list) != 1 || b.Cents != 500 {
		t.Fatalf("data lost on reopen: list=%d budget=%d", len(list), b.Cents)
	}
}

func TestMigrateLedgerIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	for i := 0; i < 2; i++ {
		version, err := migrateLedger(path)
		if err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
		if version != 1 {
			t.Fatalf("run %d: schema version = %d, want 1", i+1, version)
		}
	}
}
