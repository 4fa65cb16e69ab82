// Package storage persists the ledger in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"budgetbook/internal/core"

	_ "modernc.org/sqlite"
)

// DateLayout is how expense dates are stored. Offsets are kept so the
// local calendar day the user picked survives a round trip.
const DateLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single local writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := migrateLedger(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("SQLite ledger ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return core.StoreFailure("ping", r.db.PingContext(ctx))
}

// InsertExpense stores e and returns its new id. AUTOINCREMENT guarantees
// ids of deleted rows are never handed out again.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (title, amount_cents, category, date) VALUES (?, ?, ?, ?)`,
		e.Title, e.Amount.Cents, string(e.Category), e.Date.Format(DateLayout))
	if err != nil {
		return 0, core.StoreFailure("insert expense", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, core.StoreFailure("insert expense", fmt.Errorf("last insert id: %w", err))
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"title", e.Title,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)

	return id, nil
}

// ListExpenses returns every expense, most recently inserted first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, amount_cents, category, date FROM expenses ORDER BY id DESC`)
	if err != nil {
		return nil, core.StoreFailure("list expenses", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, core.StoreFailure("list expenses", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, core.StoreFailure("list expenses", err)
	}

	return expenses, nil
}

// GetExpense retrieves a single expense by id.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, amount_cents, category, date FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, core.StoreFailure("get expense", err)
	}
	return e, nil
}

// DeleteExpense removes the expense with id. Missing ids are not an error.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return core.StoreFailure("delete expense", err)
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		slog.DebugContext(ctx, "Delete of unknown expense ignored", "id", id)
		return nil
	}

	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", id)
	return nil
}

// GetBudget returns the monthly budget, zero if never set.
func (r *SQLiteRepository) GetBudget(ctx context.Context) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `SELECT amount_cents FROM budget WHERE id = 1`).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, nil
	}
	if err != nil {
		return core.Money{}, core.StoreFailure("get budget", err)
	}
	return core.Money{Cents: cents}, nil
}

// PutBudget overwrites the monthly budget.
func (r *SQLiteRepository) PutBudget(ctx context.Context, m core.Money) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budget (id, amount_cents, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET amount_cents = excluded.amount_cents, updated_at = excluded.updated_at`,
		m.Cents, time.Now().UTC().Format(DateLayout))
	if err != nil {
		return core.StoreFailure("put budget", err)
	}

	slog.InfoContext(ctx, "Monthly budget updated", "amount_cents", m.Cents)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(s rowScanner) (core.Expense, error) {
	var (
		e        core.Expense
		category string
		date     string
	)
	if err := s.Scan(&e.ID, &e.Title, &e.Amount.Cents, &category, &date); err != nil {
		return core.Expense{}, err
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse date of expense %d: %w", e.ID, err)
	}
	e.Category = core.Category(category)
	e.Date = t
	return e, nil
}
