// Package postgres stores the ledger in PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"budgetbook/internal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS expenses (
    id           BIGSERIAL   PRIMARY KEY,
    title        TEXT        NOT NULL,
    amount_cents BIGINT      NOT NULL CHECK (amount_cents > 0),
    category     TEXT        NOT NULL,
    date         TIMESTAMPTZ NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date);

CREATE TABLE IF NOT EXISTS budget (
    id           SMALLINT    PRIMARY KEY CHECK (id = 1),
    amount_cents BIGINT      NOT NULL CHECK (amount_cents >= 0),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Repository is the Postgres ledger backend. BIGSERIAL sequences never
// hand out an id twice, deleted or not.
type Repository struct {
	pool *pgxpool.Pool
}

// New connects to connStr and creates the schema if absent.
func New(ctx context.Context, connStr string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (p *Repository) Close() error {
	p.pool.Close()
	return nil
}

func (p *Repository) Ping(ctx context.Context) error {
	return core.StoreFailure("ping", p.pool.Ping(ctx))
}

func (p *Repository) InsertExpense(ctx context.Context, e core.Expense) (int64, error) {
	query := `
        INSERT INTO expenses (title, amount_cents, category, date)
        VALUES ($1, $2, $3, $4)
        RETURNING id;
    `
	var id int64
	err := p.pool.QueryRow(ctx, query, e.Title, e.Amount.Cents, string(e.Category), e.Date).Scan(&id)
	if err != nil {
		return 0, core.StoreFailure("insert expense", err)
	}

	slog.InfoContext(ctx, "Expense saved to Postgres",
		"id", id,
		"title", e.Title,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return id, nil
}

func (p *Repository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT id, title, amount_cents, category, date
        FROM expenses
        ORDER BY id DESC;
    `)
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

func (p *Repository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := p.pool.QueryRow(ctx, `
        SELECT id, title, amount_cents, category, date
        FROM expenses
        WHERE id = $1;
    `, id)
	e, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, core.StoreFailure("get expense", err)
	}
	return e, nil
}

// DeleteExpense removes the expense; zero affected rows is still success.
func (p *Repository) DeleteExpense(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1;`, id)
	if err != nil {
		return core.StoreFailure("delete expense", err)
	}
	if tag.RowsAffected() == 0 {
		slog.DebugContext(ctx, "Delete of unknown expense ignored", "id", id)
	}
	return nil
}

func (p *Repository) GetBudget(ctx context.Context) (core.Money, error) {
	var cents int64
	err := p.pool.QueryRow(ctx, `SELECT amount_cents FROM budget WHERE id = 1;`).Scan(&cents)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Money{}, nil
	}
	if err != nil {
		return core.Money{}, core.StoreFailure("get budget", err)
	}
	return core.Money{Cents: cents}, nil
}

func (p *Repository) PutBudget(ctx context.Context, m core.Money) error {
	_, err := p.pool.Exec(ctx, `
        INSERT INTO budget (id, amount_cents, updated_at)
        VALUES (1, $1, now())
        ON CONFLICT (id) DO UPDATE
        SET amount_cents = EXCLUDED.amount_cents, updated_at = EXCLUDED.updated_at;
    `, m.Cents)
	if err != nil {
		return core.StoreFailure("put budget", err)
	}
	slog.InfoContext(ctx, "Monthly budget updated", "amount_cents", m.Cents)
	return nil
}

func scanExpense(row pgx.Row) (core.Expense, error) {
	var (
		e        core.Expense
		category string
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Amount.Cents, &category, &e.Date); err != nil {
		return core.Expense{}, err
	}
	e.Category = core.Category(category)
	return e, nil
}
