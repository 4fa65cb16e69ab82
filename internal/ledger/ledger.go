// Package ledger is the ledger store: the write and read operations on
// expenses and the monthly budget, validated and persisted through an
// injected Repository.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
)

// Repository is the backing store handle. Implementations persist each
// call synchronously and atomically.
type Repository interface {
	InsertExpense(ctx context.Context, e core.Expense) (int64, error)
	// ListExpenses returns all expenses ordered by id, highest first.
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	// DeleteExpense must succeed when id does not exist.
	DeleteExpense(ctx context.Context, id int64) error
	GetBudget(ctx context.Context) (core.Money, error)
	PutBudget(ctx context.Context, m core.Money) error
	Ping(ctx context.Context) error
}

// Publisher receives change events after successful writes.
type Publisher interface {
	Publish(ctx context.Context, ev amqp.Event) error
}

// Service validates writes before they reach the repository and announces
// committed changes to an optional publisher.
type Service struct {
	repo      Repository
	publisher Publisher
	logger    *slog.Logger
}

// NewService wires a ledger over repo. publisher may be nil.
func NewService(repo Repository, publisher Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// AddExpense validates and stores a new expense, returning its id.
func (s *Service) AddExpense(ctx context.Context, title string, amount core.Money, category string, date time.Time) (int64, error) {
	e, err := core.NewExpense(title, amount, category, date)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.InsertExpense(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("add expense: %w", err)
	}

	s.publish(ctx, amqp.NewExpenseAddedEvent(id))
	return id, nil
}

// GetExpenses returns every expense, most recently added first.
func (s *Service) GetExpenses(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.repo.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("get expenses: %w", err)
	}
	return expenses, nil
}

// GetExpense returns one expense or an error wrapping core.ErrNotFound.
func (s *Service) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// DeleteExpense removes an expense. Unknown ids are a successful no-op.
func (s *Service) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, amqp.NewExpenseDeletedEvent(id))
	return nil
}

// GetMonthlyBudget returns the budget, zero when never set.
func (s *Service) GetMonthlyBudget(ctx context.Context) (core.Money, error) {
	b, err := s.repo.GetBudget(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("get monthly budget: %w", err)
	}
	return b, nil
}

// SetMonthlyBudget overwrites the budget. Negative values are rejected
// without touching the stored one.
func (s *Service) SetMonthlyBudget(ctx context.Context, value core.Money) error {
	if err := core.ValidateBudget(value); err != nil {
		return err
	}
	if err := s.repo.PutBudget(ctx, value); err != nil {
		return fmt.Errorf("set monthly budget: %w", err)
	}

	s.publish(ctx, amqp.NewBudgetUpdatedEvent(value.Cents))
	return nil
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// publish is best effort: the write already committed.
func (s *Service) publish(ctx context.Context, ev amqp.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event",
			"type", ev.Type,
			"expense_id", ev.ExpenseID,
			"error", err)
	}
}
