// Package worker applies ledger events to the spreadsheet mirror.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
	"budgetbook/internal/sheets"
)

// ExpenseReader is the read side of the ledger the worker needs.
type ExpenseReader interface {
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	GetExpenses(ctx context.Context) ([]core.Expense, error)
}

// MirrorWorker keeps a sheets.ExpenseMirror in step with the ledger.
type MirrorWorker struct {
	ledger ExpenseReader
	mirror sheets.ExpenseMirror
	logger *slog.Logger
}

func NewMirrorWorker(ledger ExpenseReader, mirror sheets.ExpenseMirror, logger *slog.Logger) *MirrorWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &MirrorWorker{ledger: ledger, mirror: mirror, logger: logger}
}

// HandleEvent processes a single ledger event. It has the amqp.EventHandler
// signature; a returned error requeues the message.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev amqp.Event) error {
	switch ev.Type {
	case amqp.ExpenseAdded:
		return w.handleAdded(ctx, ev.ExpenseID)
	case amqp.ExpenseDeleted:
		return w.handleDeleted(ctx, ev.ExpenseID)
	case amqp.BudgetUpdated:
		w.logger.InfoContext(ctx, "Budget updated", "budget_cents", ev.AmountCents)
		return nil
	default:
		w.logger.WarnContext(ctx, "Ignoring unknown event", "event_type", ev.Type)
		return nil
	}
}

func (w *MirrorWorker) handleAdded(ctx context.Context, id int64) error {
	e, err := w.ledger.GetExpense(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted before we got to it; the delete event cleans up.
		w.logger.InfoContext(ctx, "Expense gone before mirroring, skipping", "expense_id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load expense %d: %w", id, err)
	}

	ref, err := w.mirror.AppendExpense(ctx, e)
	if err != nil {
		return fmt.Errorf("mirror expense %d: %w", id, err)
	}

	w.logger.InfoContext(ctx, "Mirrored expense", "expense_id", id, "ref", ref)
	return nil
}

func (w *MirrorWorker) handleDeleted(ctx context.Context, id int64) error {
	if err := w.mirror.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("remove mirrored expense %d: %w", id, err)
	}

	w.logger.InfoContext(ctx, "Removed mirrored expense", "expense_id", id)
	return nil
}

// ResyncAll replaces the mirror with the current ledger contents, oldest
// first.
func (w *MirrorWorker) ResyncAll(ctx context.Context) error {
	expenses, err := w.ledger.GetExpenses(ctx)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	if err := w.mirror.Clear(ctx); err != nil {
		return fmt.Errorf("clear mirror: %w", err)
	}

	for _, e := range slices.Backward(expenses) {
		if _, err := w.mirror.AppendExpense(ctx, e); err != nil {
			return fmt.Errorf("mirror expense %d: %w", e.ID, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	w.logger.InfoContext(ctx, "Mirror resynchronised", "count", len(expenses))
	return nil
}
