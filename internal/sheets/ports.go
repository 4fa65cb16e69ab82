// Package sheets defines the outbound port for mirroring the ledger into a
// spreadsheet.
package sheets

import (
	"context"
	"fmt"

	"budgetbook/internal/core"
)

// Ports for outbound adapters.
type (
	// ExpenseMirror keeps one row per stored expense.
	ExpenseMirror interface {
		// AppendExpense adds a row for e. A row already carrying e.ID is
		// left alone and its reference returned.
		AppendExpense(ctx context.Context, e core.Expense) (rowRef string, err error)
		// DeleteExpense removes the row for id. A missing row is not an error.
		DeleteExpense(ctx context.Context, id int64) error
		// Clear drops every expense row, keeping the header.
		Clear(ctx context.Context) error
	}
)

// Header is the first row of a mirrored sheet.
var Header = []string{"ID", "Date", "Title", "Category", "Amount"}

// DateLayout is the mirrored date format.
const DateLayout = "2006-01-02"

// Row renders e in Header column order.
func Row(e core.Expense) []string {
	return []string{
		fmt.Sprint(e.ID),
		e.Date.Format(DateLayout),
		e.Title,
		string(e.Category),
		e.Amount.Decimal().StringFixed(2),
	}
}
