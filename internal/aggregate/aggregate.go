// Package aggregate computes the derived figures shown next to the ledger:
// totals, budget progress, month filtering and category breakdowns.
//
// Every function is pure and recomputes from its input; none of them fail.
// An empty input yields zero or empty results.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"budgetbook/internal/core"
)

// Tier classifies budget progress.
type Tier string

const (
	TierNominal Tier = "nominal"
	TierWarning Tier = "warning"
	TierOver    Tier = "over"
)

// Thresholds for the budget tiers, as fractions of the budget.
const (
	WarningThreshold = 0.8
	OverThreshold    = 1.0
)

// Progress is spending measured against the monthly budget.
type Progress struct {
	Ratio     float64 // Spent / Budget, 0 when no budget is set
	Tier      Tier
	HasBudget bool
}

// PercentUsed returns Ratio as a whole percentage, rounded half-up.
func (p Progress) PercentUsed() int {
	return int(decimal.NewFromFloat(p.Ratio * 100).Round(0).IntPart())
}

// BarPercent returns the progress bar fill, clamped to [0, 100].
func (p Progress) BarPercent() float64 {
	pct := p.Ratio * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// CategoryTotal is one row of a category breakdown.
type CategoryTotal struct {
	Category   core.Category
	Total      core.Money
	Percentage float64 // share of the breakdown total, 0..100
}

// TotalSpent sums the amounts of expenses.
func TotalSpent(expenses []core.Expense) core.Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return core.Money{Cents: cents}
}

// BudgetProgress compares total against budget. A zero (or negative) budget
// means "not set": the ratio is 0 and the tier nominal.
func BudgetProgress(total, budget core.Money) Progress {
	if budget.Cents <= 0 {
		return Progress{Tier: TierNominal}
	}
	ratio, _ := decimal.NewFromInt(total.Cents).
		Div(decimal.NewFromInt(budget.Cents)).
		Float64()

	p := Progress{Ratio: ratio, HasBudget: true, Tier: TierNominal}
	switch {
	case ratio > OverThreshold:
		p.Tier = TierOver
	case ratio > WarningThreshold:
		p.Tier = TierWarning
	}
	return p
}

// FilterByMonth keeps expenses dated within year/month in loc. A nil loc
// means time.Local.
func FilterByMonth(expenses []core.Expense, year int, month time.Month, loc *time.Location) []core.Expense {
	if loc == nil {
		loc = time.Local
	}
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		y, m, _ := e.Date.In(loc).Date()
		if y == year && m == month {
			out = append(out, e)
		}
	}
	return out
}

// GroupByCategory sums amounts per display category and computes each
// category's share of the total. Unknown categories are merged into
// "other". Rows are sorted by total, largest first, ties by category id.
func GroupByCategory(expenses []core.Expense) []CategoryTotal {
	if len(expenses) == 0 {
		return []CategoryTotal{}
	}

	sums := make(map[core.Category]int64)
	var total int64
	for _, e := range expenses {
		sums[e.Category.Normalize()] += e.Amount.Cents
		total += e.Amount.Cents
	}

	out := make([]CategoryTotal, 0, len(sums))
	for cat, cents := range sums {
		out = append(out, CategoryTotal{
			Category:   cat,
			Total:      core.Money{Cents: cents},
			Percentage: percentOf(cents, total),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func percentOf(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	pct, _ := decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(whole)).
		Float64()
	return pct
}
