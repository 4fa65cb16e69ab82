package http

import (
	"strconv"
	"time"

	"budgetbook/internal/aggregate"
	"budgetbook/internal/core"
)

// notSetLabel is shown in place of a zero budget.
const notSetLabel = "Not Set"

type moneyView struct {
	Cents     int64  `json:"cents"`
	Amount    string `json:"amount"`
	Formatted string `json:"formatted"`
}

func newMoneyView(m core.Money) moneyView {
	return moneyView{
		Cents:     m.Cents,
		Amount:    m.Decimal().StringFixed(2),
		Formatted: m.String(),
	}
}

type expenseView struct {
	ID       int64             `json:"id"`
	Title    string            `json:"title"`
	Amount   moneyView         `json:"amount"`
	Category core.Category     `json:"category"`
	Display  core.CategoryMeta `json:"display"`
	Date     string            `json:"date"`
}

func (s *Server) expenseViews(expenses []core.Expense) []expenseView {
	out := make([]expenseView, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, s.expenseView(e))
	}
	return out
}

func (s *Server) expenseView(e core.Expense) expenseView {
	return expenseView{
		ID:       e.ID,
		Title:    e.Title,
		Amount:   newMoneyView(e.Amount),
		Category: e.Category,
		Display:  s.catalog.Lookup(e.Category),
		Date:     e.Date.Format(time.RFC3339),
	}
}

type progressView struct {
	Ratio       float64        `json:"ratio"`
	Tier        aggregate.Tier `json:"tier"`
	HasBudget   bool           `json:"has_budget"`
	PercentUsed int            `json:"percent_used"`
	BarPercent  float64        `json:"bar_percent"`
	Label       string         `json:"label"`
}

func newProgressView(p aggregate.Progress) progressView {
	label := "Set a budget to track progress"
	if p.HasBudget {
		label = strconv.Itoa(p.PercentUsed()) + "% of budget used"
	}
	return progressView{
		Ratio:       p.Ratio,
		Tier:        p.Tier,
		HasBudget:   p.HasBudget,
		PercentUsed: p.PercentUsed(),
		BarPercent:  p.BarPercent(),
		Label:       label,
	}
}

type dashboardView struct {
	TotalSpent  moneyView     `json:"total_spent"`
	Budget      moneyView     `json:"budget"`
	BudgetLabel string        `json:"budget_label"`
	Progress    progressView  `json:"progress"`
	Recent      []expenseView `json:"recent"`
}

type categoryTotalView struct {
	Category   core.Category     `json:"category"`
	Display    core.CategoryMeta `json:"display"`
	Total      moneyView         `json:"total"`
	Percentage float64           `json:"percentage"`
}

type summaryView struct {
	Year       int                 `json:"year"`
	Month      int                 `json:"month"`
	Total      moneyView           `json:"total"`
	Count      int                 `json:"count"`
	Categories []categoryTotalView `json:"categories"`
}
