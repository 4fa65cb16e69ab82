package http

import (
	"net/http"
	"strconv"

	"budgetbook/internal/aggregate"
	"budgetbook/internal/core"
	"budgetbook/internal/log"
)

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := s.ledger.GetMonthlyBudget(r.Context())
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	NewJSONResponse().Body(map[string]moneyView{"budget": newMoneyView(budget)}).Write(w)
}

// handleSetBudget overwrites the budget; zero clears it.
func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	budget, err := core.ParseBudget(p.Get("budget"))
	if err != nil {
		writeError(w, r, log.OpUpdate, &core.ValidationError{Field: "budget", Err: err})
		return
	}

	if err := s.ledger.SetMonthlyBudget(r.Context(), budget); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(map[string]moneyView{"budget": newMoneyView(budget)}).Write(w)
}

// handleDashboard is the home screen: everything spent against the budget
// plus the expense list, newest first. ?limit=N trims the list.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			BadRequestError("invalid limit").Write(w)
			return
		}
		limit = n
	}

	expenses, err := s.ledger.GetExpenses(ctx)
	if err != nil {
		writeError(w, r, log.OpSummary, err)
		return
	}
	budget, err := s.ledger.GetMonthlyBudget(ctx)
	if err != nil {
		writeError(w, r, log.OpSummary, err)
		return
	}

	total := aggregate.TotalSpent(expenses)
	progress := aggregate.BudgetProgress(total, budget)

	budgetLabel := notSetLabel
	if progress.HasBudget {
		budgetLabel = budget.String()
	}

	recent := expenses
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}

	NewJSONResponse().Body(dashboardView{
		TotalSpent:  newMoneyView(total),
		Budget:      newMoneyView(budget),
		BudgetLabel: budgetLabel,
		Progress:    newProgressView(progress),
		Recent:      s.expenseViews(recent),
	}).Write(w)
}

// handleSummary breaks one month down by category. Year and month default
// to the current month in the server's timezone.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := ParseMonthParams(r.URL.Query(), s.now(), s.loc)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	expenses, err := s.ledger.GetExpenses(ctx)
	if err != nil {
		writeError(w, r, log.OpSummary, err)
		return
	}

	month := aggregate.FilterByMonth(expenses, params.Year, params.Month, s.loc)
	groups := aggregate.GroupByCategory(month)

	cats := make([]categoryTotalView, 0, len(groups))
	for _, g := range groups {
		cats = append(cats, categoryTotalView{
			Category:   g.Category,
			Display:    s.catalog.Lookup(g.Category),
			Total:      newMoneyView(g.Total),
			Percentage: g.Percentage,
		})
	}

	NewJSONResponse().Body(summaryView{
		Year:       params.Year,
		Month:      int(params.Month),
		Total:      newMoneyView(aggregate.TotalSpent(month)),
		Count:      len(month),
		Categories: cats,
	}).Write(w)
}
