package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"budgetbook/internal/core"
	"budgetbook/internal/log"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.ledger.GetExpenses(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	NewJSONResponse().Body(map[string][]expenseView{"expenses": s.expenseViews(expenses)}).Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	e, err := s.ledger.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	NewJSONResponse().Body(s.expenseView(e)).Write(w)
}

// handleCreateExpense accepts title, amount, category and date as JSON or
// form fields.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		writeError(w, r, log.OpCreate, &core.ValidationError{Field: "amount", Err: err})
		return
	}

	date, err := parseExpenseDate(p.Get("date"), s.now(), s.loc)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}

	title := p.Get("title")
	category := p.Get("category")
	id, err := s.ledger.AddExpense(ctx, title, amount, category, date)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}

	log.NewStructuredLogger(log.FromContext(ctx)).LogExpenseAdded(ctx, id, title, amount.Cents, category)

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", fmt.Sprintf("/api/expenses/%d", id)).
		Body(map[string]int64{"id": id}).
		Write(w)
}

// handleDeleteExpense answers 204 whether or not the expense existed.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	if err := s.ledger.DeleteExpense(r.Context(), id); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
