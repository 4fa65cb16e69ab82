package core

import (
	"strings"
	"time"
	"unicode/utf8"
)

const maxTitleLength = 200

type (
	// Expense is a single recorded spending transaction.
	Expense struct {
		ID       int64
		Title    string
		Amount   Money
		Category Category // stored verbatim, see Category.Normalize
		Date     time.Time
	}

	Money struct {
		Cents int64
	}
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the fields a caller supplies when adding an expense.
// The ID is assigned by the store and is not checked.
func (e Expense) Validate() error {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return invalid("title", ErrEmptyTitle)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return invalid("title", ErrTitleTooLong)
	}
	if err := e.Amount.Validate(); err != nil {
		return invalid("amount", err)
	}
	if e.Date.IsZero() {
		return invalid("date", ErrInvalidDate)
	}
	return nil
}

// NewExpense builds a validated expense ready to be stored.
func NewExpense(title string, amount Money, category string, date time.Time) (Expense, error) {
	e := Expense{
		Title:    strings.TrimSpace(title),
		Amount:   amount,
		Category: Category(strings.TrimSpace(category)),
		Date:     date,
	}
	if e.Category == "" {
		e.Category = CategoryOther
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// ValidateBudget checks a monthly budget value. Zero means "not set".
func ValidateBudget(m Money) error {
	if m.Cents < 0 {
		return invalid("budget", ErrNegativeBudget)
	}
	return nil
}
