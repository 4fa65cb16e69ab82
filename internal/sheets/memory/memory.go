// Package memory is an in-process ExpenseMirror.
package memory

import (
	"context"
	"fmt"
	"sync"

	"budgetbook/internal/core"
	"budgetbook/internal/sheets"
)

var _ sheets.ExpenseMirror = (*Mirror)(nil)

type Mirror struct {
	mu   sync.Mutex
	rows [][]string
	// FailNext makes the next call return this error once.
	FailNext error
}

func New() *Mirror {
	return &Mirror{}
}

// AppendExpense stores the expense row and returns a synthetic reference.
func (m *Mirror) AppendExpense(_ context.Context, e core.Expense) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return "", err
	}

	id := fmt.Sprint(e.ID)
	if i := m.indexOf(id); i >= 0 {
		return fmt.Sprintf("mem:%d", i+2), nil
	}
	m.rows = append(m.rows, sheets.Row(e))
	return fmt.Sprintf("mem:%d", len(m.rows)+1), nil
}

func (m *Mirror) DeleteExpense(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}

	if i := m.indexOf(fmt.Sprint(id)); i >= 0 {
		m.rows = append(m.rows[:i], m.rows[i+1:]...)
	}
	return nil
}

func (m *Mirror) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.rows = nil
	return nil
}

// Rows returns a copy of the mirrored rows without the header.
func (m *Mirror) Rows() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func (m *Mirror) indexOf(id string) int {
	for i, r := range m.rows {
		if r[0] == id {
			return i
		}
	}
	return -1
}

func (m *Mirror) takeFailure() error {
	err := m.FailNext
	m.FailNext = nil
	return err
}
