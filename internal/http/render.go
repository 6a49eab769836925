package http

import (
	"bytes"
	"fmt"

	"budget/internal/core"
	"budget/internal/session"
	"budget/internal/views"
)

type cardView struct {
	Kind      core.Kind
	Form      *views.EntryForm
	Rows      []views.Row
	Minimized bool
	Total     string
}

type budgetView struct {
	Version uint64
	Cards   []cardView
	Summary views.Summary
}

// buildBudgetView assembles the region's view model. Caller holds the
// session lock.
func buildBudgetView(sess *session.Session) budgetView {
	incomes, expenses := sess.Budget.Snapshot()
	totals := core.NewTotals(incomes, expenses)

	card := func(kind core.Kind, items []core.Item, total float64) cardView {
		list := sess.List(kind)
		return cardView{
			Kind:      kind,
			Form:      sess.EntryForm(kind),
			Rows:      list.Rows(items),
			Minimized: list.Minimized(),
			Total:     core.FormatCurrency(total),
		}
	}

	return budgetView{
		Version: sess.Budget.Version(),
		Cards: []cardView{
			card(core.Income, incomes, totals.Income),
			card(core.Expense, expenses, totals.Expense),
		},
		Summary: views.NewSummary(totals),
	}
}

// renderRegion renders the #budget region. Caller holds the session lock.
func (s *Server) renderRegion(sess *session.Session) ([]byte, error) {
	return s.execute("budget", buildBudgetView(sess))
}

func (s *Server) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
