package views

import (
	"strings"

	"budget/internal/core"
)

// Summary renders the three totals. It does no aggregation of its own.
type Summary struct {
	Income  string
	Expense string
	Surplus string
	deficit bool
}

func NewSummary(t core.Totals) Summary {
	return Summary{
		Income:  core.FormatCurrency(t.Income),
		Expense: core.FormatCurrency(t.Expense),
		Surplus: core.FormatCurrency(t.Surplus),
		deficit: strings.HasPrefix(core.FormatCurrency(t.Surplus), "-"),
	}
}

// Deficit is true when the displayed surplus is negative. A shortfall that
// rounds to $0.00 is not a deficit.
func (s Summary) Deficit() bool {
	return s.deficit
}
