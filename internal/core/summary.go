package core

// Totals is the aggregate of both collections.
type Totals struct {
	Income  float64
	Expense float64
	Surplus float64
}

// SumAmounts adds the amounts of items in order.
func SumAmounts(items []Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Amount
	}
	return sum
}

// NewTotals computes income, expense and surplus from the two collections.
func NewTotals(incomes, expenses []Item) Totals {
	in := SumAmounts(incomes)
	out := SumAmounts(expenses)
	return Totals{Income: in, Expense: out, Surplus: in - out}
}
