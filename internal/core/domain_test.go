package core

import (
	"math"
	"testing"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"income", Income, true},
		{"incomes", Income, true},
		{"Expenses", Expense, true},
		{" expense ", Expense, true},
		{"savings", "", false},
		{"incomess", "", false},
		{"s", "", false},
		{"", "", false},
	}
	for i, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d expected %q, got %q (err=%v)", i, tc.want, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
	if !Income.IsValid() || !Expense.IsValid() || Kind("savings").IsValid() {
		t.Fatalf("unexpected IsValid results")
	}
	if Income.Plural() != "incomes" || Expense.Plural() != "expenses" {
		t.Fatalf("unexpected plurals")
	}
}

func TestEntryValidate(t *testing.T) {
	if err := (Entry{Name: "Salary", Amount: 1000}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Entry{
		{Name: "", Amount: 1},
		{Name: "   ", Amount: 1},
		{Name: "a", Amount: math.NaN()},
		{Name: "a", Amount: math.Inf(1)},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestNewTotals(t *testing.T) {
	incomes := []Item{{ID: 1, Name: "Salary", Amount: 1000}}
	expenses := []Item{{ID: 2, Name: "Rent", Amount: 400}, {ID: 3, Name: "Food", Amount: 50}}

	got := NewTotals(incomes, expenses)
	if FormatAmount(got.Income) != "1000.00" || FormatAmount(got.Expense) != "450.00" || FormatAmount(got.Surplus) != "550.00" {
		t.Fatalf("unexpected totals: %+v", got)
	}

	empty := NewTotals(nil, nil)
	if empty != (Totals{}) {
		t.Fatalf("expected zero totals, got %+v", empty)
	}
}
