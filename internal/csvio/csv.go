// Package csvio implements the budget CSV file: a fixed header followed by
// rows pairing the n-th income with the n-th expense.
//
// The format has no quoting or escaping. Fields are split on ',' and lines
// on '\n', so names containing either character do not round-trip.
package csvio

import (
	"errors"
	"path/filepath"
	"strings"

	"budget/internal/core"
)

const (
	Header      = "Income Name,Income Amount,Expense Name,Expense Amount"
	FileName    = "budget_data.csv"
	Extension   = ".csv"
	ContentType = "text/csv; charset=utf-8"
)

var ErrNotCSV = errors.New("file must have a .csv extension")

// Result holds the entries recovered from an imported file.
type Result struct {
	Incomes  []core.Entry
	Expenses []core.Entry
	// Skipped counts sides of a row that carried both fields but an amount
	// that is not a number.
	Skipped int
}

// Export renders both collections. Row i holds incomes[i] and expenses[i];
// the shorter side is padded with empty fields, so the row count is
// max(len(incomes), len(expenses)).
func Export(incomes, expenses []core.Item) string {
	n := len(incomes)
	if len(expenses) > n {
		n = len(expenses)
	}

	var b strings.Builder
	b.WriteString(Header)
	for i := 0; i < n; i++ {
		b.WriteByte('\n')
		writePair(&b, incomes, i)
		b.WriteByte(',')
		writePair(&b, expenses, i)
	}
	return b.String()
}

func writePair(b *strings.Builder, items []core.Item, i int) {
	if i >= len(items) {
		b.WriteByte(',')
		return
	}
	b.WriteString(items[i].Name)
	b.WriteByte(',')
	b.WriteString(core.FormatPlain(items[i].Amount))
}

// Parse reads the text of an exported file. The first line is discarded
// whatever it contains. Each remaining line contributes an income when its
// first two fields are non-empty and an expense when its last two are.
func Parse(text string) Result {
	var res Result
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return res
	}
	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if e, ok, bad := entryAt(fields, 0); ok {
			res.Incomes = append(res.Incomes, e)
		} else if bad {
			res.Skipped++
		}
		if e, ok, bad := entryAt(fields, 2); ok {
			res.Expenses = append(res.Expenses, e)
		} else if bad {
			res.Skipped++
		}
	}
	return res
}

// entryAt extracts the name/amount pair starting at column col.
func entryAt(fields []string, col int) (entry core.Entry, ok bool, bad bool) {
	name := safeGet(fields, col)
	amountStr := safeGet(fields, col+1)
	if name == "" || amountStr == "" {
		return core.Entry{}, false, false
	}
	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		return core.Entry{}, false, true
	}
	return core.Entry{Name: name, Amount: amount}, true, false
}

func safeGet(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

// CheckFileName accepts only names with a .csv extension.
func CheckFileName(name string) error {
	if !strings.EqualFold(filepath.Ext(name), Extension) {
		return ErrNotCSV
	}
	return nil
}
