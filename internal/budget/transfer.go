package budget

import (
	"fmt"
	"io"

	"budget/internal/csvio"
)

// ImportResult reports what an import put into the budget.
type ImportResult struct {
	Incomes  int
	Expenses int
	Skipped  int
}

// ExportCSV renders the current state as a budget CSV file.
func (b *Budget) ExportCSV() string {
	return csvio.Export(b.Snapshot())
}

// WriteCSV writes the exported file to w.
func (b *Budget) WriteCSV(w io.Writer) error {
	if _, err := io.WriteString(w, b.ExportCSV()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// ImportCSV parses text and replaces both collections with its rows.
func (b *Budget) ImportCSV(text string) ImportResult {
	parsed := csvio.Parse(text)
	b.ReplaceAll(parsed.Incomes, parsed.Expenses)

	incomes, expenses := b.Snapshot()
	res := ImportResult{Incomes: len(incomes), Expenses: len(expenses), Skipped: parsed.Skipped}
	b.logger.Info("Budget imported", "incomes", res.Incomes, "expenses", res.Expenses, "skipped", res.Skipped)
	return res
}

// LoadAsync reads a CSV file without blocking the caller, then imports it.
// The budget is only modified after the whole file has been read; on a
// read error it is left untouched. done is called exactly once.
func (b *Budget) LoadAsync(r io.Reader, maxBytes int64, done func(ImportResult, error)) {
	csvio.ReadAsync(r, maxBytes, func(text string, err error) {
		if err != nil {
			b.logger.Warn("Budget load failed", "error", err)
			done(ImportResult{}, err)
			return
		}
		done(b.ImportCSV(text), nil)
	})
}
