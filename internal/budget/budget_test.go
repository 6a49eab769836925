package budget

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/core"
	"budget/internal/csvio"
)

func mustCreate(t *testing.T, b *Budget, kind core.Kind, name string, amount float64) core.Item {
	t.Helper()
	it, err := b.Create(kind, name, amount)
	require.NoError(t, err)
	return it
}

func entries(items []core.Item) []core.Entry {
	out := make([]core.Entry, len(items))
	for i, it := range items {
		out[i] = core.Entry{Name: it.Name, Amount: it.Amount}
	}
	return out
}

func TestTotalsExample(t *testing.T) {
	b := New()
	mustCreate(t, b, core.Income, "Salary", 1000)
	mustCreate(t, b, core.Expense, "Rent", 400)
	mustCreate(t, b, core.Expense, "Food", 50)

	got := b.Totals()
	assert.Equal(t, "1000.00", core.FormatAmount(got.Income))
	assert.Equal(t, "450.00", core.FormatAmount(got.Expense))
	assert.Equal(t, "550.00", core.FormatAmount(got.Surplus))
}

func TestTotalsTrackEveryMutation(t *testing.T) {
	b := New()
	var wantIn, wantOut float64

	check := func() {
		t.Helper()
		got := b.Totals()
		assert.InDelta(t, wantIn, got.Income, 1e-9)
		assert.InDelta(t, wantOut, got.Expense, 1e-9)
		assert.InDelta(t, got.Income-got.Expense, got.Surplus, 1e-9)
	}

	for i, amt := range []float64{10, 20.5, 0.25, 1000} {
		mustCreate(t, b, core.Income, "in", amt)
		wantIn += amt
		check()
		mustCreate(t, b, core.Expense, "out", amt*float64(i+1))
		wantOut += amt * float64(i+1)
		check()
	}

	first := b.Items(core.Expense)[0]
	require.NoError(t, b.Edit(core.Expense, first.ID, "changed", 99))
	wantOut += 99 - first.Amount
	check()

	require.NoError(t, b.Delete(core.Income, b.Items(core.Income)[1].ID))
	wantIn -= 20.5
	check()
}

func TestCreateRejectsIncompleteInput(t *testing.T) {
	b := New()

	_, err := b.Create(core.Income, "", 10)
	assert.ErrorIs(t, err, core.ErrEmptyName)
	_, err = b.Create(core.Expense, "   ", 10)
	assert.ErrorIs(t, err, core.ErrEmptyName)
	_, err = b.Create(core.Expense, "NaN", math.NaN())
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	_, err = b.Create(core.Kind("savings"), "x", 1)
	assert.ErrorIs(t, err, core.ErrInvalidKind)

	assert.Empty(t, b.Items(core.Income))
	assert.Empty(t, b.Items(core.Expense))
	assert.Zero(t, b.Version())
}

func TestIDsAreUnique(t *testing.T) {
	b := New()
	seen := map[int64]bool{}
	for i := 0; i < 100; i++ {
		kind := core.Income
		if i%2 == 0 {
			kind = core.Expense
		}
		it := mustCreate(t, b, kind, "x", 1)
		assert.False(t, seen[it.ID], "duplicate id %d", it.ID)
		seen[it.ID] = true
	}
}

func TestEditPreservesIdentity(t *testing.T) {
	b := New()
	a := mustCreate(t, b, core.Expense, "Rent", 400)
	c := mustCreate(t, b, core.Expense, "Food", 50)

	require.NoError(t, b.Edit(core.Expense, a.ID, " Mortgage ", 650))

	items := b.Items(core.Expense)
	require.Len(t, items, 2)
	assert.Equal(t, core.Item{ID: a.ID, Name: "Mortgage", Amount: 650}, items[0])
	assert.Equal(t, c, items[1])
	assert.Empty(t, b.Items(core.Income))
}

func TestEditErrors(t *testing.T) {
	b := New()
	a := mustCreate(t, b, core.Income, "Salary", 1000)

	// Wrong collection: an item never moves and is not found in the other one.
	assert.ErrorIs(t, b.Edit(core.Expense, a.ID, "x", 1), ErrItemNotFound)
	assert.ErrorIs(t, b.Edit(core.Income, a.ID+100, "x", 1), ErrItemNotFound)
	assert.ErrorIs(t, b.Edit(core.Income, a.ID, "", 1), core.ErrEmptyName)
	assert.ErrorIs(t, b.Edit(core.Income, a.ID, "x", math.Inf(1)), core.ErrInvalidAmount)

	assert.Equal(t, []core.Item{a}, b.Items(core.Income))
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	b := New()
	a := mustCreate(t, b, core.Income, "A", 1)
	m := mustCreate(t, b, core.Income, "B", 2)
	c := mustCreate(t, b, core.Income, "C", 3)

	require.NoError(t, b.Delete(core.Income, m.ID))
	assert.Equal(t, []core.Item{a, c}, b.Items(core.Income))

	assert.ErrorIs(t, b.Delete(core.Income, m.ID), ErrItemNotFound)
	assert.ErrorIs(t, b.Delete(core.Expense, a.ID), ErrItemNotFound)
	assert.Equal(t, []core.Item{a, c}, b.Items(core.Income))
}

func TestItemsReturnsSnapshot(t *testing.T) {
	b := New()
	mustCreate(t, b, core.Income, "A", 1)

	items := b.Items(core.Income)
	items[0].Name = "mutated"

	assert.Equal(t, "A", b.Items(core.Income)[0].Name)
}

func TestReplaceAllAssignsFreshIDs(t *testing.T) {
	b := New()
	old := mustCreate(t, b, core.Income, "Old", 1)

	b.ReplaceAll(
		[]core.Entry{{Name: "Salary", Amount: 1000}, {Name: "", Amount: 5}},
		[]core.Entry{{Name: "Rent", Amount: 400}, {Name: "Food", Amount: 50}},
	)

	incomes, expenses := b.Snapshot()
	assert.Equal(t, []core.Entry{{Name: "Salary", Amount: 1000}}, entries(incomes))
	assert.Equal(t, []core.Entry{{Name: "Rent", Amount: 400}, {Name: "Food", Amount: 50}}, entries(expenses))

	ids := map[int64]bool{old.ID: true}
	for _, it := range append(incomes, expenses...) {
		assert.False(t, ids[it.ID], "id %d reused", it.ID)
		ids[it.ID] = true
	}
}

func TestImportCSVExample(t *testing.T) {
	b := New()
	mustCreate(t, b, core.Expense, "Stale", 1)

	res := b.ImportCSV("H\nSalary,1000,Rent,400\n,,Food,50")

	assert.Equal(t, ImportResult{Incomes: 1, Expenses: 2}, res)
	assert.Equal(t, []core.Entry{{Name: "Salary", Amount: 1000}}, entries(b.Items(core.Income)))
	assert.Equal(t, []core.Entry{{Name: "Rent", Amount: 400}, {Name: "Food", Amount: 50}}, entries(b.Items(core.Expense)))
}

func TestExportImportRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		incomes  []core.Entry
		expenses []core.Entry
	}{
		{"empty", nil, nil},
		{"more expenses", []core.Entry{{Name: "Salary", Amount: 1000.00}}, []core.Entry{{Name: "Rent", Amount: 400.00}, {Name: "Food", Amount: 50.25}}},
		{"more incomes", []core.Entry{{Name: "Salary", Amount: 2500.10}, {Name: "Bonus", Amount: 300.99}, {Name: "Tips", Amount: 12.34}}, []core.Entry{{Name: "Rent", Amount: 900.00}}},
		{"only incomes", []core.Entry{{Name: "Gift", Amount: 0.01}}, nil},
		{"only expenses", nil, []core.Entry{{Name: "Gym", Amount: 39.99}, {Name: "Phone", Amount: 15.50}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := New()
			for _, e := range tt.incomes {
				mustCreate(t, src, core.Income, e.Name, e.Amount)
			}
			for _, e := range tt.expenses {
				mustCreate(t, src, core.Expense, e.Name, e.Amount)
			}

			dst := New()
			res := dst.ImportCSV(src.ExportCSV())

			assert.Equal(t, len(tt.incomes), res.Incomes)
			assert.Equal(t, len(tt.expenses), res.Expenses)
			assert.Equal(t, entries(src.Items(core.Income)), entries(dst.Items(core.Income)))
			assert.Equal(t, entries(src.Items(core.Expense)), entries(dst.Items(core.Expense)))
		})
	}
}

func TestWriteCSV(t *testing.T) {
	b := New()
	mustCreate(t, b, core.Income, "Salary", 1000)

	var sb strings.Builder
	require.NoError(t, b.WriteCSV(&sb))
	assert.Equal(t, csvio.Header+"\nSalary,1000,,", sb.String())
}

func TestLoadAsync(t *testing.T) {
	type outcome struct {
		res ImportResult
		err error
	}
	wait := func(t *testing.T, ch <-chan outcome) outcome {
		t.Helper()
		select {
		case o := <-ch:
			return o
		case <-time.After(2 * time.Second):
			t.Fatal("load did not complete")
			return outcome{}
		}
	}

	t.Run("replaces on success", func(t *testing.T) {
		b := New()
		mustCreate(t, b, core.Income, "Old", 1)
		ch := make(chan outcome, 1)

		b.LoadAsync(strings.NewReader("H\nSalary,1000,Rent,400"), 0, func(res ImportResult, err error) {
			ch <- outcome{res, err}
		})

		o := wait(t, ch)
		require.NoError(t, o.err)
		assert.Equal(t, ImportResult{Incomes: 1, Expenses: 1}, o.res)
		assert.Equal(t, []core.Entry{{Name: "Salary", Amount: 1000}}, entries(b.Items(core.Income)))
	})

	t.Run("leaves budget untouched on read error", func(t *testing.T) {
		b := New()
		keep := mustCreate(t, b, core.Income, "Keep", 1)
		ch := make(chan outcome, 1)
		boom := errors.New("boom")

		b.LoadAsync(iotest.ErrReader(boom), 0, func(res ImportResult, err error) {
			ch <- outcome{res, err}
		})

		o := wait(t, ch)
		assert.ErrorIs(t, o.err, boom)
		assert.Equal(t, []core.Item{keep}, b.Items(core.Income))
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		b := New()
		ch := make(chan outcome, 1)

		b.LoadAsync(strings.NewReader(strings.Repeat("x", 64)), 16, func(res ImportResult, err error) {
			ch <- outcome{res, err}
		})

		o := wait(t, ch)
		assert.ErrorIs(t, o.err, csvio.ErrFileTooLarge)
		assert.Zero(t, b.Version())
	})
}

func TestConcurrentCreates(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = b.Create(core.Expense, "x", 1)
		}()
	}
	wg.Wait()

	items := b.Items(core.Expense)
	require.Len(t, items, 50)
	assert.InDelta(t, 50, b.Totals().Expense, 1e-9)
}
