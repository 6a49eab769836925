// Package budget holds the coordinator that owns a budget's two
// collections. Views never touch the collections directly: every change
// goes through Create, Edit, Delete or ReplaceAll, and readers get copies.
package budget

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"budget/internal/core"
)

var ErrItemNotFound = errors.New("item not found")

// Budget is the single source of truth for one user's incomes and expenses.
// It is safe for concurrent use.
type Budget struct {
	mu       sync.Mutex
	incomes  []core.Item
	expenses []core.Item
	lastID   int64
	version  uint64
	logger   *slog.Logger
}

// Option configures a Budget.
type Option func(*Budget)

// WithLogger sets the logger used for mutation events.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Budget) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates an empty budget.
func New(opts ...Option) *Budget {
	b := &Budget{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// collection returns a pointer to the slice selected by kind. Caller holds mu.
func (b *Budget) collection(kind core.Kind) (*[]core.Item, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidKind, kind)
	}
	if kind == core.Income {
		return &b.incomes, nil
	}
	return &b.expenses, nil
}

// nextID hands out ids from a counter that never goes backwards, so two
// items created in the same instant still get distinct ids. Caller holds mu.
func (b *Budget) nextID() int64 {
	b.lastID++
	return b.lastID
}

// Create appends a new item to the collection selected by kind.
func (b *Budget) Create(kind core.Kind, name string, amount float64) (core.Item, error) {
	name = strings.TrimSpace(name)
	if err := (core.Entry{Name: name, Amount: amount}).Validate(); err != nil {
		return core.Item{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	items, err := b.collection(kind)
	if err != nil {
		return core.Item{}, err
	}
	item := core.Item{ID: b.nextID(), Name: name, Amount: amount}
	*items = append(*items, item)
	b.version++

	b.logger.Debug("Item created", "kind", kind, "item_id", item.ID, "item_name", item.Name, "amount", item.Amount)
	return item, nil
}

// Edit replaces name and amount of the item with the given id. The id and
// the owning collection never change.
func (b *Budget) Edit(kind core.Kind, id int64, name string, amount float64) error {
	name = strings.TrimSpace(name)
	if err := (core.Entry{Name: name, Amount: amount}).Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	items, err := b.collection(kind)
	if err != nil {
		return err
	}
	for i := range *items {
		if (*items)[i].ID == id {
			(*items)[i].Name = name
			(*items)[i].Amount = amount
			b.version++
			b.logger.Debug("Item updated", "kind", kind, "item_id", id, "item_name", name, "amount", amount)
			return nil
		}
	}
	return fmt.Errorf("edit %s %d: %w", kind, id, ErrItemNotFound)
}

// Delete removes the item with the given id, keeping the order of the rest.
func (b *Budget) Delete(kind core.Kind, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	items, err := b.collection(kind)
	if err != nil {
		return err
	}
	for i, it := range *items {
		if it.ID == id {
			out := make([]core.Item, 0, len(*items)-1)
			out = append(out, (*items)[:i]...)
			out = append(out, (*items)[i+1:]...)
			*items = out
			b.version++
			b.logger.Debug("Item deleted", "kind", kind, "item_id", id)
			return nil
		}
	}
	return fmt.Errorf("delete %s %d: %w", kind, id, ErrItemNotFound)
}

// ReplaceAll discards both collections and rebuilds them from entries,
// assigning fresh ids. Invalid entries are dropped.
func (b *Budget) ReplaceAll(incomes, expenses []core.Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.incomes = b.build(incomes)
	b.expenses = b.build(expenses)
	b.version++

	b.logger.Debug("Items replaced", "incomes", len(b.incomes), "expenses", len(b.expenses))
}

// build converts entries into items. Caller holds mu.
func (b *Budget) build(entries []core.Entry) []core.Item {
	out := make([]core.Item, 0, len(entries))
	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if err := e.Validate(); err != nil {
			continue
		}
		out = append(out, core.Item{ID: b.nextID(), Name: e.Name, Amount: e.Amount})
	}
	return out
}

// Items returns a copy of the collection selected by kind.
func (b *Budget) Items(kind core.Kind) []core.Item {
	b.mu.Lock()
	defer b.mu.Unlock()

	items, err := b.collection(kind)
	if err != nil {
		return nil
	}
	return append([]core.Item(nil), (*items)...)
}

// Item looks up a single item.
func (b *Budget) Item(kind core.Kind, id int64) (core.Item, bool) {
	for _, it := range b.Items(kind) {
		if it.ID == id {
			return it, true
		}
	}
	return core.Item{}, false
}

// Snapshot returns copies of both collections taken under one lock.
func (b *Budget) Snapshot() (incomes, expenses []core.Item) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]core.Item(nil), b.incomes...), append([]core.Item(nil), b.expenses...)
}

// Totals recomputes income, expense and surplus from the current state.
func (b *Budget) Totals() core.Totals {
	return core.NewTotals(b.Snapshot())
}

// Version counts successful mutations.
func (b *Budget) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}
