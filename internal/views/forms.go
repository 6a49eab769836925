// Package views holds the UI state of the budget page: the entry and edit
// forms, the per-collection list view and the totals summary. Views only
// hold local field state and relay events through callbacks; the budget
// coordinator owns the data.
package views

import (
	"errors"
	"strings"

	"budget/internal/core"
)

// ErrIncomplete is returned when a form is submitted with an empty field.
// Callers treat it as a silent no-op.
var ErrIncomplete = errors.New("incomplete form")

// EntryForm captures a new item for one collection.
type EntryForm struct {
	Kind        core.Kind
	Placeholder string
	Name        string
	Amount      string
}

// NewEntryForm returns an empty form with the placeholder used by the page.
func NewEntryForm(kind core.Kind) *EntryForm {
	placeholder := "Add an income"
	if kind == core.Expense {
		placeholder = "Add an expense"
	}
	return &EntryForm{Kind: kind, Placeholder: placeholder}
}

// Submit validates the fields and calls onAdd. The fields are cleared only
// after onAdd succeeded; on any error they are kept so the user can fix them.
func (f *EntryForm) Submit(onAdd func(name string, amount float64) error) error {
	name, amount, err := parseFields(f.Name, f.Amount)
	if err != nil {
		return err
	}
	if err := onAdd(name, amount); err != nil {
		return err
	}
	f.Name = ""
	f.Amount = ""
	return nil
}

// EditForm edits one existing item.
type EditForm struct {
	ItemID  int64
	Name    string
	Amount  string
	focused bool
}

// NewEditForm pre-fills the form from the item's current values.
func NewEditForm(item core.Item) *EditForm {
	return &EditForm{
		ItemID: item.ID,
		Name:   item.Name,
		Amount: core.FormatPlain(item.Amount),
	}
}

// TakeFocus reports whether the name field should grab focus. It is true
// only on the first call for a given form.
func (f *EditForm) TakeFocus() bool {
	if f.focused {
		return false
	}
	f.focused = true
	return true
}

// Save validates the fields and calls onSave with the item's id.
func (f *EditForm) Save(onSave func(id int64, name string, amount float64) error) error {
	name, amount, err := parseFields(f.Name, f.Amount)
	if err != nil {
		return err
	}
	return onSave(f.ItemID, name, amount)
}

// Delete calls onDelete immediately, without looking at the fields.
func (f *EditForm) Delete(onDelete func(id int64) error) error {
	return onDelete(f.ItemID)
}

// Cancel discards the edits.
func (f *EditForm) Cancel(onCancel func()) {
	if onCancel != nil {
		onCancel()
	}
}

func parseFields(name, amountText string) (string, float64, error) {
	name = strings.TrimSpace(name)
	amountText = strings.TrimSpace(amountText)
	if name == "" || amountText == "" {
		return "", 0, ErrIncomplete
	}
	amount, err := core.ParseAmount(amountText)
	if err != nil {
		return "", 0, err
	}
	return name, amount, nil
}
