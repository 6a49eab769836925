package views

import "budget/internal/core"

// ListView tracks the display state of one collection: which single row
// is being edited and whether the list is collapsed.
type ListView struct {
	Kind      core.Kind
	editing   *EditForm
	minimized bool
}

// Row is one rendered line of the list.
type Row struct {
	ID     int64
	Name   string
	Amount string
	// Edit is set for the row currently in edit mode.
	Edit  *EditForm
	Focus bool
}

func NewListView(kind core.Kind) *ListView {
	return &ListView{Kind: kind}
}

// Activate puts item into edit mode. Any other row in edit mode reverts
// to display mode; activating the row already being edited keeps its form.
func (l *ListView) Activate(item core.Item) *EditForm {
	if l.editing != nil && l.editing.ItemID == item.ID {
		return l.editing
	}
	l.editing = NewEditForm(item)
	return l.editing
}

// Editing returns the open edit form, if any.
func (l *ListView) Editing() (*EditForm, bool) {
	return l.editing, l.editing != nil
}

// IsEditing reports whether id is the row in edit mode.
func (l *ListView) IsEditing(id int64) bool {
	return l.editing != nil && l.editing.ItemID == id
}

// Save saves the form for id through onEdit and returns that row to display
// mode. A form that fails validation stays open, and a save for some other
// row leaves the open editor alone.
func (l *ListView) Save(id int64, name, amount string, onEdit func(id int64, name string, amount float64) error) error {
	form := l.formFor(id)
	form.Name = name
	form.Amount = amount
	if err := form.Save(onEdit); err != nil {
		return err
	}
	if l.IsEditing(id) {
		l.editing = nil
	}
	return nil
}

// Delete relays a delete request for id. The row leaves edit mode if it was in it.
func (l *ListView) Delete(id int64, onDelete func(id int64) error) error {
	if err := l.formFor(id).Delete(onDelete); err != nil {
		return err
	}
	if l.IsEditing(id) {
		l.editing = nil
	}
	return nil
}

// Cancel closes the editor without changing anything.
func (l *ListView) Cancel() {
	if l.editing == nil {
		return
	}
	l.editing.Cancel(func() { l.editing = nil })
}

// ToggleMinimize collapses or restores the list. The editing slot is kept.
func (l *ListView) ToggleMinimize() bool {
	l.minimized = !l.minimized
	return l.minimized
}

func (l *ListView) Minimized() bool {
	return l.minimized
}

// Rows builds the display rows for items. An editing slot whose item no
// longer exists is released.
func (l *ListView) Rows(items []core.Item) []Row {
	rows := make([]Row, 0, len(items))
	found := false
	for _, it := range items {
		row := Row{ID: it.ID, Name: it.Name, Amount: core.FormatCurrency(it.Amount)}
		if l.IsEditing(it.ID) {
			found = true
			row.Edit = l.editing
			row.Focus = l.editing.TakeFocus()
		}
		rows = append(rows, row)
	}
	if l.editing != nil && !found {
		l.editing = nil
	}
	return rows
}

// formFor returns the open form for id, or a bare one carrying only the id
// when a request arrives for a row that is not in edit mode.
func (l *ListView) formFor(id int64) *EditForm {
	if l.IsEditing(id) {
		return l.editing
	}
	return &EditForm{ItemID: id}
}
