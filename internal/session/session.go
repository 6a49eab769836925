// Package session keeps one budget per browser session. A session lives in
// memory only; it disappears when it idles past its TTL, when the store is
// full and it is the least recently used, or when the process stops.
package session

import (
	"sync"
	"time"

	"budget/internal/budget"
	"budget/internal/core"
	"budget/internal/views"
)

// Session is the state behind one browser tab family: the budget plus the
// UI state of its lists and entry forms. Callers must hold the session
// lock (Lock/Unlock) while they read or change the views.
type Session struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time
	Budget    *budget.Budget

	lists map[core.Kind]*views.ListView
	forms map[core.Kind]*views.EntryForm
}

func newSession(id string, b *budget.Budget) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		Budget:    b,
		lists: map[core.Kind]*views.ListView{
			core.Income:  views.NewListView(core.Income),
			core.Expense: views.NewListView(core.Expense),
		},
		forms: map[core.Kind]*views.EntryForm{
			core.Income:  views.NewEntryForm(core.Income),
			core.Expense: views.NewEntryForm(core.Expense),
		},
	}
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// List returns the list view for kind.
func (s *Session) List(kind core.Kind) *views.ListView {
	return s.lists[kind]
}

// CloseEditors returns every list to display mode.
func (s *Session) CloseEditors() {
	for _, l := range s.lists {
		l.Cancel()
	}
}

// EntryForm returns the entry form for kind.
func (s *Session) EntryForm(kind core.Kind) *views.EntryForm {
	return s.forms[kind]
}
