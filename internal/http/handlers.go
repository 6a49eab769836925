package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"budget/internal/budget"
	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/session"
	"budget/internal/views"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)

	sess.Lock()
	body, err := s.execute("index.html", buildBudgetView(sess))
	sess.Unlock()
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Index template execution failed", log.FieldError, err, log.FieldOperation, log.OpRender)
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

// respond re-renders the budget region after an action. A nil err with a
// success message marks a data change and raises the change events. Caller
// holds the session lock.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, sess *session.Session, err error, success string) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	switch {
	case err == nil:
	case errors.Is(err, views.ErrIncomplete), errors.Is(err, budget.ErrItemNotFound):
		// nothing to do; show the current state
		success = ""
	case errors.Is(err, core.ErrInvalidAmount), errors.Is(err, core.ErrEmptyName), errors.Is(err, core.ErrEmptyAmount):
		logger.WarnContext(ctx, "Rejected budget input", log.FieldError, err)
		Fail(http.StatusUnprocessableEntity, userMessage(err)).Send(w)
		return
	default:
		logger.ErrorContext(ctx, "Budget update failed", log.FieldError, err)
		Fail(http.StatusInternalServerError, userMessage(err)).Send(w)
		return
	}

	body, rerr := s.renderRegion(sess)
	if rerr != nil {
		logger.ErrorContext(ctx, "Budget region render failed", log.FieldError, rerr, log.FieldOperation, log.OpRender)
		Fail(http.StatusInternalServerError, "Could not render the budget").Send(w)
		return
	}

	resp := Respond().HTML(body)
	if err == nil && success != "" {
		resp.Changed(sess.Budget.Version()).Notify(LevelSuccess, success)
	}
	resp.Send(w)
}

// kindRequest resolves the list kind and session for an item route.
func kindRequest(w http.ResponseWriter, r *http.Request) (core.Kind, *session.Session, bool) {
	kind, err := ParseKindParam(r)
	if err != nil {
		Fail(http.StatusNotFound, "Unknown list").Send(w)
		return "", nil, false
	}
	return kind, sessionFrom(r.Context()), true
}

// itemRequest is kindRequest plus the {id} parameter and the posted form.
func itemRequest(w http.ResponseWriter, r *http.Request) (core.Kind, int64, *session.Session, bool) {
	kind, sess, ok := kindRequest(w, r)
	if !ok {
		return "", 0, nil, false
	}
	id, err := ParseIDParam(r)
	if err != nil {
		Fail(http.StatusBadRequest, "Invalid item id").Send(w)
		return "", 0, nil, false
	}
	if err := r.ParseForm(); err != nil {
		Fail(http.StatusBadRequest, "Invalid request format").Send(w)
		return "", 0, nil, false
	}
	return kind, id, sess, true
}

// handleCreate submits the entry form of one list.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	kind, sess, ok := kindRequest(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		Fail(http.StatusBadRequest, "Invalid request format").Send(w)
		return
	}
	in := ParseItemForm(r.PostForm)

	sess.Lock()
	defer sess.Unlock()

	form := sess.EntryForm(kind)
	form.Name, form.Amount = in.Name, in.Amount

	var created core.Item
	err := form.Submit(func(name string, amount float64) error {
		item, err := sess.Budget.Create(kind, name, amount)
		created = item
		return err
	})
	if err == nil {
		log.LogItemChange(r.Context(), log.OpCreate, kind.String(), created.ID, created.Name, created.Amount)
	}
	s.respond(w, r, sess, err, "Added "+created.Name)
}

// handleEdit opens the edit form for a row. Any other open row closes.
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	kind, id, sess, ok := itemRequest(w, r)
	if !ok {
		return
	}

	sess.Lock()
	defer sess.Unlock()

	if item, found := sess.Budget.Item(kind, id); found {
		sess.List(kind).Activate(item)
	}
	s.respond(w, r, sess, nil, "")
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	kind, id, sess, ok := itemRequest(w, r)
	if !ok {
		return
	}
	in := ParseItemForm(r.PostForm)

	sess.Lock()
	defer sess.Unlock()

	var saved core.Item
	err := sess.List(kind).Save(id, in.Name, in.Amount, func(id int64, name string, amount float64) error {
		saved = core.Item{ID: id, Name: name, Amount: amount}
		return sess.Budget.Edit(kind, id, name, amount)
	})
	if err == nil {
		log.LogItemChange(r.Context(), log.OpUpdate, kind.String(), saved.ID, saved.Name, saved.Amount)
	}
	s.respond(w, r, sess, err, "Saved "+strings.TrimSpace(in.Name))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	kind, id, sess, ok := itemRequest(w, r)
	if !ok {
		return
	}

	sess.Lock()
	defer sess.Unlock()

	removed, _ := sess.Budget.Item(kind, id)
	err := sess.List(kind).Delete(id, func(id int64) error {
		return sess.Budget.Delete(kind, id)
	})
	if err == nil {
		log.LogItemChange(r.Context(), log.OpDelete, kind.String(), removed.ID, removed.Name, removed.Amount)
	}
	s.respond(w, r, sess, err, fmt.Sprintf("Deleted %s", removed.Name))
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	kind, _, sess, ok := itemRequest(w, r)
	if !ok {
		return
	}

	sess.Lock()
	defer sess.Unlock()

	sess.List(kind).Cancel()
	s.respond(w, r, sess, nil, "")
}

// handleToggle minimizes or restores a list.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	kind, sess, ok := kindRequest(w, r)
	if !ok {
		return
	}

	sess.Lock()
	defer sess.Unlock()

	minimized := sess.List(kind).ToggleMinimize()
	log.FromContext(r.Context()).DebugContext(r.Context(), "List toggled",
		log.FieldKind, kind.String(), "minimized", minimized, log.FieldOperation, log.OpToggle)
	s.respond(w, r, sess, nil, "")
}
