package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"budget/internal/core"
)

var errInvalidID = errors.New("invalid item id")

// ItemForm holds the raw fields posted by the entry and edit forms.
type ItemForm struct {
	Name   string
	Amount string
}

// ParseItemForm extracts the name and amount fields. Values are sanitized
// but not validated; validation belongs to the views.
func ParseItemForm(form url.Values) ItemForm {
	return ItemForm{
		Name:   sanitizeInput(form.Get("name")),
		Amount: sanitizeInput(form.Get("amount")),
	}
}

// ParseKindParam reads the {kind} route parameter.
func ParseKindParam(r *http.Request) (core.Kind, error) {
	return core.ParseKind(chi.URLParam(r, "kind"))
}

// ParseIDParam reads the {id} route parameter.
func ParseIDParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
