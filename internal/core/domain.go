package core

import (
	"errors"
	"strings"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind selects one of the two collections of a budget.
	Kind string

	// Item is a named amount owned by exactly one collection.
	Item struct {
		ID     int64
		Name   string
		Amount float64
	}

	// Entry is an item that has not been assigned an id yet (e.g. a parsed CSV row).
	Entry struct {
		Name   string
		Amount float64
	}
)

var (
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyAmount   = errors.New("empty amount")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid kind")
)

// ParseKind accepts the singular and plural spellings used in routes.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if !k.IsValid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

// String implements fmt.Stringer
func (k Kind) String() string {
	return string(k)
}

// Plural returns the route segment for the kind.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// Title returns the card heading shown for the kind.
func (k Kind) Title() string {
	if k == Expense {
		return "Expenses"
	}
	return "Income"
}

// IsValid returns true if the kind is income or expense
func (k Kind) IsValid() bool {
	return k == Income || k == Expense
}

// ValidateName rejects names that are blank after trimming.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (e Entry) Validate() error {
	if err := ValidateName(e.Name); err != nil {
		return err
	}
	return ValidateAmount(e.Amount)
}
