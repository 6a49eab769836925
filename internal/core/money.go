// Package core provides the budget domain types and amount handling.
//
// This file contains functions for parsing amounts typed by the user and
// for the fixed two-decimal display format.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts user text into an amount.
//
// Leading and trailing whitespace is ignored. Empty text yields
// ErrEmptyAmount. Only plain decimal notation is accepted: hex floats,
// digit separators, NaN and ±Inf yield ErrInvalidAmount.
//
// Examples:
//   ParseAmount("1000")   -> 1000, nil
//   ParseAmount(" 12.5 ") -> 12.5, nil
//   ParseAmount("-3")     -> -3, nil
//   ParseAmount("1e3")    -> 1000, nil
//   ParseAmount("abc")    -> 0, ErrInvalidAmount
//   ParseAmount("0x1p3")  -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyAmount
	}
	if strings.TrimLeft(s, "0123456789.+-eE") != "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if err := ValidateAmount(v); err != nil {
		return 0, err
	}
	return v, nil
}

// ValidateAmount rejects values that would poison the totals.
func ValidateAmount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrInvalidAmount
	}
	return nil
}

// FormatAmount renders v with exactly two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatCurrency renders v as a dollar amount, e.g. "$12.50" or "-$3.00".
func FormatCurrency(v float64) string {
	s := FormatAmount(v)
	if strings.HasPrefix(s, "-") {
		if s == "-0.00" {
			return "$0.00"
		}
		return "-$" + s[1:]
	}
	return "$" + s
}

// FormatPlain renders v with the shortest decimal text that parses back to v.
// Used for the CSV file and for pre-filling edit forms.
func FormatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
