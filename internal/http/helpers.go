package http

import (
	"errors"
	"strconv"
	"strings"

	"budget/internal/budget"
	"budget/internal/core"
	"budget/internal/csvio"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// userMessage turns a domain error into text fit for a notification.
func userMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Amount must be a number"
	case errors.Is(err, core.ErrEmptyName):
		return "Name is required"
	case errors.Is(err, core.ErrEmptyAmount):
		return "Amount is required"
	case errors.Is(err, budget.ErrItemNotFound):
		return "That item no longer exists"
	case errors.Is(err, csvio.ErrNotCSV):
		return "Only .csv files can be loaded"
	case errors.Is(err, csvio.ErrFileTooLarge):
		return "The file is too large"
	default:
		return "Something went wrong"
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
