package csvio

import (
	"errors"
	"fmt"
	"io"
)

var ErrFileTooLarge = errors.New("file too large")

// ReadAsync reads r to the end on its own goroutine and hands the full text
// to onLoad. onLoad is called exactly once, from that goroutine, and the
// caller is never blocked. A maxBytes of zero or less disables the limit.
func ReadAsync(r io.Reader, maxBytes int64, onLoad func(text string, err error)) {
	go func() {
		text, err := readAll(r, maxBytes)
		onLoad(text, err)
	}()
}

func readAll(r io.Reader, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		b, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return string(b), nil
	}
	// One extra byte tells an exact-size file apart from an oversized one.
	b, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if int64(len(b)) > maxBytes {
		return "", ErrFileTooLarge
	}
	return string(b), nil
}
