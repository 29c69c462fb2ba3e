package util

import (
	"strings"
	"unicode"
)

// NormalizePlate reduces a license plate to its canonical form: uppercase,
// separators stripped, and a single hyphen inserted between each run of
// letters and run of digits. "abc 123", "abc123", and "ABC-123" all
// normalize to "ABC-123", so guards can match a plate however it was typed.
// Returns "" when the input contains no alphanumeric characters.
func NormalizePlate(plate string) string {
	var runs []string
	var current strings.Builder
	var currentIsDigit bool

	for _, r := range strings.ToUpper(strings.TrimSpace(plate)) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		isDigit := unicode.IsDigit(r)
		if current.Len() > 0 && isDigit != currentIsDigit {
			runs = append(runs, current.String())
			current.Reset()
		}
		current.WriteRune(r)
		currentIsDigit = isDigit
	}
	if current.Len() > 0 {
		runs = append(runs, current.String())
	}

	return strings.Join(runs, "-")
}
