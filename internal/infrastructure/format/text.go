package format

import (
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/iho/gobudget/internal/domain"
)

const displayDateLayout = "02.01.2006"

// FormatDate renders an ISO-8601 timestamp as DD.MM.YYYY in loc. Unparseable
// input renders as "".
func FormatDate(iso string, loc *time.Location) string {
	t, ok := domain.ParseDate(iso)
	if !ok {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(displayDateLayout)
}

// Capitalize upper-cases the first rune of s and leaves the rest alone.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// TransactionTitle is the headline of a transaction row: its description,
// else its capitalized category, else "Transaction".
func TransactionTitle(t domain.Transaction) string {
	if t.Description != "" {
		return t.Description
	}
	if t.Category != "" {
		return Capitalize(t.Category)
	}
	return "Transaction"
}
