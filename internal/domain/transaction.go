package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType determines the sign convention of a transaction.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// DefaultCategory is used when a transaction has no category.
const DefaultCategory = "other"

// StoredDateLayout is the UTC millisecond timestamp format new records are
// persisted with.
const StoredDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Transaction is a fully normalized income or expense record.
type Transaction struct {
	ID          string
	Type        TransactionType
	Category    string
	Amount      decimal.Decimal
	Description string
	// Date is the ISO-8601 timestamp as persisted.
	Date string
	// At is the parsed Date. Zero when HasDate is false.
	At      time.Time
	HasDate bool
}

// IsExpense reports whether t is an expense.
func (t Transaction) IsExpense() bool {
	return t.Type == TypeExpense
}

// IsIncome reports whether t is an income.
func (t Transaction) IsIncome() bool {
	return t.Type == TypeIncome
}

// RawTransaction is the persisted wire shape. Amount is kept raw because
// older payloads carry numbers, numeric strings or nothing at all.
type RawTransaction struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      json.RawMessage `json:"amount,omitempty"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// dateLayouts are tried in order when parsing persisted dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 timestamp. Date-only and zone-less values are
// read as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseType maps a user-supplied type label onto a TransactionType. Anything
// that is not an expense is treated as income, which is the add-form default.
func ParseType(s string) TransactionType {
	if strings.EqualFold(strings.TrimSpace(s), string(TypeExpense)) {
		return TypeExpense
	}
	return TypeIncome
}

// storedType keeps a persisted label as-is. Labels other than exactly
// "income" or "expense" (including a missing one) stay unknown: typed sums
// skip them while the daily series and row signs treat them as non-expense.
func storedType(s string) TransactionType {
	return TransactionType(s)
}

// NormalizeCategory returns c, or DefaultCategory when c is blank.
func NormalizeCategory(c string) string {
	if strings.TrimSpace(c) == "" {
		return DefaultCategory
	}
	return c
}

// Normalize applies the defaulting rules once so aggregations never have to.
func Normalize(raw RawTransaction) Transaction {
	at, ok := ParseDate(raw.Date)
	return Transaction{
		ID:          raw.ID,
		Type:        storedType(raw.Type),
		Category:    NormalizeCategory(raw.Category),
		Amount:      CoerceAmount(raw.Amount),
		Description: raw.Description,
		Date:        raw.Date,
		At:          at,
		HasDate:     ok,
	}
}

// NormalizeAll normalizes a decoded list, preserving order.
func NormalizeAll(raws []RawTransaction) []Transaction {
	out := make([]Transaction, 0, len(raws))
	for _, r := range raws {
		out = append(out, Normalize(r))
	}
	return out
}

// ToRaw converts t back into its persisted shape.
func (t Transaction) ToRaw() RawTransaction {
	return RawTransaction{
		ID:          t.ID,
		Type:        string(t.Type),
		Category:    t.Category,
		Amount:      json.RawMessage(t.Amount.String()),
		Description: t.Description,
		Date:        t.Date,
	}
}

// CoerceAmount turns any JSON value into a non-negative amount. Numbers and
// numeric strings are parsed; everything else counts as zero.
func CoerceAmount(raw json.RawMessage) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return decimal.Zero
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero
		}
		return ParseAmount(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return ParseAmount(string(raw))
	default:
		// null, booleans, objects and arrays
		return decimal.Zero
	}
}

// ParseAmount parses a decimal string into a magnitude. Blank or malformed
// input yields zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Abs()
}
