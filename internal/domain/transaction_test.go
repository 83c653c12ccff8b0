package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCoerceAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "number", raw: `50`, want: "50"},
		{name: "fractional number", raw: `12.75`, want: "12.75"},
		{name: "numeric string", raw: `"50"`, want: "50"},
		{name: "padded string", raw: `"  300 "`, want: "300"},
		{name: "negative number", raw: `-40`, want: "40"},
		{name: "negative string", raw: `"-40"`, want: "40"},
		{name: "garbage string", raw: `"abc"`, want: "0"},
		{name: "empty string", raw: `""`, want: "0"},
		{name: "null", raw: `null`, want: "0"},
		{name: "bool", raw: `true`, want: "0"},
		{name: "object", raw: `{"v":1}`, want: "0"},
		{name: "array", raw: `[1]`, want: "0"},
		{name: "absent", raw: ``, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceAmount(json.RawMessage(tt.raw))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("CoerceAmount(%s) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	t.Parallel()

	cases := map[string]TransactionType{
		"expense":   TypeExpense,
		" EXPENSE ": TypeExpense,
		"income":    TypeIncome,
		"":          TypeIncome,
		"transfer":  TypeIncome,
	}
	for in, want := range cases {
		if got := ParseType(in); got != want {
			t.Errorf("ParseType(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	valid := []string{
		"2024-01-08T10:30:00.000Z",
		"2024-01-08T10:30:00Z",
		"2024-01-08T10:30:00+05:30",
		"2024-01-08T10:30:00",
		"2024-01-08",
	}
	for _, s := range valid {
		if _, ok := ParseDate(s); !ok {
			t.Errorf("ParseDate(%q) failed", s)
		}
	}

	for _, s := range []string{"", "yesterday", "08.01.2024"} {
		if _, ok := ParseDate(s); ok {
			t.Errorf("ParseDate(%q) should fail", s)
		}
	}

	got, _ := ParseDate("2024-01-08")
	want := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("date-only value parsed as %v, want %v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	var raws []RawTransaction
	payload := `[
		{"id":"a","type":"expense","category":"","amount":"25","date":"2024-01-01T00:00:00.000Z"},
		{"id":"b","amount":null,"date":"not a date"},
		{"id":"c","type":"income","category":"salary","amount":1000,"description":"Jan","date":"2024-01-02"}
	]`
	if err := json.Unmarshal([]byte(payload), &raws); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	txns := NormalizeAll(raws)
	if len(txns) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txns))
	}

	a := txns[0]
	if a.Type != TypeExpense || a.Category != DefaultCategory || !a.Amount.Equal(decimal.NewFromInt(25)) || !a.HasDate {
		t.Errorf("unexpected normalization of a: %+v", a)
	}

	b := txns[1]
	if b.IsIncome() || b.IsExpense() || b.Category != DefaultCategory || !b.Amount.IsZero() || b.HasDate {
		t.Errorf("unexpected normalization of b: %+v", b)
	}

	c := txns[2]
	if c.ID != "c" || c.Description != "Jan" || !c.Amount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("unexpected normalization of c: %+v", c)
	}
}

func TestTransaction_ToRawRoundTrip(t *testing.T) {
	t.Parallel()

	orig := Normalize(RawTransaction{
		ID:          "01HX",
		Type:        "expense",
		Category:    "food",
		Amount:      json.RawMessage(`"12.50"`),
		Description: "lunch",
		Date:        "2024-03-04T12:00:00Z",
	})

	data, err := json.Marshal(orig.ToRaw())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw RawTransaction
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(raw.Amount) != "12.5" {
		t.Fatalf("amount should persist as a JSON number, got %s", raw.Amount)
	}

	back := Normalize(raw)
	if back.ID != orig.ID || back.Type != orig.Type || !back.Amount.Equal(orig.Amount) || !back.At.Equal(orig.At) {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, orig)
	}
}
