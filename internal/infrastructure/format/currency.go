// Package format renders amounts, dates and labels for display.
package format

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// groupingSample is formatted once per locale to learn its digit grouping.
const groupingSample int64 = 1234567890

// Currency formats amounts as whole units of one currency in one locale,
// e.g. "₹1,500" for en-IN/INR.
type Currency struct {
	unit    currency.Unit
	printer *message.Printer
	symbol  string
	group   grouping
}

// grouping describes how a locale separates integer digits. primary is the
// size of the rightmost group and secondary the size of every group left of
// it; zero means no grouping.
type grouping struct {
	sep       string
	primary   int
	secondary int
}

// NewCurrency builds a Currency for a BCP-47 locale and an ISO 4217 code.
func NewCurrency(locale, code string) (*Currency, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}

	p := message.NewPrinter(tag)
	return &Currency{
		unit:    unit,
		printer: p,
		symbol:  strings.TrimSpace(p.Sprint(currency.Symbol(unit))),
		group:   parseGrouping(p.Sprint(number.Decimal(groupingSample, number.MaxFractionDigits(0)))),
	}, nil
}

// MustCurrency is like NewCurrency but panics on invalid input.
func MustCurrency(locale, code string) *Currency {
	c, err := NewCurrency(locale, code)
	if err != nil {
		panic(err)
	}
	return c
}

// Format renders amount rounded half away from zero to a whole unit with
// locale grouping and no gap after the symbol. Negative amounts get a
// leading minus before the symbol.
func (c *Currency) Format(amount decimal.Decimal) string {
	rounded := amount.Round(0)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	return sign + c.symbol + c.digits(rounded)
}

// Signed renders amount with an explicit "+" or "-", as transaction rows
// show income and expenses.
func (c *Currency) Signed(amount decimal.Decimal, negative bool) string {
	if negative {
		return "-" + c.Format(amount.Abs())
	}
	return "+" + c.Format(amount.Abs())
}

// Code returns the ISO 4217 code.
func (c *Currency) Code() string {
	return c.unit.String()
}

// digits renders a non-negative whole amount. The printer only accepts
// machine integers, so larger values are grouped from their decimal string
// with the locale's learned pattern.
func (c *Currency) digits(whole decimal.Decimal) string {
	n := whole.BigInt()
	if n.IsInt64() {
		return c.printer.Sprint(number.Decimal(n.Int64(), number.MaxFractionDigits(0)))
	}
	return c.group.apply(n.String())
}

// parseGrouping reads separator and group sizes off a formatted sample.
func parseGrouping(sample string) grouping {
	first := strings.IndexFunc(sample, func(r rune) bool { return !unicode.IsDigit(r) })
	if first < 0 {
		return grouping{}
	}
	end := strings.IndexFunc(sample[first:], unicode.IsDigit)
	if end <= 0 {
		return grouping{}
	}
	sep := sample[first : first+end]

	parts := strings.Split(sample, sep)
	g := grouping{sep: sep, primary: utf8.RuneCountInString(parts[len(parts)-1])}
	g.secondary = g.primary
	if len(parts) > 2 {
		g.secondary = utf8.RuneCountInString(parts[len(parts)-2])
	}
	return g
}

func (g grouping) apply(digits string) string {
	if g.primary == 0 || len(digits) <= g.primary {
		return digits
	}

	head, tail := digits[:len(digits)-g.primary], digits[len(digits)-g.primary:]
	var groups []string
	for len(head) > g.secondary {
		groups = append([]string{head[len(head)-g.secondary:]}, groups...)
		head = head[:len(head)-g.secondary]
	}
	groups = append([]string{head}, groups...)
	return strings.Join(append(groups, tail), g.sep)
}
