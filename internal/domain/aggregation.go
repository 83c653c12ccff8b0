package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel marks a summary slot with no qualifying data.
const Sentinel = "—"

// dayKeyLayout renders calendar-day bucket keys.
const dayKeyLayout = "2006-01-02"

// weekLabelLayout renders week buckets as short day+month labels.
const weekLabelLayout = "02 Jan"

// Totals is the income/expense/net summary of a list.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// CategoryAmount pairs a category with its summed amount.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// CategorySeries holds parallel category labels and sums.
type CategorySeries struct {
	Labels []string
	Data   []decimal.Decimal
}

// Series holds parallel bucket labels and values.
type Series struct {
	Labels []string
	Data   []decimal.Decimal
}

// WeeklyCombined holds weekly income and expense sums aligned to Labels.
type WeeklyCombined struct {
	Labels   []string
	Income   []decimal.Decimal
	Expenses []decimal.Decimal
}

// ComputeTotals sums income and expense amounts. Records of any other type
// count toward neither side.
func ComputeTotals(txns []Transaction) Totals {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txns {
		switch {
		case t.IsIncome():
			income = income.Add(t.Amount)
		case t.IsExpense():
			expense = expense.Add(t.Amount)
		}
	}
	return Totals{
		Income:  income,
		Expense: expense,
		Net:     income.Sub(expense),
	}
}

// SumExpensesByCategory groups expenses by category in first-occurrence
// order. Zero and negative groups are kept.
func SumExpensesByCategory(txns []Transaction) []CategoryAmount {
	index := make(map[string]int)
	var groups []CategoryAmount
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		cat := NormalizeCategory(t.Category)
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, CategoryAmount{Category: cat, Amount: decimal.Zero})
		}
		groups[i].Amount = groups[i].Amount.Add(t.Amount)
	}
	return groups
}

// AggregateByCategory returns expense sums per category, dropping categories
// whose sum is not strictly positive.
func AggregateByCategory(txns []Transaction) CategorySeries {
	series := CategorySeries{Labels: []string{}, Data: []decimal.Decimal{}}
	for _, g := range SumExpensesByCategory(txns) {
		if !g.Amount.IsPositive() {
			continue
		}
		series.Labels = append(series.Labels, g.Category)
		series.Data = append(series.Data, g.Amount)
	}
	return series
}

// AggregateDaily returns the signed net change per UTC calendar day. Income
// adds and expenses subtract; the values are per-day deltas, not a running
// balance. Records without a parseable date are skipped.
func AggregateDaily(txns []Transaction) Series {
	byDay := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if !t.HasDate {
			continue
		}
		key := t.At.UTC().Format(dayKeyLayout)
		delta := t.Amount
		if t.IsExpense() {
			delta = delta.Neg()
		}
		byDay[key] = byDay[key].Add(delta)
	}

	keys := sortedKeys(byDay)
	series := Series{Labels: keys, Data: make([]decimal.Decimal, len(keys))}
	for i, k := range keys {
		series.Data[i] = byDay[k]
	}
	return series
}

// WeekStart returns local midnight of the Monday on or before t in loc.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	// Sunday is 0, so Monday-based offset is (weekday+6) mod 7.
	back := (int(local.Weekday()) + 6) % 7
	y, m, d := local.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, loc)
}

// WeekLabel renders a week key as a short day+month label, e.g. "05 Jan".
func WeekLabel(weekStart time.Time) string {
	return weekStart.Format(weekLabelLayout)
}

// weekKey is the sortable form of WeekStart.
func weekKey(t time.Time, loc *time.Location) string {
	return WeekStart(t, loc).Format(dayKeyLayout)
}

// AggregateWeeklyExpenses sums expenses per Monday-start week.
func AggregateWeeklyExpenses(txns []Transaction, loc *time.Location) Series {
	byWeek := make(map[string]decimal.Decimal)
	starts := make(map[string]time.Time)
	for _, t := range txns {
		if !t.IsExpense() || !t.HasDate {
			continue
		}
		key := weekKey(t.At, loc)
		starts[key] = WeekStart(t.At, loc)
		byWeek[key] = byWeek[key].Add(t.Amount)
	}

	keys := sortedKeys(byWeek)
	series := Series{Labels: make([]string, len(keys)), Data: make([]decimal.Decimal, len(keys))}
	for i, k := range keys {
		series.Labels[i] = WeekLabel(starts[k])
		series.Data[i] = byWeek[k]
	}
	return series
}

// AggregateWeeklyCombined sums income and expenses per Monday-start week over
// the union of weeks that have either. A missing side is zero.
func AggregateWeeklyCombined(txns []Transaction, loc *time.Location) WeeklyCombined {
	income := make(map[string]decimal.Decimal)
	expense := make(map[string]decimal.Decimal)
	starts := make(map[string]time.Time)
	for _, t := range txns {
		if !t.HasDate {
			continue
		}
		key := weekKey(t.At, loc)
		switch {
		case t.IsIncome():
			income[key] = income[key].Add(t.Amount)
		case t.IsExpense():
			expense[key] = expense[key].Add(t.Amount)
		default:
			continue
		}
		starts[key] = WeekStart(t.At, loc)
	}

	keys := sortedKeys(starts)
	out := WeeklyCombined{
		Labels:   make([]string, len(keys)),
		Income:   make([]decimal.Decimal, len(keys)),
		Expenses: make([]decimal.Decimal, len(keys)),
	}
	for i, k := range keys {
		out.Labels[i] = WeekLabel(starts[k])
		out.Income[i] = income[k]
		out.Expenses[i] = expense[k]
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
