package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryRanking names the categories with the highest and lowest positive
// spend. Either side is Sentinel when there is nothing to rank.
type CategoryRanking struct {
	Most        string
	MostAmount  decimal.Decimal
	Least       string
	LeastAmount decimal.Decimal
}

// RankCategories orders positive category sums descending and picks both
// ends. Equal sums keep their series order.
func RankCategories(series CategorySeries) CategoryRanking {
	entries := make([]CategoryAmount, 0, len(series.Labels))
	for i, label := range series.Labels {
		if i >= len(series.Data) || !series.Data[i].IsPositive() {
			continue
		}
		entries = append(entries, CategoryAmount{Category: label, Amount: series.Data[i]})
	}

	if len(entries) == 0 {
		return CategoryRanking{Most: Sentinel, Least: Sentinel}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount.GreaterThan(entries[j].Amount)
	})

	first, last := entries[0], entries[len(entries)-1]
	return CategoryRanking{
		Most:        first.Category,
		MostAmount:  first.Amount,
		Least:       last.Category,
		LeastAmount: last.Amount,
	}
}

// TopCategory returns the expense category with the highest sum. The first
// category in first-occurrence order wins ties.
func TopCategory(txns []Transaction) (CategoryAmount, bool) {
	groups := SumExpensesByCategory(txns)
	if len(groups) == 0 {
		return CategoryAmount{}, false
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if g.Amount.GreaterThan(best.Amount) {
			best = g
		}
	}
	return best, true
}

// TopTransaction returns the single largest expense. The earliest in list
// order wins ties.
func TopTransaction(txns []Transaction) (Transaction, bool) {
	var (
		best  Transaction
		found bool
	)
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		if !found || t.Amount.GreaterThan(best.Amount) {
			best = t
			found = true
		}
	}
	return best, found
}
