package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/format"
	"github.com/iho/gobudget/internal/usecase"
)

func testPresenter() Presenter {
	return Presenter{
		Currency: format.MustCurrency("en-IN", "INR"),
		Location: time.UTC,
	}
}

func TestPresenterTransaction(t *testing.T) {
	p := testPresenter()
	expense := domain.Normalize(domain.RawTransaction{
		ID:       "1",
		Type:     "expense",
		Category: "food",
		Amount:   json.RawMessage(`300`),
		Date:     "2024-01-08T10:00:00.000Z",
	})

	resp := p.Transaction(expense)
	assert.Equal(t, "Food", resp.Title)
	assert.Equal(t, "-₹300", resp.DisplayAmount)
	assert.Equal(t, "08.01.2024", resp.DisplayDate)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(300)))

	income := domain.Normalize(domain.RawTransaction{
		ID:          "2",
		Type:        "income",
		Amount:      json.RawMessage(`"50"`),
		Description: "refund",
		Date:        "not a date",
	})

	resp = p.Transaction(income)
	assert.Equal(t, "refund", resp.Title)
	assert.Equal(t, "+₹50", resp.DisplayAmount)
	assert.Equal(t, "", resp.DisplayDate)
}

func TestPresenterTransactionsKeepsOrder(t *testing.T) {
	txns := []domain.Transaction{{ID: "b"}, {ID: "a"}}

	resp := testPresenter().Transactions(txns)
	require.Len(t, resp.Transactions, 2)
	assert.Equal(t, "b", resp.Transactions[0].ID)
	assert.Equal(t, int64(2), resp.Total)

	empty := testPresenter().Transactions(nil)
	body, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"transactions":[],"total":0}`, string(body))
}

func TestPresenterChartsPlaceholders(t *testing.T) {
	charts := &usecase.Charts{
		Categories: domain.CategorySeries{Labels: []string{}, Data: []decimal.Decimal{}},
		MostSpend:  domain.Sentinel,
		LeastSpend: domain.Sentinel,
	}

	resp := testPresenter().Charts(charts)
	assert.Equal(t, []string{"None"}, resp.Categories.Labels)
	assert.Equal(t, []string{""}, resp.Daily.Labels)
	require.Len(t, resp.Daily.Data, 1)
	assert.True(t, resp.Daily.Data[0].IsZero())
	assert.NotNil(t, resp.WeeklyExpenses.Labels)
	assert.NotNil(t, resp.WeeklyCombined.Income)
	assert.Equal(t, domain.Sentinel, resp.MostSpend)
}

func TestPresenterChartsPassesSeriesThrough(t *testing.T) {
	charts := &usecase.Charts{
		Categories: domain.CategorySeries{Labels: []string{"food"}, Data: []decimal.Decimal{decimal.NewFromInt(500)}},
		Daily:      domain.Series{Labels: []string{"2024-01-01"}, Data: []decimal.Decimal{decimal.NewFromInt(700)}},
		MostSpend:  "Food",
		LeastSpend: "Food",
	}

	resp := testPresenter().Charts(charts)
	assert.Equal(t, []string{"food"}, resp.Categories.Labels)
	assert.Equal(t, []string{"2024-01-01"}, resp.Daily.Labels)
	assert.Equal(t, "Food", resp.MostSpend)
	assert.Equal(t, "INR", resp.Totals.Currency)
}

func TestPresenterSummary(t *testing.T) {
	s := &usecase.Summary{
		Totals:         domain.Totals{Income: decimal.NewFromInt(1000), Expense: decimal.NewFromInt(500), Net: decimal.NewFromInt(500)},
		Income:         "₹1,000",
		Expense:        "₹500",
		Net:            "₹500",
		MostCategory:   "Food you spent a total of ₹500 till now",
		TopTransaction: "₹300 on food",
		Count:          3,
	}

	resp := testPresenter().Summary(s)
	assert.Equal(t, "₹1,000", resp.Totals.IncomeDisplay)
	assert.Equal(t, "INR", resp.Totals.Currency)
	assert.True(t, resp.Totals.Net.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, s.MostCategory, resp.MostCategory)
}
