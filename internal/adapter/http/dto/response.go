package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/format"
	"github.com/iho/gobudget/internal/usecase"
)

// Chart placeholders keep an empty chart drawable.
const (
	emptyDailyLabel    = ""
	emptyCategoryLabel = "None"
)

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	// Title, DisplayAmount and DisplayDate are what a list row shows.
	Title         string `json:"title"`
	DisplayAmount string `json:"display_amount"`
	DisplayDate   string `json:"display_date"`
}

// ListTransactionsResponse represents the transaction list.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// TotalsResponse carries raw and formatted totals.
type TotalsResponse struct {
	// Currency is the ISO 4217 code the display values are rendered in.
	Currency       string          `json:"currency"`
	Income         decimal.Decimal `json:"income"`
	Expense        decimal.Decimal `json:"expense"`
	Net            decimal.Decimal `json:"net"`
	IncomeDisplay  string          `json:"income_display"`
	ExpenseDisplay string          `json:"expense_display"`
	NetDisplay     string          `json:"net_display"`
}

// SummaryResponse represents the dashboard summary.
type SummaryResponse struct {
	Totals         TotalsResponse `json:"totals"`
	MostCategory   string         `json:"most_category"`
	TopTransaction string         `json:"top_transaction"`
	Count          int            `json:"count"`
}

// SeriesResponse is one labelled chart series.
type SeriesResponse struct {
	Labels []string          `json:"labels"`
	Data   []decimal.Decimal `json:"data"`
}

// WeeklyCombinedResponse is the income vs expenses weekly chart.
type WeeklyCombinedResponse struct {
	Labels   []string          `json:"labels"`
	Income   []decimal.Decimal `json:"income"`
	Expenses []decimal.Decimal `json:"expenses"`
}

// ChartsResponse represents every chart series.
type ChartsResponse struct {
	Totals         TotalsResponse         `json:"totals"`
	Categories     SeriesResponse         `json:"categories"`
	Daily          SeriesResponse         `json:"daily"`
	WeeklyExpenses SeriesResponse         `json:"weekly_expenses"`
	WeeklyCombined WeeklyCombinedResponse `json:"weekly_combined"`
	MostSpend      string                 `json:"most_spend"`
	LeastSpend     string                 `json:"least_spend"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Presenter converts use case results to responses using the configured
// currency and display timezone.
type Presenter struct {
	Currency *format.Currency
	Location *time.Location
}

// Transaction converts a domain transaction to a response.
func (p Presenter) Transaction(t domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            t.ID,
		Type:          string(t.Type),
		Category:      t.Category,
		Amount:        t.Amount,
		Description:   t.Description,
		Date:          t.Date,
		Title:         format.TransactionTitle(t),
		DisplayAmount: p.Currency.Signed(t.Amount, t.IsExpense()),
		DisplayDate:   format.FormatDate(t.Date, p.Location),
	}
}

// Transactions converts a list, keeping its order.
func (p Presenter) Transactions(txns []domain.Transaction) ListTransactionsResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = p.Transaction(t)
	}
	return ListTransactionsResponse{
		Transactions: result,
		Total:        int64(len(txns)),
	}
}

// Summary converts a summary to a response.
func (p Presenter) Summary(s *usecase.Summary) *SummaryResponse {
	return &SummaryResponse{
		Totals:         p.totals(s.Totals, s.Income, s.Expense, s.Net),
		MostCategory:   s.MostCategory,
		TopTransaction: s.TopTransaction,
		Count:          s.Count,
	}
}

// Charts converts chart series to a response, substituting placeholders
// for empty daily and category series.
func (p Presenter) Charts(c *usecase.Charts) *ChartsResponse {
	categories := SeriesResponse{Labels: c.Categories.Labels, Data: c.Categories.Data}
	if len(categories.Labels) == 0 {
		categories = placeholderSeries(emptyCategoryLabel)
	}

	daily := SeriesResponse{Labels: c.Daily.Labels, Data: c.Daily.Data}
	if len(daily.Labels) == 0 {
		daily = placeholderSeries(emptyDailyLabel)
	}

	return &ChartsResponse{
		Totals:     p.totals(c.Totals, c.Income, c.Expense, c.Net),
		Categories: categories,
		Daily:      daily,
		WeeklyExpenses: SeriesResponse{
			Labels: nonNilStrings(c.WeeklyExpenses.Labels),
			Data:   nonNilDecimals(c.WeeklyExpenses.Data),
		},
		WeeklyCombined: WeeklyCombinedResponse{
			Labels:   nonNilStrings(c.WeeklyCombined.Labels),
			Income:   nonNilDecimals(c.WeeklyCombined.Income),
			Expenses: nonNilDecimals(c.WeeklyCombined.Expenses),
		},
		MostSpend:  c.MostSpend,
		LeastSpend: c.LeastSpend,
	}
}

func (p Presenter) totals(t domain.Totals, income, expense, net string) TotalsResponse {
	return TotalsResponse{
		Currency:       p.Currency.Code(),
		Income:         t.Income,
		Expense:        t.Expense,
		Net:            t.Net,
		IncomeDisplay:  income,
		ExpenseDisplay: expense,
		NetDisplay:     net,
	}
}

func placeholderSeries(label string) SeriesResponse {
	return SeriesResponse{
		Labels: []string{label},
		Data:   []decimal.Decimal{decimal.Zero},
	}
}

// JSON arrays, never null.
func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilDecimals(d []decimal.Decimal) []decimal.Decimal {
	if d == nil {
		return []decimal.Decimal{}
	}
	return d
}
