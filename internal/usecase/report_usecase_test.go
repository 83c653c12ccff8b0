package usecase_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/internal/usecase/mocks"
)

// plainFormatter renders amounts as "#<int>" so sentences are easy to assert.
type plainFormatter struct{}

func (plainFormatter) Format(d decimal.Decimal) string {
	return "#" + d.Round(0).String()
}

func mustTx(id string, typ domain.TransactionType, category string, amount int64, date, desc string) domain.Transaction {
	at, ok := domain.ParseDate(date)
	return domain.Transaction{
		ID:          id,
		Type:        typ,
		Category:    category,
		Amount:      decimal.NewFromInt(amount),
		Description: desc,
		Date:        date,
		At:          at,
		HasDate:     ok,
	}
}

func TestReportUseCase_SummaryEmpty(t *testing.T) {
	uc := usecase.NewReportUseCase(mocks.NewMockTransactionRepository(), plainFormatter{}, time.UTC, nil, 0)

	s := uc.Summary(context.Background())
	assert.Equal(t, "#0", s.Income)
	assert.Equal(t, "#0", s.Expense)
	assert.Equal(t, "#0", s.Net)
	assert.Equal(t, domain.Sentinel, s.MostCategory)
	assert.Equal(t, domain.Sentinel, s.TopTransaction)
	assert.Equal(t, 0, s.Count)
}

func TestReportUseCase_SummarySentences(t *testing.T) {
	repo := mocks.NewMockTransactionRepository(
		mustTx("1", domain.TypeIncome, "salary", 1000, "2024-01-01", "pay"),
		mustTx("2", domain.TypeExpense, "food", 300, "2024-01-01", ""),
		mustTx("3", domain.TypeExpense, "rent", 250, "2024-01-02", "January rent"),
		mustTx("4", domain.TypeExpense, "food", 200, "2024-01-08", "groceries"),
	)
	uc := usecase.NewReportUseCase(repo, plainFormatter{}, time.UTC, nil, 0)

	s := uc.Summary(context.Background())
	assert.Equal(t, "#1000", s.Income)
	assert.Equal(t, "#750", s.Expense)
	assert.Equal(t, "#250", s.Net)
	assert.Equal(t, "Food you spent a total of #500 till now", s.MostCategory)
	// no description falls back to the category
	assert.Equal(t, "#300 on food", s.TopTransaction)
	assert.Equal(t, 4, s.Count)
}

func TestReportUseCase_SummaryNegativeNet(t *testing.T) {
	repo := mocks.NewMockTransactionRepository(
		mustTx("1", domain.TypeExpense, "travel", 80, "2024-01-01", "train"),
	)
	s := usecase.NewReportUseCase(repo, plainFormatter{}, time.UTC, nil, 0).Summary(context.Background())
	assert.Equal(t, "#-80", s.Net)
	assert.Equal(t, "#80 on train", s.TopTransaction)
}

func TestReportUseCase_Charts(t *testing.T) {
	repo := mocks.NewMockTransactionRepository(
		mustTx("1", domain.TypeIncome, "salary", 1000, "2024-01-01T00:00:00.000Z", ""),
		mustTx("2", domain.TypeExpense, "food", 300, "2024-01-01T00:00:00.000Z", ""),
		mustTx("3", domain.TypeExpense, "food", 200, "2024-01-08T00:00:00.000Z", ""),
		mustTx("4", domain.TypeExpense, "fun", 20, "2024-01-09T00:00:00.000Z", ""),
	)
	c := usecase.NewReportUseCase(repo, plainFormatter{}, time.UTC, nil, 0).Charts(context.Background())

	assert.Equal(t, []string{"food", "fun"}, c.Categories.Labels)
	assert.Equal(t, []string{"2024-01-01", "2024-01-08", "2024-01-09"}, c.Daily.Labels)
	assert.Equal(t, []string{"01 Jan", "08 Jan"}, c.WeeklyExpenses.Labels)
	assert.Equal(t, []string{"01 Jan", "08 Jan"}, c.WeeklyCombined.Labels)
	assert.Equal(t, "Food", c.MostSpend)
	assert.Equal(t, "Fun", c.LeastSpend)
	assert.Equal(t, "#480", c.Net)
}

func TestReportUseCase_ChartsEmpty(t *testing.T) {
	c := usecase.NewReportUseCase(mocks.NewMockTransactionRepository(), plainFormatter{}, time.UTC, nil, 0).Charts(context.Background())
	assert.Empty(t, c.Categories.Labels)
	assert.Empty(t, c.Daily.Labels)
	assert.Equal(t, domain.Sentinel, c.MostSpend)
	assert.Equal(t, domain.Sentinel, c.LeastSpend)
}

func TestReportUseCase_CacheFlushedOnChange(t *testing.T) {
	repo := mocks.NewMockTransactionRepository(
		mustTx("1", domain.TypeExpense, "food", 10, "2024-01-01", ""),
	)
	reads := 0
	repo.ReadAllFunc = func(ctx context.Context) []domain.Transaction {
		reads++
		return []domain.Transaction{mustTx("1", domain.TypeExpense, "food", 10, "2024-01-01", "")}
	}

	cache := gocache.New(time.Minute, time.Minute)
	uc := usecase.NewReportUseCase(repo, plainFormatter{}, time.UTC, cache, time.Minute)

	first := uc.Summary(context.Background())
	second := uc.Summary(context.Background())
	require.Same(t, first, second)
	assert.Equal(t, 1, reads)

	require.NoError(t, uc.Publish(context.Background(), domain.NewTransactionsChangedEvent(time.Now())))

	third := uc.Summary(context.Background())
	assert.NotSame(t, first, third)
	assert.Equal(t, 2, reads)
}

func TestReportUseCase_ReportReadDuringChangeIsNotCached(t *testing.T) {
	before := []domain.Transaction{}
	after := []domain.Transaction{mustTx("1", domain.TypeIncome, "salary", 100, "2024-01-01", "")}

	entered := make(chan struct{})
	release := make(chan struct{})
	var reads atomic.Int32

	repo := mocks.NewMockTransactionRepository()
	repo.ReadAllFunc = func(ctx context.Context) []domain.Transaction {
		if reads.Add(1) == 1 {
			close(entered)
			<-release
			return before
		}
		return after
	}

	cache := gocache.New(time.Minute, time.Minute)
	uc := usecase.NewReportUseCase(repo, plainFormatter{}, time.UTC, cache, time.Minute)

	done := make(chan *usecase.Summary)
	go func() {
		done <- uc.Summary(context.Background())
	}()

	<-entered
	// a write lands and notifies while the first read is still in flight
	uc.Invalidate()
	close(release)

	inFlight := <-done
	assert.Equal(t, "#0", inFlight.Income)

	next := uc.Summary(context.Background())
	assert.Equal(t, "#100", next.Income)
	assert.Equal(t, 1, next.Count)
	assert.Equal(t, int32(2), reads.Load())

	// once computed after the change, the report is cached again
	again := uc.Summary(context.Background())
	require.Same(t, next, again)
	assert.Equal(t, int32(2), reads.Load())
}

func TestReportUseCase_ChartsReadDuringChangeIsNotCached(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var reads atomic.Int32

	repo := mocks.NewMockTransactionRepository()
	repo.ReadAllFunc = func(ctx context.Context) []domain.Transaction {
		if reads.Add(1) == 1 {
			close(entered)
			<-release
			return nil
		}
		return []domain.Transaction{mustTx("1", domain.TypeExpense, "food", 40, "2024-01-01", "")}
	}

	uc := usecase.NewReportUseCase(repo, plainFormatter{}, time.UTC, gocache.New(time.Minute, time.Minute), time.Minute)

	done := make(chan *usecase.Charts)
	go func() {
		done <- uc.Charts(context.Background())
	}()

	<-entered
	require.NoError(t, uc.Publish(context.Background(), domain.NewTransactionsChangedEvent(time.Now())))
	close(release)
	<-done

	c := uc.Charts(context.Background())
	assert.Equal(t, []string{"food"}, c.Categories.Labels)
}
