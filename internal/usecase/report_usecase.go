package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/format"
)

const (
	summaryCacheKey = "summary"
	chartsCacheKey  = "charts"
)

// AmountFormatter renders money for display.
type AmountFormatter interface {
	Format(amount decimal.Decimal) string
}

// Summary is the dashboard headline.
type Summary struct {
	Totals  domain.Totals
	Income  string
	Expense string
	// Net carries a leading minus when spending exceeds income.
	Net            string
	MostCategory   string
	TopTransaction string
	Count          int
}

// Charts holds every series the chart page plots.
type Charts struct {
	Totals         domain.Totals
	Income         string
	Expense        string
	Net            string
	Categories     domain.CategorySeries
	Daily          domain.Series
	WeeklyExpenses domain.Series
	WeeklyCombined domain.WeeklyCombined
	// MostSpend and LeastSpend are capitalized category names or the
	// sentinel.
	MostSpend  string
	LeastSpend string
}

// ReportUseCase derives summaries and chart series from the stored list.
type ReportUseCase struct {
	repo      TransactionRepository
	formatter AmountFormatter
	loc       *time.Location
	cache     ReportCache
	ttl       time.Duration

	// generation advances on every invalidation. A report computed from a
	// read that straddles a change is returned but not cached.
	generation atomic.Uint64
	// mu orders cache writes against invalidations.
	mu sync.Mutex
}

// NewReportUseCase creates a new ReportUseCase. cache may be nil, in which
// case every call recomputes.
func NewReportUseCase(repo TransactionRepository, formatter AmountFormatter, loc *time.Location, cache ReportCache, ttl time.Duration) *ReportUseCase {
	if loc == nil {
		loc = time.Local
	}
	if ttl <= 0 {
		ttl = DefaultReportCacheTTL
	}
	return &ReportUseCase{
		repo:      repo,
		formatter: formatter,
		loc:       loc,
		cache:     cache,
		ttl:       ttl,
	}
}

// Invalidate drops cached reports. It is registered as a change observer.
func (uc *ReportUseCase) Invalidate() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.generation.Add(1)
	if uc.cache != nil {
		uc.cache.Flush()
	}
}

// Publish lets the use case observe change notifications directly.
func (uc *ReportUseCase) Publish(_ context.Context, _ domain.TransactionsChangedEvent) error {
	uc.Invalidate()
	return nil
}

// Summary computes totals and the two summary sentences.
func (uc *ReportUseCase) Summary(ctx context.Context) *Summary {
	if cached, ok := uc.cached(summaryCacheKey); ok {
		if s, ok := cached.(*Summary); ok {
			return s
		}
	}

	gen := uc.generation.Load()
	txns := uc.repo.ReadAll(ctx)
	totals := domain.ComputeTotals(txns)

	s := &Summary{
		Totals:         totals,
		Income:         uc.formatter.Format(totals.Income),
		Expense:        uc.formatter.Format(totals.Expense),
		Net:            uc.formatter.Format(totals.Net),
		MostCategory:   domain.Sentinel,
		TopTransaction: domain.Sentinel,
		Count:          len(txns),
	}

	if top, ok := domain.TopCategory(txns); ok {
		s.MostCategory = format.Capitalize(top.Category) + " you spent a total of " + uc.formatter.Format(top.Amount) + " till now"
	}

	if top, ok := domain.TopTransaction(txns); ok {
		subject := top.Description
		if subject == "" {
			subject = top.Category
		}
		s.TopTransaction = uc.formatter.Format(top.Amount) + " on " + subject
	}

	uc.store(summaryCacheKey, s, gen)
	return s
}

// Charts computes every chart series.
func (uc *ReportUseCase) Charts(ctx context.Context) *Charts {
	if cached, ok := uc.cached(chartsCacheKey); ok {
		if c, ok := cached.(*Charts); ok {
			return c
		}
	}

	gen := uc.generation.Load()
	txns := uc.repo.ReadAll(ctx)
	totals := domain.ComputeTotals(txns)
	categories := domain.AggregateByCategory(txns)
	ranking := domain.RankCategories(categories)

	c := &Charts{
		Totals:         totals,
		Income:         uc.formatter.Format(totals.Income),
		Expense:        uc.formatter.Format(totals.Expense),
		Net:            uc.formatter.Format(totals.Net),
		Categories:     categories,
		Daily:          domain.AggregateDaily(txns),
		WeeklyExpenses: domain.AggregateWeeklyExpenses(txns, uc.loc),
		WeeklyCombined: domain.AggregateWeeklyCombined(txns, uc.loc),
		MostSpend:      format.Capitalize(ranking.Most),
		LeastSpend:     format.Capitalize(ranking.Least),
	}

	uc.store(chartsCacheKey, c, gen)
	return c
}

func (uc *ReportUseCase) cached(key string) (any, bool) {
	if uc.cache == nil {
		return nil, false
	}
	return uc.cache.Get(key)
}

func (uc *ReportUseCase) store(key string, value any, gen uint64) {
	if uc.cache == nil {
		return
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.generation.Load() != gen {
		return
	}
	uc.cache.Set(key, value, uc.ttl)
}
