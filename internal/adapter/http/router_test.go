package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/adapter/http/handler"
	apimiddleware "github.com/iho/gobudget/internal/adapter/http/middleware"
	"github.com/iho/gobudget/internal/adapter/repository/memory"
	"github.com/iho/gobudget/internal/infrastructure/eventpublisher"
	"github.com/iho/gobudget/internal/infrastructure/format"
	"github.com/iho/gobudget/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.MetricsHandler = promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}))

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /api/v1/transactions/",
		"POST /api/v1/transactions/",
		"GET /api/v1/transactions/export",
		"DELETE /api/v1/transactions/{id}",
		"GET /api/v1/summary",
		"GET /api/v1/charts",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestNewRouter_AddSummarizeDelete(t *testing.T) {
	router := NewRouter(newRouterConfig())

	post := func(body string) dto.TransactionResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp dto.TransactionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp
	}

	post(`{"type":"income","category":"salary","amount":1000,"date":"2024-01-01"}`)
	lunch := post(`{"type":"expense","category":"food","amount":"300","date":"2024-01-01"}`)
	post(`{"type":"expense","category":"food","amount":200,"date":"2024-01-08"}`)

	summary := getSummary(t, router)
	if summary.Totals.IncomeDisplay != "₹1,000" || summary.Totals.ExpenseDisplay != "₹500" || summary.Totals.NetDisplay != "₹500" {
		t.Fatalf("unexpected totals %+v", summary.Totals)
	}
	if summary.MostCategory != "Food you spent a total of ₹500 till now" {
		t.Fatalf("unexpected most category %q", summary.MostCategory)
	}
	if summary.TopTransaction != "₹300 on food" {
		t.Fatalf("unexpected top transaction %q", summary.TopTransaction)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/"+lunch.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	// The cached summary must be dropped by the change notification.
	summary = getSummary(t, router)
	if summary.Totals.ExpenseDisplay != "₹200" || summary.Count != 2 {
		t.Fatalf("expected summary to reflect delete, got %+v", summary)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/"+lunch.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestNewRouter_RejectsZeroAmount(t *testing.T) {
	router := NewRouter(newRouterConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/", strings.NewReader(`{"type":"expense","amount":"abc"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestNewRouter_Export(t *testing.T) {
	router := NewRouter(newRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != `"id","type","category","amount","description","date"` {
		t.Fatalf("unexpected export body %q", got)
	}
}

func getSummary(t *testing.T, router http.Handler) dto.SummaryResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

type sequentialIDs struct{ n int }

func (g *sequentialIDs) Generate() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	logger := zerolog.Nop()
	kv := memory.NewKeyValueStore()
	bus := eventpublisher.NewBus(eventpublisher.Config{Logger: logger})

	store := usecase.NewTransactionStore(usecase.StoreConfig{
		KV:        kv,
		Publisher: bus,
		Logger:    logger,
	})

	currency := format.MustCurrency("en-IN", "INR")
	presenter := dto.Presenter{Currency: currency, Location: time.UTC}

	transactionUC := usecase.NewTransactionUseCase(store, &sequentialIDs{}, time.UTC, nil)
	reportUC := usecase.NewReportUseCase(store, currency, time.UTC, gocache.New(time.Minute, time.Minute), time.Minute)
	bus.Subscribe("reports", reportUC)

	cfg := RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(transactionUC, presenter),
		ReportHandler:      handler.NewReportHandler(reportUC, presenter),
		HealthHandler:      handler.NewHealthHandler("memory", kv),
		Logger:             logger,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
