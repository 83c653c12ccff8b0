package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/iho/gobudget/internal/domain"
)

// TransactionUseCase handles adding, deleting, listing and exporting
// transactions.
type TransactionUseCase struct {
	// mu serializes read-modify-write cycles against the repository.
	mu      sync.Mutex
	repo    TransactionRepository
	idGen   IDGenerator
	loc     *time.Location
	now     Clock
	metrics MetricsRecorder
}

// NewTransactionUseCase creates a new TransactionUseCase. Form dates are
// interpreted in loc.
func NewTransactionUseCase(repo TransactionRepository, idGen IDGenerator, loc *time.Location, metrics MetricsRecorder) *TransactionUseCase {
	if loc == nil {
		loc = time.Local
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &TransactionUseCase{
		repo:    repo,
		idGen:   idGen,
		loc:     loc,
		now:     time.Now,
		metrics: metrics,
	}
}

// WithClock overrides the time source.
func (uc *TransactionUseCase) WithClock(now Clock) *TransactionUseCase {
	uc.now = now
	return uc
}

// AddTransactionInput represents input for adding a transaction.
type AddTransactionInput struct {
	Type        string
	Category    string
	Amount      string
	Description string
	// Date is an optional YYYY-MM-DD calendar day.
	Date string
}

// AddTransaction appends a new transaction and persists the list.
func (uc *TransactionUseCase) AddTransaction(ctx context.Context, input AddTransactionInput) (*domain.Transaction, error) {
	amount := domain.ParseAmount(input.Amount)
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	at := uc.now()
	if strings.TrimSpace(input.Date) != "" {
		day, err := domain.ParseInputDate(input.Date, uc.loc)
		if err != nil {
			return nil, err
		}
		at = day
	}
	at = at.UTC()

	txn := domain.Transaction{
		ID:          uc.idGen.Generate(),
		Type:        domain.ParseType(input.Type),
		Category:    domain.NormalizeCategory(input.Category),
		Amount:      amount,
		Description: input.Description,
		Date:        at.Format(domain.StoredDateLayout),
		At:          at,
		HasDate:     true,
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	txns := uc.repo.ReadAll(ctx)
	for _, existing := range txns {
		if existing.ID == txn.ID {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateID, txn.ID)
		}
	}

	if err := uc.repo.WriteAll(ctx, append(txns, txn)); err != nil {
		return nil, err
	}

	uc.metrics.TransactionAdded(txn.Type)
	return &txn, nil
}

// DeleteTransaction removes the transaction with the given id, keeping the
// order of the rest.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	txns := uc.repo.ReadAll(ctx)
	kept := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.ID != id {
			kept = append(kept, t)
		}
	}

	if len(kept) == len(txns) {
		return domain.ErrTransactionNotFound
	}

	if err := uc.repo.WriteAll(ctx, kept); err != nil {
		return err
	}

	uc.metrics.TransactionDeleted()
	return nil
}

// ListTransactions returns all transactions, most recently added first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context) []domain.Transaction {
	txns := uc.repo.ReadAll(ctx)
	out := make([]domain.Transaction, len(txns))
	for i, t := range txns {
		out[len(txns)-1-i] = t
	}
	return out
}

var csvHeader = []string{"id", "type", "category", "amount", "description", "date"}

// ExportCSV writes every transaction in insertion order. All fields are
// quoted and rows are separated by a bare newline with none after the last.
func (uc *TransactionUseCase) ExportCSV(ctx context.Context, w io.Writer) error {
	txns := uc.repo.ReadAll(ctx)

	rows := make([]string, 0, len(txns)+1)
	rows = append(rows, csvRow(csvHeader))
	for _, t := range txns {
		rows = append(rows, csvRow([]string{
			t.ID,
			string(t.Type),
			t.Category,
			t.Amount.String(),
			strings.ReplaceAll(t.Description, "\n", " "),
			t.Date,
		}))
	}

	if _, err := io.WriteString(w, strings.Join(rows, "\n")); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func csvRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
