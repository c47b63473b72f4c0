package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/report"
)

// TransactionStore is the persistence surface the transaction service needs.
type TransactionStore interface {
	ListTransactions(ctx context.Context, owner int64) ([]core.Transaction, error)
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	ListBudgets(ctx context.Context, owner int64) ([]core.Budget, error)
	CategoryExists(ctx context.Context, name string) (bool, error)
}

// AlertPublisher publishes budget alert messages. Implementations may be nil
// at the service level; publishing is best-effort and never fails a request.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg *events.BudgetAlertMessage) error
}

// ReportInvalidator drops cached report views for one owner.
type ReportInvalidator interface {
	InvalidateOwner(owner int64)
}

// TransactionService orchestrates transaction writes across the store,
// the report cache and the alert pipeline.
type TransactionService struct {
	store   TransactionStore
	alerts  AlertPublisher
	reports ReportInvalidator
	now     func() time.Time
}

func NewTransactionService(store TransactionStore, alerts AlertPublisher, reports ReportInvalidator) *TransactionService {
	return &TransactionService{
		store:   store,
		alerts:  alerts,
		reports: reports,
		now:     time.Now,
	}
}

// List returns all transactions owned by owner, newest first.
func (s *TransactionService) List(ctx context.Context, owner int64) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, owner)
}

// Get returns one transaction. A transaction that exists but belongs to a
// different owner yields core.ErrForbidden, a missing id core.ErrNotFound.
func (s *TransactionService) Get(ctx context.Context, owner, id int64) (core.Transaction, error) {
	return s.getOwned(ctx, owner, id)
}

// Create validates, normalizes and stores a new transaction. The stored
// amount sign always follows the type, whatever sign the caller sent.
func (s *TransactionService) Create(ctx context.Context, owner int64, t core.Transaction) (core.Transaction, error) {
	t.ID = 0
	t.Owner = owner

	if err := s.prepare(ctx, &t); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.invalidate(owner)
	s.notifyBudgets(ctx, owner, created.Category)

	return created, nil
}

// Update replaces all mutable fields of an owned transaction.
func (s *TransactionService) Update(ctx context.Context, owner, id int64, t core.Transaction) (core.Transaction, error) {
	if _, err := s.getOwned(ctx, owner, id); err != nil {
		return core.Transaction{}, err
	}

	t.ID = id
	t.Owner = owner

	if err := s.prepare(ctx, &t); err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.invalidate(owner)
	s.notifyBudgets(ctx, owner, t.Category)

	return t, nil
}

// Delete removes an owned transaction.
func (s *TransactionService) Delete(ctx context.Context, owner, id int64) error {
	if _, err := s.getOwned(ctx, owner, id); err != nil {
		return err
	}

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.invalidate(owner)

	return nil
}

func (s *TransactionService) getOwned(ctx context.Context, owner, id int64) (core.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if t.Owner != owner {
		return core.Transaction{}, core.ErrForbidden
	}
	return t, nil
}

func (s *TransactionService) prepare(ctx context.Context, t *core.Transaction) error {
	t.Category = core.CanonicalCategory(t.Category)
	t.Amount = core.NormalizedAmount(t.Type, t.Amount)

	if err := t.Validate(); err != nil {
		return err
	}

	known, err := s.store.CategoryExists(ctx, t.Category)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !known {
		return fmt.Errorf("%w: %s", core.ErrUnknownCategory, t.Category)
	}

	return nil
}

func (s *TransactionService) invalidate(owner int64) {
	if s.reports == nil {
		return
	}
	s.reports.InvalidateOwner(owner)
}

// notifyBudgets recomputes the touched category's budget status and
// publishes an alert when it sits at warning or over. Failures are logged,
// never surfaced; the write already succeeded.
func (s *TransactionService) notifyBudgets(ctx context.Context, owner int64, category string) {
	if s.alerts == nil {
		return
	}

	budgets, err := s.store.ListBudgets(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load budgets for alert check", "owner", owner, "error", err)
		return
	}
	if len(budgets) == 0 {
		return
	}

	ts, err := s.store.ListTransactions(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load transactions for alert check", "owner", owner, "error", err)
		return
	}

	for _, st := range report.BudgetStatuses(budgets, ts, s.now()) {
		if st.Category != category || st.Status == report.StatusGood {
			continue
		}

		msg := events.NewBudgetAlert(owner, st.BudgetID, st.Category,
			st.Limit.Cents, st.Spent.Cents, st.Percentage, string(st.Status))
		if err := s.alerts.PublishBudgetAlert(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish budget alert",
				"owner", owner,
				"budget_id", st.BudgetID,
				"category", st.Category,
				"error", err)
		}
	}
}
