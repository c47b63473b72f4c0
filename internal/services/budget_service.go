package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

// BudgetStore is the persistence surface the budget service needs.
type BudgetStore interface {
	ListBudgets(ctx context.Context, owner int64) ([]core.Budget, error)
	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	GetBudget(ctx context.Context, id int64) (core.Budget, error)
	UpdateBudget(ctx context.Context, id int64, amount core.Money, period core.BudgetPeriod) error
	DeleteBudget(ctx context.Context, id int64) error
	CategoryExists(ctx context.Context, name string) (bool, error)
}

// BudgetService enforces the one-budget-per-category rule and ownership
// on budget CRUD. Uniqueness itself lives in the storage index, so two
// concurrent creates cannot both succeed.
type BudgetService struct {
	store   BudgetStore
	reports ReportInvalidator
}

func NewBudgetService(store BudgetStore, reports ReportInvalidator) *BudgetService {
	return &BudgetService{
		store:   store,
		reports: reports,
	}
}

// List returns all budgets owned by owner.
func (s *BudgetService) List(ctx context.Context, owner int64) ([]core.Budget, error) {
	return s.store.ListBudgets(ctx, owner)
}

// Create stores a new budget. A second budget for the same category yields
// core.ErrConflict from the storage uniqueness index.
func (s *BudgetService) Create(ctx context.Context, owner int64, b core.Budget) (core.Budget, error) {
	b.ID = 0
	b.Owner = owner
	b.Category = core.CanonicalCategory(b.Category)

	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	known, err := s.store.CategoryExists(ctx, b.Category)
	if err != nil {
		return core.Budget{}, fmt.Errorf("check category: %w", err)
	}
	if !known {
		return core.Budget{}, fmt.Errorf("%w: %s", core.ErrUnknownCategory, b.Category)
	}

	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, err
	}

	s.invalidate(owner)

	return created, nil
}

// Update changes amount and period of an owned budget. Category is
// immutable after creation.
func (s *BudgetService) Update(ctx context.Context, owner, id int64, amount core.Money, period core.BudgetPeriod) (core.Budget, error) {
	existing, err := s.getOwned(ctx, owner, id)
	if err != nil {
		return core.Budget{}, err
	}

	existing.Amount = amount
	existing.Period = period
	if err := existing.Validate(); err != nil {
		return core.Budget{}, err
	}

	if err := s.store.UpdateBudget(ctx, id, amount, period); err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}

	s.invalidate(owner)

	return existing, nil
}

// Delete removes an owned budget.
func (s *BudgetService) Delete(ctx context.Context, owner, id int64) error {
	if _, err := s.getOwned(ctx, owner, id); err != nil {
		return err
	}

	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}

	s.invalidate(owner)

	return nil
}

func (s *BudgetService) getOwned(ctx context.Context, owner, id int64) (core.Budget, error) {
	b, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return core.Budget{}, err
	}
	if b.Owner != owner {
		return core.Budget{}, core.ErrForbidden
	}
	return b, nil
}

func (s *BudgetService) invalidate(owner int64) {
	if s.reports == nil {
		return
	}
	s.reports.InvalidateOwner(owner)
}
