package services

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/report"
)

// ReportStore is the persistence surface the report service needs.
type ReportStore interface {
	ListTransactions(ctx context.Context, owner int64) ([]core.Transaction, error)
	ListBudgets(ctx context.Context, owner int64) ([]core.Budget, error)
}

// SummaryReport is the full dashboard view for one calendar month.
type SummaryReport struct {
	Summary    report.MonthSummary
	Categories []report.CategoryTotal
	Budgets    []report.BudgetStatus
}

const topCategoryCount = 5

// ReportService feeds owner-scoped data into the aggregation functions and
// caches the derived views. Cache keys start with "<owner>:" so one owner's
// entries can be dropped without touching anyone else's.
type ReportService struct {
	store     ReportStore
	summaries *cache.LRUCache[SummaryReport]
	trends    *cache.LRUCache[[]report.MonthSummary]
	now       func() time.Time
}

func NewReportService(store ReportStore, summaries *cache.LRUCache[SummaryReport], trends *cache.LRUCache[[]report.MonthSummary]) *ReportService {
	return &ReportService{
		store:     store,
		summaries: summaries,
		trends:    trends,
		now:       time.Now,
	}
}

// Summary returns the month summary, top-5 category breakdown and budget
// statuses for one calendar month.
func (s *ReportService) Summary(ctx context.Context, owner int64, year int, month time.Month) (SummaryReport, error) {
	if month < time.January || month > time.December {
		return SummaryReport{}, fmt.Errorf("%w: month out of range", core.ErrInvalidInput)
	}
	if year < 1970 || year > 9999 {
		return SummaryReport{}, fmt.Errorf("%w: year out of range", core.ErrInvalidInput)
	}

	key := fmt.Sprintf("%d:summary:%04d-%02d", owner, year, int(month))
	if s.summaries != nil {
		if cached, ok := s.summaries.Get(key); ok {
			return cached, nil
		}
	}

	ts, err := s.store.ListTransactions(ctx, owner)
	if err != nil {
		return SummaryReport{}, fmt.Errorf("list transactions: %w", err)
	}
	budgets, err := s.store.ListBudgets(ctx, owner)
	if err != nil {
		return SummaryReport{}, fmt.Errorf("list budgets: %w", err)
	}

	window := report.MonthWindow(ts, year, month)
	result := SummaryReport{
		Summary:    report.Summarize(ts, year, month),
		Categories: report.TopCategories(report.CategoryTotals(window), topCategoryCount),
		Budgets:    report.BudgetStatuses(budgets, ts, s.now()),
	}

	if s.summaries != nil {
		s.summaries.Set(key, result)
	}

	return result, nil
}

// Trend returns month summaries for the trailing window, oldest first. The
// window covers the current month plus the preceding months, so a 3-month
// request yields 4 entries.
func (s *ReportService) Trend(ctx context.Context, owner int64, months int) ([]report.MonthSummary, error) {
	if months != 3 && months != 6 && months != 12 {
		return nil, fmt.Errorf("%w: months must be 3, 6 or 12", core.ErrInvalidInput)
	}

	key := fmt.Sprintf("%d:trend:%d", owner, months)
	if s.trends != nil {
		if cached, ok := s.trends.Get(key); ok {
			return cached, nil
		}
	}

	ts, err := s.store.ListTransactions(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	result := report.Trend(ts, months, s.now())

	if s.trends != nil {
		s.trends.Set(key, result)
	}

	return result, nil
}

// InvalidateOwner drops every cached report view belonging to owner. Called
// after each transaction or budget mutation.
func (s *ReportService) InvalidateOwner(owner int64) {
	prefix := fmt.Sprintf("%d:", owner)
	if s.summaries != nil {
		s.summaries.DeletePrefix(prefix)
	}
	if s.trends != nil {
		s.trends.DeletePrefix(prefix)
	}
}
