package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/report"
)

func newReportFixture() (*ReportService, *fakeStore) {
	store := newFakeStore()
	summaries := cache.NewLRU[SummaryReport](32, time.Minute)
	trends := cache.NewLRU[[]report.MonthSummary](32, time.Minute)
	svc := NewReportService(store, summaries, trends)
	svc.now = fixedNow
	return svc, store
}

func seedMarch(t *testing.T, store *fakeStore) {
	t.Helper()
	ctx := context.Background()
	rows := []core.Transaction{
		{Owner: 1, Type: core.Income, Category: "Income", Description: "salary",
			Date: core.NewDate(2025, time.March, 1), Amount: core.Money{Cents: 300000}},
		{Owner: 1, Type: core.Expense, Category: "Groceries", Description: "food",
			Date: core.NewDate(2025, time.March, 5), Amount: core.Money{Cents: -40000}},
		{Owner: 1, Type: core.Expense, Category: "Rent", Description: "rent",
			Date: core.NewDate(2025, time.March, 2), Amount: core.Money{Cents: -80000}},
		{Owner: 2, Type: core.Expense, Category: "Groceries", Description: "not mine",
			Date: core.NewDate(2025, time.March, 5), Amount: core.Money{Cents: -999900}},
	}
	for _, tr := range rows {
		if _, err := store.CreateTransaction(ctx, tr); err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}
}

func TestReportService_Summary(t *testing.T) {
	svc, store := newReportFixture()
	seedMarch(t, store)
	ctx := context.Background()

	got, err := svc.Summary(ctx, 1, 2025, time.March)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if got.Summary.Income.Cents != 300000 {
		t.Errorf("Income = %d, want 300000", got.Summary.Income.Cents)
	}
	if got.Summary.Expenses.Cents != 120000 {
		t.Errorf("Expenses = %d, want 120000", got.Summary.Expenses.Cents)
	}
	if got.Summary.Balance.Cents != 180000 {
		t.Errorf("Balance = %d, want 180000", got.Summary.Balance.Cents)
	}
	if got.Summary.SavingsRate != 60 {
		t.Errorf("SavingsRate = %v, want 60", got.Summary.SavingsRate)
	}

	if len(got.Categories) != 2 {
		t.Fatalf("Categories = %d entries, want 2", len(got.Categories))
	}
	if got.Categories[0].Category != "Rent" || got.Categories[0].Total.Cents != 80000 {
		t.Errorf("top category = %+v, want Rent 80000", got.Categories[0])
	}
}

func TestReportService_Summary_ScopedToOwner(t *testing.T) {
	svc, store := newReportFixture()
	seedMarch(t, store)

	got, err := svc.Summary(context.Background(), 2, 2025, time.March)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if got.Summary.Expenses.Cents != 999900 {
		t.Errorf("owner 2 Expenses = %d, want 999900", got.Summary.Expenses.Cents)
	}
	if got.Summary.Income.Cents != 0 {
		t.Errorf("owner 2 Income = %d, want 0", got.Summary.Income.Cents)
	}
}

func TestReportService_Summary_Cached(t *testing.T) {
	svc, store := newReportFixture()
	seedMarch(t, store)
	ctx := context.Background()

	if _, err := svc.Summary(ctx, 1, 2025, time.March); err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	calls := store.listCalls
	if _, err := svc.Summary(ctx, 1, 2025, time.March); err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if store.listCalls != calls {
		t.Errorf("second Summary() hit the store, listCalls %d -> %d", calls, store.listCalls)
	}
}

func TestReportService_InvalidateOwner(t *testing.T) {
	svc, store := newReportFixture()
	seedMarch(t, store)
	ctx := context.Background()

	if _, err := svc.Summary(ctx, 1, 2025, time.March); err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if _, err := svc.Summary(ctx, 2, 2025, time.March); err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	svc.InvalidateOwner(1)

	calls := store.listCalls
	if _, err := svc.Summary(ctx, 2, 2025, time.March); err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if store.listCalls != calls {
		t.Error("owner 2's cache entry should survive owner 1's invalidation")
	}

	if _, err := svc.Summary(ctx, 1, 2025, time.March); err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if store.listCalls == calls {
		t.Error("owner 1's entry should have been dropped and recomputed")
	}
}

func TestReportService_Trend(t *testing.T) {
	svc, store := newReportFixture()
	seedMarch(t, store)
	ctx := context.Background()

	got, err := svc.Trend(ctx, 1, 3)
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}

	// 3-month window ending at the current month yields 4 entries.
	if len(got) != 4 {
		t.Fatalf("Trend() = %d entries, want 4", len(got))
	}
	first, last := got[0], got[len(got)-1]
	if first.Year != 2024 || first.Month != time.December {
		t.Errorf("first entry = %d-%v, want 2024-December", first.Year, first.Month)
	}
	if last.Year != 2025 || last.Month != time.March {
		t.Errorf("last entry = %d-%v, want 2025-March", last.Year, last.Month)
	}
	if last.Balance.Cents != 180000 {
		t.Errorf("March balance = %d, want 180000", last.Balance.Cents)
	}
}

func TestReportService_Trend_InvalidWindow(t *testing.T) {
	svc, _ := newReportFixture()

	for _, months := range []int{0, 1, 5, 24, -3} {
		_, err := svc.Trend(context.Background(), 1, months)
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("Trend(months=%d) error = %v, want ErrInvalidInput", months, err)
		}
	}
}

func TestReportService_Summary_InvalidMonth(t *testing.T) {
	svc, _ := newReportFixture()

	for _, month := range []time.Month{0, 13} {
		_, err := svc.Summary(context.Background(), 1, 2025, month)
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("Summary(month=%d) error = %v, want ErrInvalidInput", month, err)
		}
	}
}
