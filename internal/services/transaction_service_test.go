package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
}

func newTransactionFixture() (*TransactionService, *fakeStore, *fakePublisher, *fakeInvalidator) {
	store := newFakeStore()
	publisher := &fakePublisher{}
	invalidator := &fakeInvalidator{}
	svc := NewTransactionService(store, publisher, invalidator)
	svc.now = fixedNow
	return svc, store, publisher, invalidator
}

func expenseInput(category string, cents int64) core.Transaction {
	return core.Transaction{
		Type:        core.Expense,
		Category:    category,
		Description: "test expense",
		Date:        core.NewDate(2025, time.March, 10),
		Amount:      core.Money{Cents: cents},
	}
}

func TestTransactionService_Create_NormalizesSign(t *testing.T) {
	svc, _, _, _ := newTransactionFixture()
	ctx := context.Background()

	t.Run("expense sent positive is stored negative", func(t *testing.T) {
		created, err := svc.Create(ctx, 1, expenseInput("Groceries", 4500))
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if created.Amount.Cents != -4500 {
			t.Errorf("Amount.Cents = %d, want -4500", created.Amount.Cents)
		}
	})

	t.Run("income sent negative is stored positive", func(t *testing.T) {
		in := core.Transaction{
			Type:        core.Income,
			Category:    "Income",
			Description: "salary",
			Date:        core.NewDate(2025, time.March, 1),
			Amount:      core.Money{Cents: -250000},
		}
		created, err := svc.Create(ctx, 1, in)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if created.Amount.Cents != 250000 {
			t.Errorf("Amount.Cents = %d, want 250000", created.Amount.Cents)
		}
	})
}

func TestTransactionService_Create_UnknownCategory(t *testing.T) {
	svc, _, _, _ := newTransactionFixture()

	_, err := svc.Create(context.Background(), 1, expenseInput("Yachts", 100))

	if !errors.Is(err, core.ErrUnknownCategory) {
		t.Errorf("Create() error = %v, want ErrUnknownCategory", err)
	}
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("unknown category should classify as invalid input, got %v", err)
	}
}

func TestTransactionService_Create_TrimsCategory(t *testing.T) {
	svc, _, _, _ := newTransactionFixture()

	created, err := svc.Create(context.Background(), 1, expenseInput("  Groceries  ", 100))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Category != "Groceries" {
		t.Errorf("Category = %q, want %q", created.Category, "Groceries")
	}
}

func TestTransactionService_Create_InvalidInput(t *testing.T) {
	svc, _, _, _ := newTransactionFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*core.Transaction)
	}{
		{"zero amount", func(tr *core.Transaction) { tr.Amount = core.Money{} }},
		{"empty description", func(tr *core.Transaction) { tr.Description = "" }},
		{"empty category", func(tr *core.Transaction) { tr.Category = "" }},
		{"zero date", func(tr *core.Transaction) { tr.Date = core.Date{} }},
		{"bad type", func(tr *core.Transaction) { tr.Type = "transfer" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := expenseInput("Groceries", 100)
			tt.mutate(&in)
			_, err := svc.Create(ctx, 1, in)
			if !errors.Is(err, core.ErrInvalidInput) {
				t.Errorf("Create() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestTransactionService_OwnershipPredicate(t *testing.T) {
	svc, _, _, _ := newTransactionFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, expenseInput("Groceries", 100))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("missing id is not found", func(t *testing.T) {
		_, err := svc.Get(ctx, 1, 9999)
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("foreign owner is forbidden", func(t *testing.T) {
		_, err := svc.Get(ctx, 2, created.ID)
		if !errors.Is(err, core.ErrForbidden) {
			t.Errorf("Get() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("foreign update is forbidden", func(t *testing.T) {
		_, err := svc.Update(ctx, 2, created.ID, expenseInput("Transport", 200))
		if !errors.Is(err, core.ErrForbidden) {
			t.Errorf("Update() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("foreign delete is forbidden", func(t *testing.T) {
		err := svc.Delete(ctx, 2, created.ID)
		if !errors.Is(err, core.ErrForbidden) {
			t.Errorf("Delete() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("owner can still read it", func(t *testing.T) {
		got, err := svc.Get(ctx, 1, created.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.ID != created.ID {
			t.Errorf("Get() ID = %d, want %d", got.ID, created.ID)
		}
	})
}

func TestTransactionService_Update_ReplacesFields(t *testing.T) {
	svc, store, _, _ := newTransactionFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, expenseInput("Groceries", 100))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	in := expenseInput("Transport", 300)
	in.Description = "bus pass"
	updated, err := svc.Update(ctx, 1, created.ID, in)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Category != "Transport" || updated.Description != "bus pass" {
		t.Errorf("Update() = %+v, fields not replaced", updated)
	}
	stored, _ := store.GetTransaction(ctx, created.ID)
	if stored.Amount.Cents != -300 {
		t.Errorf("stored Amount.Cents = %d, want -300", stored.Amount.Cents)
	}
}

func TestTransactionService_InvalidatesReportsOnWrites(t *testing.T) {
	svc, _, _, invalidator := newTransactionFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, expenseInput("Groceries", 100))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Update(ctx, 1, created.ID, expenseInput("Groceries", 200)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := svc.Delete(ctx, 1, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if invalidator.count() != 3 {
		t.Errorf("invalidations = %d, want 3 (create, update, delete)", invalidator.count())
	}
}

func TestTransactionService_BudgetAlerts(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*TransactionService, *fakeStore, *fakePublisher) {
		svc, store, publisher, _ := newTransactionFixture()
		_, err := store.CreateBudget(ctx, core.Budget{
			Owner:    1,
			Category: "Groceries",
			Amount:   core.Money{Cents: 20000},
			Period:   core.Monthly,
		})
		if err != nil {
			t.Fatalf("seed budget: %v", err)
		}
		return svc, store, publisher
	}

	t.Run("crossing warning threshold publishes alert", func(t *testing.T) {
		svc, _, publisher := setup(t)

		if _, err := svc.Create(ctx, 1, expenseInput("Groceries", 19000)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		msgs := publisher.published()
		if len(msgs) != 1 {
			t.Fatalf("published %d alerts, want 1", len(msgs))
		}
		msg := msgs[0]
		if msg.Status != string(report.StatusWarning) {
			t.Errorf("Status = %q, want warning", msg.Status)
		}
		if msg.SpentCents != 19000 || msg.LimitCents != 20000 {
			t.Errorf("Spent/Limit = %d/%d, want 19000/20000", msg.SpentCents, msg.LimitCents)
		}
		if msg.Percentage != 95 {
			t.Errorf("Percentage = %v, want 95", msg.Percentage)
		}
	})

	t.Run("spending under threshold stays silent", func(t *testing.T) {
		svc, _, publisher := setup(t)

		if _, err := svc.Create(ctx, 1, expenseInput("Groceries", 5000)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if len(publisher.published()) != 0 {
			t.Errorf("published %d alerts, want 0", len(publisher.published()))
		}
	})

	t.Run("unbudgeted category stays silent", func(t *testing.T) {
		svc, _, publisher := setup(t)

		if _, err := svc.Create(ctx, 1, expenseInput("Transport", 50000)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if len(publisher.published()) != 0 {
			t.Errorf("published %d alerts, want 0", len(publisher.published()))
		}
	})

	t.Run("publish failure does not fail the write", func(t *testing.T) {
		svc, store, publisher := setup(t)
		publisher.fail = true

		created, err := svc.Create(ctx, 1, expenseInput("Groceries", 25000))
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if _, err := store.GetTransaction(ctx, created.ID); err != nil {
			t.Errorf("transaction should be stored despite publish failure: %v", err)
		}
	})

	t.Run("nil publisher is safe", func(t *testing.T) {
		store := newFakeStore()
		svc := NewTransactionService(store, nil, nil)
		svc.now = fixedNow
		if _, err := store.CreateBudget(ctx, core.Budget{
			Owner: 1, Category: "Groceries", Amount: core.Money{Cents: 100}, Period: core.Monthly,
		}); err != nil {
			t.Fatalf("seed budget: %v", err)
		}

		if _, err := svc.Create(ctx, 1, expenseInput("Groceries", 500)); err != nil {
			t.Fatalf("Create() with nil publisher error = %v", err)
		}
	})
}
