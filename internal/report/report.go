// Package report derives dashboard and report view models from raw
// transaction and budget lists. Every function is pure: no I/O, no
// clock reads, deterministic given its arguments.
package report

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

// OtherBucket is the label the remainder of a top-N category breakdown
// is folded into.
const OtherBucket = "Other"

// Budget consumption thresholds, in percent. Both are inclusive: a
// budget at exactly 90% is warning, at exactly 100% over.
const (
	warningThreshold = 90
	overThreshold    = 100
)

type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusOver    Status = "over"
)

// MonthSummary aggregates one calendar month of activity.
type MonthSummary struct {
	Year        int
	Month       time.Month
	Income      core.Money
	Expenses    core.Money // magnitude of outflows
	Balance     core.Money
	SavingsRate float64
}

// CategoryTotal is an expense sum for one category, as a magnitude.
type CategoryTotal struct {
	Category string
	Total    core.Money
}

// BudgetStatus is the derived, never persisted, consumption of a budget
// within the current calendar-month window.
type BudgetStatus struct {
	BudgetID   int64
	Category   string
	Limit      core.Money
	Spent      core.Money
	Remaining  core.Money
	Percentage float64
	Status     Status
}

// MonthWindow selects transactions dated in the same calendar month and
// year as the reference date. This is a calendar window, not a rolling
// 30-day one.
func MonthWindow(ts []core.Transaction, year int, month time.Month) []core.Transaction {
	var out []core.Transaction
	for _, t := range ts {
		if t.Date.Year() == year && t.Date.Month() == month {
			out = append(out, t)
		}
	}
	return out
}

// CategoryTotals groups expense transactions by category, summing
// magnitudes. The result is sorted by total descending, ties broken by
// category name for determinism.
func CategoryTotals(ts []core.Transaction) []CategoryTotal {
	sums := make(map[string]int64)
	for _, t := range ts {
		if t.Amount.Cents >= 0 {
			continue
		}
		sums[t.Category] += t.Amount.Abs().Cents
	}

	out := make([]CategoryTotal, 0, len(sums))
	for cat, cents := range sums {
		out = append(out, CategoryTotal{Category: cat, Total: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TopCategories keeps the n largest totals and folds the remainder into
// an "Other" bucket. Totals must already be sorted descending, as
// CategoryTotals returns them.
func TopCategories(totals []CategoryTotal, n int) []CategoryTotal {
	if len(totals) <= n {
		return totals
	}
	out := make([]CategoryTotal, n, n+1)
	copy(out, totals[:n])
	var rest int64
	for _, ct := range totals[n:] {
		rest += ct.Total.Cents
	}
	if rest > 0 {
		out = append(out, CategoryTotal{Category: OtherBucket, Total: core.Money{Cents: rest}})
	}
	return out
}

// Totals sums income and expense magnitudes over the given list.
func Totals(ts []core.Transaction) (income, expenses core.Money) {
	for _, t := range ts {
		if t.Amount.Cents > 0 {
			income = income.Add(t.Amount)
		} else {
			expenses = expenses.Add(t.Amount.Abs())
		}
	}
	return income, expenses
}

// SavingsRate is balance over income in percent. Zero income yields 0,
// not a division error.
func SavingsRate(income, balance core.Money) float64 {
	if income.Cents <= 0 {
		return 0
	}
	return float64(balance.Cents) / float64(income.Cents) * 100
}

// Summarize computes the income/expense/balance totals and savings rate
// for one calendar month.
func Summarize(ts []core.Transaction, year int, month time.Month) MonthSummary {
	income, expenses := Totals(MonthWindow(ts, year, month))
	balance := income.Sub(expenses)
	return MonthSummary{
		Year:        year,
		Month:       month,
		Income:      income,
		Expenses:    expenses,
		Balance:     balance,
		SavingsRate: SavingsRate(income, balance),
	}
}

// Trend enumerates every calendar month from today-window to today
// inclusive and summarizes each, oldest first. A 6-month window over a
// September reference yields March through September.
func Trend(ts []core.Transaction, months int, today time.Time) []MonthSummary {
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -months, 0)
	end := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := make([]MonthSummary, 0, months+1)
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		out = append(out, Summarize(ts, m.Year(), m.Month()))
	}
	return out
}

// BudgetStatuses evaluates each budget against the calendar month of
// the reference date. Declared period does not change the window: both
// weekly and monthly budgets are measured against the current month.
func BudgetStatuses(budgets []core.Budget, ts []core.Transaction, ref time.Time) []BudgetStatus {
	window := MonthWindow(ts, ref.Year(), ref.Month())
	spent := make(map[string]int64)
	for _, ct := range CategoryTotals(window) {
		spent[ct.Category] = ct.Total.Cents
	}

	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, statusFor(b, core.Money{Cents: spent[b.Category]}))
	}
	return out
}

// statusFor derives one budget's consumption. Budget amounts are
// validated positive at write time, so the percentage needs no
// zero-limit guard.
func statusFor(b core.Budget, spent core.Money) BudgetStatus {
	pct := float64(spent.Cents) / float64(b.Amount.Cents) * 100
	st := StatusGood
	switch {
	case pct >= overThreshold:
		st = StatusOver
	case pct >= warningThreshold:
		st = StatusWarning
	}
	return BudgetStatus{
		BudgetID:   b.ID,
		Category:   b.Category,
		Limit:      b.Amount,
		Spent:      spent,
		Remaining:  b.Amount.Sub(spent),
		Percentage: pct,
		Status:     st,
	}
}
