package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Weekly  BudgetPeriod = "weekly"
	Monthly BudgetPeriod = "monthly"
)

// IncomeCategory is the reserved category name for inflows. Every other
// registered category is an expense category.
const IncomeCategory = "Income"

type (
	TransactionType string
	BudgetPeriod    string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single income or expense record. Amount is signed:
	// negative for expenses, positive for income. The sign always matches
	// Type; NormalizedAmount enforces this on every write.
	Transaction struct {
		ID          int64
		Owner       int64
		Type        TransactionType
		Category    string
		Description string
		Date        Date
		Amount      Money
	}

	// Budget is a per-category spending ceiling. At most one budget
	// exists per (owner, category) pair.
	Budget struct {
		ID       int64
		Owner    int64
		Category string
		Amount   Money
		Period   BudgetPeriod
	}

	// Category is registry configuration, not user data.
	Category struct {
		Name  string
		Icon  string
		Color string
	}

	User struct {
		ID    int64
		Name  string
		Email string
	}
)

var (
	// ErrInvalidInput is the umbrella for malformed or missing fields.
	// Field-level validation errors wrap it so callers can classify with
	// a single errors.Is check.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidAmount    = fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	ErrEmptyDescription = fmt.Errorf("%w: empty description", ErrInvalidInput)
	ErrEmptyCategory    = fmt.Errorf("%w: empty category", ErrInvalidInput)
	ErrUnknownCategory  = fmt.Errorf("%w: unknown category", ErrInvalidInput)
	ErrInvalidType      = fmt.Errorf("%w: type must be income or expense", ErrInvalidInput)
	ErrInvalidPeriod    = fmt.Errorf("%w: period must be weekly or monthly", ErrInvalidInput)
	ErrInvalidDate      = fmt.Errorf("%w: invalid date", ErrInvalidInput)

	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("not authorized")
	ErrConflict  = errors.New("already exists")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Sign returns +1 for income and -1 for expense.
func (t TransactionType) Sign() int64 {
	if t == Expense {
		return -1
	}
	return 1
}

func (p BudgetPeriod) Valid() bool {
	return p == Weekly || p == Monthly
}

// NewDate creates a Date from year, month and day at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date in YYYY-MM-DD form. Time-of-day is
// not semantically significant anywhere in the tracker.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// CanonicalCategory trims surrounding whitespace. Matching stays
// case-sensitive: "food" and "Food" are distinct labels.
func CanonicalCategory(s string) string {
	return strings.TrimSpace(s)
}

// NormalizedAmount returns the magnitude of m signed by the transaction
// type, overriding whatever sign the caller supplied. Expenses are
// stored negative, income positive.
func NormalizedAmount(t TransactionType, m Money) Money {
	return Money{Cents: t.Sign() * m.Abs().Cents}
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return fmt.Errorf("%w: description too long (max 200 characters)", ErrInvalidInput)
	}
	if CanonicalCategory(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Abs().Validate(); err != nil {
		return err
	}
	if t.Amount.Cents != t.Type.Sign()*t.Amount.Abs().Cents {
		return fmt.Errorf("%w: amount sign does not match type", ErrInvalidInput)
	}
	return nil
}

func (b Budget) Validate() error {
	if CanonicalCategory(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	return nil
}
