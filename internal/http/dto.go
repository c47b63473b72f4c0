package http

import (
	"fintrack/internal/core"
	"fintrack/internal/report"
	"fintrack/internal/services"
)

// Wire amounts are decimal currency units; cents are internal only. The
// owner field is named "user" on the wire.

type transactionJSON struct {
	ID          int64   `json:"id"`
	User        int64   `json:"user"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
}

type transactionRequest struct {
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
}

type budgetJSON struct {
	ID       int64   `json:"id"`
	User     int64   `json:"user"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Period   string  `json:"period"`
}

type budgetRequest struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Period   string  `json:"period"`
}

type categoryJSON struct {
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

type userJSON struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token,omitempty"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type monthSummaryJSON struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Income      float64 `json:"income"`
	Expenses    float64 `json:"expenses"`
	Balance     float64 `json:"balance"`
	SavingsRate float64 `json:"savingsRate"`
}

type categoryTotalJSON struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type budgetStatusJSON struct {
	BudgetID   int64   `json:"budgetId"`
	Category   string  `json:"category"`
	Limit      float64 `json:"limit"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
}

type summaryJSON struct {
	Summary    monthSummaryJSON    `json:"summary"`
	Categories []categoryTotalJSON `json:"categories"`
	Budgets    []budgetStatusJSON  `json:"budgets"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		User:        t.Owner,
		Type:        string(t.Type),
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.String(),
		Amount:      t.Amount.Float(),
	}
}

func (in transactionRequest) toDomain() (core.Transaction, error) {
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Type:        core.TransactionType(in.Type),
		Category:    in.Category,
		Description: in.Description,
		Date:        date,
		Amount:      core.Money{Cents: core.CentsFromFloat(in.Amount)},
	}, nil
}

func toBudgetJSON(b core.Budget) budgetJSON {
	return budgetJSON{
		ID:       b.ID,
		User:     b.Owner,
		Category: b.Category,
		Amount:   b.Amount.Float(),
		Period:   string(b.Period),
	}
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{Name: c.Name, Icon: c.Icon, Color: c.Color}
}

func toUserJSON(u core.User, token string) userJSON {
	return userJSON{ID: u.ID, Name: u.Name, Email: u.Email, Token: token}
}

func toMonthSummaryJSON(m report.MonthSummary) monthSummaryJSON {
	return monthSummaryJSON{
		Year:        m.Year,
		Month:       int(m.Month),
		Income:      m.Income.Float(),
		Expenses:    m.Expenses.Float(),
		Balance:     m.Balance.Float(),
		SavingsRate: m.SavingsRate,
	}
}

func toSummaryJSON(s services.SummaryReport) summaryJSON {
	out := summaryJSON{
		Summary:    toMonthSummaryJSON(s.Summary),
		Categories: make([]categoryTotalJSON, 0, len(s.Categories)),
		Budgets:    make([]budgetStatusJSON, 0, len(s.Budgets)),
	}
	for _, c := range s.Categories {
		out.Categories = append(out.Categories, categoryTotalJSON{
			Category: c.Category,
			Total:    c.Total.Float(),
		})
	}
	for _, b := range s.Budgets {
		out.Budgets = append(out.Budgets, budgetStatusJSON{
			BudgetID:   b.BudgetID,
			Category:   b.Category,
			Limit:      b.Limit.Float(),
			Spent:      b.Spent.Float(),
			Remaining:  b.Remaining.Float(),
			Percentage: b.Percentage,
			Status:     string(b.Status),
		})
	}
	return out
}
