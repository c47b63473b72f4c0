package events

import (
	"encoding/json"
	"time"
)

// BudgetAlertMessage is published when a budget crosses its warning or
// over-limit threshold after a transaction write. Amounts are in cents.
type BudgetAlertMessage struct {
	UserID     int64     `json:"user_id"`
	BudgetID   int64     `json:"budget_id"`
	Category   string    `json:"category"`
	LimitCents int64     `json:"limit_cents"`
	SpentCents int64     `json:"spent_cents"`
	Percentage float64   `json:"percentage"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewBudgetAlert(userID, budgetID int64, category string, limitCents, spentCents int64, percentage float64, status string) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		UserID:     userID,
		BudgetID:   budgetID,
		Category:   category,
		LimitCents: limitCents,
		SpentCents: spentCents,
		Percentage: percentage,
		Status:     status,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertFromJSON creates a message from JSON bytes
func BudgetAlertFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
