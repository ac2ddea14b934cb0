package expense

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/frahmantamala/budget-ledger/internal/core/events"
	"github.com/frahmantamala/budget-ledger/internal/ledger"
)

// AmountText holds an amount exactly as submitted. It accepts a JSON string
// or a bare JSON number so parsing stays with the ledger.
type AmountText string

func (a *AmountText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountText(s)
		return nil
	}
	*a = AmountText(data)
	return nil
}

// CreateExpenseDTO is the raw form input for a new expense.
type CreateExpenseDTO struct {
	Name     string     `json:"name"`
	Amount   AmountText `json:"amount"`
	Category string     `json:"category"`
}

type SessionResponse struct {
	SessionID string                `json:"session_id"`
	CreatedAt time.Time             `json:"created_at"`
	Budget    *BudgetStatusResponse `json:"budget"`
}

type ExpenseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    string    `json:"amount"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type ExpensesResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
	Total    string            `json:"total"`
}

type BudgetStatusResponse struct {
	Spent        string  `json:"spent"`
	Ceiling      string  `json:"ceiling"`
	WithinBudget bool    `json:"within_budget"`
	UsageRatio   string  `json:"usage_ratio"`
	Percent      float64 `json:"percent"`
	Overage      string  `json:"overage"`
	Remaining    string  `json:"remaining"`
	Currency     string  `json:"currency,omitempty"`
}

type AddExpenseResponse struct {
	Expense       ExpenseResponse       `json:"expense"`
	Budget        BudgetStatusResponse  `json:"budget"`
	Notifications []events.Notification `json:"notifications"`
}

type CategoryTotalResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Total    string `json:"total"`
}

type SummaryResponse struct {
	Entries    int                     `json:"entries"`
	Budget     BudgetStatusResponse    `json:"budget"`
	Categories []CategoryTotalResponse `json:"categories"`
}

func ToExpenseResponse(e ledger.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        e.ID,
		Name:      e.Name,
		Amount:    e.Amount.String(),
		Category:  e.Category.String(),
		CreatedAt: e.CreatedAt,
	}
}

func ToExpenseResponses(entries []ledger.Expense) []ExpenseResponse {
	result := make([]ExpenseResponse, len(entries))
	for i, e := range entries {
		result[i] = ToExpenseResponse(e)
	}
	return result
}

func ToBudgetStatusResponse(s ledger.BudgetStatus, currency string) BudgetStatusResponse {
	return BudgetStatusResponse{
		Spent:        s.Spent.String(),
		Ceiling:      s.Ceiling.String(),
		WithinBudget: s.WithinBudget,
		UsageRatio:   s.UsageRatio.String(),
		Percent:      s.DisplayPercent(),
		Overage:      s.Overage.String(),
		Remaining:    s.Remaining.String(),
		Currency:     currency,
	}
}
