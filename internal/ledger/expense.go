package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is one recorded outlay. Values are never modified once appended.
type Expense struct {
	ID        string
	Name      string
	Amount    decimal.Decimal
	Category  Category
	CreatedAt time.Time
}

// CategoryTotal is the sum of amounts recorded under one category.
type CategoryTotal struct {
	Category Category
	Count    int
	Total    decimal.Decimal
}
