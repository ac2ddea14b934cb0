// Package ledger records expenses against a fixed budget ceiling.
//
// A Ledger is owned by exactly one consumer and is not safe for concurrent
// use. Callers that share one across goroutines must serialize access.
package ledger

import (
	"strings"
	"time"

	"github.com/frahmantamala/budget-ledger/internal"
	"github.com/frahmantamala/budget-ledger/internal/core/common/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCeiling is the monthly budget used when none is configured.
var DefaultCeiling = decimal.NewFromInt(5000)

var (
	ErrMissingField    = internal.ErrMissingField
	ErrInvalidAmount   = internal.ErrInvalidAmount
	ErrInvalidCategory = internal.ErrInvalidCategory
	ErrInvalidCeiling  = internal.ErrInvalidCeiling
)

type Ledger struct {
	ceiling decimal.Decimal
	entries []Expense
	ids     map[string]struct{}
	total   decimal.Decimal

	now   func() time.Time
	newID func() string
}

type Option func(*Ledger)

// WithClock overrides the timestamp source for new entries.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDGenerator overrides the id source for new entries. The generator
// must not repeat values within a ledger.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

func New(ceiling decimal.Decimal, opts ...Option) (*Ledger, error) {
	if !ceiling.IsPositive() {
		return nil, ErrInvalidCeiling
	}

	l := &Ledger{
		ceiling: ceiling,
		entries: make([]Expense, 0),
		ids:     make(map[string]struct{}),
		total:   decimal.Zero,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// AddExpense validates the raw form input and appends a new entry.
// Checks run in order: missing fields, amount parsing, amount sign,
// category membership. A failed call leaves the ledger untouched.
func (l *Ledger) AddExpense(name, amount, category string) (Expense, error) {
	v := validation.NewValidator()
	v.Field("name", name).Required()
	v.Field("amount", amount).Required()
	v.Field("category", category).Required()
	if appErr := v.Validate(); appErr != nil {
		return Expense{}, appErr
	}

	parsed, err := ParseAmount(amount)
	if err != nil {
		return Expense{}, err
	}

	v = validation.NewValidator()
	v.Field("amount", parsed).Positive(internal.ErrCodeInvalidAmount)
	if appErr := v.Validate(); appErr != nil {
		return Expense{}, appErr
	}

	cat, err := ParseCategory(category)
	if err != nil {
		return Expense{}, err
	}

	id := l.newID()
	if _, dup := l.ids[id]; dup {
		return Expense{}, internal.NewInternalError("expense id generator returned a duplicate", nil)
	}

	exp := Expense{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Amount:    parsed,
		Category:  cat,
		CreatedAt: l.now(),
	}
	l.entries = append(l.entries, exp)
	l.ids[id] = struct{}{}
	l.total = l.total.Add(parsed)

	return exp, nil
}

// TotalSpent is the sum of every entry's amount.
func (l *Ledger) TotalSpent() decimal.Decimal {
	return l.total
}

func (l *Ledger) BudgetStatus() BudgetStatus {
	return newBudgetStatus(l.total, l.ceiling)
}

func (l *Ledger) Ceiling() decimal.Decimal {
	return l.ceiling
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries in insertion order.
func (l *Ledger) Entries() []Expense {
	out := make([]Expense, len(l.entries))
	copy(out, l.entries)
	return out
}

// TotalsByCategory sums entries per category in display order, skipping
// categories without entries.
func (l *Ledger) TotalsByCategory() []CategoryTotal {
	byCat := make(map[Category]*CategoryTotal)
	for _, e := range l.entries {
		ct, ok := byCat[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category, Total: decimal.Zero}
			byCat[e.Category] = ct
		}
		ct.Count++
		ct.Total = ct.Total.Add(e.Amount)
	}

	out := make([]CategoryTotal, 0, len(byCat))
	for _, c := range categories {
		if ct, ok := byCat[c]; ok {
			out = append(out, *ct)
		}
	}
	return out
}
