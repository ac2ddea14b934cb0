package ledger

import (
	"strings"

	"github.com/frahmantamala/budget-ledger/internal"
	"github.com/shopspring/decimal"
)

// Amounts outside these bounds are refused before any arithmetic, since
// decimal rescaling cost grows with the exponent.
const (
	maxAmountLength   = 64
	maxAmountExponent = 18
	maxAmountDigits   = 30
)

// ParseAmount parses user-entered text as a decimal. A single comma is
// accepted as the decimal separator. The sign is not checked here.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, internal.NewValidationFieldError("amount", "amount is required", internal.ErrCodeMissingField)
	}
	if len(s) > maxAmountLength {
		return decimal.Zero, invalidAmount("amount is too long", nil)
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalidAmount("amount must be a number", err)
	}
	if exp := d.Exponent(); exp < -maxAmountExponent || exp > maxAmountExponent || d.NumDigits() > maxAmountDigits {
		return decimal.Zero, invalidAmount("amount is out of range", nil)
	}
	return d, nil
}

func invalidAmount(message string, cause error) error {
	appErr := internal.NewValidationFieldError("amount", message, internal.ErrCodeInvalidAmount)
	if cause != nil {
		appErr = appErr.WithCause(cause)
	}
	return appErr
}
