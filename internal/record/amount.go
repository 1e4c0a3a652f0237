package record

import (
	"github.com/shopspring/decimal"
)

// Amount is a monetary value as the API reports it: an exact decimal
// number plus an ISO 4217 currency code.
type Amount struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency_code"`
}

func (a Amount) String() string {
	return a.Value.String() + " " + a.Currency
}

// Equal reports whether two amounts have the same value and currency.
// decimal values with different exponents compare equal when they
// represent the same number.
func (a Amount) Equal(b Amount) bool {
	return a.Currency == b.Currency && a.Value.Equal(b.Value)
}
