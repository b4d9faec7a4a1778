package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used for empty carts and zero totals.
const DefaultCurrency = "SEK"

// Money is an immutable, non-negative amount tagged with an ISO 4217 style currency code.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney validates the amount and upper-cases the currency code.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, invalidf("amount cannot be negative: %s", amount.String())
	}
	code := strings.ToUpper(strings.TrimSpace(currency))
	if !validCurrency(code) {
		return Money{}, invalidf("currency must be a three letter code: %q", currency)
	}
	return Money{amount: amount, currency: code}, nil
}

// MustNewMoney panics on invalid input. Intended for constants and tests.
func MustNewMoney(amount decimal.Decimal, currency string) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero amount in the given currency, falling back to DefaultCurrency.
func Zero(currency string) Money {
	m, err := NewMoney(decimal.Zero, currency)
	if err != nil {
		return Money{amount: decimal.Zero, currency: DefaultCurrency}
	}
	return m
}

func validCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) Currency() string { return m.currency }

func (m Money) IsZero() bool { return m.amount.IsZero() }

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, WrapError(ErrCodeInvalidOperation, ErrCurrencyMismatch.Message,
			fmt.Errorf("%s vs %s", m.currency, other.currency))
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Multiply scales the amount by a non-negative factor.
func (m Money) Multiply(factor decimal.Decimal) (Money, error) {
	if factor.IsNegative() {
		return Money{}, invalidf("multiplication factor cannot be negative: %s", factor.String())
	}
	return Money{amount: m.amount.Mul(factor), currency: m.currency}, nil
}

// Equal reports whether both values carry the same currency and numerically equal amounts.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders the amount rounded half-up to two decimals followed by the currency, e.g. "123.46 SEK".
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency
}

// DisplayString is kept for presentation code that expects an explicit name.
func (m Money) DisplayString() string { return m.String() }

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount, Currency: m.currency})
}

// UnmarshalJSON runs the same validation as NewMoney.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewMoney(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
