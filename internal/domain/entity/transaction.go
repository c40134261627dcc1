package entity

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for Transaction.Date
const DateLayout = "2006-01-02"

var (
	// ErrInvalidAmount is returned when an amount is empty, non-numeric, not finite or negative
	ErrInvalidAmount = errors.New("amount must be a non-negative number")
	// ErrInvalidType is returned for a transaction type other than income or expense
	ErrInvalidType = errors.New("type must be income or expense")
	// ErrInvalidDate is returned when a date is not in YYYY-MM-DD format
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")
	// ErrMissingID is returned when a stored transaction has no identifier
	ErrMissingID = errors.New("transaction id must not be empty")
)

// TransactionType distinguishes money coming in from money going out
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Transaction represents a single recorded income or expense.
// A Transaction is never modified once it has been added to the ledger.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Amount      float64         `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

// Validate ensures the transaction meets all requirements
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return ErrMissingID
	}

	if !t.Type.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidType, t.Type)
	}

	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) || t.Amount < 0 {
		return ErrInvalidAmount
	}

	if _, err := ParseDate(t.Date); err != nil {
		return err
	}

	return nil
}

// maxAmountExponent bounds the decimal exponent accepted by ParseAmount
const maxAmountExponent = 400

// ParseAmount converts user input such as "1200" or "99.50" into an amount.
// Empty, non-numeric and negative input is rejected with ErrInvalidAmount.
func ParseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	// Converting rescales by 10^exponent, so bound it before doing any arithmetic.
	if exp := d.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	amount := d.InexactFloat64()
	if math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	return amount, nil
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// FormatDate renders the calendar date of t in its own location
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
