package domain

import (
	"errors"
	"fmt"
	"strings"
)

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// ValidTransactionType reports whether t is a known type.
func ValidTransactionType(t TransactionType) bool {
	return t == TransactionIncome || t == TransactionExpense
}

// ParseTransactionType accepts either case ("income", "EXPENSE").
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !ValidTransactionType(t) {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// Transaction is a single income or expense entry.
type Transaction struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      Money           `json:"amount"`
	Date        Date            `json:"date"`
	Type        TransactionType `json:"type"`
	Category    *Category       `json:"category,omitempty"`
}

// Validate checks the shape returned by the service.
func (t Transaction) Validate() error {
	if t.ID <= 0 {
		return errors.New("transaction: missing id")
	}
	if !ValidTransactionType(t.Type) {
		return fmt.Errorf("transaction %d: unknown type %q", t.ID, t.Type)
	}
	return nil
}

// CategoryName returns the category name or "Uncategorized".
func (t Transaction) CategoryName() string {
	if t.Category == nil || t.Category.Name == "" {
		return "Uncategorized"
	}
	return t.Category.Name
}

// Signed returns the amount negated for expenses.
func (t Transaction) Signed() Money {
	if t.Type == TransactionExpense {
		return -t.Amount
	}
	return t.Amount
}

// TransactionInput is the body for creating or updating a transaction.
// The category travels as a query parameter, not in the body.
type TransactionInput struct {
	Description string          `json:"description"`
	Amount      Money           `json:"amount"`
	Date        Date            `json:"date"`
	Type        TransactionType `json:"type"`
}

// Validate checks the input before it is sent.
func (in TransactionInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Description) == "":
		return errors.New("description is required")
	case in.Amount <= 0:
		return errors.New("amount must be positive")
	case in.Date.IsZero():
		return errors.New("date is required")
	case !ValidTransactionType(in.Type):
		return errors.New("type must be INCOME or EXPENSE")
	}
	return nil
}

// TransactionFilter narrows a transaction listing. Zero fields are not sent.
type TransactionFilter struct {
	StartDate  Date
	EndDate    Date
	CategoryID int64
	Type       TransactionType
}
