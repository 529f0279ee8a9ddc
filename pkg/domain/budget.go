package domain

import (
	"errors"
	"fmt"
)

// Budget caps spending in one category for one month.
// The service allows one budget per (category, month, year).
type Budget struct {
	ID       int64     `json:"id"`
	Category *Category `json:"category,omitempty"`
	Amount   Money     `json:"amount"`
	Month    int       `json:"month"`
	Year     int       `json:"year"`
}

// Validate checks the shape returned by the service.
func (b Budget) Validate() error {
	if b.ID <= 0 {
		return errors.New("budget: missing id")
	}
	if b.Month < 1 || b.Month > 12 {
		return fmt.Errorf("budget %d: month %d out of range", b.ID, b.Month)
	}
	return nil
}

// CategoryName returns the category name or "Uncategorized".
func (b Budget) CategoryName() string {
	if b.Category == nil || b.Category.Name == "" {
		return "Uncategorized"
	}
	return b.Category.Name
}

// BudgetInput is the body for creating or updating a budget.
// The category travels as a query parameter.
type BudgetInput struct {
	Amount Money `json:"amount"`
	Month  int   `json:"month"`
	Year   int   `json:"year"`
}

// Validate checks the input before it is sent.
func (in BudgetInput) Validate() error {
	switch {
	case in.Amount <= 0:
		return errors.New("amount must be positive")
	case in.Month < 1 || in.Month > 12:
		return errors.New("month must be between 1 and 12")
	case in.Year < 1900:
		return errors.New("year is required")
	}
	return nil
}
