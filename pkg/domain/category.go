package domain

import (
	"errors"
	"strings"
)

// Category groups transactions and budgets.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Validate checks the shape returned by the service.
func (c Category) Validate() error {
	if c.ID <= 0 {
		return errors.New("category: missing id")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("category: missing name")
	}
	return nil
}

// CategoryInput is the body for creating or renaming a category.
type CategoryInput struct {
	Name string `json:"name"`
}
