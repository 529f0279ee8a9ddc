package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/naveenspark/fintrack/pkg/domain"
)

func budgetPath(id int64) string {
	return "/budgets/" + strconv.FormatInt(id, 10)
}

// ListBudgets fetches the budgets for one month.
func (c *Client) ListBudgets(ctx context.Context, month, year int) ([]domain.Budget, error) {
	params := url.Values{}
	params.Set("month", strconv.Itoa(month))
	params.Set("year", strconv.Itoa(year))

	var budgets []domain.Budget
	if err := c.call(ctx, http.MethodGet, "/budgets", params, nil, &budgets); err != nil {
		return nil, fmt.Errorf("client.ListBudgets: %w", err)
	}
	if err := validateEach(budgets); err != nil {
		return nil, fmt.Errorf("client.ListBudgets: %w", err)
	}
	return budgets, nil
}

// CreateBudget creates a budget for a category. The service rejects a second
// budget for the same category and month.
func (c *Client) CreateBudget(ctx context.Context, in domain.BudgetInput, categoryID int64) (*domain.Budget, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("client.CreateBudget: %w", err)
	}
	if categoryID <= 0 {
		return nil, fmt.Errorf("client.CreateBudget: category is required")
	}
	var b domain.Budget
	if err := c.call(ctx, http.MethodPost, "/budgets", categoryParam(categoryID), in, &b); err != nil {
		return nil, fmt.Errorf("client.CreateBudget: %w", err)
	}
	return &b, nil
}

// UpdateBudget changes a budget's amount, period or category.
func (c *Client) UpdateBudget(ctx context.Context, id int64, in domain.BudgetInput, categoryID int64) (*domain.Budget, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("client.UpdateBudget: %w", err)
	}
	if categoryID <= 0 {
		return nil, fmt.Errorf("client.UpdateBudget: category is required")
	}
	var b domain.Budget
	if err := c.call(ctx, http.MethodPut, budgetPath(id), categoryParam(categoryID), in, &b); err != nil {
		return nil, fmt.Errorf("client.UpdateBudget: %w", err)
	}
	return &b, nil
}

// DeleteBudget deletes a budget.
func (c *Client) DeleteBudget(ctx context.Context, id int64) error {
	if err := c.call(ctx, http.MethodDelete, budgetPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("client.DeleteBudget: %w", err)
	}
	return nil
}
