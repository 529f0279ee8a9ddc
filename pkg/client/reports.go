package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/naveenspark/fintrack/pkg/domain"
)

func rangeParams(start, end domain.Date) url.Values {
	params := url.Values{}
	params.Set("startDate", start.String())
	params.Set("endDate", end.String())
	return params
}

// Summary returns income, expense and net totals between two dates inclusive.
func (c *Client) Summary(ctx context.Context, start, end domain.Date) (*domain.Summary, error) {
	var s domain.Summary
	if err := c.call(ctx, http.MethodGet, "/reports/summary", rangeParams(start, end), nil, &s); err != nil {
		return nil, fmt.Errorf("client.Summary: %w", err)
	}
	return &s, nil
}

// SpendingByCategory returns expense totals per category, largest first.
func (c *Client) SpendingByCategory(ctx context.Context, start, end domain.Date) ([]domain.CategorySpending, error) {
	var m map[string]domain.Money
	if err := c.call(ctx, http.MethodGet, "/reports/spending-by-category", rangeParams(start, end), nil, &m); err != nil {
		return nil, fmt.Errorf("client.SpendingByCategory: %w", err)
	}
	return domain.SpendingFromMap(m), nil
}

// Trends returns income and expense per period bucket, oldest first.
func (c *Client) Trends(ctx context.Context, start, end domain.Date, period domain.PeriodType) ([]domain.TrendPoint, error) {
	params := rangeParams(start, end)
	params.Set("periodType", string(period))

	var m map[string]map[string]domain.Money
	if err := c.call(ctx, http.MethodGet, "/reports/income-vs-expense-trends", params, nil, &m); err != nil {
		return nil, fmt.Errorf("client.Trends: %w", err)
	}
	return domain.TrendsFromMap(m), nil
}
