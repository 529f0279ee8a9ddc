package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/naveenspark/fintrack/pkg/domain"
)

func transactionPath(id int64) string {
	return "/transactions/" + strconv.FormatInt(id, 10)
}

func categoryParam(categoryID int64) url.Values {
	if categoryID <= 0 {
		return nil
	}
	params := url.Values{}
	params.Set("categoryId", strconv.FormatInt(categoryID, 10))
	return params
}

// ListTransactions fetches transactions matching f.
func (c *Client) ListTransactions(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error) {
	params := url.Values{}
	if !f.StartDate.IsZero() {
		params.Set("startDate", f.StartDate.String())
	}
	if !f.EndDate.IsZero() {
		params.Set("endDate", f.EndDate.String())
	}
	if f.CategoryID > 0 {
		params.Set("categoryId", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.Type != "" {
		params.Set("type", string(f.Type))
	}

	var txs []domain.Transaction
	if err := c.call(ctx, http.MethodGet, "/transactions", params, nil, &txs); err != nil {
		return nil, fmt.Errorf("client.ListTransactions: %w", err)
	}
	if err := validateEach(txs); err != nil {
		return nil, fmt.Errorf("client.ListTransactions: %w", err)
	}
	return txs, nil
}

// GetTransaction fetches a single transaction by ID.
func (c *Client) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := c.call(ctx, http.MethodGet, transactionPath(id), nil, nil, &tx); err != nil {
		return nil, fmt.Errorf("client.GetTransaction: %w", err)
	}
	return &tx, nil
}

// CreateTransaction records a transaction. categoryID <= 0 leaves it uncategorized.
func (c *Client) CreateTransaction(ctx context.Context, in domain.TransactionInput, categoryID int64) (*domain.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("client.CreateTransaction: %w", err)
	}
	var tx domain.Transaction
	if err := c.call(ctx, http.MethodPost, "/transactions", categoryParam(categoryID), in, &tx); err != nil {
		return nil, fmt.Errorf("client.CreateTransaction: %w", err)
	}
	return &tx, nil
}

// UpdateTransaction replaces a transaction's fields.
func (c *Client) UpdateTransaction(ctx context.Context, id int64, in domain.TransactionInput, categoryID int64) (*domain.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("client.UpdateTransaction: %w", err)
	}
	var tx domain.Transaction
	if err := c.call(ctx, http.MethodPut, transactionPath(id), categoryParam(categoryID), in, &tx); err != nil {
		return nil, fmt.Errorf("client.UpdateTransaction: %w", err)
	}
	return &tx, nil
}

// DeleteTransaction deletes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	if err := c.call(ctx, http.MethodDelete, transactionPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("client.DeleteTransaction: %w", err)
	}
	return nil
}
