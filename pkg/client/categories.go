package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/naveenspark/fintrack/pkg/domain"
)

func categoryPath(id int64) string {
	return "/categories/" + strconv.FormatInt(id, 10)
}

// ListCategories returns the categories visible to the user.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := c.call(ctx, http.MethodGet, "/categories", nil, nil, &cats); err != nil {
		return nil, fmt.Errorf("client.ListCategories: %w", err)
	}
	if err := validateEach(cats); err != nil {
		return nil, fmt.Errorf("client.ListCategories: %w", err)
	}
	return cats, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("client.CreateCategory: name is required")
	}
	var cat domain.Category
	if err := c.call(ctx, http.MethodPost, "/categories", nil, domain.CategoryInput{Name: name}, &cat); err != nil {
		return nil, fmt.Errorf("client.CreateCategory: %w", err)
	}
	return &cat, nil
}

// UpdateCategory renames a category.
func (c *Client) UpdateCategory(ctx context.Context, id int64, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("client.UpdateCategory: name is required")
	}
	var cat domain.Category
	if err := c.call(ctx, http.MethodPut, categoryPath(id), nil, domain.CategoryInput{Name: name}, &cat); err != nil {
		return nil, fmt.Errorf("client.UpdateCategory: %w", err)
	}
	return &cat, nil
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	if err := c.call(ctx, http.MethodDelete, categoryPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("client.DeleteCategory: %w", err)
	}
	return nil
}
