package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/naveenspark/fintrack/pkg/domain"
)

// Login exchanges credentials for a bearer token. It is an anonymous call.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	body := domain.LoginRequest{Username: username, Password: password}
	if err := c.send(ctx, http.MethodPost, c.url("/auth/login", nil), anonymousHeaders(), body, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Register creates an account. The service answers with plain text, so no
// payload is decoded.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("client.Register: %w", err)
	}
	if err := c.send(ctx, http.MethodPost, c.url("/auth/register", nil), anonymousHeaders(), req, nil); err != nil {
		return fmt.Errorf("client.Register: %w", err)
	}
	return nil
}

// GetMe returns the authenticated user's profile.
func (c *Client) GetMe(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.call(ctx, http.MethodGet, "/users/me", nil, nil, &u); err != nil {
		return nil, fmt.Errorf("client.GetMe: %w", err)
	}
	return &u, nil
}

// GetMeWithToken fetches the profile for an explicit token, bypassing the
// header source. Used to validate a token before it becomes the session.
func (c *Client) GetMeWithToken(ctx context.Context, token string) (*domain.User, error) {
	var u domain.User
	if err := c.send(ctx, http.MethodGet, c.url("/users/me", nil), bearerHeaders(token), nil, &u); err != nil {
		return nil, fmt.Errorf("client.GetMeWithToken: %w", err)
	}
	return &u, nil
}

// UpdateUser applies a partial profile update and returns the stored profile.
func (c *Client) UpdateUser(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	var u domain.User
	if err := c.call(ctx, http.MethodPut, "/users/"+strconv.FormatInt(id, 10), nil, upd, &u); err != nil {
		return nil, fmt.Errorf("client.UpdateUser: %w", err)
	}
	return &u, nil
}
