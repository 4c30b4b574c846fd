package doclytics

import (
	"context"
	"net/http"

	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
)

// Login and Register run outside the retry executor: credential failures
// should neither be retried nor trip the breaker shared with data traffic.

func (c *Client) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	payload := map[string]string{"email": email, "password": password}

	var session domain.Session
	if err := c.doJSON(ctx, http.MethodPost, "/users/login", payload, &session, "login"); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*domain.Session, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}

	var session domain.Session
	if err := c.doJSON(ctx, http.MethodPost, "/users/register", payload, &session, "register"); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	err := c.exec.Execute(ctx, "me", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodGet, "/users/me", nil, &user, "fetch profile")
	}, classifyIdempotent)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name string) (*domain.User, error) {
	payload := map[string]string{"name": name}

	var user domain.User
	err := c.exec.Execute(ctx, "update_profile", func(ctx context.Context) error {
		return c.doJSON(ctx, http.MethodPatch, "/users/me", payload, &user, "update profile")
	}, classifyIdempotent)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
