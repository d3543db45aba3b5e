package api

import (
	"context"
	"net/http"

	"github.com/pratihub/pratihub_bot/internal/model"
)

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id model.ID) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, pathOf("users", id.String()), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id model.ID, upd model.UserUpdate) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPatch, pathOf("users", id.String()), nil, upd, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ActivateUser(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodPatch, pathOf("users", id.String(), "activate"), nil, nil, nil)
}

func (c *Client) DeactivateUser(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodPatch, pathOf("users", id.String(), "deactivate"), nil, nil, nil)
}

func (c *Client) SetEmotionalStatus(ctx context.Context, id model.ID, status string) error {
	body := map[string]string{"emotionalStatus": status}
	return c.do(ctx, http.MethodPatch, pathOf("users", id.String(), "emotional-status"), nil, body, nil)
}
