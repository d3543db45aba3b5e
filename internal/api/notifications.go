package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pratihub/pratihub_bot/internal/model"
)

func (c *Client) ListNotifications(ctx context.Context, userID model.ID) ([]model.Notification, error) {
	query := url.Values{}
	query.Set("userId", userID.String())

	var items []model.Notification
	if err := c.do(ctx, http.MethodGet, "/notifications", query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateNotification(ctx context.Context, n model.NewNotification) (*model.Notification, error) {
	var created model.Notification
	if err := c.do(ctx, http.MethodPost, "/notifications", nil, n, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id model.ID) error {
	body := map[string]bool{"read": true}
	return c.do(ctx, http.MethodPatch, pathOf("notifications", id.String()), nil, body, nil)
}

func (c *Client) DeleteNotification(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodDelete, pathOf("notifications", id.String()), nil, nil, nil)
}
