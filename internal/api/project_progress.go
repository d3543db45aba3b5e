package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pratihub/pratihub_bot/internal/model"
)

// GetProjectProgress возвращает доску команды или nil, если её ещё нет
func (c *Client) GetProjectProgress(ctx context.Context, teamID model.ID) (*model.ProjectProgress, error) {
	query := url.Values{}
	query.Set("teamId", teamID.String())

	var boards []model.ProjectProgress
	if err := c.do(ctx, http.MethodGet, "/projectProgress", query, nil, &boards); err != nil {
		return nil, err
	}
	for i := range boards {
		if boards[i].TeamID == teamID {
			return &boards[i], nil
		}
	}
	return nil, nil
}

func (c *Client) CreateProjectProgress(ctx context.Context, progress model.ProjectProgress) (*model.ProjectProgress, error) {
	var created model.ProjectProgress
	if err := c.do(ctx, http.MethodPost, "/projectProgress", nil, progress, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateProjectProgress(ctx context.Context, id model.ID, phases []model.Phase) (*model.ProjectProgress, error) {
	body := map[string]interface{}{"phases": phases}

	var updated model.ProjectProgress
	if err := c.do(ctx, http.MethodPatch, pathOf("projectProgress", id.String()), nil, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
