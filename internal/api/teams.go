package api

import (
	"context"
	"net/http"

	"github.com/pratihub/pratihub_bot/internal/model"
)

func (c *Client) ListTeams(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	if err := c.do(ctx, http.MethodGet, "/teams", nil, nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (c *Client) GetTeam(ctx context.Context, id model.ID) (*model.Team, error) {
	var team model.Team
	if err := c.do(ctx, http.MethodGet, pathOf("teams", id.String()), nil, nil, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

func (c *Client) CreateTeam(ctx context.Context, team model.Team) (*model.Team, error) {
	var created model.Team
	if err := c.do(ctx, http.MethodPost, "/teams", nil, team, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTeam заменяет команду целиком (PUT)
func (c *Client) UpdateTeam(ctx context.Context, team model.Team) (*model.Team, error) {
	var updated model.Team
	if err := c.do(ctx, http.MethodPut, pathOf("teams", team.ID.String()), nil, team, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) AddTeamMember(ctx context.Context, teamID model.ID, member model.TeamMember) (*model.Team, error) {
	var updated model.Team
	if err := c.do(ctx, http.MethodPost, pathOf("teams", teamID.String(), "members"), nil, member, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) RemoveTeamMember(ctx context.Context, teamID, userID model.ID) error {
	return c.do(ctx, http.MethodDelete, pathOf("teams", teamID.String(), "members", userID.String()), nil, nil, nil)
}
