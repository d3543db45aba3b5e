package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/model"
)

type TeamService struct {
	client   *api.Client
	validate *Validator
	logger   *zap.Logger
}

func NewTeamService(client *api.Client, validate *Validator, logger *zap.Logger) *TeamService {
	return &TeamService{
		client:   client,
		validate: validate,
		logger:   logger,
	}
}

type teamName struct {
	Name string `json:"name" validate:"required,min=3,max=60"`
}

func (s *TeamService) List(ctx context.Context, ts api.TokenSource) ([]model.Team, error) {
	teams, err := s.client.WithTokens(ts).ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (s *TeamService) Get(ctx context.Context, ts api.TokenSource, id model.ID) (*model.Team, error) {
	team, err := s.client.WithTokens(ts).GetTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	return team, nil
}

// MyTeam команда пользователя, nil если он ни в одной не состоит
func (s *TeamService) MyTeam(ctx context.Context, ts api.TokenSource, userID model.ID) (*model.Team, error) {
	teams, err := s.List(ctx, ts)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		if teams[i].HasMember(userID) {
			return &teams[i], nil
		}
	}
	return nil, nil
}

// Create создаёт команду с автором в качестве первого участника
func (s *TeamService) Create(ctx context.Context, ts api.TokenSource, owner *model.Session, name string) (*model.Team, error) {
	if err := s.validate.Struct(teamName{Name: name}); err != nil {
		return nil, err
	}

	existing, err := s.MyTeam(ctx, ts, owner.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyInTeam
	}

	team, err := s.client.WithTokens(ts).CreateTeam(ctx, model.Team{
		Name: name,
		Members: []model.TeamMember{
			{UserID: owner.UserID, Name: owner.UserName, Role: "leader"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}

	s.logger.Info("Team created",
		zap.String("team_id", team.ID.String()),
		zap.String("owner_id", owner.UserID.String()))
	return team, nil
}

// Rename меняет название команды
func (s *TeamService) Rename(ctx context.Context, ts api.TokenSource, team model.Team, name string) (*model.Team, error) {
	if err := s.validate.Struct(teamName{Name: name}); err != nil {
		return nil, err
	}

	team.Name = name
	updated, err := s.client.WithTokens(ts).UpdateTeam(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("rename team: %w", err)
	}
	return updated, nil
}

// AddMember добавляет пользователя, если он ещё не состоит в другой команде
func (s *TeamService) AddMember(ctx context.Context, ts api.TokenSource, teamID model.ID, user model.User) (*model.Team, error) {
	current, err := s.MyTeam(ctx, ts, user.ID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return nil, ErrAlreadyInTeam
	}

	team, err := s.client.WithTokens(ts).AddTeamMember(ctx, teamID, model.TeamMember{
		UserID: user.ID,
		Name:   user.Name,
		Role:   "member",
	})
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}

	s.logger.Info("Team member added",
		zap.String("team_id", teamID.String()),
		zap.String("user_id", user.ID.String()))
	return team, nil
}

// RemoveMember исключает участника из команды
func (s *TeamService) RemoveMember(ctx context.Context, ts api.TokenSource, team model.Team, userID model.ID) error {
	if !team.HasMember(userID) {
		return ErrNotTeamMember
	}
	if err := s.client.WithTokens(ts).RemoveTeamMember(ctx, team.ID, userID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	s.logger.Info("Team member removed",
		zap.String("team_id", team.ID.String()),
		zap.String("user_id", userID.String()))
	return nil
}
