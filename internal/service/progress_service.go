package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/model"
)

// ProgressService канбан проекта команды
type ProgressService struct {
	client *api.Client
	logger *zap.Logger
}

func NewProgressService(client *api.Client, logger *zap.Logger) *ProgressService {
	return &ProgressService{client: client, logger: logger}
}

// Board доска команды, создаётся с фиксированными фазами в статусе TODO если её нет
func (s *ProgressService) Board(ctx context.Context, ts api.TokenSource, teamID model.ID) (*model.ProjectProgress, error) {
	c := s.client.WithTokens(ts)

	board, err := c.GetProjectProgress(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}
	if board != nil {
		return board, nil
	}

	phases := make([]model.Phase, len(model.DefaultPhases))
	for i, name := range model.DefaultPhases {
		phases[i] = model.Phase{Name: name, Status: model.PhaseStatusTodo}
	}

	board, err = c.CreateProjectProgress(ctx, model.ProjectProgress{TeamID: teamID, Phases: phases})
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	s.logger.Info("Project board created", zap.String("team_id", teamID.String()))
	return board, nil
}

// Advance переводит фазу в следующий статус (TODO -> IN_PROGRESS -> DONE -> TODO)
func (s *ProgressService) Advance(ctx context.Context, ts api.TokenSource, board model.ProjectProgress, phase int) (*model.ProjectProgress, error) {
	if phase < 0 || phase >= len(board.Phases) {
		return nil, fmt.Errorf("phase %d: %w", phase, ErrValidation)
	}

	phases := make([]model.Phase, len(board.Phases))
	copy(phases, board.Phases)
	phases[phase].Status = phases[phase].Status.Next()

	updated, err := s.client.WithTokens(ts).UpdateProjectProgress(ctx, board.ID, phases)
	if err != nil {
		return nil, fmt.Errorf("update board: %w", err)
	}

	// бэкенд может вернуть пустое тело
	if updated == nil || len(updated.Phases) == 0 {
		board.Phases = phases
		return &board, nil
	}
	return updated, nil
}
