package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/repository/base"
)

// SessionRepository хранит сессии чатов в PostgreSQL
type SessionRepository struct {
	*base.Repository
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(pool)}
}

const sessionColumns = `chat_id, access_token, refresh_token, user_id, user_name, user_type, last_activity, updated_at`

// Get получает сессию чата, nil если её нет
func (r *SessionRepository) Get(ctx context.Context, chatID int64) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM bot_sessions WHERE chat_id = $1`

	s, err := scanSession(r.QueryRow(ctx, query, chatID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// Save создаёт или перезаписывает сессию чата
func (r *SessionRepository) Save(ctx context.Context, s *model.Session) error {
	query := `
		INSERT INTO bot_sessions (chat_id, access_token, refresh_token, user_id, user_name, user_type, last_activity, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (chat_id) DO UPDATE SET
			access_token  = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			user_id       = EXCLUDED.user_id,
			user_name     = EXCLUDED.user_name,
			user_type     = EXCLUDED.user_type,
			last_activity = EXCLUDED.last_activity,
			updated_at    = NOW()
	`

	_, err := r.Exec(ctx, query,
		s.ChatID,
		s.AccessToken,
		s.RefreshToken,
		s.UserID.String(),
		s.UserName,
		string(s.UserType),
		s.LastActivity,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// UpdateTokens записывает новую пару токенов
func (r *SessionRepository) UpdateTokens(ctx context.Context, chatID int64, pair model.TokenPair) error {
	query := `
		UPDATE bot_sessions
		SET access_token = $2, refresh_token = $3, updated_at = NOW()
		WHERE chat_id = $1
	`

	if _, err := r.Exec(ctx, query, chatID, pair.AccessToken, pair.RefreshToken); err != nil {
		return fmt.Errorf("update tokens: %w", err)
	}
	return nil
}

// Touch обновляет время последней активности
func (r *SessionRepository) Touch(ctx context.Context, chatID int64, at time.Time) error {
	query := `UPDATE bot_sessions SET last_activity = $2 WHERE chat_id = $1`

	if _, err := r.Exec(ctx, query, chatID, at); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Delete удаляет сессию чата
func (r *SessionRepository) Delete(ctx context.Context, chatID int64) error {
	if _, err := r.Exec(ctx, `DELETE FROM bot_sessions WHERE chat_id = $1`, chatID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// List возвращает все сессии
func (r *SessionRepository) List(ctx context.Context) ([]*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM bot_sessions ORDER BY chat_id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

func scanSession(row pgx.Row) (*model.Session, error) {
	var (
		s        model.Session
		userID   string
		userType string
	)
	err := row.Scan(
		&s.ChatID,
		&s.AccessToken,
		&s.RefreshToken,
		&userID,
		&s.UserName,
		&userType,
		&s.LastActivity,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.UserID = model.ID(userID)
	s.UserType = model.UserType(userType)
	return &s, nil
}
