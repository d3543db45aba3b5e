package callbacktypes

import (
	"time"

	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/service"
	"github.com/pratihub/pratihub_bot/internal/session"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

// StateManager интерфейс для управления состоянием чатов
type StateManager interface {
	ClearState(chatID int64)
	GetState(chatID int64) UserState
	SetState(chatID int64, state UserState)
	SetData(chatID int64, key string, value interface{})
	GetData(chatID int64, key string) (interface{}, bool)
	GetAllData(chatID int64) map[string]interface{}
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	Sessions            *session.Manager
	AuthService         *service.AuthService
	AvailabilityService *service.AvailabilityService
	BookingService      *service.BookingService
	MeetingService      *service.MeetingService
	TeamService         *service.TeamService
	ProgressService     *service.ProgressService
	NotificationService *service.NotificationService
	ForumService        *service.ForumService
	UserService         *service.UserService
	StateManager        StateManager
	Location            *time.Location
	Logger              *zap.Logger
}
