package state

import (
	"time"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
)

// UserState общий тип состояния, чтобы Manager напрямую реализовывал callbacktypes.StateManager
type UserState = callbacktypes.UserState

const (
	StateNone UserState = "" // Нет активного состояния

	// Вход и регистрация
	StateLoginEmail       UserState = "login_email"
	StateLoginPassword    UserState = "login_password"
	StateRegisterName     UserState = "register_name"
	StateRegisterEmail    UserState = "register_email"
	StateRegisterPassword UserState = "register_password"
	StateForgotEmail      UserState = "forgot_email"
	StateResetToken       UserState = "reset_token"
	StateResetPassword    UserState = "reset_password"

	// Профиль
	StateProfileName UserState = "profile_name"

	// Команда
	StateTeamName      UserState = "team_name"
	StateTeamRename    UserState = "team_rename"
	StateTeamAddMember UserState = "team_add_member"

	// Форум
	StateForumTitle   UserState = "forum_title"
	StateForumContent UserState = "forum_content"
	StateForumComment UserState = "forum_comment"

	// Уведомления (администратор)
	StateNotifyTitle   UserState = "notify_title"
	StateNotifyMessage UserState = "notify_message"
)

// Ключи временных данных диалогов
const (
	KeyEmail    = "email"
	KeyName     = "name"
	KeyToken    = "token"
	KeyTitle    = "title"
	KeyPostID   = "post_id"
	KeyTeamID   = "team_id"
	KeyTargetID = "target_id"
	KeyDayGrid  = "day_grid"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State     UserState
	Data      map[string]interface{} // Временные данные для текущего диалога
	UpdatedAt time.Time
}
