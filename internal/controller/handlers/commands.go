package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/appointments"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/forum"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/notifications"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/profile"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/schedule"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/team"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/users"
	"github.com/pratihub/pratihub_bot/internal/controller/state"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/session"
)

const helpText = "📚 <b>Comandos</b>\n\n" +
	"/login - Entrar\n" +
	"/registrar - Criar conta de estudante\n" +
	"/esqueci - Esqueci minha senha\n" +
	"/redefinir - Redefinir senha com o código do e-mail\n" +
	"/logout - Sair\n\n" +
	"/horarios - Horários e agendamento\n" +
	"/reunioes - Minhas reuniões\n" +
	"/equipe - Equipe\n" +
	"/kanban - Kanban do projeto\n" +
	"/notificacoes - Notificações\n" +
	"/forum - Fórum\n" +
	"/perfil - Meu perfil\n" +
	"/humor - Como estou hoje\n" +
	"/usuarios - Usuários (administrador)\n\n" +
	"/cancelar - Cancelar a operação atual"

// screenBuilder строит экран для вошедшего пользователя
type screenBuilder func(ctx context.Context, sess *model.Session) (string, *models.InlineKeyboardMarkup, error)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.begin(ctx, update, "command")
	if !ok {
		return
	}

	sess, err := h.deps.Sessions.Get(ctx, chatID)
	if err == nil {
		text, kb := common.BuildMainMenuScreen(sess)
		h.sendScreen(ctx, b, chatID, text, kb)
		return
	}
	if !errors.Is(err, session.ErrNotLoggedIn) {
		h.logger.Error("Failed to get session", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	name := "estudante"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}
	welcome := fmt.Sprintf("👋 Olá, %s!\n\n"+
		"Bem-vindo ao <b>+praTiHub</b>: agende reuniões, acompanhe o projeto da sua equipe e participe do fórum.\n\n"+
		"Entre com /login ou crie uma conta com /registrar.\n"+
		"Ajuda: /help", html.EscapeString(name))
	h.sendMessage(ctx, b, chatID, welcome)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.begin(ctx, update, "command")
	if !ok {
		return
	}
	h.sendMessage(ctx, b, chatID, helpText)
}

// HandleCancel обрабатывает команду /cancelar - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.begin(ctx, update, "command")
	if !ok {
		return
	}

	if h.stateManager.GetState(chatID) == state.StateNone {
		h.sendMessage(ctx, b, chatID, "❌ Nenhuma operação em andamento.")
		return
	}

	h.stateManager.ClearState(chatID)
	h.sendMessage(ctx, b, chatID, "✅ Operação cancelada.\n\nUse /help para ver os comandos.")
}

// HandleLogout обрабатывает команду /logout
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.begin(ctx, update, "command")
	if !ok {
		return
	}

	h.stateManager.ClearState(chatID)
	if err := h.deps.Sessions.Logout(ctx, chatID); err != nil {
		if errors.Is(err, session.ErrNotLoggedIn) {
			h.sendMessage(ctx, b, chatID, "Você não está conectado. Entre com /login")
			return
		}
		h.logger.Error("Failed to logout", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.sendMessage(ctx, b, chatID, "👋 Você saiu da sua conta. Até logo!")
}

// HandleProfile обрабатывает команду /perfil
func (h *Handlers) HandleProfile(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.screenCommand(ctx, b, update, false, func(ctx context.Context, sess *model.Session) (string, *models.InlineKeyboardMarkup, error) {
		user, err := h.deps.Sessions.CurrentUser(ctx, sess.ChatID)
		if err != nil {
			return "", nil, err
		}
		text, kb := common.BuildProfileScreen(user)
		return text, kb, nil
	})
}

// HandleSchedule обрабатывает команду /horarios
func (h *Handlers) HandleSchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.screenCommand(ctx, b, update, false, func(ctx context.Context, sess *model.Session) (string, *models.InlineKeyboardMarkup, error) {
		return schedule.CalendarScreen(ctx, h.deps, sess, 0)
	})
}

// HandleMeetings обрабатывает команду /reunioes
func (h *Handlers) HandleMeetings(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.screenCommand(ctx, b, update, false, func(ctx context.Context, sess *model.Session) (string, *models.InlineKeyboardMarkup, error) {
		return appointments.Screen(ctx, h.deps, sess)
	})
}

// HandleTeam обрабатывает команду /equipe
func (h *Handlers) HandleTeam(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.screenCommand(ctx, b, update, false, func(ctx context.Context, sess *model.Session) (string, *models.InlineKeyboardMarkup, error) {
		return team.Screen(ctx, h.deps, sess)
	})
}

// HandleKanban обрабатывает команду /kanban
func (h *Handlers) HandleKanban(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.screenCommand(ctx, b, update, false, func(ctx context.Context, sess *model.Session) (string, *models.InlineKeyboardMarkup, error) {
		if sess.IsAdmin() {
			// у администратора нет своей команды, доски открываются из списка команд
			return team.TeamsScreen(ctx, h.deps, sess, 0)
		}
		return team.KanbanScreen(ctx, h.deps, sess)
	})
}

// HandleNotifications обрабатывает команду /notificacoes
func (h *Handlers) HandleNotifications(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.screenCommand(ctx, b, update, false, func(ctx context.Context, sess *model.Session) (string, *models.InlineKeyboardMarkup, error) {
		return notifications.Screen(ctx, h.deps, sess, 0)
	})
}

// HandleForum обрабатывает команду /forum
func (h *Handlers) HandleForum(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.screenCommand(ctx, b, update, false, func(ctx context.Context, sess *model.Session) (string, *models.InlineKeyboardMarkup, error) {
		return forum.Screen(ctx, h.deps, sess, 0)
	})
}

// HandleHumor обрабатывает команду /humor
func (h *Handlers) HandleHumor(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.screenCommand(ctx, b, update, false, func(ctx context.Context, sess *model.Session) (string, *models.InlineKeyboardMarkup, error) {
		return profile.HumorScreen(ctx, h.deps, sess)
	})
}

// HandleUsers обрабатывает команду /usuarios
func (h *Handlers) HandleUsers(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.screenCommand(ctx, b, update, true, func(ctx context.Context, sess *model.Session) (string, *models.InlineKeyboardMarkup, error) {
		return users.Screen(ctx, h.deps, sess, 0)
	})
}

// screenCommand общая обвязка команд, которые показывают экран
func (h *Handlers) screenCommand(ctx context.Context, b *bot.Bot, update *models.Update, adminOnly bool, build screenBuilder) {
	chatID, ok := h.begin(ctx, update, "command")
	if !ok {
		return
	}

	var sess *model.Session
	if adminOnly {
		sess, ok = h.requireAdmin(ctx, b, chatID)
	} else {
		sess, ok = h.requireSession(ctx, b, chatID)
	}
	if !ok {
		return
	}

	// новая команда прерывает незаконченный диалог
	h.stateManager.SetState(chatID, state.StateNone)

	text, kb, err := build(ctx, sess)
	if err != nil {
		h.logger.Warn("Failed to build screen",
			zap.Int64("chat_id", chatID),
			zap.String("command", update.Message.Text),
			zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}
	h.sendScreen(ctx, b, chatID, text, kb)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния чата
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	chatID, _ := h.begin(ctx, update, "message")
	currentState := h.stateManager.GetState(chatID)

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("chat_id", chatID),
		zap.String("state", string(currentState)))

	if currentState == state.StateNone {
		h.sendMessage(ctx, b, chatID, "Não entendi 🤔\n\nUse /help para ver os comandos.")
		return
	}

	text := strings.TrimSpace(update.Message.Text)

	switch currentState {
	// Вход и регистрация
	case state.StateLoginEmail:
		h.handleLoginEmail(ctx, b, chatID, text)
	case state.StateLoginPassword:
		h.handleLoginPassword(ctx, b, update.Message)
	case state.StateRegisterName:
		h.handleRegisterName(ctx, b, chatID, text)
	case state.StateRegisterEmail:
		h.handleRegisterEmail(ctx, b, chatID, text)
	case state.StateRegisterPassword:
		h.handleRegisterPassword(ctx, b, update.Message)
	case state.StateForgotEmail:
		h.handleForgotEmail(ctx, b, chatID, text)
	case state.StateResetToken:
		h.handleResetToken(ctx, b, chatID, text)
	case state.StateResetPassword:
		h.handleResetPassword(ctx, b, update.Message)

	// Остальные диалоги требуют сессии
	case state.StateProfileName:
		h.withSession(ctx, b, chatID, text, h.handleProfileName)
	case state.StateTeamName:
		h.withSession(ctx, b, chatID, text, h.handleTeamName)
	case state.StateTeamRename:
		h.withSession(ctx, b, chatID, text, h.handleTeamRename)
	case state.StateTeamAddMember:
		h.withSession(ctx, b, chatID, text, h.handleTeamAddMember)
	case state.StateForumTitle:
		h.withSession(ctx, b, chatID, text, h.handleForumTitle)
	case state.StateForumContent:
		h.withSession(ctx, b, chatID, text, h.handleForumContent)
	case state.StateForumComment:
		h.withSession(ctx, b, chatID, text, h.handleForumComment)
	case state.StateNotifyTitle:
		h.withSession(ctx, b, chatID, text, h.handleNotifyTitle)
	case state.StateNotifyMessage:
		h.withSession(ctx, b, chatID, text, h.handleNotifyMessage)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(chatID)
	}
}

// dialogStep шаг диалога вошедшего пользователя
type dialogStep func(ctx context.Context, b *bot.Bot, sess *model.Session, text string)

func (h *Handlers) withSession(ctx context.Context, b *bot.Bot, chatID int64, text string, step dialogStep) {
	sess, ok := h.requireSession(ctx, b, chatID)
	if !ok {
		h.stateManager.ClearState(chatID)
		return
	}
	step(ctx, b, sess, text)
}
