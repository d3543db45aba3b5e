package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
	"github.com/pratihub/pratihub_bot/internal/controller/handlers"
	"github.com/pratihub/pratihub_bot/internal/controller/state"
	"github.com/pratihub/pratihub_bot/internal/session"
)

// Metrics счётчики, которые обновляет контроллер
type Metrics interface {
	ObserveUpdate(kind string)
	ObserveSessionEnd(reason string)
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	stateManager    *state.Manager
	notifier        *Notifier
	logger          *zap.Logger
}

// NewBotController собирает обработчики. deps.StateManager заполняется здесь.
func NewBotController(
	botInstance *bot.Bot,
	deps callbacktypes.Handler,
	metrics Metrics,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()
	deps.StateManager = stateManager

	cmdHandlers := handlers.NewHandlers(&deps, stateManager, metrics.ObserveUpdate)
	callbackHandler := callbacks.NewHandler(&deps, metrics.ObserveUpdate)
	notifier := NewNotifier(botInstance, deps.Logger)

	c := &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		stateManager:    stateManager,
		notifier:        notifier,
		logger:          deps.Logger,
	}

	// Сессия закрыта фоном: сбрасываем диалог и сообщаем пользователю
	deps.Sessions.OnSessionEnd(func(ctx context.Context, chatID int64, reason session.Reason) {
		metrics.ObserveSessionEnd(string(reason))
		stateManager.ClearState(chatID)
		notifier.NotifySessionEnd(ctx, chatID, reason)
	})

	return c
}

// Notifier доставка фоновых событий, для подписок поллера
func (c *BotController) Notifier() *Notifier {
	return c.notifier
}

// States менеджер диалогов, для периодической очистки
func (c *BotController) States() *state.Manager {
	return c.stateManager
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	commands := map[string]bot.HandlerFunc{
		"/start":        c.handlers.HandleStart,
		"/help":         c.handlers.HandleHelp,
		"/cancelar":     c.handlers.HandleCancel,
		"/login":        c.handlers.HandleLogin,
		"/registrar":    c.handlers.HandleRegister,
		"/esqueci":      c.handlers.HandleForgotPassword,
		"/redefinir":    c.handlers.HandleResetPassword,
		"/logout":       c.handlers.HandleLogout,
		"/perfil":       c.handlers.HandleProfile,
		"/horarios":     c.handlers.HandleSchedule,
		"/reunioes":     c.handlers.HandleMeetings,
		"/equipe":       c.handlers.HandleTeam,
		"/kanban":       c.handlers.HandleKanban,
		"/notificacoes": c.handlers.HandleNotifications,
		"/forum":        c.handlers.HandleForum,
		"/humor":        c.handlers.HandleHumor,
		"/usuarios":     c.handlers.HandleUsers,
	}
	for pattern, handler := range commands {
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, pattern, bot.MatchTypeExact, handler)
	}

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Início"},
		{Command: "login", Description: "🔑 Entrar"},
		{Command: "horarios", Description: "🗓 Horários e agendamento"},
		{Command: "reunioes", Description: "📋 Minhas reuniões"},
		{Command: "equipe", Description: "👥 Equipe"},
		{Command: "kanban", Description: "📌 Kanban do projeto"},
		{Command: "notificacoes", Description: "🔔 Notificações"},
		{Command: "forum", Description: "💬 Fórum"},
		{Command: "perfil", Description: "👤 Meu perfil"},
		{Command: "humor", Description: "😊 Como estou hoje"},
		{Command: "usuarios", Description: "🛠 Usuários (administrador)"},
		{Command: "registrar", Description: "📝 Criar conta"},
		{Command: "esqueci", Description: "❓ Esqueci minha senha"},
		{Command: "logout", Description: "🚪 Sair"},
		{Command: "cancelar", Description: "✖️ Cancelar operação"},
		{Command: "help", Description: "📚 Ajuda"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота, блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
