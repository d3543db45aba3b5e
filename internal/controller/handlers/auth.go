package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/controller/state"
	"github.com/pratihub/pratihub_bot/internal/service"
)

// ========================
// Login
// ========================

// HandleLogin начинает вход: e-mail, затем пароль
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.begin(ctx, update, "command")
	if !ok {
		return
	}

	if sess, err := h.deps.Sessions.Get(ctx, chatID); err == nil {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("Você já está conectado como <b>%s</b>.\n\nPara trocar de conta use /logout", html.EscapeString(sess.UserName)))
		return
	}

	h.stateManager.ClearState(chatID)
	h.stateManager.SetState(chatID, state.StateLoginEmail)
	h.sendMessage(ctx, b, chatID, "🔑 <b>Entrar</b>\n\nDigite o seu e-mail:\n\n/cancelar para desistir")
}

func (h *Handlers) handleLoginEmail(ctx context.Context, b *bot.Bot, chatID int64, email string) {
	h.stateManager.SetData(chatID, state.KeyEmail, email)
	h.stateManager.SetState(chatID, state.StateLoginPassword)
	h.sendMessage(ctx, b, chatID, "Agora digite a sua senha.\n\n🔒 A mensagem com a senha será apagada.")
}

func (h *Handlers) handleLoginPassword(ctx context.Context, b *bot.Bot, msg *models.Message) {
	chatID := msg.Chat.ID
	password := msg.Text
	h.deleteMessage(ctx, b, msg)

	email := h.stateManager.GetString(chatID, state.KeyEmail)
	if email == "" {
		h.stateManager.ClearState(chatID)
		h.sendMessage(ctx, b, chatID, "❌ Dados perdidos. Comece novamente com /login")
		return
	}

	sess, err := h.deps.AuthService.Login(ctx, chatID, email, password)
	if err != nil {
		h.logger.Info("Login failed", zap.Int64("chat_id", chatID), zap.Error(err))

		var validation *service.ValidationError
		switch {
		case errors.As(err, &validation):
			h.sendError(ctx, b, chatID, err)
		case errors.Is(err, api.ErrUnauthorized), errors.Is(err, api.ErrNotFound), errors.Is(err, api.ErrValidation):
			h.sendMessage(ctx, b, chatID, "❌ E-mail ou senha inválidos.")
		case errors.Is(err, api.ErrForbidden):
			h.sendMessage(ctx, b, chatID, "⛔ Conta desativada. Procure o administrador.")
		default:
			h.sendError(ctx, b, chatID, err)
		}

		// начинаем сначала
		h.stateManager.ClearState(chatID)
		h.stateManager.SetState(chatID, state.StateLoginEmail)
		h.sendMessage(ctx, b, chatID, "Digite o seu e-mail novamente ou /cancelar:")
		return
	}

	h.stateManager.ClearState(chatID)

	text, kb := common.BuildMainMenuScreen(sess)
	h.sendScreen(ctx, b, chatID, fmt.Sprintf("✅ Bem-vindo, <b>%s</b>!\n\n", html.EscapeString(sess.UserName))+text, kb)
}

// ========================
// Registration
// ========================

// HandleRegister начинает регистрацию студента: имя, e-mail, пароль
func (h *Handlers) HandleRegister(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.begin(ctx, update, "command")
	if !ok {
		return
	}

	h.stateManager.ClearState(chatID)
	h.stateManager.SetState(chatID, state.StateRegisterName)
	h.sendMessage(ctx, b, chatID, "📝 <b>Criar conta</b>\n\nPasso 1 de 3: digite o seu nome completo:\n\n/cancelar para desistir")
}

func (h *Handlers) handleRegisterName(ctx context.Context, b *bot.Bot, chatID int64, name string) {
	if len([]rune(name)) < 3 {
		h.sendMessage(ctx, b, chatID, "⚠️ O nome deve ter pelo menos 3 caracteres. Tente novamente:")
		return
	}

	h.stateManager.SetData(chatID, state.KeyName, name)
	h.stateManager.SetState(chatID, state.StateRegisterEmail)
	h.sendMessage(ctx, b, chatID, "Passo 2 de 3: digite o seu e-mail:")
}

func (h *Handlers) handleRegisterEmail(ctx context.Context, b *bot.Bot, chatID int64, email string) {
	h.stateManager.SetData(chatID, state.KeyEmail, email)
	h.stateManager.SetState(chatID, state.StateRegisterPassword)
	h.sendMessage(ctx, b, chatID, "Passo 3 de 3: crie uma senha (mínimo 6 caracteres).\n\n🔒 A mensagem com a senha será apagada.")
}

func (h *Handlers) handleRegisterPassword(ctx context.Context, b *bot.Bot, msg *models.Message) {
	chatID := msg.Chat.ID
	password := msg.Text
	h.deleteMessage(ctx, b, msg)

	data := h.stateManager.GetAllData(chatID)
	name, _ := data[state.KeyName].(string)
	email, _ := data[state.KeyEmail].(string)

	if err := h.deps.AuthService.Register(ctx, name, email, password); err != nil {
		h.logger.Info("Registration failed", zap.Int64("chat_id", chatID), zap.Error(err))

		var validation *service.ValidationError
		if errors.As(err, &validation) {
			// ошибка ввода: имя и e-mail спрашиваем заново
			h.sendError(ctx, b, chatID, err)
			h.stateManager.ClearState(chatID)
			h.stateManager.SetState(chatID, state.StateRegisterName)
			h.sendMessage(ctx, b, chatID, "Vamos tentar de novo. Digite o seu nome completo:")
			return
		}

		h.stateManager.ClearState(chatID)
		if errors.Is(err, api.ErrConflict) {
			h.sendMessage(ctx, b, chatID, "❌ Este e-mail já está cadastrado. Entre com /login")
			return
		}
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.stateManager.ClearState(chatID)
	h.sendMessage(ctx, b, chatID, "✅ Conta criada!\n\nAgora entre com /login")
}

// ========================
// Password recovery
// ========================

// HandleForgotPassword /esqueci: запрос письма со ссылкой сброса
func (h *Handlers) HandleForgotPassword(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.begin(ctx, update, "command")
	if !ok {
		return
	}

	h.stateManager.ClearState(chatID)
	h.stateManager.SetState(chatID, state.StateForgotEmail)
	h.sendMessage(ctx, b, chatID, "🔑 <b>Recuperar senha</b>\n\nDigite o e-mail da sua conta:\n\n/cancelar para desistir")
}

func (h *Handlers) handleForgotEmail(ctx context.Context, b *bot.Bot, chatID int64, email string) {
	if err := h.deps.AuthService.ForgotPassword(ctx, email); err != nil {
		var validation *service.ValidationError
		if errors.As(err, &validation) {
			h.sendError(ctx, b, chatID, err)
			return
		}
		// не раскрываем, существует ли аккаунт
		if !errors.Is(err, api.ErrNotFound) {
			h.logger.Warn("Forgot password failed", zap.Int64("chat_id", chatID), zap.Error(err))
			h.stateManager.ClearState(chatID)
			h.sendError(ctx, b, chatID, err)
			return
		}
	}

	h.stateManager.ClearState(chatID)
	h.sendMessage(ctx, b, chatID, "📧 Se o e-mail estiver cadastrado, você receberá um código de recuperação.\n\nDepois use /redefinir")
}

// HandleResetPassword /redefinir: код из письма и новый пароль
func (h *Handlers) HandleResetPassword(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.begin(ctx, update, "command")
	if !ok {
		return
	}

	h.stateManager.ClearState(chatID)
	h.stateManager.SetState(chatID, state.StateResetToken)
	h.sendMessage(ctx, b, chatID, "🔑 <b>Redefinir senha</b>\n\nCole o código recebido por e-mail:\n\n/cancelar para desistir")
}

func (h *Handlers) handleResetToken(ctx context.Context, b *bot.Bot, chatID int64, token string) {
	h.stateManager.SetData(chatID, state.KeyToken, token)
	h.stateManager.SetState(chatID, state.StateResetPassword)
	h.sendMessage(ctx, b, chatID, "Digite a nova senha (mínimo 6 caracteres).\n\n🔒 A mensagem com a senha será apagada.")
}

func (h *Handlers) handleResetPassword(ctx context.Context, b *bot.Bot, msg *models.Message) {
	chatID := msg.Chat.ID
	password := msg.Text
	h.deleteMessage(ctx, b, msg)

	token := h.stateManager.GetString(chatID, state.KeyToken)
	if err := h.deps.AuthService.ResetPassword(ctx, token, password); err != nil {
		var validation *service.ValidationError
		if errors.As(err, &validation) {
			h.sendError(ctx, b, chatID, err)
			h.sendMessage(ctx, b, chatID, "Digite a nova senha novamente:")
			return
		}

		h.stateManager.ClearState(chatID)
		if errors.Is(err, api.ErrValidation) || errors.Is(err, api.ErrNotFound) || errors.Is(err, api.ErrUnauthorized) {
			h.sendMessage(ctx, b, chatID, "❌ Código inválido ou expirado. Solicite outro com /esqueci")
			return
		}
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.stateManager.ClearState(chatID)
	h.sendMessage(ctx, b, chatID, "✅ Senha redefinida! Entre com /login")
}
