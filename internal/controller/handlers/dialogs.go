package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/forum"
	"github.com/pratihub/pratihub_bot/internal/controller/state"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/service"
)

// ========================
// Profile
// ========================

func (h *Handlers) handleProfileName(ctx context.Context, b *bot.Bot, sess *model.Session, name string) {
	user, err := h.deps.UserService.Rename(ctx, h.deps.Sessions.Source(sess.ChatID), sess.UserID, name)
	if err != nil {
		h.retryOrAbort(ctx, b, sess.ChatID, err, "Digite o nome novamente ou /cancelar:")
		return
	}

	h.stateManager.ClearState(sess.ChatID)
	h.logger.Info("Profile renamed", zap.String("user_id", sess.UserID.String()))

	text, kb := common.BuildProfileScreen(user)
	h.sendScreen(ctx, b, sess.ChatID, "✅ Nome atualizado!\n\n"+text, kb)
}

// ========================
// Team
// ========================

func (h *Handlers) handleTeamName(ctx context.Context, b *bot.Bot, sess *model.Session, name string) {
	team, err := h.deps.TeamService.Create(ctx, h.deps.Sessions.Source(sess.ChatID), sess, name)
	if err != nil {
		h.retryOrAbort(ctx, b, sess.ChatID, err, "Digite outro nome ou /cancelar:")
		return
	}

	h.stateManager.ClearState(sess.ChatID)
	h.stateManager.SetData(sess.ChatID, state.KeyTeamID, team.ID.String())

	text, kb := common.BuildTeamScreen(sess, team)
	h.sendScreen(ctx, b, sess.ChatID, "✅ Equipe criada!\n\n"+text, kb)
}

func (h *Handlers) handleTeamRename(ctx context.Context, b *bot.Bot, sess *model.Session, name string) {
	ts := h.deps.Sessions.Source(sess.ChatID)

	team, ok := h.dialogTeam(ctx, b, sess)
	if !ok {
		return
	}

	updated, err := h.deps.TeamService.Rename(ctx, ts, *team, name)
	if err != nil {
		h.retryOrAbort(ctx, b, sess.ChatID, err, "Digite outro nome ou /cancelar:")
		return
	}

	h.stateManager.SetState(sess.ChatID, state.StateNone)

	text, kb := common.BuildTeamScreen(sess, updated)
	h.sendScreen(ctx, b, sess.ChatID, "✅ Equipe renomeada!\n\n"+text, kb)
}

func (h *Handlers) handleTeamAddMember(ctx context.Context, b *bot.Bot, sess *model.Session, email string) {
	ts := h.deps.Sessions.Source(sess.ChatID)

	team, ok := h.dialogTeam(ctx, b, sess)
	if !ok {
		return
	}

	list, err := h.deps.UserService.Students(ctx, ts)
	if err != nil {
		h.stateManager.SetState(sess.ChatID, state.StateNone)
		h.sendError(ctx, b, sess.ChatID, err)
		return
	}

	var student *model.User
	for i := range list {
		if strings.EqualFold(list[i].Email, email) {
			student = &list[i]
			break
		}
	}
	if student == nil {
		h.sendMessage(ctx, b, sess.ChatID, "❌ Nenhum estudante com este e-mail. Tente novamente ou /cancelar:")
		return
	}

	updated, err := h.deps.TeamService.AddMember(ctx, ts, team.ID, *student)
	if err != nil {
		h.retryOrAbort(ctx, b, sess.ChatID, err, "Digite outro e-mail ou /cancelar:")
		return
	}

	h.stateManager.SetState(sess.ChatID, state.StateNone)

	text, kb := common.BuildTeamScreen(sess, updated)
	h.sendScreen(ctx, b, sess.ChatID, fmt.Sprintf("✅ %s adicionado(a)!\n\n", html.EscapeString(student.Name))+text, kb)
}

// dialogTeam команда, сохранённая при старте диалога
func (h *Handlers) dialogTeam(ctx context.Context, b *bot.Bot, sess *model.Session) (*model.Team, bool) {
	id := h.stateManager.GetString(sess.ChatID, state.KeyTeamID)
	if id == "" {
		h.stateManager.ClearState(sess.ChatID)
		h.sendMessage(ctx, b, sess.ChatID, "❌ Dados perdidos. Abra a equipe novamente com /equipe")
		return nil, false
	}

	team, err := h.deps.TeamService.Get(ctx, h.deps.Sessions.Source(sess.ChatID), model.ID(id))
	if err != nil {
		h.stateManager.ClearState(sess.ChatID)
		h.sendError(ctx, b, sess.ChatID, err)
		return nil, false
	}
	if !common.CanManageTeam(sess, team) {
		h.stateManager.ClearState(sess.ChatID)
		h.sendError(ctx, b, sess.ChatID, service.ErrAdminOnly)
		return nil, false
	}
	return team, true
}

// ========================
// Forum
// ========================

func (h *Handlers) handleForumTitle(ctx context.Context, b *bot.Bot, sess *model.Session, title string) {
	if n := len([]rune(title)); n < 3 || n > 120 {
		h.sendMessage(ctx, b, sess.ChatID, "⚠️ O título deve ter de 3 a 120 caracteres. Tente novamente:")
		return
	}

	h.stateManager.SetData(sess.ChatID, state.KeyTitle, title)
	h.stateManager.SetState(sess.ChatID, state.StateForumContent)
	h.sendMessage(ctx, b, sess.ChatID, "Agora escreva o conteúdo da publicação:")
}

func (h *Handlers) handleForumContent(ctx context.Context, b *bot.Bot, sess *model.Session, content string) {
	title := h.stateManager.GetString(sess.ChatID, state.KeyTitle)

	post, err := h.deps.ForumService.Publish(ctx, h.deps.Sessions.Source(sess.ChatID), sess, title, content)
	if err != nil {
		h.retryOrAbort(ctx, b, sess.ChatID, err, "Escreva o conteúdo novamente ou /cancelar:")
		return
	}

	h.stateManager.ClearState(sess.ChatID)
	h.showPost(ctx, b, sess, post.ID, "✅ Publicado!\n\n")
}

func (h *Handlers) handleForumComment(ctx context.Context, b *bot.Bot, sess *model.Session, content string) {
	postID := model.ID(h.stateManager.GetString(sess.ChatID, state.KeyPostID))
	if postID.IsZero() {
		h.stateManager.ClearState(sess.ChatID)
		h.sendMessage(ctx, b, sess.ChatID, "❌ Dados perdidos. Abra a publicação novamente com /forum")
		return
	}

	if _, err := h.deps.ForumService.Comment(ctx, h.deps.Sessions.Source(sess.ChatID), sess, postID, content); err != nil {
		h.retryOrAbort(ctx, b, sess.ChatID, err, "Escreva o comentário novamente ou /cancelar:")
		return
	}

	h.stateManager.ClearState(sess.ChatID)
	h.showPost(ctx, b, sess, postID, "✅ Comentário enviado!\n\n")
}

func (h *Handlers) showPost(ctx context.Context, b *bot.Bot, sess *model.Session, id model.ID, prefix string) {
	text, kb, err := forum.PostScreen(ctx, h.deps, sess, id)
	if err != nil {
		h.logger.Warn("Failed to show post", zap.String("post_id", id.String()), zap.Error(err))
		h.sendMessage(ctx, b, sess.ChatID, prefix+"Veja o fórum: /forum")
		return
	}
	h.sendScreen(ctx, b, sess.ChatID, prefix+text, kb)
}

// ========================
// Notifications (admin)
// ========================

func (h *Handlers) handleNotifyTitle(ctx context.Context, b *bot.Bot, sess *model.Session, title string) {
	if n := len([]rune(title)); n < 3 || n > 120 {
		h.sendMessage(ctx, b, sess.ChatID, "⚠️ O título deve ter de 3 a 120 caracteres. Tente novamente:")
		return
	}

	h.stateManager.SetData(sess.ChatID, state.KeyTitle, title)
	h.stateManager.SetState(sess.ChatID, state.StateNotifyMessage)
	h.sendMessage(ctx, b, sess.ChatID, "Agora digite a mensagem:")
}

func (h *Handlers) handleNotifyMessage(ctx context.Context, b *bot.Bot, sess *model.Session, message string) {
	data := h.stateManager.GetAllData(sess.ChatID)
	target, _ := data[state.KeyTargetID].(string)
	title, _ := data[state.KeyTitle].(string)
	name, _ := data[state.KeyName].(string)

	if target == "" {
		h.stateManager.ClearState(sess.ChatID)
		h.sendMessage(ctx, b, sess.ChatID, "❌ Dados perdidos. Comece novamente em /notificacoes")
		return
	}

	_, err := h.deps.NotificationService.Send(ctx, h.deps.Sessions.Source(sess.ChatID), sess, model.NewNotification{
		UserID:  model.ID(target),
		Title:   title,
		Message: message,
	})
	if err != nil {
		h.retryOrAbort(ctx, b, sess.ChatID, err, "Digite a mensagem novamente ou /cancelar:")
		return
	}

	h.stateManager.ClearState(sess.ChatID)
	h.sendMessage(ctx, b, sess.ChatID, fmt.Sprintf("✅ Notificação enviada para <b>%s</b>", html.EscapeString(name)))
}

// retryOrAbort при ошибке ввода оставляет шаг диалога, иначе завершает диалог
func (h *Handlers) retryOrAbort(ctx context.Context, b *bot.Bot, chatID int64, err error, retry string) {
	h.sendError(ctx, b, chatID, err)

	var validation *service.ValidationError
	if errors.As(err, &validation) {
		h.sendMessage(ctx, b, chatID, retry)
		return
	}

	h.logger.Warn("Dialog step failed", zap.Int64("chat_id", chatID), zap.Error(err))
	h.stateManager.SetState(chatID, state.StateNone)
}
