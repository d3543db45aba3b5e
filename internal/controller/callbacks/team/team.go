package team

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/controller/state"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/pagination"
	"github.com/pratihub/pratihub_bot/internal/service"
)

// ========================
// Team Handlers
// ========================

// HandleView своя команда пользователя
func HandleView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		team, err := h.TeamService.MyTeam(hc.Ctx, hc.Source(), hc.Session.UserID)
		if err != nil {
			common.HandleError(hc, err, "team_view")
			return
		}
		showTeam(hc, team)
		hc.Answer("")
	})
}

// HandleOpen команда по id; формат team_open:teamID
func HandleOpen(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "team_open")
			return
		}

		team, err := visibleTeam(hc, id)
		if err != nil {
			common.HandleError(hc, err, "team_open")
			return
		}
		showTeam(hc, team)
		hc.Answer("")
	})
}

// HandleTeamsPage список всех команд; формат teams_page:page
func HandleTeamsPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.CallbackArgs(callback.Data, 1)
		if err != nil {
			common.HandleError(hc, err, "teams_page")
			return
		}

		text, kb, err := TeamsScreen(hc.Ctx, h, hc.Session, common.ParsePage(args[0]))
		if err != nil {
			common.HandleError(hc, err, "teams_page")
			return
		}
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show teams", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleCreate начинает диалог создания команды
func HandleCreate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()
		hc.SetState(state.StateTeamName)
		if err := hc.SendMessage("👥 Digite o nome da nova equipe (3 a 100 caracteres):\n\n/cancelar para desistir", nil); err != nil {
			h.Logger.Error("Failed to prompt team name", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleRename начинает диалог переименования открытой команды
func HandleRename(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		team, err := managedTeam(hc)
		if err != nil {
			common.HandleError(hc, err, "team_rename")
			return
		}

		hc.SetState(state.StateTeamRename)
		hc.SetData(state.KeyTeamID, team.ID.String())
		if err := hc.SendMessage("✏️ Digite o novo nome da equipe:\n\n/cancelar para desistir", nil); err != nil {
			h.Logger.Error("Failed to prompt team rename", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleAddMember начинает диалог добавления участника по e-mail
func HandleAddMember(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		team, err := managedTeam(hc)
		if err != nil {
			common.HandleError(hc, err, "team_add_member")
			return
		}

		hc.SetState(state.StateTeamAddMember)
		hc.SetData(state.KeyTeamID, team.ID.String())
		if err := hc.SendMessage("➕ Digite o e-mail do estudante que deseja adicionar:\n\n/cancelar para desistir", nil); err != nil {
			h.Logger.Error("Failed to prompt member email", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleRemoveMember исключает участника; формат team_rm:userID
func HandleRemoveMember(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		userID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "team_remove_member")
			return
		}

		team, err := managedTeam(hc)
		if err != nil {
			common.HandleError(hc, err, "team_remove_member")
			return
		}
		if err := h.TeamService.RemoveMember(hc.Ctx, hc.Source(), *team, userID); err != nil {
			common.HandleError(hc, err, "team_remove_member")
			return
		}

		fresh, err := h.TeamService.Get(hc.Ctx, hc.Source(), team.ID)
		if err != nil {
			common.HandleError(hc, err, "team_remove_member")
			return
		}
		showTeam(hc, fresh)
		common.LogAndAnswer(hc, "Team member removed from bot", "✅ Membro removido")
	})
}

// ========================
// Screens
// ========================

// Screen экран своей команды. Используется командой /equipe.
func Screen(ctx context.Context, h *callbacktypes.Handler, sess *model.Session) (string, *models.InlineKeyboardMarkup, error) {
	if sess.IsAdmin() {
		return TeamsScreen(ctx, h, sess, 0)
	}
	team, err := h.TeamService.MyTeam(ctx, h.Sessions.Source(sess.ChatID), sess.UserID)
	if err != nil {
		return "", nil, err
	}
	text, kb := common.BuildTeamScreen(sess, team)
	return text, kb, nil
}

// TeamsScreen страница списка команд для администратора
func TeamsScreen(ctx context.Context, h *callbacktypes.Handler, sess *model.Session, page int) (string, *models.InlineKeyboardMarkup, error) {
	teams, err := h.TeamService.List(ctx, h.Sessions.Source(sess.ChatID))
	if err != nil {
		return "", nil, err
	}
	text, kb := common.BuildTeamsListScreen(pagination.Paginate(teams, page, common.TeamsPageSize))
	return text, kb, nil
}

// showTeam рисует экран команды и запоминает её как открытую
func showTeam(hc *common.HandlerContext, team *model.Team) {
	if team != nil {
		hc.SetData(state.KeyTeamID, team.ID.String())
	}
	text, kb := common.BuildTeamScreen(hc.Session, team)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show team", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
	}
}

// visibleTeam команда, которую пользователь может смотреть: любая для администратора, своя для студента
func visibleTeam(hc *common.HandlerContext, id model.ID) (*model.Team, error) {
	team, err := hc.Handler.TeamService.Get(hc.Ctx, hc.Source(), id)
	if err != nil {
		return nil, err
	}
	if !hc.Session.IsAdmin() && !team.HasMember(hc.Session.UserID) {
		return nil, service.ErrNotTeamMember
	}
	return team, nil
}

// managedTeam открытая в чате команда, если пользователь может ей управлять
func managedTeam(hc *common.HandlerContext) (*model.Team, error) {
	var (
		team *model.Team
		err  error
	)
	if id, ok := hc.GetData(state.KeyTeamID); ok {
		if s, _ := id.(string); s != "" {
			team, err = hc.Handler.TeamService.Get(hc.Ctx, hc.Source(), model.ID(s))
		}
	}
	if team == nil && err == nil {
		team, err = hc.Handler.TeamService.MyTeam(hc.Ctx, hc.Source(), hc.Session.UserID)
	}
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, service.ErrNotTeamMember
	}
	if !common.CanManageTeam(hc.Session, team) {
		return nil, service.ErrAdminOnly
	}
	return team, nil
}
