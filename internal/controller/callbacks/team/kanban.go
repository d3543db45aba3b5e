package team

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common/formatting"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/service"
)

// ========================
// Kanban Handlers
// ========================

// HandleKanbanMy доска своей команды
func HandleKanbanMy(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		text, kb, err := KanbanScreen(hc.Ctx, h, hc.Session)
		if err != nil {
			common.HandleError(hc, err, "kanban_my")
			return
		}
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show kanban", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleKanbanBoard доска команды; формат kanban:teamID
func HandleKanbanBoard(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "kanban_board")
			return
		}

		team, err := visibleTeam(hc, id)
		if err != nil {
			common.HandleError(hc, err, "kanban_board")
			return
		}
		board, err := h.ProgressService.Board(hc.Ctx, hc.Source(), team.ID)
		if err != nil {
			common.HandleError(hc, err, "kanban_board")
			return
		}

		showBoard(hc, team, board)
		hc.Answer("")
	})
}

// HandleKanbanAdvance переводит фазу в следующий статус; формат kanban_adv:teamID:phase
func HandleKanbanAdvance(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.CallbackArgs(callback.Data, 2)
		if err != nil {
			common.HandleError(hc, err, "kanban_advance")
			return
		}
		phase, err := strconv.Atoi(args[1])
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "kanban_advance")
			return
		}

		team, err := visibleTeam(hc, model.ID(args[0]))
		if err != nil {
			common.HandleError(hc, err, "kanban_advance")
			return
		}
		board, err := h.ProgressService.Board(hc.Ctx, hc.Source(), team.ID)
		if err != nil {
			common.HandleError(hc, err, "kanban_advance")
			return
		}

		updated, err := h.ProgressService.Advance(hc.Ctx, hc.Source(), *board, phase)
		if err != nil {
			common.HandleError(hc, err, "kanban_advance")
			return
		}

		showBoard(hc, team, updated)
		p := updated.Phases[phase]
		common.LogAndAnswer(hc, "Project phase advanced",
			fmt.Sprintf("%s: %s", formatting.Truncate(p.Name, 30), formatting.GetPhaseStatusDisplay(p.Status).String()))
	})
}

// KanbanScreen доска команды пользователя. Используется командой /kanban.
func KanbanScreen(ctx context.Context, h *callbacktypes.Handler, sess *model.Session) (string, *models.InlineKeyboardMarkup, error) {
	ts := h.Sessions.Source(sess.ChatID)
	team, err := h.TeamService.MyTeam(ctx, ts, sess.UserID)
	if err != nil {
		return "", nil, err
	}
	if team == nil {
		return "", nil, service.ErrNotTeamMember
	}

	board, err := h.ProgressService.Board(ctx, ts, team.ID)
	if err != nil {
		return "", nil, err
	}
	text, kb := common.BuildKanbanScreen(team, board)
	return text, kb, nil
}

func showBoard(hc *common.HandlerContext, team *model.Team, board *model.ProjectProgress) {
	text, kb := common.BuildKanbanScreen(team, board)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show kanban",
			zap.Int64("chat_id", hc.ChatID),
			zap.String("team_id", team.ID.String()),
			zap.Error(err))
	}
}
