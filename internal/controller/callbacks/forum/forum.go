package forum

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
)

// ========================
// Forum Handlers
// ========================

// HandlePage страница постов; формат forum_page:page
func HandlePage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.CallbackArgs(callback.Data, 1)
		if err != nil {
			common.HandleError(hc, err, "forum_page")
			return
		}

		text, kb, err := Screen(hc.Ctx, h, hc.Session, common.ParsePage(args[0]))
		if err != nil {
			common.HandleError(hc, err, "forum_page")
			return
		}
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show forum", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandlePost пост с комментариями; формат forum_post:id
func HandlePost(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "forum_post")
			return
		}

		text, kb, err := PostScreen(hc.Ctx, h, hc.Session, id)
		if err != nil {
			common.HandleError(hc, err, "forum_post")
			return
		}
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show post", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleNewPost начинает диалог публикации
func HandleNewPost(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()
		hc.SetState(state.StateForumTitle)
		if err := hc.SendMessage("📝 Digite o título da publicação:\n\n/cancelar para desistir", nil); err != nil {
			h.Logger.Error("Failed to prompt post title", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleComment начинает диалог комментария; формат forum_comment:postID
func HandleComment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "forum_comment")
			return
		}

		hc.ClearState()
		hc.SetState(state.StateForumComment)
		hc.SetData(state.KeyPostID, id.String())
		if err := hc.SendMessage("💬 Digite o seu comentário:\n\n/cancelar para desistir", nil); err != nil {
			h.Logger.Error("Failed to prompt comment", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// Screen страница ленты форума. Используется командой /forum.
func Screen(ctx context.Context, h *callbacktypes.Handler, sess *model.Session, page int) (string, *models.InlineKeyboardMarkup, error) {
	posts, err := h.ForumService.Posts(ctx, h.Sessions.Source(sess.ChatID))
	if err != nil {
		return "", nil, err
	}
	text, kb := common.BuildForumScreen(pagination.Paginate(posts, page, common.ForumPageSize))
	return text, kb, nil
}

// PostScreen пост с комментариями; пост ищется в ленте, отдельного запроса поста нет
func PostScreen(ctx context.Context, h *callbacktypes.Handler, sess *model.Session, id model.ID) (string, *models.InlineKeyboardMarkup, error) {
	ts := h.Sessions.Source(sess.ChatID)
	posts, err := h.ForumService.Posts(ctx, ts)
	if err != nil {
		return "", nil, err
	}

	var post *model.Post
	for i := range posts {
		if posts[i].ID == id {
			post = &posts[i]
			break
		}
	}
	if post == nil {
		return "", nil, common.ErrNotFound
	}

	comments, err := h.ForumService.Comments(ctx, ts, id)
	if err != nil {
		return "", nil, err
	}
	text, kb := common.BuildPostScreen(post, comments)
	return text, kb, nil
}
