package service

import (
	"context"
	"errors"
	"time"

	"github.com/pratihub/pratihub_bot/internal/model"
)

// chatTimeout бюджет одного чата в фоновом обходе сессий
const chatTimeout = 5 * time.Second

// eachChat вызывает fn для каждой сессии со своим дедлайном на чат.
// Дедлайн задачи не урезает время следующих чатов, отмена контекста прерывает обход.
func eachChat(ctx context.Context, list []*model.Session, fn func(ctx context.Context, sess *model.Session)) error {
	base := context.WithoutCancel(ctx)
	for _, sess := range list {
		if stopped(ctx) {
			return ctx.Err()
		}

		chatCtx, cancel := context.WithTimeout(base, chatTimeout)
		release := context.AfterFunc(ctx, func() {
			if stopped(ctx) {
				cancel()
			}
		})
		fn(chatCtx, sess)
		release()
		cancel()
	}
	return nil
}

// stopped отличает остановку от истёкшего дедлайна
func stopped(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.Canceled)
}
