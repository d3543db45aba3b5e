package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratihub/pratihub_bot/internal/model"
)

func newTestRedisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedisClient(mr.Addr())
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionStore(client), mr
}

func TestRedisSessionStore_SaveGetDelete(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	missing, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	active := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, &model.Session{
		ChatID:       1,
		AccessToken:  "access",
		RefreshToken: "refresh",
		UserID:       "42",
		UserName:     "Bruno",
		UserType:     model.UserTypeAdmin,
		LastActivity: active,
	}))

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "access", got.AccessToken)
	assert.Equal(t, model.ID("42"), got.UserID)
	assert.Equal(t, model.UserTypeAdmin, got.UserType)
	assert.True(t, active.Equal(got.LastActivity))

	require.NoError(t, store.Delete(ctx, 1))
	got, err = store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRedisSessionStore_PartialUpdates(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &model.Session{ChatID: 5, AccessToken: "a1", RefreshToken: "r1", UserID: "1"}))

	require.NoError(t, store.UpdateTokens(ctx, 5, model.TokenPair{AccessToken: "a2", RefreshToken: "r2"}))
	at := time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, store.Touch(ctx, 5, at))

	got, err := store.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "a2", got.AccessToken)
	assert.Equal(t, "r2", got.RefreshToken)
	assert.True(t, at.Equal(got.LastActivity))

	// обновление несуществующей сессии не создаёт запись
	require.NoError(t, store.Touch(ctx, 6, at))
	missing, err := store.Get(ctx, 6)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRedisSessionStore_UpdateAfterDeleteKeepsItDeleted(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &model.Session{ChatID: 7, AccessToken: "a", RefreshToken: "r", UserID: "7"}))
	require.NoError(t, store.Delete(ctx, 7))

	require.NoError(t, store.Touch(ctx, 7, time.Now()))
	require.NoError(t, store.UpdateTokens(ctx, 7, model.TokenPair{AccessToken: "a2", RefreshToken: "r2"}))

	assert.False(t, mr.Exists(sessionKey(7)))
	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// выход пользователя параллельно с фоновыми обновлениями не оставляет обрезанных записей
func TestRedisSessionStore_ConcurrentDeleteAndTouch(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		require.NoError(t, store.Save(ctx, &model.Session{ChatID: 9, AccessToken: "a", RefreshToken: "r", UserID: "9"}))

		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Delete(ctx, 9))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Touch(ctx, 9, time.Now()))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, store.UpdateTokens(ctx, 9, model.TokenPair{AccessToken: "a2", RefreshToken: "r2"}))
		}()
		wg.Wait()

		got, err := store.Get(ctx, 9)
		require.NoError(t, err, "iteration %d", i)
		assert.Nil(t, got, "iteration %d", i)
	}
}

func TestRedisSessionStore_ListSkipsStaleIndex(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &model.Session{ChatID: 2, AccessToken: "b", UserID: "2"}))
	require.NoError(t, store.Save(ctx, &model.Session{ChatID: 1, AccessToken: "a", UserID: "1"}))
	mr.Del(sessionKey(2))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ChatID)

	assert.True(t, store.Healthy(ctx))
}
