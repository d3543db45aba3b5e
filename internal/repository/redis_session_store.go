package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pratihub/pratihub_bot/internal/model"
)

const (
	sessionKeyPrefix = "pratihub:session:"
	sessionIndexKey  = "pratihub:sessions"
)

// RedisSessionStore хранит сессии в хешах Redis, индекс чатов в отдельном set
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisClient подключается к redis с короткими таймаутами
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Healthy проверяет доступность redis
func (s *RedisSessionStore) Healthy(ctx context.Context) bool {
	return s.client.Ping(ctx).Err() == nil
}

func sessionKey(chatID int64) string {
	return sessionKeyPrefix + strconv.FormatInt(chatID, 10)
}

func (s *RedisSessionStore) Get(ctx context.Context, chatID int64) (*model.Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(chatID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return decodeSession(chatID, fields)
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *model.Session) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, sessionKey(sess.ChatID), map[string]interface{}{
			"access_token":  sess.AccessToken,
			"refresh_token": sess.RefreshToken,
			"user_id":       sess.UserID.String(),
			"user_name":     sess.UserName,
			"user_type":     string(sess.UserType),
			"last_activity": sess.LastActivity.UTC().Format(time.RFC3339Nano),
			"updated_at":    time.Now().UTC().Format(time.RFC3339Nano),
		})
		pipe.SAdd(ctx, sessionIndexKey, sess.ChatID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// updateExistingScript проверка и запись одной командой, удалённая сессия не воскресает частичным хешем
var updateExistingScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)

// updateExisting пишет поля только если сессия ещё существует
func (s *RedisSessionStore) updateExisting(ctx context.Context, chatID int64, values map[string]interface{}) error {
	args := make([]interface{}, 0, 2*len(values))
	for field, value := range values {
		args = append(args, field, value)
	}
	return updateExistingScript.Run(ctx, s.client, []string{sessionKey(chatID)}, args...).Err()
}

func (s *RedisSessionStore) UpdateTokens(ctx context.Context, chatID int64, pair model.TokenPair) error {
	err := s.updateExisting(ctx, chatID, map[string]interface{}{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"updated_at":    time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("update tokens: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Touch(ctx context.Context, chatID int64, at time.Time) error {
	err := s.updateExisting(ctx, chatID, map[string]interface{}{
		"last_activity": at.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, chatID int64) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(chatID))
		pipe.SRem(ctx, sessionIndexKey, chatID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) List(ctx context.Context) ([]*model.Session, error) {
	members, err := s.client.SMembers(ctx, sessionIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]*model.Session, 0, len(members))
	for _, m := range members {
		chatID, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		sess, err := s.Get(ctx, chatID)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			// хеш удалён, а индекс остался
			s.client.SRem(ctx, sessionIndexKey, chatID)
			continue
		}
		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ChatID < sessions[j].ChatID })
	return sessions, nil
}

var errCorruptSession = errors.New("corrupt session record")

func decodeSession(chatID int64, f map[string]string) (*model.Session, error) {
	if f["access_token"] == "" {
		return nil, fmt.Errorf("chat %d: %w", chatID, errCorruptSession)
	}

	s := &model.Session{
		ChatID:       chatID,
		AccessToken:  f["access_token"],
		RefreshToken: f["refresh_token"],
		UserID:       model.ID(f["user_id"]),
		UserName:     f["user_name"],
		UserType:     model.UserType(f["user_type"]),
	}

	if v := f["last_activity"]; v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("chat %d last_activity: %w", chatID, err)
		}
		s.LastActivity = t
	}
	if v := f["updated_at"]; v != "" {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			s.UpdatedAt = t
		}
	}

	return s, nil
}
