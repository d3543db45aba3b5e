package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pratihub/pratihub_bot/internal/model"
)

// Store хранилище сессий чатов.
// Get возвращает nil, nil если сессии нет.
type Store interface {
	Get(ctx context.Context, chatID int64) (*model.Session, error)
	Save(ctx context.Context, s *model.Session) error
	UpdateTokens(ctx context.Context, chatID int64, pair model.TokenPair) error
	Touch(ctx context.Context, chatID int64, at time.Time) error
	Delete(ctx context.Context, chatID int64) error
	List(ctx context.Context) ([]*model.Session, error)
}

// MemoryStore хранит сессии в памяти процесса, теряются при рестарте
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]model.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]model.Session)}
}

func (s *MemoryStore) Get(_ context.Context, chatID int64) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ChatID] = *sess
	return nil
}

func (s *MemoryStore) UpdateTokens(_ context.Context, chatID int64, pair model.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return nil
	}
	sess.AccessToken = pair.AccessToken
	sess.RefreshToken = pair.RefreshToken
	sess.UpdatedAt = time.Now()
	s.sessions[chatID] = sess
	return nil
}

func (s *MemoryStore) Touch(_ context.Context, chatID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return nil
	}
	sess.LastActivity = at
	s.sessions[chatID] = sess
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sess := sess
		out = append(out, &sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChatID < out[j].ChatID })
	return out, nil
}
