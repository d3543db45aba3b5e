package state

import (
	"sync"
	"time"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
)

// Manager хранит состояние диалогов по chat id.
// Данные живут только в памяти: после рестарта незаконченный диалог начинается заново.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData
	now    func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
		now:    time.Now,
	}
}

// GetState получает текущее состояние чата
func (sm *Manager) GetState(chatID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[chatID]; exists {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние; StateNone сбрасывает шаг диалога, но не данные
func (sm *Manager) SetState(chatID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userData := sm.entry(chatID)
	userData.State = state
}

// GetData получает временные данные
func (sm *Manager) GetData(chatID int64, key string) (interface{}, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[chatID]; exists {
		value, ok := userData.Data[key]
		return value, ok
	}
	return nil, false
}

// GetString удобная обёртка над GetData для строковых значений
func (sm *Manager) GetString(chatID int64, key string) string {
	v, ok := sm.GetData(chatID, key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// SetData устанавливает временные данные
func (sm *Manager) SetData(chatID int64, key string, value interface{}) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.entry(chatID).Data[key] = value
}

// ClearState очищает состояние и данные чата
func (sm *Manager) ClearState(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, chatID)
}

// GetAllData возвращает копию всех данных чата
func (sm *Manager) GetAllData(chatID int64) map[string]interface{} {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[chatID]; exists {
		dataCopy := make(map[string]interface{}, len(userData.Data))
		for k, v := range userData.Data {
			dataCopy[k] = v
		}
		return dataCopy
	}
	return nil
}

// Expire удаляет записи, которые не менялись дольше maxAge. Возвращает число удалённых.
func (sm *Manager) Expire(maxAge time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	cutoff := sm.now().Add(-maxAge)
	removed := 0
	for chatID, userData := range sm.states {
		if userData.UpdatedAt.Before(cutoff) {
			delete(sm.states, chatID)
			removed++
		}
	}
	return removed
}

// entry возвращает запись чата, создавая её при необходимости. Вызывать под mu.
func (sm *Manager) entry(chatID int64) *UserData {
	userData, exists := sm.states[chatID]
	if !exists {
		userData = &UserData{
			State: StateNone,
			Data:  make(map[string]interface{}),
		}
		sm.states[chatID] = userData
	}
	userData.UpdatedAt = sm.now()
	return userData
}

var _ callbacktypes.StateManager = (*Manager)(nil)
