package handlers

import (
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
	"github.com/pratihub/pratihub_bot/internal/controller/state"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	deps         *callbacktypes.Handler
	stateManager *state.Manager
	logger       *zap.Logger
	observe      func(kind string)
}

// NewHandlers создаёт новый обработчик команд. observe может быть nil.
func NewHandlers(deps *callbacktypes.Handler, stateManager *state.Manager, observe func(kind string)) *Handlers {
	if observe == nil {
		observe = func(string) {}
	}
	return &Handlers{
		deps:         deps,
		stateManager: stateManager,
		logger:       deps.Logger,
		observe:      observe,
	}
}
