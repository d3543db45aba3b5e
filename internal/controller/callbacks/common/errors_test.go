package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/service"
	"github.com/pratihub/pratihub_bot/internal/session"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not logged in", session.ErrNotLoggedIn, "🔒 Sessão expirada. Faça login novamente com /login"},
		{"unauthorized wrapped", fmt.Errorf("get: %w", api.ErrUnauthorized), "🔒 Sessão expirada. Faça login novamente com /login"},
		{"forbidden", api.ErrForbidden, "⛔ Acesso negado"},
		{"admin only", service.ErrAdminOnly, "⛔ Acesso negado"},
		{"validation", &service.ValidationError{Message: "Nome é obrigatório"}, "⚠️ Nome é obrigatório"},
		{"cancel failed", fmt.Errorf("cancel: %w", service.ErrCancelFailed), "Erro ao cancelar agendamento"},
		{"toggle failed", service.ErrToggleFailed, "Erro ao salvar disponibilidade"},
		{"booking failed", service.ErrBookingFailed, "Erro ao agendar horário"},
		{"slot unavailable", service.ErrSlotUnavailable, "❌ Horário indisponível"},
		{"not found", api.ErrNotFound, "❌ Não encontrado"},
		{"local not found", ErrNotFound, "❌ Não encontrado"},
		{"conflict", api.ErrConflict, "❌ Conflito: o registro já existe"},
		{"bad callback", ErrInvalidFormat, "❌ Formato inválido"},
		{"server", fmt.Errorf("list: %w", api.ErrServer), "❌ O servidor está indisponível. Tente novamente mais tarde"},
		{"unknown", errors.New("boom"), "❌ Ocorreu um erro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}
