package common

import (
	"errors"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/service"
	"github.com/pratihub/pratihub_bot/internal/session"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrSlotNotFound  = errors.New("slot not found")
	ErrNotFound      = errors.New("item not found")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var validation *service.ValidationError

	switch {
	case errors.Is(err, session.ErrNotLoggedIn), errors.Is(err, api.ErrUnauthorized):
		return "🔒 Sessão expirada. Faça login novamente com /login"
	case errors.Is(err, service.ErrAdminOnly), errors.Is(err, api.ErrForbidden):
		return "⛔ Acesso negado"
	case errors.As(err, &validation):
		return "⚠️ " + validation.Message
	case errors.Is(err, service.ErrCancelFailed):
		return service.ErrCancelFailed.Error()
	case errors.Is(err, service.ErrToggleFailed):
		return service.ErrToggleFailed.Error()
	case errors.Is(err, service.ErrSlotUnavailable):
		return "❌ Horário indisponível"
	case errors.Is(err, service.ErrBookingFailed):
		return service.ErrBookingFailed.Error()
	case errors.Is(err, service.ErrNoAdmin):
		return "❌ Nenhum administrador disponível para agendamento"
	case errors.Is(err, service.ErrAlreadyInTeam):
		return "❌ Este usuário já faz parte de uma equipe"
	case errors.Is(err, service.ErrNotTeamMember):
		return "❌ Usuário não pertence à equipe"
	case errors.Is(err, api.ErrNotFound), errors.Is(err, ErrNotFound):
		return "❌ Não encontrado"
	case errors.Is(err, api.ErrConflict):
		return "❌ Conflito: o registro já existe"
	case errors.Is(err, api.ErrValidation):
		if msg := api.ErrorMessage(err); msg != "" {
			return "⚠️ " + msg
		}
		return "⚠️ Dados inválidos"
	case errors.Is(err, ErrNoMessage):
		return "❌ Erro ao processar a mensagem"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Formato inválido"
	case errors.Is(err, ErrSlotNotFound):
		return "❌ Horário não encontrado"
	case api.IsServerError(err):
		return "❌ O servidor está indisponível. Tente novamente mais tarde"
	default:
		return "❌ Ocorreu um erro"
	}
}
