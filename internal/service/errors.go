package service

import "errors"

// Ошибки сервисного слоя. Тексты ErrCancelFailed и ErrToggleFailed показываются пользователю как есть.
var (
	ErrSlotUnavailable = errors.New("slot is not available")
	ErrNoAdmin         = errors.New("no administrator account found")
	ErrCancelFailed    = errors.New("Erro ao cancelar agendamento")
	ErrToggleFailed    = errors.New("Erro ao salvar disponibilidade")
	ErrBookingFailed   = errors.New("Erro ao agendar horário")
	ErrAdminOnly       = errors.New("admin only")
	ErrValidation      = errors.New("validation failed")
	ErrNotTeamMember   = errors.New("user is not a member of the team")
	ErrAlreadyInTeam   = errors.New("user already belongs to a team")
)
