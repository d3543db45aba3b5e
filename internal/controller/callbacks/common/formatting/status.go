package formatting

import (
	"github.com/pratihub/pratihub_bot/internal/meetings"
	"github.com/pratihub/pratihub_bot/internal/model"
)

// StatusDisplay emoji и текст статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

func (d StatusDisplay) String() string {
	return d.Emoji + " " + d.Text
}

// GetSlotStatusDisplay отображение слота сетки дня
func GetSlotStatusDisplay(slot model.Slot) StatusDisplay {
	switch {
	case slot.Booked:
		return StatusDisplay{"🔴", "Agendado"}
	case slot.IsPast:
		return StatusDisplay{"⚫️", "Passado"}
	case slot.Available:
		return StatusDisplay{"🟢", "Disponível"}
	default:
		return StatusDisplay{"⚪️", "Indisponível"}
	}
}

// GetBucketDisplay отображение вкладки списка встреч
func GetBucketDisplay(b meetings.Bucket) StatusDisplay {
	displays := map[meetings.Bucket]StatusDisplay{
		meetings.BucketUpcoming:  {"📅", "Próximas"},
		meetings.BucketCompleted: {"✔️", "Concluídas"},
		meetings.BucketCancelled: {"❌", "Canceladas"},
		meetings.BucketPast:      {"🕘", "Passadas"},
	}
	if display, ok := displays[b]; ok {
		return display
	}
	return StatusDisplay{"❓", "Desconhecido"}
}

// GetPhaseStatusDisplay отображение колонки канбана
func GetPhaseStatusDisplay(status model.PhaseStatus) StatusDisplay {
	displays := map[model.PhaseStatus]StatusDisplay{
		model.PhaseStatusTodo:       {"⬜️", "A fazer"},
		model.PhaseStatusInProgress: {"🟨", "Em andamento"},
		model.PhaseStatusDone:       {"✅", "Concluído"},
	}
	if display, ok := displays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Desconhecido"}
}

// GetEmotionalStatusDisplay отображение эмоционального статуса
func GetEmotionalStatusDisplay(status string) StatusDisplay {
	displays := map[string]StatusDisplay{
		model.EmotionalStatusGreat:    {"😄", "Ótimo"},
		model.EmotionalStatusGood:     {"🙂", "Bem"},
		model.EmotionalStatusNeutral:  {"😐", "Neutro"},
		model.EmotionalStatusTired:    {"😴", "Cansado"},
		model.EmotionalStatusStressed: {"😣", "Estressado"},
	}
	if display, ok := displays[status]; ok {
		return display
	}
	return StatusDisplay{"➖", "Não informado"}
}

// GetUserTypeDisplay отображение роли
func GetUserTypeDisplay(t model.UserType) StatusDisplay {
	if t == model.UserTypeAdmin {
		return StatusDisplay{"🎓", "Administrador"}
	}
	return StatusDisplay{"👩‍💻", "Estudante"}
}
