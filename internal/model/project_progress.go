package model

type PhaseStatus string

const (
	PhaseStatusTodo       PhaseStatus = "TODO"
	PhaseStatusInProgress PhaseStatus = "IN_PROGRESS"
	PhaseStatusDone       PhaseStatus = "DONE"
)

// Next возвращает следующий статус колонки канбана (по кругу)
func (s PhaseStatus) Next() PhaseStatus {
	switch s {
	case PhaseStatusTodo:
		return PhaseStatusInProgress
	case PhaseStatusInProgress:
		return PhaseStatusDone
	default:
		return PhaseStatusTodo
	}
}

// DefaultPhases фиксированные фазы проекта
var DefaultPhases = []string{
	"Planejamento",
	"Design",
	"Desenvolvimento",
	"Testes",
	"Entrega",
}

type Phase struct {
	Name   string      `json:"name"`
	Status PhaseStatus `json:"status"`
}

type ProjectProgress struct {
	ID     ID      `json:"id,omitempty"`
	TeamID ID      `json:"teamId"`
	Phases []Phase `json:"phases"`
}

// Percent доля завершённых фаз
func (p *ProjectProgress) Percent() int {
	if len(p.Phases) == 0 {
		return 0
	}
	done := 0
	for _, ph := range p.Phases {
		if ph.Status == PhaseStatusDone {
			done++
		}
	}
	return done * 100 / len(p.Phases)
}
