package slots

import (
	"sort"

	"github.com/pratihub/pratihub_bot/internal/model"
)

// Toggle переключает доступность слота в копии сетки.
// Занятые и прошедшие слоты не переключаются (ok == false).
func Toggle(grid []model.Slot, t string) ([]model.Slot, bool) {
	out := make([]model.Slot, len(grid))
	copy(out, grid)

	for i := range out {
		if out[i].Time != t {
			continue
		}
		if out[i].Booked || out[i].IsPast {
			return out, false
		}
		out[i].Available = !out[i].Available
		return out, true
	}

	return out, false
}

// Persistable слоты, которые сохраняются как доступные на день
func Persistable(grid []model.Slot) []model.Slot {
	out := make([]model.Slot, 0, len(grid))
	for _, s := range grid {
		if s.Available && !s.Booked {
			out = append(out, model.Slot{Time: s.Time, Available: true})
		}
	}
	return out
}

// MarkBooked помечает слот занятым после успешной записи
func MarkBooked(grid []model.Slot, t string) []model.Slot {
	out := make([]model.Slot, len(grid))
	copy(out, grid)
	for i := range out {
		if out[i].Time == t {
			out[i].Booked = true
		}
	}
	return out
}

// Change изменение доступности одного слота
type Change struct {
	Time      string
	Available bool
}

// Diff изменения доступности между двумя версиями сетки
func Diff(before, after []model.Slot) []Change {
	prev := make(map[string]bool, len(before))
	for _, s := range before {
		prev[s.Time] = s.Available
	}

	var changes []Change
	for _, s := range after {
		if was, ok := prev[s.Time]; !ok || was != s.Available {
			changes = append(changes, Change{Time: s.Time, Available: s.Available})
		}
	}
	return changes
}

// Merge применяет изменения к актуальному набору слотов с сервера (upsert по времени).
// Остальные слоты сервера остаются как есть, поэтому правки другой сессии не теряются.
func Merge(server []model.Slot, changes []Change) []model.Slot {
	merged := make([]model.Slot, len(server))
	copy(merged, server)

	index := make(map[string]int, len(merged))
	for i, s := range merged {
		index[s.Time] = i
	}

	for _, ch := range changes {
		if i, ok := index[ch.Time]; ok {
			merged[i].Available = ch.Available
			continue
		}
		index[ch.Time] = len(merged)
		merged = append(merged, model.Slot{Time: ch.Time, Available: ch.Available})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Time < merged[j].Time
	})

	return merged
}

// ApplyAppointments помечает занятыми слоты, на которые есть неотменённая запись.
// Время записи приходит как HH:MM:SS, слот хранит HH:MM.
func ApplyAppointments(grid []model.Slot, date string, appts []model.Appointment) []model.Slot {
	taken := make(map[string]struct{})
	for _, a := range appts {
		if a.Date != date || a.Status.IsCancelled() || len(a.Time) < 5 {
			continue
		}
		taken[a.Time[:5]] = struct{}{}
	}

	out := make([]model.Slot, len(grid))
	copy(out, grid)
	for i := range out {
		if _, ok := taken[out[i].Time]; ok {
			out[i].Booked = true
		}
	}
	return out
}
