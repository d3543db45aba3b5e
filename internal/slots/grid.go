// Package slots строит сетку слотов дня и применяет к ней изменения доступности.
package slots

import (
	"fmt"
	"time"

	"github.com/pratihub/pratihub_bot/internal/model"
)

// DateLayout формат даты в API
const DateLayout = "2006-01-02"

// Grid параметры сетки дня
type Grid struct {
	StartHour int
	EndHour   int // включительно
	Interval  time.Duration
}

// DefaultGrid сетка по 30 минут с 06:00 до 23:00
func DefaultGrid() Grid {
	return Grid{StartHour: 6, EndHour: 23, Interval: 30 * time.Minute}
}

// Times возвращает все метки времени сетки по возрастанию
func (g Grid) Times() []string {
	step := g.Interval
	if step <= 0 {
		step = 30 * time.Minute
	}

	start := time.Duration(g.StartHour) * time.Hour
	end := time.Duration(g.EndHour) * time.Hour

	var times []string
	for t := start; t <= end; t += step {
		times = append(times, clock(t))
	}
	return times
}

func clock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// Generate строит полную сетку дня.
// Сохранённые записи сопоставляются по точному совпадению строки времени,
// для остальных меток создаются заглушки {available:false, booked:false}.
// Для сегодняшней даты слоты, начало которых уже прошло, всегда недоступны (isPast),
// независимо от того, что вернул бэкенд. Даты раньше сегодняшней прошлые целиком.
func Generate(existing []model.Slot, date, now time.Time, g Grid) []model.Slot {
	byTime := make(map[string]model.Slot, len(existing))
	for _, s := range existing {
		if _, seen := byTime[s.Time]; !seen {
			byTime[s.Time] = s
		}
	}

	times := g.Times()
	grid := make([]model.Slot, 0, len(times))
	for _, t := range times {
		slot, ok := byTime[t]
		if !ok {
			slot = model.Slot{Time: t}
		}
		slot.Time = t
		slot.IsPast = false

		if started(date, t, now) {
			slot.Available = false
			slot.IsPast = true
		}

		grid = append(grid, slot)
	}

	return grid
}

// MarkPast отмечает слоты, начало которых прошло к now, форма сетки не меняется.
// Открытая в чате сетка устаревает, пока висит сообщение.
func MarkPast(grid []model.Slot, date, now time.Time) []model.Slot {
	out := make([]model.Slot, len(grid))
	copy(out, grid)
	for i := range out {
		if started(date, out[i].Time, now) {
			out[i].Available = false
			out[i].IsPast = true
		}
	}
	return out
}

// started начало слота t в день date уже наступило; даты раньше сегодняшней прошлые целиком
func started(date time.Time, t string, now time.Time) bool {
	loc := now.Location()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch {
	case day.Before(today):
		return true
	case day.Equal(today):
		start, err := time.ParseInLocation(DateLayout+" 15:04", day.Format(DateLayout)+" "+t, loc)
		return err == nil && start.Before(now)
	}
	return false
}

// Find возвращает слот по времени
func Find(grid []model.Slot, t string) (model.Slot, bool) {
	for _, s := range grid {
		if s.Time == t {
			return s, true
		}
	}
	return model.Slot{}, false
}

// Counts количество доступных и занятых слотов в сетке
func Counts(grid []model.Slot) (available, booked int) {
	for _, s := range grid {
		if s.Booked {
			booked++
		} else if s.Available && !s.IsPast {
			available++
		}
	}
	return available, booked
}
