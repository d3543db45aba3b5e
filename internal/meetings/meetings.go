// Package meetings классифицирует, фильтрует и дедуплицирует встречи для списков.
package meetings

import (
	"sort"
	"time"

	"github.com/pratihub/pratihub_bot/internal/model"
)

// Bucket вкладка списка встреч
type Bucket string

const (
	BucketUpcoming  Bucket = "upcoming"
	BucketCancelled Bucket = "cancelled"
	BucketCompleted Bucket = "completed"
	BucketPast      Bucket = "past" // завершённые и отменённые вместе, вид администратора
)

// Buckets порядок вкладок
var Buckets = []Bucket{BucketUpcoming, BucketCompleted, BucketCancelled, BucketPast}

// ParseBucket возвращает вкладку по строке, по умолчанию upcoming
func ParseBucket(s string) Bucket {
	for _, b := range Buckets {
		if string(b) == s {
			return b
		}
	}
	return BucketUpcoming
}

// Classify относит встречу к одной из вкладок upcoming / cancelled / completed.
// COMPLETED также выводится на клиенте: время прошло и встреча не отменена.
func Classify(a model.Appointment, now time.Time) Bucket {
	switch {
	case a.Status.IsCancelled():
		return BucketCancelled
	case a.Status == model.AppointmentStatusCompleted:
		return BucketCompleted
	}

	if isPast(a, now) {
		return BucketCompleted
	}
	return BucketUpcoming
}

// Matches проверяет попадает ли встреча во вкладку
func Matches(a model.Appointment, b Bucket, now time.Time) bool {
	c := Classify(a, now)
	if b == BucketPast {
		return c == BucketCompleted || c == BucketCancelled
	}
	return c == b
}

func isPast(a model.Appointment, now time.Time) bool {
	start, err := a.StartsAt(now.Location())
	if err != nil {
		return false
	}
	return start.Before(now)
}

// Key составной ключ дедупликации: команда (или студент) + дата + время
func Key(a model.Appointment) string {
	owner := "student:" + a.StudentID.String()
	if a.TeamID != nil && !a.TeamID.IsZero() {
		owner = "team:" + a.TeamID.String()
	}
	return owner + "|" + a.Date + "|" + normalizeTime(a.Time)
}

func normalizeTime(t string) string {
	if len(t) >= len("15:04") {
		return t[:5]
	}
	return t
}

// Dedupe схлопывает встречи с одинаковым ключом, сохраняя первую
func Dedupe(list []model.Appointment) []model.Appointment {
	seen := make(map[string]struct{}, len(list))
	out := make([]model.Appointment, 0, len(list))
	for _, a := range list {
		k := Key(a)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, a)
	}
	return out
}

// Filter дедуплицирует и оставляет встречи вкладки, ближайшие первыми для upcoming,
// последние первыми для остальных вкладок
func Filter(list []model.Appointment, b Bucket, now time.Time) []model.Appointment {
	var out []model.Appointment
	for _, a := range Dedupe(list) {
		if Matches(a, b, now) {
			out = append(out, a)
		}
	}

	ascending := b == BucketUpcoming
	sort.SliceStable(out, func(i, j int) bool {
		ki := out[i].Date + " " + normalizeTime(out[i].Time)
		kj := out[j].Date + " " + normalizeTime(out[j].Time)
		if ascending {
			return ki < kj
		}
		return ki > kj
	})

	return out
}

// Today встречи вкладки upcoming, назначенные на дату now
func Today(list []model.Appointment, now time.Time) []model.Appointment {
	date := now.Format("2006-01-02")
	var out []model.Appointment
	for _, a := range Filter(list, BucketUpcoming, now) {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out
}

// Changes сравнивает два снимка списка встреч.
// added новые встречи, cancelled встречи, которые перешли в отменённые.
func Changes(before, after []model.Appointment) (added, cancelled []model.Appointment) {
	prev := make(map[model.ID]model.Appointment, len(before))
	for _, a := range before {
		prev[a.ID] = a
	}

	for _, a := range after {
		old, ok := prev[a.ID]
		switch {
		case !ok:
			added = append(added, a)
		case !old.Status.IsCancelled() && a.Status.IsCancelled():
			cancelled = append(cancelled, a)
		}
	}
	return added, cancelled
}
