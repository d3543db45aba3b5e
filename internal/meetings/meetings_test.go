package meetings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pratihub/pratihub_bot/internal/model"
)

func idPtr(id model.ID) *model.ID { return &id }

var now = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		appt model.Appointment
		want Bucket
	}{
		{name: "future scheduled", appt: model.Appointment{Date: "2025-01-16", Time: "10:00:00", Status: model.AppointmentStatusScheduled}, want: BucketUpcoming},
		{name: "past scheduled is completed", appt: model.Appointment{Date: "2025-01-14", Time: "10:00:00", Status: model.AppointmentStatusScheduled}, want: BucketCompleted},
		{name: "cancelled", appt: model.Appointment{Date: "2025-01-16", Time: "10:00:00", Status: model.AppointmentStatusCancelled}, want: BucketCancelled},
		{name: "canceled spelling", appt: model.Appointment{Date: "2025-01-14", Time: "10:00:00", Status: model.AppointmentStatusCanceled}, want: BucketCancelled},
		{name: "completed", appt: model.Appointment{Date: "2025-01-16", Time: "10:00:00", Status: model.AppointmentStatusCompleted}, want: BucketCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.appt, now))
		})
	}
}

func TestMatches_Past(t *testing.T) {
	cancelledPast := model.Appointment{Date: "2025-01-14", Time: "10:00:00", Status: model.AppointmentStatusCancelled}
	assert.True(t, Matches(cancelledPast, BucketPast, now))

	cancelledFuture := model.Appointment{Date: "2025-01-16", Time: "10:00:00", Status: model.AppointmentStatusCancelled}
	assert.True(t, Matches(cancelledFuture, BucketPast, now))

	future := model.Appointment{Date: "2025-01-16", Time: "10:00:00", Status: model.AppointmentStatusScheduled}
	assert.False(t, Matches(future, BucketPast, now))
}

func TestDedupe(t *testing.T) {
	list := []model.Appointment{
		{ID: "1", StudentID: "s1", TeamID: idPtr("t1"), Date: "2025-01-16", Time: "10:00:00"},
		{ID: "2", StudentID: "s2", TeamID: idPtr("t1"), Date: "2025-01-16", Time: "10:00"},
		{ID: "3", StudentID: "s3", Date: "2025-01-16", Time: "10:00:00"},
		{ID: "4", StudentID: "s3", Date: "2025-01-16", Time: "10:00:00"},
		{ID: "5", StudentID: "s3", Date: "2025-01-16", Time: "10:30:00"},
	}

	out := Dedupe(list)
	ids := make([]model.ID, 0, len(out))
	for _, a := range out {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []model.ID{"1", "3", "5"}, ids)
}

func TestFilter_SortsAndDedupes(t *testing.T) {
	list := []model.Appointment{
		{ID: "a", StudentID: "s1", Date: "2025-01-20", Time: "09:00:00", Status: model.AppointmentStatusScheduled},
		{ID: "b", StudentID: "s1", Date: "2025-01-16", Time: "09:00:00", Status: model.AppointmentStatusScheduled},
		{ID: "c", StudentID: "s1", Date: "2025-01-16", Time: "09:00:00", Status: model.AppointmentStatusScheduled},
		{ID: "d", StudentID: "s1", Date: "2025-01-10", Time: "09:00:00", Status: model.AppointmentStatusScheduled},
	}

	upcoming := Filter(list, BucketUpcoming, now)
	if assert.Len(t, upcoming, 2) {
		assert.Equal(t, model.ID("b"), upcoming[0].ID)
		assert.Equal(t, model.ID("a"), upcoming[1].ID)
	}

	completed := Filter(list, BucketCompleted, now)
	if assert.Len(t, completed, 1) {
		assert.Equal(t, model.ID("d"), completed[0].ID)
	}
}

func TestToday(t *testing.T) {
	list := []model.Appointment{
		{ID: "a", StudentID: "s1", Date: "2025-01-15", Time: "15:00:00", Status: model.AppointmentStatusScheduled},
		{ID: "b", StudentID: "s1", Date: "2025-01-15", Time: "08:00:00", Status: model.AppointmentStatusScheduled},
		{ID: "c", StudentID: "s1", Date: "2025-01-16", Time: "15:00:00", Status: model.AppointmentStatusScheduled},
	}
	out := Today(list, now)
	if assert.Len(t, out, 1) {
		assert.Equal(t, model.ID("a"), out[0].ID)
	}
}

func TestChanges(t *testing.T) {
	before := []model.Appointment{
		{ID: "1", Status: model.AppointmentStatusScheduled},
		{ID: "2", Status: model.AppointmentStatusScheduled},
	}
	after := []model.Appointment{
		{ID: "1", Status: model.AppointmentStatusScheduled},
		{ID: "2", Status: model.AppointmentStatusCanceled},
		{ID: "3", Status: model.AppointmentStatusScheduled},
	}

	added, cancelled := Changes(before, after)
	if assert.Len(t, added, 1) {
		assert.Equal(t, model.ID("3"), added[0].ID)
	}
	if assert.Len(t, cancelled, 1) {
		assert.Equal(t, model.ID("2"), cancelled[0].ID)
	}
}
