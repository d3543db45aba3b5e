package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{name: "string", in: `{"id":"abc-1"}`, want: "abc-1"},
		{name: "number", in: `{"id":42}`, want: "42"},
		{name: "null", in: `{"id":null}`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				ID ID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.in), &v))
			assert.Equal(t, tt.want, v.ID)
		})
	}
}

func TestAppointment_StartsAt(t *testing.T) {
	a := Appointment{Date: "2025-01-15", Time: "10:00"}
	at, err := a.StartsAt(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 10, at.Hour())

	a.Time = "10:30:00"
	at, err = a.StartsAt(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 30, at.Minute())
}

func TestPhaseStatus_Next(t *testing.T) {
	assert.Equal(t, PhaseStatusInProgress, PhaseStatusTodo.Next())
	assert.Equal(t, PhaseStatusDone, PhaseStatusInProgress.Next())
	assert.Equal(t, PhaseStatusTodo, PhaseStatusDone.Next())
}
