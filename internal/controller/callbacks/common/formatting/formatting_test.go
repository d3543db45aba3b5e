package formatting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pratihub/pratihub_bot/internal/meetings"
	"github.com/pratihub/pratihub_bot/internal/model"
)

func TestFormatDayButton(t *testing.T) {
	today := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC) // quarta

	tests := []struct {
		name string
		day  time.Time
		want string
	}{
		{name: "today", day: today, want: "Hoje • Qua, 15/01"},
		{name: "tomorrow", day: today.AddDate(0, 0, 1), want: "Amanhã • Qui, 16/01"},
		{name: "later", day: today.AddDate(0, 0, 4), want: "Dom, 19/01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDayButton(tt.day, today))
		})
	}
}

func TestFormatAPIDateAndClock(t *testing.T) {
	assert.Equal(t, "15/01/2025", FormatAPIDate("2025-01-15"))
	assert.Equal(t, "garbage", FormatAPIDate("garbage"))
	assert.Equal(t, "10:00", FormatClock("10:00:00"))
	assert.Equal(t, "9", FormatClock("9"))
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "1 reunião", CountMeetings(1))
	assert.Equal(t, "0 reuniões", CountMeetings(0))
	assert.Equal(t, "3 horários", CountSlots(3))
	assert.Equal(t, "1 notificação", CountNotifications(1))
}

func TestGetSlotStatusDisplay(t *testing.T) {
	tests := []struct {
		slot model.Slot
		want string
	}{
		{model.Slot{Available: true}, "🟢"},
		{model.Slot{Available: true, Booked: true}, "🔴"},
		{model.Slot{IsPast: true}, "⚫️"},
		{model.Slot{}, "⚪️"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetSlotStatusDisplay(tt.slot).Emoji)
	}
	assert.Equal(t, "🟢 10:00", FormatSlotButton(model.Slot{Time: "10:00", Available: true}))
}

func TestDisplays(t *testing.T) {
	assert.Equal(t, "Próximas", GetBucketDisplay(meetings.BucketUpcoming).Text)
	assert.Equal(t, "Em andamento", GetPhaseStatusDisplay(model.PhaseStatusInProgress).Text)
	assert.Equal(t, "Não informado", GetEmotionalStatusDisplay("").Text)
	assert.Equal(t, "😄 Ótimo", GetEmotionalStatusDisplay(model.EmotionalStatusGreat).String())
}

func TestFormatAppointmentLine(t *testing.T) {
	team := model.ID("7")
	a := model.Appointment{Date: "2025-01-15", Time: "10:00:00", TeamID: &team, TeamName: "Equipe <Alfa>"}

	assert.Equal(t, "🗓 15/01/2025 às 10:00 • 👥 Equipe &lt;Alfa&gt;", FormatAppointmentLine(a, true))
	assert.Equal(t, "🗓 15/01/2025 às 10:00 • 👥 Equipe", FormatAppointmentLine(a, false))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate(" abc ", 5))
	assert.Equal(t, "olá …", Truncate("olá mundo", 5))
}
