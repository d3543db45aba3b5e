package common

import (
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratihub/pratihub_bot/internal/meetings"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/pagination"
	"github.com/pratihub/pratihub_bot/internal/slots"
)

// maxCallbackData лимит Telegram на callback data
const maxCallbackData = 64

func dayFixture() (date, today time.Time, grid []model.Slot) {
	today = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	date = today
	now := today.Add(10*time.Hour + 15*time.Minute)
	grid = slots.Generate([]model.Slot{
		{Time: "09:00", Available: true},
		{Time: "11:00", Available: true},
		{Time: "11:30", Available: true, Booked: true},
	}, date, now, slots.DefaultGrid())
	return date, today, grid
}

func collectData(rows [][]models.InlineKeyboardButton) []string {
	var data []string
	for _, row := range rows {
		for _, btn := range row {
			data = append(data, btn.CallbackData)
		}
	}
	return data
}

func TestBuildDayScreen_Admin(t *testing.T) {
	date, today, grid := dayFixture()

	text, kb := BuildDayScreen(date, today, grid, true)
	assert.Contains(t, text, "Toque em um horário")

	data := collectData(kb.InlineKeyboard)
	for _, d := range data {
		assert.LessOrEqual(t, len(d), maxCallbackData, d)
	}

	// прошедшие слоты и занятый слот не переключаются
	assert.Contains(t, data, ToggleSlot+"20250115:1100")
	assert.Contains(t, data, ToggleSlot+"20250115:2300")
	assert.NotContains(t, data, ToggleSlot+"20250115:1130")
	assert.NotContains(t, data, ToggleSlot+"20250115:0900")
	assert.Contains(t, data, Noop)
	assert.Contains(t, data, DayImage+"20250115")
	assert.Contains(t, data, CalendarPage+"0")
}

func TestBuildDayScreen_Student(t *testing.T) {
	date, today, grid := dayFixture()

	text, kb := BuildDayScreen(date, today, grid, false)
	assert.Contains(t, text, "Escolha um horário")

	data := collectData(kb.InlineKeyboard)
	var books []string
	for _, d := range data {
		if strings.HasPrefix(d, BookSlot) {
			books = append(books, d)
		}
	}
	// свободен только 11:00: 09:00 прошёл, 11:30 занят
	assert.Equal(t, []string{BookSlot + "20250115:1100"}, books)
	assert.NotContains(t, data, ToggleSlot+"20250115:1100")
}

func TestBuildCalendarScreen(t *testing.T) {
	today := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	text, kb := BuildCalendarScreen(today, 0, false, "Ana <Mentora>")
	assert.Contains(t, text, "Ana &lt;Mentora&gt;")

	data := collectData(kb.InlineKeyboard)
	assert.Contains(t, data, ViewDay+"20250115")
	assert.Contains(t, data, ViewDay+"20250121")
	assert.Contains(t, data, CalendarPage+"7")
	assert.NotContains(t, data, ViewDay+"20250122")

	_, kb = BuildCalendarScreen(today, CalendarMaxOffset+100, true, "")
	data = collectData(kb.InlineKeyboard)
	assert.Contains(t, data, CalendarPage+"77")
	assert.NotContains(t, data, CalendarPage+"91")
}

func TestCalendarOffsetFor(t *testing.T) {
	today := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, CalendarOffsetFor(today, today))
	assert.Equal(t, 0, CalendarOffsetFor(today.AddDate(0, 0, 6), today))
	assert.Equal(t, 7, CalendarOffsetFor(today.AddDate(0, 0, 7), today))
	assert.Equal(t, 14, CalendarOffsetFor(today.AddDate(0, 0, 20), today))
	assert.Equal(t, 0, CalendarOffsetFor(today.AddDate(0, 0, -3), today))
}

func TestMeetingTabs(t *testing.T) {
	assert.Equal(t, []meetings.Bucket{meetings.BucketUpcoming, meetings.BucketPast}, MeetingTabs(true))
	assert.Equal(t,
		[]meetings.Bucket{meetings.BucketUpcoming, meetings.BucketCompleted, meetings.BucketCancelled},
		MeetingTabs(false))
}

func TestBuildMeetingsScreen_CancelButtonsOnlyOnUpcoming(t *testing.T) {
	items := []model.Appointment{
		{ID: "a1", Date: "2025-01-20", Time: "10:00:00", Status: model.AppointmentStatusScheduled},
		{ID: "a2", Date: "2025-01-21", Time: "14:30:00", Status: model.AppointmentStatusScheduled},
	}
	page := pagination.Paginate(items, 0, MeetingsPageSize)

	_, kb := BuildMeetingsScreen(page, meetings.BucketUpcoming, false)
	data := collectData(kb.InlineKeyboard)
	assert.Contains(t, data, CancelMeeting+"a1:upcoming:0")
	assert.Contains(t, data, CancelMeeting+"a2:upcoming:0")
	assert.Contains(t, data, MeetingsTab+"cancelled:0")

	_, kb = BuildMeetingsScreen(page, meetings.BucketCompleted, false)
	for _, d := range collectData(kb.InlineKeyboard) {
		assert.False(t, strings.HasPrefix(d, CancelMeeting), d)
	}
}

func TestBuildMeetingsScreen_Empty(t *testing.T) {
	page := pagination.Paginate([]model.Appointment(nil), 0, MeetingsPageSize)

	text, _ := BuildMeetingsScreen(page, meetings.BucketUpcoming, true)
	assert.Contains(t, text, "Nenhuma reunião encontrada.")
}

func TestBuildCancelMeetingScreen(t *testing.T) {
	a := model.Appointment{ID: "a1", Date: "2025-01-20", Time: "10:00:00"}

	_, kb := BuildCancelMeetingScreen(a, true, meetings.BucketUpcoming, 2)
	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, ConfirmCancelMeeting+"a1:upcoming:2", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, MeetingsTab+"upcoming:2", kb.InlineKeyboard[0][1].CallbackData)
}

func TestCanManageTeam(t *testing.T) {
	team := &model.Team{
		ID: "t1",
		Members: []model.TeamMember{
			{UserID: "u1", Role: "leader"},
			{UserID: "u2", Role: "member"},
		},
	}

	tests := []struct {
		name string
		sess *model.Session
		want bool
	}{
		{"admin", &model.Session{UserID: "adm", UserType: model.UserTypeAdmin}, true},
		{"leader", &model.Session{UserID: "u1", UserType: model.UserTypeStudent}, true},
		{"member", &model.Session{UserID: "u2", UserType: model.UserTypeStudent}, false},
		{"outsider", &model.Session{UserID: "u9", UserType: model.UserTypeStudent}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanManageTeam(tt.sess, team))
		})
	}
}
