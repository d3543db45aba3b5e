package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratihub/pratihub_bot/internal/model"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

func TestGenerate_DenseOrderedGrid(t *testing.T) {
	existing := []model.Slot{
		{Time: "10:00", Available: true},
		{Time: "15:30", Available: true, Booked: true},
		{Time: "07:15", Available: true}, // не попадает в сетку
	}
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, saoPaulo)
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, saoPaulo)

	grid := Generate(existing, date, now, DefaultGrid())
	require.Len(t, grid, (23-6)*2+1)

	seen := make(map[string]bool)
	for i, s := range grid {
		assert.False(t, seen[s.Time], "duplicate %s", s.Time)
		seen[s.Time] = true
		if i > 0 {
			assert.Less(t, grid[i-1].Time, s.Time)
		}
	}
	assert.Equal(t, "06:00", grid[0].Time)
	assert.Equal(t, "23:00", grid[len(grid)-1].Time)

	s, ok := Find(grid, "10:00")
	require.True(t, ok)
	assert.True(t, s.Available)

	s, _ = Find(grid, "15:30")
	assert.True(t, s.Booked)

	s, _ = Find(grid, "06:30")
	assert.Equal(t, model.Slot{Time: "06:30"}, s)
}

func TestGenerate_TodayMarksPastSlots(t *testing.T) {
	var existing []model.Slot
	for _, tm := range DefaultGrid().Times() {
		existing = append(existing, model.Slot{Time: tm, Available: true})
	}
	existing[0].Booked = true

	now := time.Date(2025, 1, 15, 14, 5, 0, 0, saoPaulo)
	grid := Generate(existing, now, now, DefaultGrid())

	for _, s := range grid {
		switch {
		case s.Time < "14:00":
			assert.False(t, s.Available, s.Time)
			assert.True(t, s.IsPast, s.Time)
		case s.Time >= "14:30":
			assert.True(t, s.Available, s.Time)
			assert.False(t, s.IsPast, s.Time)
			assert.False(t, s.Booked, s.Time)
		}
	}
	first, _ := Find(grid, "06:00")
	assert.True(t, first.Booked, "booked flag is kept on past slots")
}

func TestGenerate_EarlierDateIsPast(t *testing.T) {
	date := time.Date(2025, 1, 14, 0, 0, 0, 0, saoPaulo)
	now := time.Date(2025, 1, 15, 6, 0, 0, 0, saoPaulo)

	grid := Generate([]model.Slot{{Time: "20:00", Available: true}}, date, now, DefaultGrid())
	for _, s := range grid {
		assert.True(t, s.IsPast)
		assert.False(t, s.Available)
	}
}

func TestGenerate_IgnoresStalePastFlag(t *testing.T) {
	date := time.Date(2025, 1, 20, 0, 0, 0, 0, saoPaulo)
	now := time.Date(2025, 1, 15, 6, 0, 0, 0, saoPaulo)

	grid := Generate([]model.Slot{{Time: "09:00", Available: true, IsPast: true}}, date, now, DefaultGrid())
	s, _ := Find(grid, "09:00")
	assert.False(t, s.IsPast)
	assert.True(t, s.Available)
}

func TestGrid_CustomInterval(t *testing.T) {
	g := Grid{StartHour: 8, EndHour: 10, Interval: time.Hour}
	assert.Equal(t, []string{"08:00", "09:00", "10:00"}, g.Times())
}

func TestCounts(t *testing.T) {
	grid := []model.Slot{
		{Time: "06:00", Available: true},
		{Time: "06:30", Available: true, Booked: true},
		{Time: "07:00", Available: false, IsPast: true},
	}
	available, booked := Counts(grid)
	assert.Equal(t, 1, available)
	assert.Equal(t, 1, booked)
}

func TestMarkPast_AgesLoadedGrid(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, saoPaulo)
	loadedAt := time.Date(2025, 1, 15, 9, 0, 0, 0, saoPaulo)

	existing := []model.Slot{
		{Time: "09:30", Available: true},
		{Time: "10:00", Available: true, Booked: true},
		{Time: "11:00", Available: true},
	}
	grid := Generate(existing, date, loadedAt, DefaultGrid())

	tests := []struct {
		name     string
		now      time.Time
		wantPast []string
		wantOpen []string
	}{
		{name: "same moment", now: loadedAt, wantOpen: []string{"09:30", "11:00"}},
		{name: "later the same day", now: time.Date(2025, 1, 15, 10, 15, 0, 0, saoPaulo), wantPast: []string{"09:30", "10:00"}, wantOpen: []string{"11:00"}},
		{name: "next day", now: time.Date(2025, 1, 16, 6, 0, 0, 0, saoPaulo), wantPast: []string{"09:30", "10:00", "11:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := MarkPast(grid, date, tt.now)
			require.Len(t, out, len(grid))

			for _, tm := range tt.wantPast {
				s, _ := Find(out, tm)
				assert.True(t, s.IsPast, tm)
				assert.False(t, s.Available, tm)
			}
			for _, tm := range tt.wantOpen {
				s, _ := Find(out, tm)
				assert.False(t, s.IsPast, tm)
				assert.True(t, s.Available, tm)
			}
		})
	}

	booked, _ := Find(MarkPast(grid, date, time.Date(2025, 1, 15, 12, 0, 0, 0, saoPaulo)), "10:00")
	assert.True(t, booked.Booked)
	original, _ := Find(grid, "09:30")
	assert.False(t, original.IsPast, "input grid is not mutated")
}
