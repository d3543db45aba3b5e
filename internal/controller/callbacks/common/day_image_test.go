package common

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/slots"
)

func TestGenerateDayImage(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	now := date.Add(9 * time.Hour)
	grid := slots.Generate([]model.Slot{
		{Time: "10:00", Available: true},
		{Time: "11:00", Available: true, Booked: true},
	}, date, now, slots.DefaultGrid())

	data, err := GenerateDayImage(date, grid)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, dayImageWidth, img.Bounds().Dx())
	// 35 слотов по 5 в ряд = 7 рядов
	assert.Equal(t, dayHeaderHeight+7*dayCellHeight+dayLegendHeight, img.Bounds().Dy())
}

func TestSlotColor(t *testing.T) {
	assert.Equal(t, slotBookedColor, slotColor(model.Slot{Booked: true, IsPast: true}))
	assert.Equal(t, slotPastColor, slotColor(model.Slot{IsPast: true}))
	assert.Equal(t, slotFreeColor, slotColor(model.Slot{Available: true}))
	assert.Equal(t, slotOffColor, slotColor(model.Slot{}))
}
