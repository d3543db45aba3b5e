package common

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common/formatting"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/slots"
)

// Константы размеров и отступов
const (
	dayImageWidth    = 900
	dayHeaderHeight  = 70
	dayLegendHeight  = 50
	dayColumns       = 5
	dayCellHeight    = 56
	dayCellPadding   = 8
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
)

// Цветовая схема
var (
	bgColor         = color.RGBA{245, 246, 248, 255}
	textColor       = color.RGBA{80, 85, 90, 220}
	slotFreeColor   = color.RGBA{133, 193, 85, 220}
	slotBookedColor = color.RGBA{255, 182, 193, 255} // Светло-розовый для занятых
	slotPastColor   = color.RGBA{158, 158, 158, 200}
	slotOffColor    = color.RGBA{220, 220, 220, 200}
	slotTextColor   = color.RGBA{20, 24, 28, 230}
	slotBookedText  = color.RGBA{120, 40, 50, 255}
	slotShadowColor = color.RGBA{0, 0, 0, 20}
	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// GenerateDayImage рисует сетку слотов одного дня в PNG
func GenerateDayImage(date time.Time, grid []model.Slot) ([]byte, error) {
	rows := (len(grid) + dayColumns - 1) / dayColumns
	if rows == 0 {
		rows = 1
	}
	height := dayHeaderHeight + rows*dayCellHeight + dayLegendHeight

	dc := gg.NewContext(dayImageWidth, height)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	drawDayTitle(dc, date, grid)

	cellWidth := float64(dayImageWidth-2*dayCellPadding) / dayColumns
	for i, slot := range grid {
		col := i % dayColumns
		row := i / dayColumns
		x := float64(dayCellPadding) + float64(col)*cellWidth
		y := float64(dayHeaderHeight + row*dayCellHeight)
		drawSlotCell(dc, slot, x, y, cellWidth)
	}

	drawDayLegend(dc, float64(height-dayLegendHeight))

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawDayTitle заголовок с датой и счётчиками
func drawDayTitle(dc *gg.Context, date time.Time, grid []model.Slot) {
	dc.SetColor(textColor)
	title := formatting.FormatDateWithWeekday(date)
	dc.DrawStringAnchored(title, dayImageWidth/2, 24, 0.5, 0.5)

	available, booked := slots.Counts(grid)
	summary := fmt.Sprintf("%d disponíveis / %d agendados", available, booked)
	dc.DrawStringAnchored(summary, dayImageWidth/2, 48, 0.5, 0.5)
}

// drawSlotCell рисует один слот
func drawSlotCell(dc *gg.Context, slot model.Slot, x, y, width float64) {
	w := width - dayCellPadding
	h := float64(dayCellHeight - dayCellPadding)

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+shadowOffset, y+shadowOffset, w, h, slotBorderRadius)
	dc.Fill()

	fill := slotColor(slot)
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x, y, w, h, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y, w, h, slotBorderRadius)
	dc.Stroke()

	txt := slotTextColor
	if slot.Booked {
		txt = slotBookedText
	}
	dc.SetColor(txt)
	dc.DrawStringAnchored(slot.Time, x+w/2, y+h/2, 0.5, 0.35)
}

// slotColor цвет по состоянию слота; занятость важнее прошедшего времени
func slotColor(slot model.Slot) color.RGBA {
	switch {
	case slot.Booked:
		return slotBookedColor
	case slot.IsPast:
		return slotPastColor
	case slot.Available:
		return slotFreeColor
	default:
		return slotOffColor
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawDayLegend легенда внизу
func drawDayLegend(dc *gg.Context, top float64) {
	items := []struct {
		Label string
		Clr   color.RGBA
	}{
		{"Disponível", slotFreeColor},
		{"Agendado", slotBookedColor},
		{"Passado", slotPastColor},
		{"Indisponível", slotOffColor},
	}

	const boxW, boxH = 20.0, 14.0
	x := float64(dayCellPadding) + 10
	y := top + (dayLegendHeight-boxH)/2

	for _, item := range items {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, x+boxW+8, y+boxH/2, 0, 0.35)
		x += boxW + 8 + float64(len([]rune(item.Label)))*7 + 30
	}
}
