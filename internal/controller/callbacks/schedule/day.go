package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/common/formatting"
	"github.com/pratihub/pratihub_bot/internal/controller/state"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/service"
	"github.com/pratihub/pratihub_bot/internal/slots"
)

// openDay сетка дня, открытая в чате
type openDay struct {
	AdminID model.ID
	Date    string
	Grid    []model.Slot
}

// ========================
// Day Grid Handlers
// ========================

// HandleViewDay показывает сетку дня; формат day:20250115
func HandleViewDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.CallbackArgs(callback.Data, 1)
		if err != nil {
			common.HandleError(hc, err, "view_day")
			return
		}
		date, err := parseDateArg(h, args[0])
		if err != nil {
			common.HandleError(hc, err, "view_day")
			return
		}

		day, err := loadDay(hc, date)
		if err != nil {
			common.HandleError(hc, err, "view_day")
			return
		}

		showDay(hc, date, day.Grid)
		hc.Answer("")
	})
}

// HandleToggleSlot открывает или закрывает слот администратора; формат toggle_slot:20250115:1000
func HandleToggleSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		date, slotTime, err := parseSlotArgs(h, callback.Data)
		if err != nil {
			common.HandleError(hc, err, "toggle_slot")
			return
		}

		day, err := cachedDay(hc, date)
		if err != nil {
			common.HandleError(hc, err, "toggle_slot")
			return
		}
		day.Grid = h.AvailabilityService.Current(date, day.Grid)

		// Сначала показываем результат, потом сохраняем
		if optimistic, ok := slots.Toggle(day.Grid, slotTime); ok {
			showDay(hc, date, optimistic)
		}

		next, err := h.AvailabilityService.Toggle(hc.Ctx, hc.Source(), day.AdminID, date, day.Grid, slotTime)
		storeDay(hc, openDay{AdminID: day.AdminID, Date: day.Date, Grid: next})
		if err != nil {
			showDay(hc, date, next)
			common.HandleError(hc, err, "toggle_slot")
			return
		}

		slot, _ := slots.Find(next, slotTime)
		common.LogAndAnswer(hc, "Slot toggled", fmt.Sprintf("%s %s", slotTime, formatting.GetSlotStatusDisplay(slot).String()))
	})
}

// HandleBookSlot просит студента подтвердить запись; формат book_slot:20250115:1000
func HandleBookSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		date, slotTime, err := parseSlotArgs(h, callback.Data)
		if err != nil {
			common.HandleError(hc, err, "book_slot")
			return
		}

		day, err := cachedDay(hc, date)
		if err != nil {
			common.HandleError(hc, err, "book_slot")
			return
		}
		slot, ok := slots.Find(day.Grid, slotTime)
		if !ok || !slot.Bookable() {
			hc.AnswerAlert(common.ErrorMessage(service.ErrSlotUnavailable))
			return
		}

		teamName := ""
		if team, err := h.TeamService.MyTeam(hc.Ctx, hc.Source(), hc.Session.UserID); err == nil && team != nil {
			teamName = team.Name
		}

		text, kb := common.BuildConfirmBookingScreen(date, slot, teamName)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show booking confirmation", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleConfirmBook создаёт запись; формат confirm_book:20250115:1000
func HandleConfirmBook(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		date, slotTime, err := parseSlotArgs(h, callback.Data)
		if err != nil {
			common.HandleError(hc, err, "confirm_book")
			return
		}

		// Перечитываем день: слот могли занять, пока показывалось подтверждение
		day, err := loadDay(hc, date)
		if err != nil {
			common.HandleError(hc, err, "confirm_book")
			return
		}
		slot, ok := slots.Find(day.Grid, slotTime)
		if !ok {
			common.HandleError(hc, common.ErrSlotNotFound, "confirm_book")
			return
		}

		_, booked, err := h.BookingService.Book(hc.Ctx, hc.Source(), hc.Session.UserID, day.Date, slot)
		if err != nil {
			showDay(hc, date, day.Grid)
			common.HandleError(hc, err, "confirm_book")
			return
		}

		grid := slots.MarkBooked(day.Grid, booked.Time)
		storeDay(hc, openDay{AdminID: day.AdminID, Date: day.Date, Grid: grid})
		showDay(hc, date, grid)
		common.LogAndAnswer(hc, "Appointment booked from bot", "✅ Reunião agendada!")
	})
}

// HandleDayImage отправляет картинку сетки дня; формат day_img:20250115
func HandleDayImage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.CallbackArgs(callback.Data, 1)
		if err != nil {
			common.HandleError(hc, err, "day_image")
			return
		}
		date, err := parseDateArg(h, args[0])
		if err != nil {
			common.HandleError(hc, err, "day_image")
			return
		}

		day, err := cachedDay(hc, date)
		if err != nil {
			common.HandleError(hc, err, "day_image")
			return
		}

		data, err := common.GenerateDayImage(date, day.Grid)
		if err != nil {
			common.HandleError(hc, err, "day_image")
			return
		}
		if err := hc.SendPhoto("dia.png", data, formatting.FormatDaySummary(day.Grid)); err != nil {
			h.Logger.Error("Failed to send day image", zap.Int64("chat_id", hc.ChatID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// loadDay всегда читает день с бэкенда и запоминает его в чате
func loadDay(hc *common.HandlerContext, date time.Time) (openDay, error) {
	adminID, err := adminFor(hc)
	if err != nil {
		return openDay{}, err
	}

	grid, err := hc.Handler.AvailabilityService.Day(hc.Ctx, hc.Source(), adminID, date)
	if err != nil {
		return openDay{}, err
	}

	day := openDay{AdminID: adminID, Date: date.Format(slots.DateLayout), Grid: grid}
	storeDay(hc, day)
	return day, nil
}

// cachedDay открытая сетка того же дня, иначе загрузка
func cachedDay(hc *common.HandlerContext, date time.Time) (openDay, error) {
	if v, ok := hc.GetData(state.KeyDayGrid); ok {
		if day, ok := v.(openDay); ok && day.Date == date.Format(slots.DateLayout) {
			return day, nil
		}
	}
	return loadDay(hc, date)
}

func storeDay(hc *common.HandlerContext, day openDay) {
	hc.SetData(state.KeyDayGrid, day)
}

func showDay(hc *common.HandlerContext, date time.Time, grid []model.Slot) {
	text, kb := common.BuildDayScreen(date, Today(hc.Handler), grid, hc.Session.IsAdmin())
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show day grid",
			zap.Int64("chat_id", hc.ChatID),
			zap.Error(err))
	}
}

// parseSlotArgs разбирает "<prefix>20250115:1000"
func parseSlotArgs(h *callbacktypes.Handler, data string) (time.Time, string, error) {
	args, err := common.CallbackArgs(data, 2)
	if err != nil {
		return time.Time{}, "", err
	}
	date, err := parseDateArg(h, args[0])
	if err != nil {
		return time.Time{}, "", err
	}
	slotTime, err := common.ParseCallbackTime(args[1])
	if err != nil {
		return time.Time{}, "", err
	}
	return date, slotTime, nil
}
