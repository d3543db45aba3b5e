package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/model"
	"github.com/pratihub/pratihub_bot/internal/slots"
)

// AvailabilityService сетка дня администратора и переключение доступности
type AvailabilityService struct {
	client *api.Client
	grid   slots.Grid
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

func NewAvailabilityService(client *api.Client, grid slots.Grid, loc *time.Location, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		client: client,
		grid:   grid,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// Now текущее время в часовом поясе платформы
func (s *AvailabilityService) Now() time.Time {
	return s.now().In(s.loc)
}

// Current сетка с пересчитанными на сейчас прошедшими слотами
func (s *AvailabilityService) Current(date time.Time, grid []model.Slot) []model.Slot {
	return slots.MarkPast(grid, date, s.Now())
}

// Day загружает сохранённые слоты и строит полную сетку дня.
// Занятость дополняется по активным записям администратора, если они доступны.
func (s *AvailabilityService) Day(ctx context.Context, ts api.TokenSource, adminID model.ID, date time.Time) ([]model.Slot, error) {
	c := s.client.WithTokens(ts)
	dateStr := date.Format(slots.DateLayout)

	day, err := c.GetDaySlots(ctx, adminID, dateStr)
	if err != nil {
		return nil, fmt.Errorf("get day slots: %w", err)
	}

	var existing []model.Slot
	if day != nil {
		existing = day.Slots
	}
	grid := slots.Generate(existing, date, s.Now(), s.grid)

	appts, err := c.ListAppointmentsByAdmin(ctx, adminID)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return nil, fmt.Errorf("list admin appointments: %w", err)
		}
		s.logger.Debug("Admin appointments unavailable, using slot flags only",
			zap.String("admin_id", adminID.String()),
			zap.Error(err))
		return grid, nil
	}

	return slots.ApplyAppointments(grid, dateStr, appts), nil
}

// Toggle переключает доступность слота и сохраняет день.
// Прошедшие слоты пересчитываются на текущий момент, сетка могла быть загружена раньше.
// При ошибке сохранения возвращает исходную сетку (откат) и ошибку, без повторов.
func (s *AvailabilityService) Toggle(ctx context.Context, ts api.TokenSource, adminID model.ID, date time.Time, grid []model.Slot, slotTime string) ([]model.Slot, error) {
	grid = s.Current(date, grid)
	next, ok := slots.Toggle(grid, slotTime)
	if !ok {
		return grid, ErrSlotUnavailable
	}

	changes := slots.Diff(grid, next)
	if err := s.persist(ctx, s.client.WithTokens(ts), adminID, date.Format(slots.DateLayout), changes); err != nil {
		s.logger.Error("Failed to persist availability",
			zap.String("admin_id", adminID.String()),
			zap.String("date", date.Format(slots.DateLayout)),
			zap.String("time", slotTime),
			zap.Error(err))
		return grid, fmt.Errorf("%w: %w", ErrToggleFailed, err)
	}

	s.logger.Info("Availability toggled",
		zap.String("admin_id", adminID.String()),
		zap.String("date", date.Format(slots.DateLayout)),
		zap.String("time", slotTime))

	return next, nil
}

// persist накладывает локальные изменения на свежую запись дня с сервера и
// сохраняет весь набор доступных свободных слотов (замена дня целиком)
func (s *AvailabilityService) persist(ctx context.Context, c *api.Client, adminID model.ID, date string, changes []slots.Change) error {
	if len(changes) == 0 {
		return nil
	}

	day, err := c.GetDaySlots(ctx, adminID, date)
	if err != nil {
		return fmt.Errorf("reload day: %w", err)
	}

	if day == nil {
		_, err := c.CreateDaySlots(ctx, model.DaySlots{
			AdminID: adminID,
			Date:    date,
			Slots:   slots.Persistable(slots.Merge(nil, changes)),
		})
		if err != nil {
			return fmt.Errorf("create day: %w", err)
		}
		return nil
	}

	day.Slots = slots.Persistable(slots.Merge(day.Slots, changes))
	if _, err := c.UpdateDaySlots(ctx, *day); err != nil {
		return fmt.Errorf("update day: %w", err)
	}
	return nil
}
