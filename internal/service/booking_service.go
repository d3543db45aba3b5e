package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/model"
)

// BookingService запись студента на слот администратора
type BookingService struct {
	client *api.Client
	logger *zap.Logger
}

func NewBookingService(client *api.Client, logger *zap.Logger) *BookingService {
	return &BookingService{
		client: client,
		logger: logger,
	}
}

// Admin находит единственного администратора платформы
func (s *BookingService) Admin(ctx context.Context, ts api.TokenSource) (*model.User, error) {
	users, err := s.client.WithTokens(ts).ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		if users[i].IsAdmin() {
			return &users[i], nil
		}
	}
	return nil, ErrNoAdmin
}

// teamOf ищет команду студента, nil если студент без команды
func (s *BookingService) teamOf(ctx context.Context, c *api.Client, studentID model.ID) (*model.ID, error) {
	teams, err := c.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	for i := range teams {
		if teams[i].HasMember(studentID) {
			id := teams[i].ID
			return &id, nil
		}
	}
	return nil, nil
}

// Book создаёт запись на слот. Для недоступного, занятого или прошедшего слота
// возвращает ErrSlotUnavailable без обращения к бэкенду.
// Двойная запись на один слот на клиенте не предотвращается.
func (s *BookingService) Book(ctx context.Context, ts api.TokenSource, studentID model.ID, date string, slot model.Slot) (*model.Appointment, model.Slot, error) {
	if !slot.Bookable() {
		return nil, slot, ErrSlotUnavailable
	}

	c := s.client.WithTokens(ts)

	admin, err := s.Admin(ctx, ts)
	if err != nil {
		return nil, slot, err
	}

	teamID, err := s.teamOf(ctx, c, studentID)
	if err != nil {
		return nil, slot, err
	}

	appt, err := c.CreateAppointment(ctx, model.NewAppointment{
		AdminID:   admin.ID,
		StudentID: studentID,
		TeamID:    teamID,
		Date:      date,
		Time:      slot.Time + ":00",
		Status:    model.AppointmentStatusScheduled,
	})
	if err != nil {
		s.logger.Error("Failed to create appointment",
			zap.String("student_id", studentID.String()),
			zap.String("date", date),
			zap.String("time", slot.Time),
			zap.Error(err))
		if errors.Is(err, api.ErrUnauthorized) {
			return nil, slot, err
		}
		return nil, slot, fmt.Errorf("%w: %w", ErrBookingFailed, err)
	}

	s.logger.Info("Appointment booked",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("student_id", studentID.String()),
		zap.String("date", date),
		zap.String("time", slot.Time))

	booked := slot
	booked.Booked = true
	return appt, booked, nil
}
