package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pratihub/pratihub_bot/internal/model"
)

func (c *Client) CreateAppointment(ctx context.Context, appt model.NewAppointment) (*model.Appointment, error) {
	var created model.Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", nil, appt, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CancelAppointment переводит встречу в CANCELLED, записи не удаляются
func (c *Client) CancelAppointment(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodPatch, pathOf("appointments", id.String(), "cancel"), nil, nil, nil)
}

func (c *Client) ListAppointmentsByStudent(ctx context.Context, studentID model.ID) ([]model.Appointment, error) {
	return c.listAppointments(ctx, "studentId", studentID)
}

func (c *Client) ListAppointmentsByAdmin(ctx context.Context, adminID model.ID) ([]model.Appointment, error) {
	return c.listAppointments(ctx, "adminId", adminID)
}

func (c *Client) listAppointments(ctx context.Context, key string, id model.ID) ([]model.Appointment, error) {
	query := url.Values{}
	query.Set(key, id.String())

	var appts []model.Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments", query, nil, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}
