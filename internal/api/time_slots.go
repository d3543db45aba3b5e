package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pratihub/pratihub_bot/internal/model"
)

// GetDaySlots возвращает сохранённые слоты администратора на дату.
// Если записи на эту дату нет, возвращает nil без ошибки.
func (c *Client) GetDaySlots(ctx context.Context, adminID model.ID, date string) (*model.DaySlots, error) {
	query := url.Values{}
	query.Set("adminId", adminID.String())
	query.Set("date", date)

	var days []model.DaySlots
	if err := c.do(ctx, http.MethodGet, "/timeSlots", query, nil, &days); err != nil {
		return nil, err
	}

	for i := range days {
		if days[i].Date == date {
			return &days[i], nil
		}
	}
	return nil, nil
}

// CreateDaySlots создаёт запись дня, если её ещё не было
func (c *Client) CreateDaySlots(ctx context.Context, day model.DaySlots) (*model.DaySlots, error) {
	var created model.DaySlots
	if err := c.do(ctx, http.MethodPost, "/timeSlots", nil, day, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateDaySlots заменяет набор слотов дня целиком
func (c *Client) UpdateDaySlots(ctx context.Context, day model.DaySlots) (*model.DaySlots, error) {
	var updated model.DaySlots
	if err := c.do(ctx, http.MethodPut, pathOf("timeSlots", day.ID.String()), nil, day, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
