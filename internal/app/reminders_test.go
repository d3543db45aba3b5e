package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestReminders_RejectsInvalidSpec(t *testing.T) {
	r := NewReminders(time.UTC, zap.NewNop())
	err := r.Add("not a cron", "daily", time.Second, func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestReminders_AcceptsDailySpec(t *testing.T) {
	r := NewReminders(time.UTC, zap.NewNop())
	err := r.Add("0 8 * * *", "daily", time.Minute, func(context.Context) error { return nil })
	assert.NoError(t, err)

	r.Start()
	r.Stop()
}
