package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratihub/pratihub_bot/internal/model"
)

func TestCallbackArgs(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		args    []string
		wantErr bool
	}{
		{name: "single", data: "day:20250115", want: 1, args: []string{"20250115"}},
		{name: "three", data: "meet_cancel:42:upcoming:0", want: 3, args: []string{"42", "upcoming", "0"}},
		{name: "too few", data: "toggle_slot:20250115", want: 2, wantErr: true},
		{name: "too many", data: "day:20250115:1000", want: 1, wantErr: true},
		{name: "no prefix separator", data: "profile", want: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := CallbackArgs(tt.data, tt.want)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestParseIDFromCallback(t *testing.T) {
	id, err := ParseIDFromCallback("forum_post:abc-1")
	require.NoError(t, err)
	assert.Equal(t, model.ID("abc-1"), id)

	_, err = ParseIDFromCallback("forum_post:")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 3, ParsePage("3"))
	assert.Equal(t, 0, ParsePage("-1"))
	assert.Equal(t, 0, ParsePage("x"))
}

func TestCallbackTime(t *testing.T) {
	assert.Equal(t, "1030", FormatCallbackTime("10:30"))

	clock, err := ParseCallbackTime("0630")
	require.NoError(t, err)
	assert.Equal(t, "06:30", clock)

	for _, bad := range []string{"630", "06:30", "ab12"} {
		_, err := ParseCallbackTime(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat, bad)
	}
}

func TestCallbackDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, loc)

	s := FormatCallbackDate(date)
	assert.Equal(t, "20250115", s)

	parsed, err := ParseCallbackDate(s, loc)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(date))
	assert.Equal(t, loc, parsed.Location())

	_, err = ParseCallbackDate("2025-01-15", loc)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
