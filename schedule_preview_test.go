package main

import (
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
)

func TestSchedulePreview_NextRun(t *testing.T) {
	clk := clock.NewFake()
	// A Friday.
	clk.Set(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	preview := NewSchedulePreview(clk)

	at := func(month time.Month, day, hour, minute int) time.Time {
		return time.Date(2024, month, day, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name   string
		row    Row
		want   time.Time
		wantOK bool
	}{
		{
			name:   "daily already past today",
			row:    Row{"activated": true, "frequency": "daily", "hour_value": int64(9), "minute_value": int64(0)},
			want:   at(time.March, 2, 9, 0),
			wantOK: true,
		},
		{
			name:   "daily later today",
			row:    Row{"activated": true, "frequency": "daily", "hour_value": int64(18), "minute_value": int64(45)},
			want:   at(time.March, 1, 18, 45),
			wantOK: true,
		},
		{
			name:   "weekly",
			row:    Row{"activated": true, "frequency": "weekly", "day_of_week": "monday", "hour_value": int64(9), "minute_value": int64(30)},
			want:   at(time.March, 4, 9, 30),
			wantOK: true,
		},
		{
			name:   "monthly",
			row:    Row{"activated": true, "frequency": "monthly", "day_value": int64(15), "hour_value": int64(8), "minute_value": int64(0)},
			want:   at(time.March, 15, 8, 0),
			wantOK: true,
		},
		{
			name:   "yearly",
			row:    Row{"activated": true, "frequency": "yearly", "day_value": int64(25), "month_value": int64(12), "hour_value": int64(7), "minute_value": int64(0)},
			want:   at(time.December, 25, 7, 0),
			wantOK: true,
		},
		{
			name:   "once in the future",
			row:    Row{"activated": true, "frequency": "once", "year_value": int64(2024), "month_value": int64(3), "day_value": int64(1), "hour_value": int64(11), "minute_value": int64(0)},
			want:   at(time.March, 1, 11, 0),
			wantOK: true,
		},
		{
			name: "once in the past",
			row:  Row{"activated": true, "frequency": "once", "year_value": int64(2023), "month_value": int64(3), "day_value": int64(1), "hour_value": int64(11), "minute_value": int64(0)},
		},
		{
			name: "inactive",
			row:  Row{"activated": false, "frequency": "daily", "hour_value": int64(9), "minute_value": int64(0)},
		},
		{
			name: "weekly without a weekday",
			row:  Row{"activated": true, "frequency": "weekly", "hour_value": int64(9), "minute_value": int64(0)},
		},
		{
			name: "missing hour",
			row:  Row{"activated": true, "frequency": "daily", "hour_value": nil, "minute_value": int64(0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := preview.NextRun(tt.row)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			}
		})
	}
}
