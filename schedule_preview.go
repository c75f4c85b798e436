package main

import (
	"fmt"
	"time"

	"github.com/jmhodges/clock"
	"github.com/robfig/cron/v3"
)

const nextRunColumn = "next_run"

var cronWeekdays = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

// SchedulePreview derives when a scheduled reminder would next fire. It only
// informs the grid; nothing here sends anything.
type SchedulePreview struct {
	clock clock.Clock
}

func NewSchedulePreview(clk clock.Clock) *SchedulePreview {
	return &SchedulePreview{clock: clk}
}

// NextRun reports the next firing time of row, or false when the row is
// inactive, incomplete or already past.
func (sp *SchedulePreview) NextRun(row Row) (time.Time, bool) {
	if active, _ := row["activated"].(bool); !active {
		return time.Time{}, false
	}

	now := sp.clock.Now()
	freq, _ := row["frequency"].(string)
	if freq == "once" {
		return onceAt(row, now)
	}

	spec, ok := cronSpec(freq, row)
	if !ok {
		return time.Time{}, false
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, false
	}
	next := schedule.Next(now)
	return next, !next.IsZero()
}

func cronSpec(freq string, row Row) (string, bool) {
	hour, okH := toInt64(row["hour_value"])
	minute, okM := toInt64(row["minute_value"])
	if !okH || !okM {
		return "", false
	}

	switch freq {
	case "daily":
		return fmt.Sprintf("%d %d * * *", minute, hour), true
	case "weekly":
		dayName, _ := row["day_of_week"].(string)
		dow, ok := cronWeekdays[dayName]
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%d %d * * %d", minute, hour, dow), true
	case "monthly":
		day, ok := toInt64(row["day_value"])
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%d %d %d * *", minute, hour, day), true
	case "yearly":
		day, okD := toInt64(row["day_value"])
		month, okMo := toInt64(row["month_value"])
		if !okD || !okMo {
			return "", false
		}
		return fmt.Sprintf("%d %d %d %d *", minute, hour, day, month), true
	}
	return "", false
}

func onceAt(row Row, now time.Time) (time.Time, bool) {
	year, okY := toInt64(row["year_value"])
	month, okMo := toInt64(row["month_value"])
	day, okD := toInt64(row["day_value"])
	hour, okH := toInt64(row["hour_value"])
	minute, okM := toInt64(row["minute_value"])
	if !okY || !okMo || !okD || !okH || !okM {
		return time.Time{}, false
	}

	at := time.Date(int(year), time.Month(month), int(day), int(hour), int(minute), 0, 0, now.Location())
	if !at.After(now) {
		return time.Time{}, false
	}
	return at, true
}
