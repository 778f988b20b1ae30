package domain

import "time"

const (
	SlotInterval        = 30 * time.Minute
	ConflictBuffer      = 59 * time.Minute
	OverlapWindow       = 2 * ConflictBuffer
	AppointmentDuration = time.Hour
	LeadTime            = 2 * time.Hour
	HorizonMonths       = 3
	OpeningHour         = 9
	ClosingHour         = 20
)

// RoundOK reports whether t sits on the 30-minute grid inside business hours.
// t must already be expressed in the business location.
func RoundOK(t time.Time) bool {
	if t.Minute() != 0 && t.Minute() != 30 {
		return false
	}
	return t.Hour() >= OpeningHour && t.Hour() < ClosingHour
}

// Overlaps reports whether two scheduled times are closer than OverlapWindow.
func Overlaps(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d < OverlapWindow
}

func LeadTimeOK(t, now time.Time) bool {
	return !t.Before(now.Add(LeadTime))
}

func HorizonOK(t, now time.Time) bool {
	return !t.After(Horizon(now))
}

func Horizon(now time.Time) time.Time {
	return now.AddDate(0, HorizonMonths, 0)
}

func WithinLeadWindow(t, now time.Time) bool {
	return LeadTimeOK(t, now) && HorizonOK(t, now)
}

// DayBounds returns local midnight of date's day and the following midnight.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// DaySlots returns every grid candidate of date's business day, in order.
func DaySlots(date time.Time, loc *time.Location) []time.Time {
	start, _ := DayBounds(date, loc)
	open := time.Date(start.Year(), start.Month(), start.Day(), OpeningHour, 0, 0, 0, loc)
	closing := time.Date(start.Year(), start.Month(), start.Day(), ClosingHour, 0, 0, 0, loc)

	var out []time.Time
	for t := open; t.Before(closing); t = t.Add(SlotInterval) {
		out = append(out, t)
	}
	return out
}

// WeekBounds returns the Monday 00:00 starting now's week and the next Monday.
func WeekBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	day, _ := DayBounds(now, loc)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}
