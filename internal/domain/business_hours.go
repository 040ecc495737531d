package domain

import (
	"fmt"
	"math"
	"time"
)

// BusinessHoursProfile describes when the business accepts appointments.
// Business operates on [OpenHour:00, CloseHour:00) on every day listed in WorkingDays,
// except for the lunch blackout [LunchStart, LunchEnd) given in fractional hours (13.5 = 13:30).
type BusinessHoursProfile struct {
	OpenHour               int
	CloseHour              int
	WorkingDays            []time.Weekday
	LunchStart             float64
	LunchEnd               float64
	SlotGranularityMinutes int
}

// Validate проверяет инварианты профиля. Вызывается один раз при старте приложения
func (p BusinessHoursProfile) Validate() error {
	if p.OpenHour < 0 || p.CloseHour > 24 {
		return fmt.Errorf("%w: hours must be within 0..24, got open=%d close=%d",
			ErrInvalidBusinessHours, p.OpenHour, p.CloseHour)
	}

	if p.OpenHour >= p.CloseHour {
		return fmt.Errorf("%w: openHour (%d) must be before closeHour (%d)",
			ErrInvalidBusinessHours, p.OpenHour, p.CloseHour)
	}

	if p.LunchStart >= p.LunchEnd {
		return fmt.Errorf("%w: lunchStart (%.2f) must be before lunchEnd (%.2f)",
			ErrInvalidBusinessHours, p.LunchStart, p.LunchEnd)
	}

	if p.LunchStart < float64(p.OpenHour) || p.LunchEnd > float64(p.CloseHour) {
		return fmt.Errorf("%w: lunch [%.2f, %.2f) must lie within business hours [%d, %d]",
			ErrInvalidBusinessHours, p.LunchStart, p.LunchEnd, p.OpenHour, p.CloseHour)
	}

	if p.SlotGranularityMinutes <= 0 {
		return fmt.Errorf("%w: slot granularity must be positive, got %d",
			ErrInvalidBusinessHours, p.SlotGranularityMinutes)
	}

	if len(p.WorkingDays) == 0 {
		return fmt.Errorf("%w: at least one working day is required", ErrInvalidBusinessHours)
	}

	for _, d := range p.WorkingDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: weekday %d is out of range 0..6", ErrInvalidBusinessHours, d)
		}
	}

	return nil
}

// IsWorkingDay returns true if booking is allowed on the weekday of the given date
func (p BusinessHoursProfile) IsWorkingDay(date time.Time) bool {
	weekday := date.Weekday()
	for _, d := range p.WorkingDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// OpenAt returns the opening instant on the calendar day of date
func (p BusinessHoursProfile) OpenAt(date time.Time) time.Time {
	return AtMinuteOfDay(date, p.OpenHour*60)
}

// CloseAt returns the closing instant on the calendar day of date
func (p BusinessHoursProfile) CloseAt(date time.Time) time.Time {
	return AtMinuteOfDay(date, p.CloseHour*60)
}

// LunchStartAt returns the start of the lunch blackout on the calendar day of date
func (p BusinessHoursProfile) LunchStartAt(date time.Time) time.Time {
	return AtMinuteOfDay(date, HourToMinutes(p.LunchStart))
}

// LunchEndAt returns the end of the lunch blackout on the calendar day of date
func (p BusinessHoursProfile) LunchEndAt(date time.Time) time.Time {
	return AtMinuteOfDay(date, HourToMinutes(p.LunchEnd))
}

// HourToMinutes переводит дробный час (12.5) в минуты от начала суток (750)
func HourToMinutes(hour float64) int {
	return int(math.Round(hour * 60))
}

// AtMinuteOfDay возвращает момент на календарный день date (в его локации) со смещением minutes от полуночи.
// Используется time.Date, поэтому переход на летнее время не сдвигает "настенное" время
func AtMinuteOfDay(date time.Time, minutes int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, minutes, 0, 0, date.Location())
}

// StartOfDay возвращает полночь календарного дня date
func StartOfDay(date time.Time) time.Time {
	return AtMinuteOfDay(date, 0)
}
