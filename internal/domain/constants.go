package domain

import "time"

// Default business hours of the salon
const (
	DefaultOpenHour               = 8
	DefaultCloseHour              = 17
	DefaultLunchStart             = 12.0 // 12:00
	DefaultLunchEnd               = 13.5 // 13:30
	DefaultSlotGranularityMinutes = 30
)

// DefaultWorkingDays рабочие дни по умолчанию: понедельник - суббота
var DefaultWorkingDays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
}

// Booking rules
const (
	// DefaultHoldExpiry время, в течение которого неподтверждённая запись удерживает слот
	DefaultHoldExpiry = 24 * time.Hour

	// DefaultMinAdvanceDays запись возможна начиная с завтрашнего дня
	DefaultMinAdvanceDays = 1

	// MaxServiceDurationMinutes услуга длиннее суток не помещается ни в один рабочий день
	MaxServiceDurationMinutes = 24 * 60

	DefaultMaxAdvanceDays = 0 // 0 = unlimited
	MaxAdvanceDays        = 365
	MaxFullNameLength     = 200
	MinPhoneDigits        = 10
	MaxPhoneDigits        = 15
	CPFDigits             = 11
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultBusinessHours returns the business hours profile the salon opened with
func DefaultBusinessHours() BusinessHoursProfile {
	days := make([]time.Weekday, len(DefaultWorkingDays))
	copy(days, DefaultWorkingDays)

	return BusinessHoursProfile{
		OpenHour:               DefaultOpenHour,
		CloseHour:              DefaultCloseHour,
		WorkingDays:            days,
		LunchStart:             DefaultLunchStart,
		LunchEnd:               DefaultLunchEnd,
		SlotGranularityMinutes: DefaultSlotGranularityMinutes,
	}
}
