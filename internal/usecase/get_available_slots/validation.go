package get_available_slots

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что день попадает в окно записи [today+minAdvanceDays, today+maxAdvanceDays]
func validateDate(day, now time.Time, minAdvanceDays, maxAdvanceDays int) error {
	today := domain.StartOfDay(now.In(day.Location()))

	minDay := today.AddDate(0, 0, minAdvanceDays)
	if day.Before(minDay) {
		return fmt.Errorf("%w: booking opens from %s", ErrInvalidDate, minDay.Format(domain.DateFormat))
	}

	// Если maxAdvanceDays = 0, нет ограничений на дату
	if maxAdvanceDays == 0 {
		return nil
	}

	if day.After(today.AddDate(0, 0, maxAdvanceDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxAdvanceDays)
	}

	return nil
}

// calendarDay возвращает полночь календарного дня date в часовом поясе loc
func calendarDay(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}
