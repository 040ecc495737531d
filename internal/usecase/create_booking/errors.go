package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrInvalidDate возвращается, когда день раньше минимально допустимого для записи
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение MaxAdvanceDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrBusinessClosed возвращается, когда салон не работает в выбранный день
	ErrBusinessClosed = errors.New("create_booking: salon is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает ни с одним слотом сетки
	// (вне рабочих часов, попадает на обед или не кратно шагу)
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrTooLateToBook возвращается, когда время начала уже прошло
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда слот заняли, пока клиент заполнял форму
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
