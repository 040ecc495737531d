package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("appointments: client not found")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	// (подтверждение не pending записи или отмена уже отменённой)
	ErrInvalidTransition = errors.New("appointments: invalid status transition")

	// ErrSlotNotAvailable возвращается, когда просроченную запись нельзя подтвердить:
	// её интервал уже занят другой записью
	ErrSlotNotAvailable = errors.New("appointments: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
