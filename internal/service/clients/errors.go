package clients

import "errors"

var (
	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("clients: client not found")

	// ErrPhoneTaken возвращается, когда телефон уже принадлежит другому клиенту
	ErrPhoneTaken = errors.New("clients: phone belongs to another client")

	// ErrClientHasAppointments возвращается при удалении клиента с историей записей
	ErrClientHasAppointments = errors.New("clients: client has appointments")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("clients: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("clients: internal error")
)
