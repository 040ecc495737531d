package finance

import "errors"

var (
	// ErrExpenseNotFound возвращается, когда расход не найден
	ErrExpenseNotFound = errors.New("finance: expense not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("finance: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("finance: internal error")
)
