package domain

import "errors"

var (
	// ErrInvalidBusinessHours возвращается при некорректном профиле рабочего времени
	ErrInvalidBusinessHours = errors.New("domain: invalid business hours profile")

	// ErrInvalidStatus возвращается при неизвестном статусе записи
	ErrInvalidStatus = errors.New("domain: invalid appointment status")

	// ErrInvalidAnamnesis возвращается при недопустимом значении в анкете
	ErrInvalidAnamnesis = errors.New("domain: invalid anamnesis value")
)
