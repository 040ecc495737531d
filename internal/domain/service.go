package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service represents a procedure offered by the business
type Service struct {
	ID              uuid.UUID
	Name            string
	Description     string
	DurationMinutes int
	Category        string
	Price           float64
}

// Duration returns the service duration, or zero when DurationMinutes is not
// in (0, MaxServiceDurationMinutes]
func (s *Service) Duration() time.Duration {
	if s.DurationMinutes <= 0 || s.DurationMinutes > MaxServiceDurationMinutes {
		return 0
	}
	return time.Duration(s.DurationMinutes) * time.Minute
}

// Client represents a person who books appointments
type Client struct {
	ID        uuid.UUID
	FullName  string
	Phone     string
	CPF       *string
	BirthDate *time.Time

	// Карточка клиента, заполняется администратором
	RG         *string
	Profession *string
	Address    *string
	HowFoundUs *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClientsFilter фильтр справочника клиентов
type ClientsFilter struct {
	Search string // Подстрока имени (без учёта регистра) или цифры телефона
}

// DigitsOnly оставляет в строке только цифры (телефон, CPF)
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
