package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Исходы записи для метрик
const (
	OutcomeCreated   = "created"
	OutcomeSlotTaken = "slot_taken"
	OutcomeRejected  = "rejected"
	OutcomeError     = "error"
)

// Settings правила салона, общие для всех запросов
type Settings struct {
	Profile        domain.BusinessHoursProfile
	Location       *time.Location
	HoldExpiry     time.Duration // Сколько неподтверждённая запись держит слот
	MinAdvanceDays int
	MaxAdvanceDays int    // 0 = без ограничений
	WhatsAppPhone  string // Номер салона для ссылки подтверждения (только цифры). Пусто - ссылки нет
}

// Request модель запроса на создание записи
type Request struct {
	FullName  string     // Имя клиента
	Phone     string     // Телефон клиента в любом формате
	CPF       *string    // CPF клиента (опционально)
	BirthDate *time.Time // Дата рождения (опционально)
	ServiceID uuid.UUID  // ID услуги
	StartTime time.Time  // Выбранное время начала
}

// Response модель ответа с созданной записью
type Response struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	ServiceID uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Status    string

	// Денормализованные данные
	ServiceName  string
	ServicePrice float64
	ClientName   string
	ClientPhone  string

	HoldExpiresAt time.Time // После этого момента неподтверждённая запись перестаёт держать слот
	WhatsAppLink  string    // Ссылка для подтверждения записи в WhatsApp

	CreatedAt time.Time
	UpdatedAt time.Time
}
