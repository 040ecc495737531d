package get_available_slots

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

// AvailabilityEngine вычисляет свободные слоты дня
type AvailabilityEngine interface {
	ComputeAvailableSlots(
		date time.Time,
		service domain.Service,
		profile domain.BusinessHoursProfile,
		appointments []*domain.Appointment,
		now time.Time,
	) iter.Seq[time.Time]
}

// Metrics метрики выдачи слотов
type Metrics interface {
	ObserveSlots(n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
