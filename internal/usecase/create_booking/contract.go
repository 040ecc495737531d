package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	CancelExpiredHolds(ctx context.Context, filter domain.ExpiredHoldsFilter) (int64, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	UpsertByPhone(ctx context.Context, client *domain.Client) (*domain.Client, error)
}

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

// AvailabilityEngine проверяет, что выбранный слот всё ещё свободен
type AvailabilityEngine interface {
	IsBookable(
		start time.Time,
		service domain.Service,
		profile domain.BusinessHoursProfile,
		appointments []*domain.Appointment,
		now time.Time,
	) bool
	OverlapsBusy(start, end time.Time, appointments []*domain.Appointment, now time.Time) bool
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics метрики результатов записи
type Metrics interface {
	ObserveBooking(outcome string)
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
