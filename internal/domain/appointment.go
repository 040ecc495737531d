package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a client's appointment for a single service
type Appointment struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	ServiceID uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Status    AppointmentStatus

	// Denormalized data for the admin panel
	ServiceName  string
	ServicePrice float64
	ClientName   string
	ClientPhone  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsHoldExpired returns true if a pending appointment is older than holdExpiry at the given instant
func (a *Appointment) IsHoldExpired(now time.Time, holdExpiry time.Duration) bool {
	if a.Status != StatusPending {
		return false
	}
	return now.Sub(a.CreatedAt) >= holdExpiry
}

// IsEffectivelyBusy returns true if the appointment occupies its slot at the given instant.
// Confirmed appointments always occupy, pending ones only until their hold expires,
// cancelled ones never.
func (a *Appointment) IsEffectivelyBusy(now time.Time, holdExpiry time.Duration) bool {
	switch a.Status {
	case StatusConfirmed:
		return true
	case StatusPending:
		return !a.IsHoldExpired(now, holdExpiry)
	default:
		return false
	}
}

// CanBeConfirmed returns true if the appointment can be confirmed by staff
func (a *Appointment) CanBeConfirmed() bool {
	return a.Status == StatusPending
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// Duration returns the length of the booked block
func (a *Appointment) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}

// AppointmentsFilter фильтр для получения записей
type AppointmentsFilter struct {
	StartDate        *time.Time         // Начало периода по start_time (включительно)
	EndDate          *time.Time         // Конец периода по start_time (не включительно)
	Status           *AppointmentStatus // Фильтр по статусу (опционально)
	ClientID         *uuid.UUID         // Фильтр по клиенту (опционально)
	IncludeCancelled bool               // Включать ли отменённые записи
}

// ParseAppointmentStatus конвертирует строку в AppointmentStatus с валидацией
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch status := AppointmentStatus(s); status {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// ExpiredHoldsFilter выбирает pending записи, удержание которых истекло
type ExpiredHoldsFilter struct {
	CreatedBefore time.Time  // created_at <= CreatedBefore (now - holdExpiry)
	OverlapStart  *time.Time // Только записи, пересекающие [OverlapStart, OverlapEnd) (опционально)
	OverlapEnd    *time.Time
}
