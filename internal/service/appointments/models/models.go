package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var (
	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrAmbiguousPeriod возвращается, когда одновременно указаны date и from/to
	ErrAmbiguousPeriod = errors.New("date cannot be combined with from/to")
)

// Request модели

// ListRequest запрос на получение записей для панели администратора.
// Даты - календарные дни в часовом поясе салона
type ListRequest struct {
	Date             *time.Time // Конкретный день (опционально)
	From             *time.Time // Начало периода включительно (опционально)
	To               *time.Time // Конец периода включительно (опционально)
	Status           *string    // Фильтр по статусу (опционально)
	IncludeCancelled bool       // Включить отменённые записи
}

// ToDomainFilter конвертирует request в domain фильтр по start_time
func (r *ListRequest) ToDomainFilter(loc *time.Location) (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{IncludeCancelled: r.IncludeCancelled}

	if r.Date != nil && (r.From != nil || r.To != nil) {
		return filter, ErrAmbiguousPeriod
	}

	from, to := r.From, r.To
	if r.Date != nil {
		from, to = r.Date, r.Date
	}

	if from != nil {
		start := dayIn(*from, loc)
		filter.StartDate = &start
	}
	if to != nil {
		end := dayIn(*to, loc).AddDate(0, 0, 1)
		filter.EndDate = &end
	}
	if filter.StartDate != nil && filter.EndDate != nil && !filter.StartDate.Before(*filter.EndDate) {
		return filter, ErrInvalidPeriod
	}

	if r.Status != nil {
		status, err := domain.ParseAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"clientId"`
	ServiceID uuid.UUID `json:"serviceId"`
	Date      string    `json:"date"`      // "2025-10-20"
	StartTime string    `json:"startTime"` // "09:00"
	EndTime   string    `json:"endTime"`   // "10:00"
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Status    string    `json:"status"`

	// Неподтверждённая запись, удержание которой истекло: слот уже свободен для других
	HoldExpired bool `json:"holdExpired"`

	// Денормализованные данные
	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`
	ClientName   string  `json:"clientName"`
	ClientPhone  string  `json:"clientPhone"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// ClientAppointmentsResponse история записей клиента
type ClientAppointmentsResponse struct {
	ClientID     uuid.UUID             `json:"clientId"`
	FullName     string                `json:"fullName"`
	Phone        string                `json:"phone"`
	Appointments []AppointmentResponse `json:"appointments"`
}

// Presenter переводит записи в часовой пояс салона и вычисляет статус удержания
type Presenter struct {
	Location   *time.Location
	HoldExpiry time.Duration
}

// FromDomainAppointment конвертирует domain модель в DTO
func (p Presenter) FromDomainAppointment(a *domain.Appointment, now time.Time) *AppointmentResponse {
	if a == nil {
		return nil
	}

	start := a.StartTime.In(p.Location)
	end := a.EndTime.In(p.Location)

	return &AppointmentResponse{
		ID:           a.ID,
		ClientID:     a.ClientID,
		ServiceID:    a.ServiceID,
		Date:         start.Format(domain.DateFormat),
		StartTime:    start.Format(domain.TimeFormat),
		EndTime:      end.Format(domain.TimeFormat),
		StartsAt:     start,
		EndsAt:       end,
		Status:       string(a.Status),
		HoldExpired:  a.IsHoldExpired(now, p.HoldExpiry),
		ServiceName:  a.ServiceName,
		ServicePrice: a.ServicePrice,
		ClientName:   a.ClientName,
		ClientPhone:  a.ClientPhone,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func (p Presenter) FromDomainAppointmentList(appointments []*domain.Appointment, now time.Time) []AppointmentResponse {
	resp := make([]AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		if dto := p.FromDomainAppointment(a, now); dto != nil {
			resp = append(resp, *dto)
		}
	}
	return resp
}

func dayIn(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}
