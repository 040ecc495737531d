package create_booking

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
)

var (
	errInvalidServiceID = errors.New("invalid service id")
	errInvalidDate      = errors.New("invalid date")
	errInvalidTime      = errors.New("invalid start time")
	errInvalidBirthDate = errors.New("invalid birth date")
)

// CreateBookingRequest HTTP request model.
// date и startTime - настенное время салона
type CreateBookingRequest struct {
	FullName  string  `json:"fullName"`
	Phone     string  `json:"phone"`
	CPF       *string `json:"cpf,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"` // "1990-05-17"
	ServiceID string  `json:"serviceId"`
	Date      string  `json:"date"`      // "2025-10-20"
	StartTime string  `json:"startTime"` // "09:30"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            uuid.UUID `json:"id"`
	ClientID      uuid.UUID `json:"clientId"`
	ServiceID     uuid.UUID `json:"serviceId"`
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	StartsAt      time.Time `json:"startsAt"`
	EndsAt        time.Time `json:"endsAt"`
	Status        string    `json:"status"`
	ServiceName   string    `json:"serviceName"`
	ServicePrice  float64   `json:"servicePrice"`
	ClientName    string    `json:"clientName"`
	ClientPhone   string    `json:"clientPhone"`
	HoldExpiresAt time.Time `json:"holdExpiresAt"`
	WhatsAppLink  string    `json:"whatsappLink,omitempty"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(loc *time.Location) (*createBooking.Request, error) {
	serviceID, err := uuid.Parse(r.ServiceID)
	if err != nil {
		return nil, errInvalidServiceID
	}

	day, err := time.ParseInLocation(domain.DateFormat, r.Date, loc)
	if err != nil {
		return nil, errInvalidDate
	}

	clock, err := time.Parse(domain.TimeFormat, r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	req := &createBooking.Request{
		FullName:  r.FullName,
		Phone:     r.Phone,
		CPF:       r.CPF,
		ServiceID: serviceID,
		StartTime: domain.AtMinuteOfDay(day, clock.Hour()*60+clock.Minute()),
	}

	if r.BirthDate != nil && *r.BirthDate != "" {
		birthDate, err := time.ParseInLocation(domain.DateFormat, *r.BirthDate, loc)
		if err != nil {
			return nil, errInvalidBirthDate
		}
		req.BirthDate = &birthDate
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response, loc *time.Location) *BookingResponse {
	start := resp.StartTime.In(loc)
	end := resp.EndTime.In(loc)

	return &BookingResponse{
		ID:            resp.ID,
		ClientID:      resp.ClientID,
		ServiceID:     resp.ServiceID,
		Date:          start.Format(domain.DateFormat),
		StartTime:     start.Format(domain.TimeFormat),
		EndTime:       end.Format(domain.TimeFormat),
		StartsAt:      start,
		EndsAt:        end,
		Status:        resp.Status,
		ServiceName:   resp.ServiceName,
		ServicePrice:  resp.ServicePrice,
		ClientName:    resp.ClientName,
		ClientPhone:   resp.ClientPhone,
		HoldExpiresAt: resp.HoldExpiresAt,
		WhatsAppLink:  resp.WhatsAppLink,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
