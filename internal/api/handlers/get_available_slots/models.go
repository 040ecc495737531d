package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	ServiceID       uuid.UUID       `json:"serviceId"`
	ServiceName     string          `json:"serviceName"`
	DurationMinutes int             `json:"durationMinutes"`
	IsWorkingDay    bool            `json:"isWorkingDay"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot свободное время начала
type AvailableSlot struct {
	StartTime string    `json:"startTime"` // "09:30" в часовом поясе салона
	StartsAt  time.Time `json:"startsAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.Format(domain.TimeFormat),
			StartsAt:  slot,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ServiceID:       resp.ServiceID,
		ServiceName:     resp.ServiceName,
		DurationMinutes: resp.DurationMinutes,
		IsWorkingDay:    resp.IsWorkingDay,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(serviceIDStr, dateStr string) (*getAvailableSlots.Request, error) {
	serviceID, err := uuid.Parse(serviceIDStr)
	if err != nil {
		return nil, errInvalidServiceID
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, errInvalidDateFormat
	}

	return &getAvailableSlots.Request{
		ServiceID: serviceID,
		Date:      date,
	}, nil
}
