package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ServiceResponse услуга каталога
type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"durationMinutes"`
	Category        string    `json:"category"`
	Price           float64   `json:"price"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// BusinessHoursResponse рабочее время салона.
// WorkingDays - дни недели, 0 = воскресенье
type BusinessHoursResponse struct {
	OpenTime               string `json:"openTime"`   // "08:00"
	CloseTime              string `json:"closeTime"`  // "17:00"
	LunchStart             string `json:"lunchStart"` // "12:00"
	LunchEnd               string `json:"lunchEnd"`   // "13:30"
	WorkingDays            []int  `json:"workingDays"`
	SlotGranularityMinutes int    `json:"slotGranularityMinutes"`
	Timezone               string `json:"timezone"`
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}

	return &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Category:        s.Category,
		Price:           s.Price,
	}
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{
		Services: make([]ServiceResponse, 0, len(services)),
	}

	for _, s := range services {
		if dto := FromDomainService(s); dto != nil {
			resp.Services = append(resp.Services, *dto)
		}
	}

	return resp
}

// FromBusinessHours конвертирует профиль рабочего времени в DTO
func FromBusinessHours(p domain.BusinessHoursProfile, loc *time.Location) *BusinessHoursResponse {
	days := make([]int, 0, len(p.WorkingDays))
	for _, d := range p.WorkingDays {
		days = append(days, int(d))
	}

	return &BusinessHoursResponse{
		OpenTime:               clock(float64(p.OpenHour)),
		CloseTime:              clock(float64(p.CloseHour)),
		LunchStart:             clock(p.LunchStart),
		LunchEnd:               clock(p.LunchEnd),
		WorkingDays:            days,
		SlotGranularityMinutes: p.SlotGranularityMinutes,
		Timezone:               loc.String(),
	}
}

// clock форматирует дробный час (13.5) как "13:30"
func clock(hour float64) string {
	minutes := domain.HourToMinutes(hour)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
