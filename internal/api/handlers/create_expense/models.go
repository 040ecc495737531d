package create_expense

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/finance/models"
)

var errInvalidDate = errors.New("invalid date")

// CreateExpenseRequest HTTP request model
type CreateExpenseRequest struct {
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category,omitempty"`
	Date     *string `json:"date,omitempty"` // "2025-10-20", по умолчанию сегодня
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateExpenseRequest) ToServiceRequest() (*models.CreateExpenseRequest, error) {
	req := &models.CreateExpenseRequest{
		Title:    r.Title,
		Amount:   r.Amount,
		Category: r.Category,
	}

	if r.Date != nil && *r.Date != "" {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, errInvalidDate
		}
		req.Date = &date
	}

	return req, nil
}
