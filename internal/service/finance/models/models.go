package models

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модели

// CreateExpenseRequest новый расход
type CreateExpenseRequest struct {
	Title    string     `json:"title"`
	Amount   float64    `json:"amount"`
	Category string     `json:"category"` // пусто = Material
	Date     *time.Time `json:"-"`        // пусто = сегодня по часовому поясу салона
}

// PeriodRequest период в календарных днях салона, обе границы включительно
type PeriodRequest struct {
	From *time.Time
	To   *time.Time
}

// Response модели

// ExpenseResponse расход
type ExpenseResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Date      string    `json:"date"` // "2025-10-20"
	CreatedAt time.Time `json:"createdAt"`
}

// ExpenseListResponse расходы за период и их сумма
type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
	Total    float64           `json:"total"`
}

// SummaryResponse финансовая сводка: выручка подтверждённых записей минус расходы
type SummaryResponse struct {
	From                  *string `json:"from,omitempty"`
	To                    *string `json:"to,omitempty"`
	Revenue               float64 `json:"revenue"`
	Expenses              float64 `json:"expenses"`
	Profit                float64 `json:"profit"`
	ConfirmedAppointments int     `json:"confirmedAppointments"`
}

// FromDomainExpense конвертирует domain модель в DTO
func FromDomainExpense(e *domain.Expense) *ExpenseResponse {
	if e == nil {
		return nil
	}

	return &ExpenseResponse{
		ID:        e.ID,
		Title:     e.Title,
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.ExpenseDate.Format(domain.DateFormat),
		CreatedAt: e.CreatedAt,
	}
}

// FromDomainExpenseList конвертирует список domain моделей в DTO
func FromDomainExpenseList(expenses []*domain.Expense) []ExpenseResponse {
	resp := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		if dto := FromDomainExpense(e); dto != nil {
			resp = append(resp, *dto)
		}
	}
	return resp
}

// RoundCents округляет сумму до сентаво
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
