package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ExpenseRepository интерфейс репозитория расходов
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error)
	List(ctx context.Context, filter domain.ExpensesFilter) ([]*domain.Expense, error)
	Total(ctx context.Context, filter domain.ExpensesFilter) (float64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RevenueRepository источник выручки по подтверждённым записям
type RevenueRepository interface {
	ConfirmedRevenue(ctx context.Context, filter domain.RevenueFilter) (domain.Revenue, error)
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

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}
