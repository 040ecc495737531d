package get_finance_summary

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/service/finance/models"
)

type FinanceService interface {
	Summary(ctx context.Context, req *models.PeriodRequest) (*models.SummaryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
