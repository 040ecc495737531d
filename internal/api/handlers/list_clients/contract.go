package list_clients

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/service/clients/models"
)

type ClientService interface {
	List(ctx context.Context, search string) (*models.ClientListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
