package get_anamnesis

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/service/clients/models"
)

type ClientService interface {
	GetAnamnesis(ctx context.Context, clientID uuid.UUID) (*models.AnamnesisResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
