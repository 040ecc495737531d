package upsert_anamnesis

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/service/clients/models"
)

type ClientService interface {
	UpsertAnamnesis(ctx context.Context, clientID uuid.UUID, req *models.AnamnesisRequest) (*models.AnamnesisResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
