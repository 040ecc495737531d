package clients

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, filter domain.ClientsFilter) ([]*domain.Client, error)
	UpdateDetails(ctx context.Context, client *domain.Client) (*domain.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AnamnesisRepository интерфейс репозитория анкет
type AnamnesisRepository interface {
	GetByClientID(ctx context.Context, clientID uuid.UUID) (*domain.Anamnesis, error)
	Upsert(ctx context.Context, anamnesis *domain.Anamnesis) (*domain.Anamnesis, error)
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
