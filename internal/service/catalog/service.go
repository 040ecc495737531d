package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
)

// Service сервис каталога: услуги салона и рабочее время
type Service struct {
	serviceRepo ServiceRepository
	profile     domain.BusinessHoursProfile
	location    *time.Location
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	serviceRepo ServiceRepository,
	profile domain.BusinessHoursProfile,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}

	return &Service{
		serviceRepo: serviceRepo,
		profile:     profile,
		location:    location,
		logger:      logger,
	}
}

// ListServices возвращает все услуги, отсортированные по категории и цене
func (s *Service) ListServices(ctx context.Context) (*models.ServiceListResponse, error) {
	s.logger.Info("ListServices: fetching services")

	services, err := s.serviceRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListServices: successfully fetched %d services", len(services))
	return models.FromDomainServiceList(services), nil
}

// GetByID получает услугу по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceResponse, error) {
	s.logger.Info("GetByID: fetching service id=%s", id)

	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service id=%s not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(service), nil
}

// BusinessHours возвращает действующий профиль рабочего времени.
// По нему клиент блокирует нерабочие дни в календаре
func (s *Service) BusinessHours() *models.BusinessHoursResponse {
	return models.FromBusinessHours(s.profile, s.location)
}
