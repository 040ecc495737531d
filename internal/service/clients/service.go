package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	anamnesisRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/anamnesis"
	clientRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/client"
	"github.com/m04kA/SMC-SalonBooking/internal/service/clients/models"
)

// Service сервис справочника клиентов: карточки и анкеты
type Service struct {
	clientRepo    ClientRepository
	anamnesisRepo AnamnesisRepository
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(clientRepo ClientRepository, anamnesisRepo AnamnesisRepository, logger Logger) *Service {
	return &Service{
		clientRepo:    clientRepo,
		anamnesisRepo: anamnesisRepo,
		timeProvider:  realTimeProvider{},
		logger:        logger,
	}
}

// List возвращает клиентов по алфавиту, опционально с поиском по имени или телефону
func (s *Service) List(ctx context.Context, search string) (*models.ClientListResponse, error) {
	s.logger.Info("List: fetching clients, search=%q", search)

	clients, err := s.clientRepo.List(ctx, domain.ClientsFilter{Search: search})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d clients", len(clients))
	return &models.ClientListResponse{Clients: models.FromDomainClientList(clients)}, nil
}

// GetByID получает карточку клиента
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.ClientResponse, error) {
	s.logger.Info("GetByID: fetching client id=%s", id)

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetByID", id, err)
	}

	return models.FromDomainClient(client), nil
}

// UpdateDetails перезаписывает карточку клиента
func (s *Service) UpdateDetails(ctx context.Context, id uuid.UUID, req *models.UpdateClientRequest) (*models.ClientResponse, error) {
	s.logger.Info("UpdateDetails: updating client id=%s", id)

	client, err := toDomainClient(req, s.timeProvider.Now())
	if err != nil {
		s.logger.Warn("UpdateDetails: validation failed for client id=%s: %v", id, err)
		return nil, err
	}
	client.ID = id

	updated, err := s.clientRepo.UpdateDetails(ctx, client)
	if err != nil {
		return nil, s.mapRepoError("UpdateDetails", id, err)
	}

	s.logger.Info("UpdateDetails: successfully updated client id=%s", id)
	return models.FromDomainClient(updated), nil
}

// Delete удаляет клиента без записей вместе с анкетой
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("Delete: deleting client id=%s", id)

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return s.mapRepoError("Delete", id, err)
	}

	s.logger.Info("Delete: successfully deleted client id=%s", id)
	return nil
}

// GetAnamnesis возвращает анкету клиента или пустую анкету, если она ещё не заполнялась
func (s *Service) GetAnamnesis(ctx context.Context, clientID uuid.UUID) (*models.AnamnesisResponse, error) {
	s.logger.Info("GetAnamnesis: fetching anamnesis for client=%s", clientID)

	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, s.mapRepoError("GetAnamnesis", clientID, err)
	}

	anamnesis, err := s.anamnesisRepo.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, anamnesisRepo.ErrAnamnesisNotFound) {
			return models.EmptyAnamnesis(clientID), nil
		}
		s.logger.Error("GetAnamnesis: repository error for client=%s: %v", clientID, err)
		return nil, fmt.Errorf("%w: GetAnamnesis - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAnamnesis(anamnesis), nil
}

// UpsertAnamnesis сохраняет анкету клиента целиком
func (s *Service) UpsertAnamnesis(ctx context.Context, clientID uuid.UUID, req *models.AnamnesisRequest) (*models.AnamnesisResponse, error) {
	s.logger.Info("UpsertAnamnesis: saving anamnesis for client=%s", clientID)

	anamnesis, err := toDomainAnamnesis(req)
	if err != nil {
		s.logger.Warn("UpsertAnamnesis: validation failed for client=%s: %v", clientID, err)
		return nil, err
	}
	anamnesis.ClientID = clientID

	saved, err := s.anamnesisRepo.Upsert(ctx, anamnesis)
	if err != nil {
		if errors.Is(err, anamnesisRepo.ErrClientNotFound) {
			s.logger.Warn("UpsertAnamnesis: client id=%s not found", clientID)
			return nil, ErrClientNotFound
		}
		s.logger.Error("UpsertAnamnesis: repository error for client=%s: %v", clientID, err)
		return nil, fmt.Errorf("%w: UpsertAnamnesis - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertAnamnesis: successfully saved anamnesis for client=%s", clientID)
	return models.FromDomainAnamnesis(saved), nil
}

func (s *Service) mapRepoError(op string, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, clientRepo.ErrClientNotFound):
		s.logger.Warn("%s: client id=%s not found", op, id)
		return ErrClientNotFound
	case errors.Is(err, clientRepo.ErrPhoneTaken):
		s.logger.Warn("%s: phone of client id=%s belongs to another client", op, id)
		return ErrPhoneTaken
	case errors.Is(err, clientRepo.ErrClientHasAppointments):
		s.logger.Warn("%s: client id=%s has appointments", op, id)
		return ErrClientHasAppointments
	default:
		s.logger.Error("%s: repository error for client id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
