package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	clientRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/client"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

// Service сервис панели администратора: просмотр, подтверждение и отмена записей
type Service struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	engine          AvailabilityEngine
	txManager       TransactionManager
	presenter       models.Presenter
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	engine AvailabilityEngine,
	txManager TransactionManager,
	location *time.Location,
	holdExpiry time.Duration,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	if holdExpiry <= 0 {
		holdExpiry = domain.DefaultHoldExpiry
	}

	return &Service{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		engine:          engine,
		txManager:       txManager,
		presenter:       models.Presenter{Location: location, HoldExpiry: holdExpiry},
		timeProvider:    realTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s", id)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetByID", id, err)
	}

	return s.presenter.FromDomainAppointment(appt, s.timeProvider.Now()), nil
}

// List получает записи для панели администратора: за день, за период или все, сначала новые.
// По умолчанию отменённые записи не показываются
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	filter, err := req.ToDomainFilter(s.presenter.Location)
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	status := "any"
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	s.logger.Info("List: fetching appointments, period=[%s, %s), status=%s, includeCancelled=%t",
		formatBound(filter.StartDate), formatBound(filter.EndDate), status, req.IncludeCancelled)

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d appointments", len(appointments))
	return &models.AppointmentListResponse{
		Appointments: s.presenter.FromDomainAppointmentList(appointments, s.timeProvider.Now()),
	}, nil
}

// ListByClient возвращает историю записей клиента, включая отменённые
func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID) (*models.ClientAppointmentsResponse, error) {
	s.logger.Info("ListByClient: fetching appointments for client=%s", clientID)

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("ListByClient: client id=%s not found", clientID)
			return nil, ErrClientNotFound
		}
		s.logger.Error("ListByClient: repository error for client=%s: %v", clientID, err)
		return nil, fmt.Errorf("%w: ListByClient - repository error: %v", ErrInternal, err)
	}

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		ClientID:         &clientID,
		IncludeCancelled: true,
	})
	if err != nil {
		s.logger.Error("ListByClient: repository error for client=%s: %v", clientID, err)
		return nil, fmt.Errorf("%w: ListByClient - repository error: %v", ErrInternal, err)
	}

	return &models.ClientAppointmentsResponse{
		ClientID:     client.ID,
		FullName:     client.FullName,
		Phone:        client.Phone,
		Appointments: s.presenter.FromDomainAppointmentList(appointments, s.timeProvider.Now()),
	}, nil
}

// Confirm подтверждает неподтверждённую запись.
// Если удержание уже истекло, слот мог занять другой клиент: тогда подтверждение отклоняется
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("Confirm: confirming appointment id=%s", id)

	now := s.timeProvider.Now()
	var confirmed *domain.Appointment

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return s.mapRepoError("Confirm", id, err)
		}

		if !appt.CanBeConfirmed() {
			s.logger.Warn("Confirm: appointment id=%s cannot be confirmed, status=%s", id, appt.Status)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, domain.StatusConfirmed)
		}

		if appt.IsHoldExpired(now, s.presenter.HoldExpiry) {
			taken, err := s.isTakenByOthers(txCtx, appt, now)
			if err != nil {
				return err
			}
			if taken {
				s.logger.Warn("Confirm: hold of appointment id=%s expired and its slot was re-taken", id)
				return ErrSlotNotAvailable
			}
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, domain.StatusConfirmed); err != nil {
			return s.mapRepoError("Confirm", id, err)
		}

		appt.Status = domain.StatusConfirmed
		confirmed = appt
		return nil
	})
	if err != nil {
		return nil, s.mapTxError(err)
	}

	s.logger.Info("Confirm: successfully confirmed appointment id=%s", id)
	return s.presenter.FromDomainAppointment(confirmed, now), nil
}

// Cancel отменяет запись. Отменённую запись повторно отменить нельзя
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%s", id)

	var cancelled *domain.Appointment

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return s.mapRepoError("Cancel", id, err)
		}

		if !appt.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%s cannot be cancelled, status=%s", id, appt.Status)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, domain.StatusCancelled)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, domain.StatusCancelled); err != nil {
			return s.mapRepoError("Cancel", id, err)
		}

		appt.Status = domain.StatusCancelled
		cancelled = appt
		return nil
	})
	if err != nil {
		return nil, s.mapTxError(err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%s", id)
	return s.presenter.FromDomainAppointment(cancelled, s.timeProvider.Now()), nil
}

// isTakenByOthers проверяет, занят ли интервал записи другими активными записями
func (s *Service) isTakenByOthers(ctx context.Context, appt *domain.Appointment, now time.Time) (bool, error) {
	day := domain.StartOfDay(appt.StartTime.In(s.presenter.Location))
	nextDay := day.AddDate(0, 0, 1)

	sameDay, err := s.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		StartDate: &day,
		EndDate:   &nextDay,
	})
	if err != nil {
		if appointmentRepo.IsConflict(err) {
			s.logger.Warn("Confirm: conflict while reading appointments of %s: %v", day.Format(domain.DateFormat), err)
			return false, ErrSlotNotAvailable
		}
		s.logger.Error("Confirm: failed to get appointments of %s: %v", day.Format(domain.DateFormat), err)
		return false, fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
	}

	others := make([]*domain.Appointment, 0, len(sameDay))
	for _, other := range sameDay {
		if other.ID != appt.ID {
			others = append(others, other)
		}
	}

	return s.engine.OverlapsBusy(appt.StartTime, appt.EndTime, others, now), nil
}

func (s *Service) mapRepoError(op string, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		s.logger.Warn("%s: appointment id=%s not found", op, id)
		return ErrAppointmentNotFound
	case errors.Is(err, appointmentRepo.ErrSlotNotAvailable):
		s.logger.Warn("%s: appointment id=%s conflicts with another appointment", op, id)
		return ErrSlotNotAvailable
	case appointmentRepo.IsConflict(err):
		s.logger.Warn("%s: concurrent update of appointment id=%s: %v", op, id, err)
		return ErrSlotNotAvailable
	default:
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

// mapTxError приводит ошибки транзакции к ошибкам сервиса
func (s *Service) mapTxError(err error) error {
	switch {
	case errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrSlotNotAvailable),
		errors.Is(err, ErrInternal):
		return err
	case appointmentRepo.IsConflict(err):
		s.logger.Warn("transaction conflict: %v", err)
		return ErrSlotNotAvailable
	default:
		s.logger.Error("transaction failed: %v", err)
		return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(domain.DateFormat)
}
