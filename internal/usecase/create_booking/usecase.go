package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	serviceRepo     ServiceRepository
	engine          AvailabilityEngine
	txManager       TransactionManager
	settings        Settings
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	serviceRepo ServiceRepository,
	engine AvailabilityEngine,
	txManager TransactionManager,
	settings Settings,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.HoldExpiry <= 0 {
		settings.HoldExpiry = domain.DefaultHoldExpiry
	}

	return &UseCase{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		serviceRepo:     serviceRepo,
		engine:          engine,
		txManager:       txManager,
		settings:        settings,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Слот, показанный клиенту, мог устареть: доступность перепроверяется в SERIALIZABLE транзакции,
// а конкурентная запись на тот же интервал отсекается ограничением в БД
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.metrics.ObserveBooking(outcome(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: service=%s, start=%s", req.ServiceID, req.StartTime.Format(time.RFC3339))

	now := uc.timeProvider.Now().In(uc.settings.Location)

	// 1. Валидация входных данных
	if err := normalizeRequest(req, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	start := req.StartTime.In(uc.settings.Location)

	// 2. Получаем услугу, конец записи по её длительности
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	end := start.Add(service.Duration())

	// 3. Правила дат
	day := domain.StartOfDay(start)
	if err := validateDate(day, now, uc.settings.MinAdvanceDays, uc.settings.MaxAdvanceDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	if !uc.settings.Profile.IsWorkingDay(day) {
		uc.logger.Warn("CreateBooking: salon is closed on %s", day.Format(domain.DateFormat))
		return nil, ErrBusinessClosed
	}

	if !start.After(now) {
		uc.logger.Warn("CreateBooking: start %s is not in the future", start.Format(time.RFC3339))
		return nil, ErrTooLateToBook
	}

	// Слот должен лежать на сетке рабочего дня независимо от занятости
	if !uc.engine.IsBookable(start, *service, uc.settings.Profile, nil, now) {
		uc.logger.Warn("CreateBooking: %s is not a valid slot for service=%s", start.Format(time.RFC3339), service.ID)
		return nil, ErrInvalidTimeSlot
	}

	var result *domain.Appointment
	var client *domain.Client

	// 4. Операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Освобождаем интервал от просроченных неподтверждённых записей
		expired, err := uc.appointmentRepo.CancelExpiredHolds(txCtx, domain.ExpiredHoldsFilter{
			CreatedBefore: now.Add(-uc.settings.HoldExpiry),
			OverlapStart:  &start,
			OverlapEnd:    &end,
		})
		if err != nil {
			return uc.txStepError("cancel expired holds", err)
		}
		if expired > 0 {
			uc.logger.Info("CreateBooking: cancelled %d expired holds overlapping %s", expired, start.Format(time.RFC3339))
		}

		// 4.2. Клиент по телефону
		client, err = uc.clientRepo.UpsertByPhone(txCtx, &domain.Client{
			FullName:  req.FullName,
			Phone:     req.Phone,
			CPF:       req.CPF,
			BirthDate: req.BirthDate,
		})
		if err != nil {
			return uc.txStepError("upsert client", err)
		}

		// 4.3. Записи дня с блокировкой (FOR UPDATE)
		nextDay := day.AddDate(0, 0, 1)
		appointments, err := uc.appointmentRepo.List(txCtx, domain.AppointmentsFilter{
			StartDate: &day,
			EndDate:   &nextDay,
		})
		if err != nil {
			return uc.txStepError("get appointments", err)
		}

		// 4.4. Перепроверяем доступность на свежем снимке
		if !uc.engine.IsBookable(start, *service, uc.settings.Profile, appointments, now) ||
			uc.engine.OverlapsBusy(start, end, appointments, now) {
			uc.logger.Warn("CreateBooking: slot %s is already taken", start.Format(time.RFC3339))
			return ErrSlotNotAvailable
		}

		// 4.5. Создаём неподтверждённую запись
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			ClientID:     client.ID,
			ServiceID:    service.ID,
			StartTime:    start,
			EndTime:      end,
			Status:       domain.StatusPending,
			ServiceName:  service.Name,
			ServicePrice: service.Price,
			ClientName:   client.FullName,
			ClientPhone:  client.Phone,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: slot %s taken concurrently", start.Format(time.RFC3339))
				return ErrSlotNotAvailable
			}
			return uc.txStepError("create appointment", err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Конфликт сериализации при коммите - тот же случай, что и занятый слот
		if appointmentRepo.IsConflict(err) {
			uc.logger.Warn("CreateBooking: serialization conflict for slot %s: %v", start.Format(time.RFC3339), err)
			return nil, ErrSlotNotAvailable
		}
		if isUseCaseError(err) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: created appointment id=%s for client id=%s at %s",
		result.ID, result.ClientID, result.StartTime.Format(time.RFC3339))

	return &Response{
		ID:            result.ID,
		ClientID:      result.ClientID,
		ServiceID:     result.ServiceID,
		StartTime:     result.StartTime,
		EndTime:       result.EndTime,
		Status:        string(result.Status),
		ServiceName:   result.ServiceName,
		ServicePrice:  result.ServicePrice,
		ClientName:    result.ClientName,
		ClientPhone:   result.ClientPhone,
		HoldExpiresAt: result.CreatedAt.Add(uc.settings.HoldExpiry),
		WhatsAppLink:  whatsAppLink(uc.settings.WhatsAppPhone, result.ClientName, result.ServiceName, result.StartTime),
		CreatedAt:     result.CreatedAt,
		UpdatedAt:     result.UpdatedAt,
	}, nil
}

// txStepError приводит ошибку шага транзакции к ошибке use case.
// Сбой сериализации или взаимная блокировка внутри транзакции означают,
// что интервал занял конкурирующий запрос
func (uc *UseCase) txStepError(step string, err error) error {
	if appointmentRepo.IsConflict(err) {
		uc.logger.Warn("CreateBooking: conflict on %s: %v", step, err)
		return ErrSlotNotAvailable
	}
	uc.logger.Error("CreateBooking: failed to %s: %v", step, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, step, err)
}

// isUseCaseError проверяет, что ошибка уже приведена к ошибкам use case
func isUseCaseError(err error) bool {
	return errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, ErrInternal)
}

// outcome классифицирует результат для метрик
func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeCreated
	case errors.Is(err, ErrSlotNotAvailable):
		return OutcomeSlotTaken
	case errors.Is(err, ErrInternal):
		return OutcomeError
	default:
		return OutcomeRejected
	}
}
