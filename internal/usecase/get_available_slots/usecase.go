package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	engine          AvailabilityEngine
	settings        Settings
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	engine AvailabilityEngine,
	settings Settings,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}

	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		engine:          engine,
		settings:        settings,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%s, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время и запрошенный день в часовом поясе салона
	now := uc.timeProvider.Now().In(uc.settings.Location)
	day := calendarDay(req.Date, uc.settings.Location)

	// 3. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Окно записи
	if err := validateDate(day, now, uc.settings.MinAdvanceDays, uc.settings.MaxAdvanceDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	response := &Response{
		Date:            day,
		ServiceID:       service.ID,
		ServiceName:     service.Name,
		DurationMinutes: service.DurationMinutes,
		IsWorkingDay:    uc.settings.Profile.IsWorkingDay(day),
		Slots:           []time.Time{},
	}

	// 5. В нерабочий день слотов нет, это не ошибка
	if !response.IsWorkingDay {
		uc.logger.Info("GetAvailableSlots: salon is closed on %s", day.Format(domain.DateFormat))
		uc.metrics.ObserveSlots(0)
		return response, nil
	}

	// 6. Записи, начинающиеся в этот день
	nextDay := day.AddDate(0, 0, 1)
	appointments, err := uc.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		StartDate: &day,
		EndDate:   &nextDay,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 7. Вычисляем свободные слоты
	response.Slots = slices.Collect(uc.engine.ComputeAvailableSlots(day, *service, uc.settings.Profile, appointments, now))
	if response.Slots == nil {
		response.Slots = []time.Time{}
	}

	uc.metrics.ObserveSlots(len(response.Slots))
	uc.logger.Info("GetAvailableSlots: %d slots for service=%s on %s (%d appointments)",
		len(response.Slots), service.ID, day.Format(domain.DateFormat), len(appointments))

	return response, nil
}
