// Package holdexpiry периодически отменяет неподтверждённые записи, удержание которых истекло.
// Доступность слотов от него не зависит: движок сам не учитывает просроченные удержания.
package holdexpiry

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	CancelExpiredHolds(ctx context.Context, filter domain.ExpiredHoldsFilter) (int64, error)
}

// Metrics интерфейс метрик воркера
type Metrics interface {
	ObserveHoldsExpired(count int64)
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

func (realTimeProvider) Now() time.Time { return time.Now() }

type nopMetrics struct{}

func (nopMetrics) ObserveHoldsExpired(int64) {}

// Worker фоновая задача очистки просроченных удержаний
type Worker struct {
	appointmentRepo AppointmentRepository
	holdExpiry      time.Duration
	interval        time.Duration
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger

	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewWorker создает воркер. metrics может быть nil
func NewWorker(
	appointmentRepo AppointmentRepository,
	holdExpiry time.Duration,
	interval time.Duration,
	metrics Metrics,
	logger Logger,
) *Worker {
	if holdExpiry <= 0 {
		holdExpiry = domain.DefaultHoldExpiry
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &Worker{
		appointmentRepo: appointmentRepo,
		holdExpiry:      holdExpiry,
		interval:        interval,
		metrics:         metrics,
		timeProvider:    realTimeProvider{},
		logger:          logger,
		stopChan:        make(chan struct{}),
		done:            make(chan struct{}),
	}
}

// Start запускает воркер в отдельной горутине. Первый проход выполняется сразу
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("HoldExpiry: starting worker, interval=%s, holdExpiry=%s", w.interval, w.holdExpiry)
	go w.run(ctx)
}

// Stop останавливает воркер и ждёт завершения текущего прохода.
// Вызывать только после Start
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("HoldExpiry: stopping worker")
		close(w.stopChan)
	})
	<-w.done
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	w.Sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Sweep(ctx)
		case <-w.stopChan:
			w.logger.Info("HoldExpiry: worker stopped")
			return
		case <-ctx.Done():
			w.logger.Info("HoldExpiry: worker cancelled")
			return
		}
	}
}

// Sweep отменяет все pending записи, созданные не позже now - holdExpiry
func (w *Worker) Sweep(ctx context.Context) int64 {
	cutoff := w.timeProvider.Now().Add(-w.holdExpiry)

	cancelled, err := w.appointmentRepo.CancelExpiredHolds(ctx, domain.ExpiredHoldsFilter{
		CreatedBefore: cutoff,
	})
	if err != nil {
		w.logger.Error("HoldExpiry: failed to cancel expired holds: %v", err)
		return 0
	}

	w.metrics.ObserveHoldsExpired(cancelled)
	if cancelled > 0 {
		w.logger.Info("HoldExpiry: cancelled %d holds created before %s", cancelled, cutoff.Format(time.RFC3339))
	}
	return cancelled
}
