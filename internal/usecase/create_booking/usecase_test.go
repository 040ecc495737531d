package create_booking

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// memoryAppointments хранит записи в памяти и, как ограничение в БД,
// не допускает пересечения активных записей
type memoryAppointments struct {
	mu           sync.Mutex
	appointments []*domain.Appointment
	now          time.Time
	createErr    error
	listErr      error
	cancelErr    error
	expiredCalls []domain.ExpiredHoldsFilter
}

func (r *memoryAppointments) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return nil, r.createErr
	}

	for _, a := range r.appointments {
		if a.Status == domain.StatusCancelled {
			continue
		}
		if a.StartTime.Before(appt.EndTime) && appt.StartTime.Before(a.EndTime) {
			return nil, fmt.Errorf("%w: exclusion violation", appointmentRepo.ErrSlotNotAvailable)
		}
	}

	appt.ID = uuid.New()
	appt.CreatedAt = r.now
	appt.UpdatedAt = r.now
	r.appointments = append(r.appointments, appt)
	return appt, nil
}

func (r *memoryAppointments) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return nil, r.listErr
	}

	out := make([]*domain.Appointment, 0)
	for _, a := range r.appointments {
		if filter.StartDate != nil && a.StartTime.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && !a.StartTime.Before(*filter.EndDate) {
			continue
		}
		if !filter.IncludeCancelled && a.Status == domain.StatusCancelled {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memoryAppointments) CancelExpiredHolds(ctx context.Context, filter domain.ExpiredHoldsFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.expiredCalls = append(r.expiredCalls, filter)
	if r.cancelErr != nil {
		return 0, r.cancelErr
	}

	var n int64
	for _, a := range r.appointments {
		if a.Status != domain.StatusPending || a.CreatedAt.After(filter.CreatedBefore) {
			continue
		}
		if filter.OverlapStart != nil && filter.OverlapEnd != nil &&
			!(a.StartTime.Before(*filter.OverlapEnd) && filter.OverlapStart.Before(a.EndTime)) {
			continue
		}
		a.Status = domain.StatusCancelled
		n++
	}
	return n, nil
}

type memoryClients struct {
	mu        sync.Mutex
	byPhone   map[string]*domain.Client
	upsertErr error
}

func (r *memoryClients) UpsertByPhone(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	if r.byPhone == nil {
		r.byPhone = make(map[string]*domain.Client)
	}
	if existing, ok := r.byPhone[c.Phone]; ok {
		existing.FullName = c.FullName
		return existing, nil
	}
	c.ID = uuid.New()
	r.byPhone[c.Phone] = c
	return c, nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*domain.Service
}

func (r *fakeServiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return s, nil
}

// serialTxManager выполняет транзакции строго по очереди, как SERIALIZABLE без конфликтов
type serialTxManager struct {
	mu        sync.Mutex
	commitErr error
}

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := fn(ctx); err != nil {
		return err
	}
	return m.commitErr
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *fakeMetrics) ObserveBooking(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

var (
	facialID        = uuid.MustParse("6f1c2b9e-3a4d-4c1e-9b7a-1d2e3f4a5b01")
	microneedlingID = uuid.MustParse("6f1c2b9e-3a4d-4c1e-9b7a-1d2e3f4a5b03")

	// воскресенье, 10:00
	now    = time.Date(2025, 10, 19, 10, 0, 0, 0, time.UTC)
	monday = time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc           *UseCase
	appointments *memoryAppointments
	clients      *memoryClients
	tx           *serialTxManager
	metrics      *fakeMetrics
}

func newFixture() *fixture {
	f := &fixture{
		appointments: &memoryAppointments{now: now},
		clients:      &memoryClients{},
		tx:           &serialTxManager{},
		metrics:      &fakeMetrics{},
	}

	services := &fakeServiceRepo{services: map[uuid.UUID]*domain.Service{
		facialID:        {ID: facialID, Name: "Limpeza de pele", DurationMinutes: 60, Price: 150},
		microneedlingID: {ID: microneedlingID, Name: "Microagulhamento", DurationMinutes: 90, Price: 280},
	}}

	f.uc = NewUseCase(
		f.appointments,
		f.clients,
		services,
		availability.NewEngine(availability.DefaultPolicy()),
		f.tx,
		Settings{
			Profile:        domain.DefaultBusinessHours(),
			Location:       time.UTC,
			HoldExpiry:     24 * time.Hour,
			MinAdvanceDays: 1,
			WhatsAppPhone:  "557100000000",
		},
		f.metrics,
		nopLogger{},
	)
	f.uc.timeProvider = fixedTime{now: now}
	return f
}

func validRequest(start time.Time) *Request {
	return &Request{
		FullName:  "  Maria Silva ",
		Phone:     "+55 (71) 99999-0000",
		ServiceID: facialID,
		StartTime: start,
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()
	start := monday.Add(9 * time.Hour)

	resp, err := f.uc.Execute(context.Background(), validRequest(start))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, start, resp.StartTime)
	assert.Equal(t, start.Add(time.Hour), resp.EndTime)
	assert.Equal(t, "Maria Silva", resp.ClientName)
	assert.Equal(t, "5571999990000", resp.ClientPhone)
	assert.Equal(t, "Limpeza de pele", resp.ServiceName)
	assert.Equal(t, 150.0, resp.ServicePrice)
	assert.Equal(t, now.Add(24*time.Hour), resp.HoldExpiresAt)
	assert.Equal(t, []string{OutcomeCreated}, f.metrics.outcomes)

	link, err := url.Parse(resp.WhatsAppLink)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", link.Host)
	assert.Equal(t, "/557100000000", link.Path)
	assert.Contains(t, link.Query().Get("text"), "*Maria Silva*")
	assert.Contains(t, link.Query().Get("text"), "20/10 às 09:00")

	// Просроченные записи ищутся в интервале новой записи
	require.Len(t, f.appointments.expiredCalls, 1)
	call := f.appointments.expiredCalls[0]
	assert.Equal(t, now.Add(-24*time.Hour), call.CreatedBefore)
	assert.Equal(t, start, *call.OverlapStart)
	assert.Equal(t, start.Add(time.Hour), *call.OverlapEnd)
}

func TestExecute_EndUsesServiceDuration(t *testing.T) {
	f := newFixture()
	req := validRequest(monday.Add(8 * time.Hour))
	req.ServiceID = microneedlingID

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, monday.Add(9*time.Hour+30*time.Minute), resp.EndTime)
}

func TestExecute_SlotTaken(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
	}{
		{"same start", monday.Add(9 * time.Hour)},
		{"overlapping interval", monday.Add(9*time.Hour + 30*time.Minute)},
		{"ends inside existing", monday.Add(8*time.Hour + 30*time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.appointments.appointments = []*domain.Appointment{{
				ID:        uuid.New(),
				StartTime: monday.Add(9 * time.Hour),
				EndTime:   monday.Add(10 * time.Hour),
				Status:    domain.StatusConfirmed,
				CreatedAt: now.Add(-48 * time.Hour),
			}}

			_, err := f.uc.Execute(context.Background(), validRequest(tt.start))
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
			assert.Equal(t, []string{OutcomeSlotTaken}, f.metrics.outcomes)
		})
	}
}

func TestExecute_AdjacentAppointmentDoesNotBlock(t *testing.T) {
	f := newFixture()
	f.appointments.appointments = []*domain.Appointment{{
		ID:        uuid.New(),
		StartTime: monday.Add(9 * time.Hour),
		EndTime:   monday.Add(10 * time.Hour),
		Status:    domain.StatusConfirmed,
		CreatedAt: now.Add(-48 * time.Hour),
	}}

	_, err := f.uc.Execute(context.Background(), validRequest(monday.Add(10*time.Hour)))
	assert.NoError(t, err)
}

func TestExecute_ExpiredHoldIsReleased(t *testing.T) {
	f := newFixture()
	stale := &domain.Appointment{
		ID:        uuid.New(),
		StartTime: monday.Add(9 * time.Hour),
		EndTime:   monday.Add(10 * time.Hour),
		Status:    domain.StatusPending,
		CreatedAt: now.Add(-24 * time.Hour),
	}
	f.appointments.appointments = []*domain.Appointment{stale}

	_, err := f.uc.Execute(context.Background(), validRequest(monday.Add(9*time.Hour)))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, stale.Status)
}

func TestExecute_FreshHoldBlocks(t *testing.T) {
	f := newFixture()
	f.appointments.appointments = []*domain.Appointment{{
		ID:        uuid.New(),
		StartTime: monday.Add(9 * time.Hour),
		EndTime:   monday.Add(10 * time.Hour),
		Status:    domain.StatusPending,
		CreatedAt: now.Add(-23 * time.Hour),
	}}

	_, err := f.uc.Execute(context.Background(), validRequest(monday.Add(9*time.Hour)))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_ConcurrentInsertConflict(t *testing.T) {
	f := newFixture()
	f.appointments.createErr = fmt.Errorf("%w: Create - pq: conflicting key value", appointmentRepo.ErrSlotNotAvailable)

	_, err := f.uc.Execute(context.Background(), validRequest(monday.Add(9*time.Hour)))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_SerializationFailureOnCommit(t *testing.T) {
	f := newFixture()
	f.tx.commitErr = fmt.Errorf("%w: %w", txmanager.ErrCommitTx, &pq.Error{Code: "40001"})

	_, err := f.uc.Execute(context.Background(), validRequest(monday.Add(9*time.Hour)))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_ConflictInsideTransaction(t *testing.T) {
	serialization := fmt.Errorf("%w: execute: %w", appointmentRepo.ErrExecQuery, &pq.Error{Code: "40001"})
	deadlock := fmt.Errorf("%w: execute: %w", appointmentRepo.ErrExecQuery, &pq.Error{Code: "40P01"})

	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"cancel expired holds", func(f *fixture) { f.appointments.cancelErr = serialization }},
		{"upsert client", func(f *fixture) { f.clients.upsertErr = deadlock }},
		{"list appointments", func(f *fixture) { f.appointments.listErr = serialization }},
		{"create appointment", func(f *fixture) { f.appointments.createErr = serialization }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			_, err := f.uc.Execute(context.Background(), validRequest(monday.Add(9*time.Hour)))
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
			assert.NotErrorIs(t, err, ErrInternal)
			assert.Equal(t, []string{OutcomeSlotTaken}, f.metrics.outcomes)
		})
	}
}

func TestExecute_RepositoryFailureInsideTransactionIsInternal(t *testing.T) {
	f := newFixture()
	f.appointments.cancelErr = fmt.Errorf("%w: execute: %w", appointmentRepo.ErrExecQuery, errors.New("connection reset"))

	_, err := f.uc.Execute(context.Background(), validRequest(monday.Add(9*time.Hour)))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, []string{OutcomeError}, f.metrics.outcomes)
}

func TestExecute_OtherCommitFailureIsInternal(t *testing.T) {
	f := newFixture()
	f.tx.commitErr = fmt.Errorf("%w: %w", txmanager.ErrCommitTx, errors.New("connection reset"))

	_, err := f.uc.Execute(context.Background(), validRequest(monday.Add(9*time.Hour)))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, []string{OutcomeError}, f.metrics.outcomes)
}

func TestExecute_ConcurrentSubmissionsForSameSlot(t *testing.T) {
	f := newFixture()
	start := monday.Add(14 * time.Hour)

	const clients = 10
	var wg sync.WaitGroup
	errs := make([]error, clients)

	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest(start)
			req.Phone = fmt.Sprintf("71999990%03d", i)
			_, errs[i] = f.uc.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	}
	assert.Equal(t, 1, succeeded)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"empty name", func(r *Request) { r.FullName = "   " }, ErrInvalidInput},
		{"long name", func(r *Request) { r.FullName = strings.Repeat("a", domain.MaxFullNameLength+1) }, ErrInvalidInput},
		{"short phone", func(r *Request) { r.Phone = "99999" }, ErrInvalidInput},
		{"bad cpf", func(r *Request) { cpf := "123.456"; r.CPF = &cpf }, ErrInvalidInput},
		{"birth date in future", func(r *Request) { d := now.AddDate(0, 0, 1); r.BirthDate = &d }, ErrInvalidInput},
		{"missing service", func(r *Request) { r.ServiceID = uuid.Nil }, ErrInvalidInput},
		{"missing start", func(r *Request) { r.StartTime = time.Time{} }, ErrInvalidInput},
		{"unknown service", func(r *Request) { r.ServiceID = uuid.New() }, ErrServiceNotFound},
		{"today", func(r *Request) { r.StartTime = now.Add(2 * time.Hour) }, ErrInvalidDate},
		{"sunday", func(r *Request) { r.StartTime = monday.AddDate(0, 0, 6).Add(9 * time.Hour) }, ErrBusinessClosed},
		{"lunch", func(r *Request) { r.StartTime = monday.Add(12 * time.Hour) }, ErrInvalidTimeSlot},
		{"spans lunch", func(r *Request) { r.StartTime = monday.Add(11*time.Hour + 30*time.Minute) }, ErrInvalidTimeSlot},
		{"off grid", func(r *Request) { r.StartTime = monday.Add(9*time.Hour + 15*time.Minute) }, ErrInvalidTimeSlot},
		{"overruns close", func(r *Request) { r.StartTime = monday.Add(16*time.Hour + 30*time.Minute) }, ErrInvalidTimeSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest(monday.Add(9 * time.Hour))
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, []string{OutcomeRejected}, f.metrics.outcomes)
			assert.Empty(t, f.appointments.appointments)
		})
	}
}

func TestExecute_CPFIsNormalized(t *testing.T) {
	f := newFixture()
	req := validRequest(monday.Add(9 * time.Hour))
	cpf := "123.456.789-09"
	req.CPF = &cpf

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	client := f.clients.byPhone["5571999990000"]
	require.NotNil(t, client)
	require.NotNil(t, client.CPF)
	assert.Equal(t, "12345678909", *client.CPF)
}

func TestWhatsAppLink_EmptyPhone(t *testing.T) {
	assert.Empty(t, whatsAppLink("", "Maria", "Limpeza de pele", monday))
}
