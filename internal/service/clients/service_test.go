package clients

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	anamnesisRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/anamnesis"
	clientRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/client"
	"github.com/m04kA/SMC-SalonBooking/internal/service/clients/models"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeClientRepo struct {
	byID      map[uuid.UUID]*domain.Client
	filters   []domain.ClientsFilter
	updated   *domain.Client
	updateErr error
	deleteErr error
	deleted   []uuid.UUID
}

func newFakeClientRepo(clients ...*domain.Client) *fakeClientRepo {
	r := &fakeClientRepo{byID: make(map[uuid.UUID]*domain.Client)}
	for _, c := range clients {
		r.byID[c.ID] = c
	}
	return r
}

func (r *fakeClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, clientRepo.ErrClientNotFound
	}
	return c, nil
}

func (r *fakeClientRepo) List(ctx context.Context, filter domain.ClientsFilter) ([]*domain.Client, error) {
	r.filters = append(r.filters, filter)
	out := make([]*domain.Client, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeClientRepo) UpdateDetails(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	if _, ok := r.byID[c.ID]; !ok {
		return nil, clientRepo.ErrClientNotFound
	}
	copied := *c
	r.updated = &copied
	r.byID[c.ID] = &copied
	return &copied, nil
}

func (r *fakeClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.byID[id]; !ok {
		return clientRepo.ErrClientNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeAnamnesisRepo struct {
	byClient map[uuid.UUID]*domain.Anamnesis
	saved    *domain.Anamnesis
	getErr   error
}

func newFakeAnamnesisRepo() *fakeAnamnesisRepo {
	return &fakeAnamnesisRepo{byClient: make(map[uuid.UUID]*domain.Anamnesis)}
}

func (r *fakeAnamnesisRepo) GetByClientID(ctx context.Context, clientID uuid.UUID) (*domain.Anamnesis, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	a, ok := r.byClient[clientID]
	if !ok {
		return nil, anamnesisRepo.ErrAnamnesisNotFound
	}
	return a, nil
}

func (r *fakeAnamnesisRepo) Upsert(ctx context.Context, a *domain.Anamnesis) (*domain.Anamnesis, error) {
	copied := *a
	copied.UpdatedAt = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	r.saved = &copied
	r.byClient[a.ClientID] = &copied
	return &copied, nil
}

var now = time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)

func newTestService(clients *fakeClientRepo, anamnesis *fakeAnamnesisRepo) *Service {
	svc := NewService(clients, anamnesis, nopLogger{})
	svc.timeProvider = fixedTime{now: now}
	return svc
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func testClient() *domain.Client {
	return &domain.Client{
		ID:       uuid.New(),
		FullName: "Maria Silva",
		Phone:    "11987654321",
	}
}

func TestList_PassesSearch(t *testing.T) {
	clients := newFakeClientRepo(testClient(), testClient())
	svc := newTestService(clients, newFakeAnamnesisRepo())

	resp, err := svc.List(context.Background(), "mar")
	require.NoError(t, err)
	assert.Len(t, resp.Clients, 2)
	require.Len(t, clients.filters, 1)
	assert.Equal(t, "mar", clients.filters[0].Search)
}

func TestUpdateDetails(t *testing.T) {
	client := testClient()
	birthDate := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     models.UpdateClientRequest
		repoErr error
		wantErr error
		check   func(t *testing.T, c *domain.Client)
	}{
		{
			name: "normalizes phone and cpf, clears blank optionals",
			req: models.UpdateClientRequest{
				FullName:   "  Maria Souza ",
				Phone:      "+55 (11) 91234-5678",
				CPF:        strPtr("123.456.789-09"),
				RG:         strPtr("   "),
				BirthDate:  &birthDate,
				Profession: strPtr(" Designer "),
			},
			check: func(t *testing.T, c *domain.Client) {
				assert.Equal(t, "Maria Souza", c.FullName)
				assert.Equal(t, "5511912345678", c.Phone)
				require.NotNil(t, c.CPF)
				assert.Equal(t, "12345678909", *c.CPF)
				assert.Nil(t, c.RG)
				require.NotNil(t, c.Profession)
				assert.Equal(t, "Designer", *c.Profession)
				assert.Nil(t, c.Address)
			},
		},
		{
			name:    "empty name",
			req:     models.UpdateClientRequest{FullName: " ", Phone: "11987654321"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "short phone",
			req:     models.UpdateClientRequest{FullName: "Maria", Phone: "12345"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad cpf",
			req:     models.UpdateClientRequest{FullName: "Maria", Phone: "11987654321", CPF: strPtr("123")},
			wantErr: ErrInvalidInput,
		},
		{
			name: "birth date in the future",
			req: models.UpdateClientRequest{
				FullName:  "Maria",
				Phone:     "11987654321",
				BirthDate: func() *time.Time { d := now.AddDate(0, 0, 1); return &d }(),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "address too long",
			req:     models.UpdateClientRequest{FullName: "Maria", Phone: "11987654321", Address: strPtr(strings.Repeat("a", maxAddressLength+1))},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "phone belongs to another client",
			req:     models.UpdateClientRequest{FullName: "Maria", Phone: "11912345678"},
			repoErr: fmt.Errorf("%w: duplicate", clientRepo.ErrPhoneTaken),
			wantErr: ErrPhoneTaken,
		},
		{
			name:    "repository failure",
			req:     models.UpdateClientRequest{FullName: "Maria", Phone: "11912345678"},
			repoErr: fmt.Errorf("%w: boom", clientRepo.ErrExecQuery),
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clients := newFakeClientRepo(client)
			clients.updateErr = tt.repoErr
			svc := newTestService(clients, newFakeAnamnesisRepo())

			resp, err := svc.UpdateDetails(context.Background(), client.ID, &tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, client.ID, resp.ID)
			require.NotNil(t, clients.updated)
			tt.check(t, clients.updated)
		})
	}
}

func TestUpdateDetails_UnknownClient(t *testing.T) {
	svc := newTestService(newFakeClientRepo(), newFakeAnamnesisRepo())

	_, err := svc.UpdateDetails(context.Background(), uuid.New(),
		&models.UpdateClientRequest{FullName: "Maria", Phone: "11987654321"})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestDelete(t *testing.T) {
	t.Run("deletes client", func(t *testing.T) {
		client := testClient()
		clients := newFakeClientRepo(client)
		svc := newTestService(clients, newFakeAnamnesisRepo())

		require.NoError(t, svc.Delete(context.Background(), client.ID))
		assert.Equal(t, []uuid.UUID{client.ID}, clients.deleted)
	})

	t.Run("client with appointments", func(t *testing.T) {
		client := testClient()
		clients := newFakeClientRepo(client)
		clients.deleteErr = fmt.Errorf("%w: fk", clientRepo.ErrClientHasAppointments)
		svc := newTestService(clients, newFakeAnamnesisRepo())

		assert.ErrorIs(t, svc.Delete(context.Background(), client.ID), ErrClientHasAppointments)
	})

	t.Run("unknown client", func(t *testing.T) {
		svc := newTestService(newFakeClientRepo(), newFakeAnamnesisRepo())
		assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), ErrClientNotFound)
	})
}

func TestGetAnamnesis(t *testing.T) {
	t.Run("not filled yet", func(t *testing.T) {
		client := testClient()
		svc := newTestService(newFakeClientRepo(client), newFakeAnamnesisRepo())

		resp, err := svc.GetAnamnesis(context.Background(), client.ID)
		require.NoError(t, err)
		assert.False(t, resp.Filled)
		assert.Equal(t, client.ID, resp.ClientID)
		assert.Nil(t, resp.UpdatedAt)
	})

	t.Run("unknown client", func(t *testing.T) {
		svc := newTestService(newFakeClientRepo(), newFakeAnamnesisRepo())

		_, err := svc.GetAnamnesis(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrClientNotFound)
	})

	t.Run("repository failure", func(t *testing.T) {
		client := testClient()
		anamnesis := newFakeAnamnesisRepo()
		anamnesis.getErr = fmt.Errorf("%w: boom", anamnesisRepo.ErrExecQuery)
		svc := newTestService(newFakeClientRepo(client), anamnesis)

		_, err := svc.GetAnamnesis(context.Background(), client.ID)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestUpsertAnamnesis(t *testing.T) {
	tests := []struct {
		name    string
		req     models.AnamnesisRequest
		wantErr error
		check   func(t *testing.T, a *domain.Anamnesis)
	}{
		{
			name: "full answer",
			req: models.AnamnesisRequest{
				Pregnant:         true,
				PregnantWeeks:    intPtr(20),
				Allergies:        true,
				AllergiesDetails: "  látex ",
				HairLoss:         true,
				HairLossDegree:   strPtr("regular"),
				SleepSide:        strPtr("direito"),
			},
			check: func(t *testing.T, a *domain.Anamnesis) {
				require.NotNil(t, a.PregnantWeeks)
				assert.Equal(t, 20, *a.PregnantWeeks)
				assert.Equal(t, "látex", a.AllergiesDetails)
				require.NotNil(t, a.HairLossDegree)
				assert.Equal(t, domain.HairLossDegree("regular"), *a.HairLossDegree)
				require.NotNil(t, a.SleepSide)
				assert.Equal(t, domain.SleepSide("direito"), *a.SleepSide)
			},
		},
		{
			name: "details without the main answer are dropped",
			req: models.AnamnesisRequest{
				PregnantWeeks:  intPtr(20),
				HairLossDegree: strPtr("bastante"),
			},
			check: func(t *testing.T, a *domain.Anamnesis) {
				assert.Nil(t, a.PregnantWeeks)
				assert.Nil(t, a.HairLossDegree)
			},
		},
		{
			name:    "pregnancy weeks out of range",
			req:     models.AnamnesisRequest{Pregnant: true, PregnantWeeks: intPtr(domain.MaxPregnantWeeks + 1)},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown hair loss degree",
			req:     models.AnamnesisRequest{HairLoss: true, HairLossDegree: strPtr("muito")},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown sleep side",
			req:     models.AnamnesisRequest{SleepSide: strPtr("costas")},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "allergy details too long",
			req:     models.AnamnesisRequest{AllergiesDetails: strings.Repeat("x", domain.MaxAllergiesDetailsSize+1)},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient()
			anamnesis := newFakeAnamnesisRepo()
			svc := newTestService(newFakeClientRepo(client), anamnesis)

			resp, err := svc.UpsertAnamnesis(context.Background(), client.ID, &tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, anamnesis.saved)
				return
			}

			require.NoError(t, err)
			assert.True(t, resp.Filled)
			assert.NotNil(t, resp.UpdatedAt)
			require.NotNil(t, anamnesis.saved)
			assert.Equal(t, client.ID, anamnesis.saved.ClientID)
			tt.check(t, anamnesis.saved)
		})
	}
}
