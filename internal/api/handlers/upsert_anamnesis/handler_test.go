package upsert_anamnesis

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBooking/internal/service/clients"
	"github.com/m04kA/SMC-SalonBooking/internal/service/clients/models"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeService struct {
	err error
}

func (f *fakeService) UpsertAnamnesis(ctx context.Context, clientID uuid.UUID, req *models.AnamnesisRequest) (*models.AnamnesisResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.AnamnesisResponse{ClientID: clientID, Filled: true, AnamnesisRequest: *req}, nil
}

const validBody = `{"pregnant":true,"pregnantWeeks":12,"hairLoss":true,"hairLossDegree":"pouco","sleepSide":"esquerdo"}`

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		body   string
		err    error
		status int
	}{
		{"saved", uuid.NewString(), validBody, nil, http.StatusOK},
		{"invalid id", "17", validBody, nil, http.StatusBadRequest},
		{"empty body", uuid.NewString(), "", nil, http.StatusBadRequest},
		{"wrong type", uuid.NewString(), `{"pregnant":"sim"}`, nil, http.StatusBadRequest},
		{"validation", uuid.NewString(), validBody, fmt.Errorf("%w: sleepSide", clients.ErrInvalidInput), http.StatusBadRequest},
		{"not found", uuid.NewString(), validBody, clients.ErrClientNotFound, http.StatusNotFound},
		{"internal", uuid.NewString(), validBody, clients.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := mux.NewRouter()
			router.HandleFunc("/api/v1/admin/clients/{clientId}/anamnesis",
				NewHandler(&fakeService{err: tt.err}, nopLogger{}).Handle).Methods(http.MethodPut)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/clients/"+tt.id+"/anamnesis", strings.NewReader(tt.body))
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
