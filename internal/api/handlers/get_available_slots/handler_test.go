package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc *fakeUseCase, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/services/{serviceId}/available-slots", NewHandler(uc, nopLogger{}).Handle)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandle_OK(t *testing.T) {
	serviceID := uuid.New()
	day := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		Date:            day,
		ServiceID:       serviceID,
		ServiceName:     "Limpeza de pele",
		DurationMinutes: 60,
		IsWorkingDay:    true,
		Slots:           []time.Time{day.Add(8 * time.Hour), day.Add(13*time.Hour + 30*time.Minute)},
	}}

	w := serve(uc, "/api/v1/services/"+serviceID.String()+"/available-slots?date=2025-10-20")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, serviceID, uc.got.ServiceID)
	assert.Equal(t, "2025-10-20", uc.got.Date.Format("2006-01-02"))

	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "08:00", resp.Slots[0].StartTime)
	assert.Equal(t, "13:30", resp.Slots[1].StartTime)
	assert.True(t, resp.IsWorkingDay)
}

func TestHandle_Errors(t *testing.T) {
	valid := uuid.New().String()

	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{"missing date", "/api/v1/services/" + valid + "/available-slots", nil, http.StatusBadRequest},
		{"bad date", "/api/v1/services/" + valid + "/available-slots?date=2025-13-01", nil, http.StatusBadRequest},
		{"bad service id", "/api/v1/services/abc/available-slots?date=2025-10-20", nil, http.StatusBadRequest},
		{"service not found", "/api/v1/services/" + valid + "/available-slots?date=2025-10-20", getAvailableSlots.ErrServiceNotFound, http.StatusNotFound},
		{"past date", "/api/v1/services/" + valid + "/available-slots?date=2025-10-20", getAvailableSlots.ErrInvalidDate, http.StatusBadRequest},
		{"too far", "/api/v1/services/" + valid + "/available-slots?date=2025-10-20", getAvailableSlots.ErrDateTooFarInFuture, http.StatusBadRequest},
		{"internal", "/api/v1/services/" + valid + "/available-slots?date=2025-10-20", getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&fakeUseCase{err: tt.err}, tt.target)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
