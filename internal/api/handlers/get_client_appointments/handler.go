package get_client_appointments

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
)

const (
	msgInvalidClientID = "некорректный ID клиента"
	msgClientNotFound  = "клиент не найден"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/clients/{clientId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(mux.Vars(r)["clientId"])
	if err != nil {
		h.logger.Warn("GET /admin/clients/{id}/appointments - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	history, err := h.service.ListByClient(r.Context(), clientID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrClientNotFound):
			h.logger.Warn("GET /admin/clients/{id}/appointments - Client not found: client_id=%s", clientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		default:
			h.logger.Error("GET /admin/clients/{id}/appointments - Failed to get appointments: client_id=%s, error=%v",
				clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/clients/{id}/appointments - Appointments retrieved successfully: client_id=%s, count=%d",
		clientID, len(history.Appointments))
	handlers.RespondJSON(w, http.StatusOK, history)
}
