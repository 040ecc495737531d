package get_anamnesis

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/clients"
)

const (
	msgInvalidClientID = "некорректный ID клиента"
	msgClientNotFound  = "клиент не найден"
)

type Handler struct {
	service ClientService
	logger  Logger
}

func NewHandler(service ClientService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/clients/{clientId}/anamnesis
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(mux.Vars(r)["clientId"])
	if err != nil {
		h.logger.Warn("GET /admin/clients/{id}/anamnesis - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	anamnesis, err := h.service.GetAnamnesis(r.Context(), clientID)
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrClientNotFound):
			h.logger.Warn("GET /admin/clients/{id}/anamnesis - Client not found: client_id=%s", clientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		default:
			h.logger.Error("GET /admin/clients/{id}/anamnesis - Failed to get anamnesis: client_id=%s, error=%v",
				clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/clients/{id}/anamnesis - Anamnesis retrieved: client_id=%s, filled=%t",
		clientID, anamnesis.Filled)
	handlers.RespondJSON(w, http.StatusOK, anamnesis)
}
