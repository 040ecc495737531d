package upsert_anamnesis

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/clients"
	"github.com/m04kA/SMC-SalonBooking/internal/service/clients/models"
)

const (
	msgInvalidClientID = "некорректный ID клиента"
	msgInvalidBody     = "некорректное тело запроса"
	msgInvalidInput    = "некорректная анкета: pregnantWeeks 1-42, hairLossDegree pouco|regular|bastante, sleepSide nao|direito|esquerdo|brucos"
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

// Handle PUT /api/v1/admin/clients/{clientId}/anamnesis
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(mux.Vars(r)["clientId"])
	if err != nil {
		h.logger.Warn("PUT /admin/clients/{id}/anamnesis - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	var req models.AnamnesisRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/clients/{id}/anamnesis - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	anamnesis, err := h.service.UpsertAnamnesis(r.Context(), clientID, &req)
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrInvalidInput):
			h.logger.Warn("PUT /admin/clients/{id}/anamnesis - Validation failed: client_id=%s, error=%v", clientID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, clients.ErrClientNotFound):
			h.logger.Warn("PUT /admin/clients/{id}/anamnesis - Client not found: client_id=%s", clientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		default:
			h.logger.Error("PUT /admin/clients/{id}/anamnesis - Failed to save anamnesis: client_id=%s, error=%v",
				clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/clients/{id}/anamnesis - Anamnesis saved: client_id=%s", clientID)
	handlers.RespondJSON(w, http.StatusOK, anamnesis)
}
