package update_client

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
	msgInvalidBody     = "некорректное тело запроса"
	msgInvalidInput    = "некорректные данные клиента: имя, телефон 10-15 цифр, CPF 11 цифр, дата рождения YYYY-MM-DD"
	msgClientNotFound  = "клиент не найден"
	msgPhoneTaken      = "телефон уже принадлежит другому клиенту"
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

// Handle PUT /api/v1/admin/clients/{clientId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(mux.Vars(r)["clientId"])
	if err != nil {
		h.logger.Warn("PUT /admin/clients/{id} - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	var body UpdateClientRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("PUT /admin/clients/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	req, err := body.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PUT /admin/clients/{id} - Invalid request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	client, err := h.service.UpdateDetails(r.Context(), clientID, req)
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrInvalidInput):
			h.logger.Warn("PUT /admin/clients/{id} - Validation failed: client_id=%s, error=%v", clientID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, clients.ErrClientNotFound):
			h.logger.Warn("PUT /admin/clients/{id} - Client not found: client_id=%s", clientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, clients.ErrPhoneTaken):
			h.logger.Warn("PUT /admin/clients/{id} - Phone taken: client_id=%s", clientID)
			handlers.RespondConflict(w, msgPhoneTaken)

		default:
			h.logger.Error("PUT /admin/clients/{id} - Failed to update client: client_id=%s, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/clients/{id} - Client updated successfully: client_id=%s", clientID)
	handlers.RespondJSON(w, http.StatusOK, client)
}
