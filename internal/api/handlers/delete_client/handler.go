package delete_client

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/clients"
)

const (
	msgInvalidClientID       = "некорректный ID клиента"
	msgClientNotFound        = "клиент не найден"
	msgClientHasAppointments = "у клиента есть записи, удаление невозможно"
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

// Handle DELETE /api/v1/admin/clients/{clientId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(mux.Vars(r)["clientId"])
	if err != nil {
		h.logger.Warn("DELETE /admin/clients/{id} - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	if err := h.service.Delete(r.Context(), clientID); err != nil {
		switch {
		case errors.Is(err, clients.ErrClientNotFound):
			h.logger.Warn("DELETE /admin/clients/{id} - Client not found: client_id=%s", clientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, clients.ErrClientHasAppointments):
			h.logger.Warn("DELETE /admin/clients/{id} - Client has appointments: client_id=%s", clientID)
			handlers.RespondConflict(w, msgClientHasAppointments)

		default:
			h.logger.Error("DELETE /admin/clients/{id} - Failed to delete client: client_id=%s, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/clients/{id} - Client deleted successfully: client_id=%s", clientID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
