package list_clients

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
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

// Handle GET /api/v1/admin/clients
// Query params: search - часть имени или телефона
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	result, err := h.service.List(r.Context(), search)
	if err != nil {
		h.logger.Error("GET /admin/clients - Failed to list clients: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/clients - Clients retrieved successfully: count=%d", len(result.Clients))
	handlers.RespondJSON(w, http.StatusOK, result)
}
