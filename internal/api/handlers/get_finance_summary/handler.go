package get_finance_summary

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/finance"
)

const (
	msgInvalidQuery  = "некорректные параметры запроса: from, to - YYYY-MM-DD"
	msgInvalidPeriod = "некорректный период: to раньше from"
)

type Handler struct {
	service FinanceService
	logger  Logger
}

func NewHandler(service FinanceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/finance/summary
// Query params: from, to (YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := ToServiceRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /admin/finance/summary - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	summary, err := h.service.Summary(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, finance.ErrInvalidInput):
			h.logger.Warn("GET /admin/finance/summary - Invalid period: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /admin/finance/summary - Failed to build summary: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/finance/summary - Summary built: revenue=%.2f, expenses=%.2f, profit=%.2f",
		summary.Revenue, summary.Expenses, summary.Profit)
	handlers.RespondJSON(w, http.StatusOK, summary)
}
