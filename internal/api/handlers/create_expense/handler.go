package create_expense

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/finance"
)

const (
	msgInvalidBody  = "некорректное тело запроса"
	msgInvalidInput = "некорректный расход: название, сумма больше 0, категория Material|Aluguel|Energia/Água|Marketing|Outros, дата YYYY-MM-DD"
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

// Handle POST /api/v1/admin/expenses
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var body CreateExpenseRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /admin/expenses - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	req, err := body.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /admin/expenses - Invalid request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	expense, err := h.service.CreateExpense(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, finance.ErrInvalidInput):
			h.logger.Warn("POST /admin/expenses - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /admin/expenses - Failed to create expense: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/expenses - Expense created successfully: id=%s", expense.ID)
	handlers.RespondJSON(w, http.StatusCreated, expense)
}
