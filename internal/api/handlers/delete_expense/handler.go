package delete_expense

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/finance"
)

const (
	msgInvalidExpenseID = "некорректный ID расхода"
	msgExpenseNotFound  = "расход не найден"
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

// Handle DELETE /api/v1/admin/expenses/{expenseId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	expenseID, err := uuid.Parse(mux.Vars(r)["expenseId"])
	if err != nil {
		h.logger.Warn("DELETE /admin/expenses/{id} - Invalid expense ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExpenseID)
		return
	}

	if err := h.service.DeleteExpense(r.Context(), expenseID); err != nil {
		switch {
		case errors.Is(err, finance.ErrExpenseNotFound):
			h.logger.Warn("DELETE /admin/expenses/{id} - Expense not found: id=%s", expenseID)
			handlers.RespondNotFound(w, msgExpenseNotFound)

		default:
			h.logger.Error("DELETE /admin/expenses/{id} - Failed to delete expense: id=%s, error=%v", expenseID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/expenses/{id} - Expense deleted successfully: id=%s", expenseID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
