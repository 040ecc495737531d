package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Категории расходов
const (
	ExpenseCategoryMaterial  = "Material"
	ExpenseCategoryRent      = "Aluguel"
	ExpenseCategoryUtilities = "Energia/Água"
	ExpenseCategoryMarketing = "Marketing"
	ExpenseCategoryOther     = "Outros"
)

// ExpenseCategories допустимые категории расходов
var ExpenseCategories = []string{
	ExpenseCategoryMaterial,
	ExpenseCategoryRent,
	ExpenseCategoryUtilities,
	ExpenseCategoryMarketing,
	ExpenseCategoryOther,
}

const (
	MaxExpenseTitleLength = 200
	MaxExpenseAmount      = 1_000_000.00
)

// Expense расход салона
type Expense struct {
	ID          uuid.UUID
	Title       string
	Amount      float64
	Category    string
	ExpenseDate time.Time // Календарный день расхода
	CreatedAt   time.Time
}

// ExpensesFilter фильтр расходов по дню расхода
type ExpensesFilter struct {
	StartDate *time.Time // Включительно
	EndDate   *time.Time // Не включительно
}

// RevenueFilter фильтр подтверждённых записей по start_time
type RevenueFilter struct {
	StartDate *time.Time // Включительно
	EndDate   *time.Time // Не включительно
}

// Revenue выручка по подтверждённым записям
type Revenue struct {
	Total        float64
	Appointments int
}

// IsExpenseCategory проверяет, что категория из списка допустимых
func IsExpenseCategory(category string) bool {
	return slices.Contains(ExpenseCategories, category)
}
