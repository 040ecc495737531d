package expense

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository репозиторий расходов салона
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расходов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет расход
func (r *Repository) Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("expenses").
		Columns("id", "title", "amount", "category", "expense_date").
		Values(e.ID, e.Title, e.Amount, e.Category, e.ExpenseDate.Format(domain.DateFormat)).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&e.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return e, nil
}

// List получает расходы за период, сначала новые
func (r *Repository) List(ctx context.Context, filter domain.ExpensesFilter) ([]*domain.Expense, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyPeriod(
		psqlbuilder.Select("id", "title", "amount", "category", "expense_date", "created_at").From("expenses"),
		filter,
	).OrderBy("expense_date DESC", "created_at DESC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount, &e.Category, &e.ExpenseDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		expenses = append(expenses, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return expenses, nil
}

// Total возвращает сумму расходов за период
func (r *Repository) Total(ctx context.Context, filter domain.ExpensesFilter) (float64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyPeriod(
		psqlbuilder.Select("COALESCE(SUM(amount), 0)").From("expenses"),
		filter,
	).ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Total - build select query: %w", ErrBuildQuery, err)
	}

	var total float64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: Total - scan total: %w", ErrScanRow, err)
	}

	return total, nil
}

// Delete удаляет расход
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("expenses").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExpenseNotFound
	}

	return nil
}

// applyPeriod ограничивает выборку по дню расхода: [StartDate, EndDate)
func applyPeriod(builder squirrel.SelectBuilder, filter domain.ExpensesFilter) squirrel.SelectBuilder {
	if filter.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"expense_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		builder = builder.Where(squirrel.Lt{"expense_date": filter.EndDate.Format(domain.DateFormat)})
	}
	return builder
}
