package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Колонки записи вместе с денормализованными данными услуги и клиента
var selectColumns = []string{
	"a.id",
	"a.client_id",
	"a.service_id",
	"a.start_time",
	"a.end_time",
	"a.status",
	"s.name",
	"s.price",
	"c.full_name",
	"c.phone",
	"a.created_at",
	"a.updated_at",
}

// Repository репозиторий для работы с записями клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Если в контексте передана активная транзакция, использует её.
// Пересечение с другой активной записью отклоняется ограничением appointments_no_overlap
// и возвращается как ErrSlotNotAvailable
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"id",
			"client_id",
			"service_id",
			"start_time",
			"end_time",
			"status",
		).
		Values(
			appt.ID,
			appt.ClientID,
			appt.ServiceID,
			appt.StartTime,
			appt.EndTime,
			appt.Status,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		if IsConflict(err) {
			return nil, fmt.Errorf("%w: Create - %w", ErrSlotNotAvailable, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := baseSelect().Where(squirrel.Eq{"a.id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF a")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return appt, nil
}

// List получает записи с фильтрацией по периоду, статусу и клиенту.
// Если фильтр задаёт период и вызов идёт внутри транзакции, строки блокируются (FOR UPDATE):
// так создание записи видит стабильный набор занятых интервалов
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := baseSelect()

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"a.start_time": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"a.start_time": *filter.EndDate})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.client_id": *filter.ClientID})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"a.status": domain.StatusCancelled})
	}

	if dbmetrics.IsInTransaction(ctx) && filter.StartDate != nil && filter.EndDate != nil {
		// Для конкретного периода внутри транзакции - хронологический порядок и блокировка
		selectBuilder = selectBuilder.OrderBy("a.start_time ASC").Suffix("FOR UPDATE OF a")
	} else {
		// Для панели администратора сначала новые
		selectBuilder = selectBuilder.OrderBy("a.start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if IsConflict(err) {
			return fmt.Errorf("%w: UpdateStatus - %w", ErrSlotNotAvailable, err)
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// CancelExpiredHolds отменяет pending записи, созданные не позже filter.CreatedBefore.
// Если задан интервал, затрагиваются только записи, пересекающие его.
// Возвращает количество отменённых записей
func (r *Repository) CancelExpiredHolds(ctx context.Context, filter domain.ExpiredHoldsFilter) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.LtOrEq{"created_at": filter.CreatedBefore})

	if filter.OverlapStart != nil && filter.OverlapEnd != nil {
		updateBuilder = updateBuilder.
			Where(squirrel.Lt{"start_time": *filter.OverlapEnd}).
			Where(squirrel.Gt{"end_time": *filter.OverlapStart})
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelExpiredHolds - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelExpiredHolds - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelExpiredHolds - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// ConfirmedRevenue суммирует стоимость услуг подтверждённых записей за период по start_time
func (r *Repository) ConfirmedRevenue(ctx context.Context, filter domain.RevenueFilter) (domain.Revenue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COALESCE(SUM(s.price), 0)", "COUNT(*)").
		From("appointments a").
		Join("services s ON s.id = a.service_id").
		Where(squirrel.Eq{"a.status": domain.StatusConfirmed})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"a.start_time": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"a.start_time": *filter.EndDate})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return domain.Revenue{}, fmt.Errorf("%w: ConfirmedRevenue - build select query: %w", ErrBuildQuery, err)
	}

	var revenue domain.Revenue
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&revenue.Total, &revenue.Appointments); err != nil {
		return domain.Revenue{}, fmt.Errorf("%w: ConfirmedRevenue - scan revenue: %w", ErrScanRow, err)
	}

	return revenue, nil
}

func baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(selectColumns...).
		From("appointments a").
		Join("services s ON s.id = a.service_id").
		Join("clients c ON c.id = a.client_id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment

	err := row.Scan(
		&appt.ID,
		&appt.ClientID,
		&appt.ServiceID,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.ServiceName,
		&appt.ServicePrice,
		&appt.ClientName,
		&appt.ClientPhone,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %w", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %w", ErrScanRow, err)
	}

	return appointments, nil
}
