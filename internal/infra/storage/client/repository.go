package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository репозиторий клиентов салона
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertByPhone создает клиента или обновляет данные существующего с тем же телефоном.
// Телефон - естественный ключ клиента: повторная запись не плодит дубликаты.
// Пустые CPF и дата рождения не затирают ранее сохранённые значения
func (r *Repository) UpsertByPhone(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("clients").
		Columns("id", "full_name", "phone", "cpf", "birth_date").
		Values(uuid.New(), c.FullName, c.Phone, c.CPF, c.BirthDate).
		Suffix(`ON CONFLICT (phone) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			cpf = COALESCE(EXCLUDED.cpf, clients.cpf),
			birth_date = COALESCE(EXCLUDED.birth_date, clients.birth_date),
			updated_at = NOW()
		RETURNING id, cpf, birth_date, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByPhone - build insert query: %w", ErrBuildQuery, err)
	}

	var cpf sql.NullString
	var birthDate sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&cpf,
		&birthDate,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByPhone - execute insert: %w", ErrExecQuery, err)
	}

	c.CPF = nil
	if cpf.Valid {
		c.CPF = &cpf.String
	}
	c.BirthDate = nil
	if birthDate.Valid {
		c.BirthDate = &birthDate.Time
	}

	return c, nil
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From("clients").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	c, err := scanClient(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan client: %w", ErrScanRow, err)
	}

	return c, nil
}

// List получает клиентов по алфавиту.
// Search ищет подстроку в имени без учёта регистра, а цифры из Search - в телефоне
func (r *Repository) List(ctx context.Context, filter domain.ClientsFilter) ([]*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(selectColumns...).
		From("clients").
		OrderBy("LOWER(full_name) ASC", "created_at ASC")

	if search := strings.TrimSpace(filter.Search); search != "" {
		match := squirrel.Or{squirrel.ILike{"full_name": "%" + escapeLike(search) + "%"}}
		if digits := domain.DigitsOnly(search); digits != "" {
			match = append(match, squirrel.Like{"phone": "%" + digits + "%"})
		}
		selectBuilder = selectBuilder.Where(match)
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

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return clients, nil
}

// UpdateDetails перезаписывает карточку клиента целиком.
// Телефон, занятый другим клиентом, возвращается как ErrPhoneTaken
func (r *Repository) UpdateDetails(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("clients").
		Set("full_name", c.FullName).
		Set("phone", c.Phone).
		Set("cpf", c.CPF).
		Set("rg", c.RG).
		Set("birth_date", c.BirthDate).
		Set("profession", c.Profession).
		Set("address", c.Address).
		Set("how_found_us", c.HowFoundUs).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateDetails - build update query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		if hasCode(err, codeUniqueViolation) {
			return nil, fmt.Errorf("%w: UpdateDetails - %w", ErrPhoneTaken, err)
		}
		return nil, fmt.Errorf("%w: UpdateDetails - execute update: %w", ErrExecQuery, err)
	}

	return c, nil
}

// Delete удаляет клиента вместе с анкетой.
// Клиента с записями удалить нельзя: возвращается ErrClientHasAppointments
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("clients").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if hasCode(err, codeForeignKeyViolation) {
			return fmt.Errorf("%w: Delete - %w", ErrClientHasAppointments, err)
		}
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrClientNotFound
	}

	return nil
}

var selectColumns = []string{
	"id",
	"full_name",
	"phone",
	"cpf",
	"birth_date",
	"rg",
	"profession",
	"address",
	"how_found_us",
	"created_at",
	"updated_at",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var c domain.Client
	var cpf, rg, profession, address, howFoundUs sql.NullString
	var birthDate sql.NullTime

	err := row.Scan(
		&c.ID,
		&c.FullName,
		&c.Phone,
		&cpf,
		&birthDate,
		&rg,
		&profession,
		&address,
		&howFoundUs,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.CPF = nullString(cpf)
	c.RG = nullString(rg)
	c.Profession = nullString(profession)
	c.Address = nullString(address)
	c.HowFoundUs = nullString(howFoundUs)
	if birthDate.Valid {
		c.BirthDate = &birthDate.Time
	}

	return &c, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// escapeLike экранирует спецсимволы шаблона LIKE
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
