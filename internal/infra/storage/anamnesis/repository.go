package anamnesis

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

// Колонки анкеты без client_id и временных меток, в порядке values()
var dataColumns = []string{
	"pregnant",
	"pregnant_weeks",
	"breastfeeding",
	"oncology_treatment",
	"thyroid_problems",
	"recent_eye_procedure",
	"eye_problems",
	"contact_lenses",
	"oily_skin",
	"skin_sensitivity",
	"allergies",
	"allergy_henna",
	"allergy_lead",
	"allergies_details",
	"hair_loss",
	"hair_loss_degree",
	"sleep_side",
}

// Repository репозиторий анкет клиентов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория анкет
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByClientID получает анкету клиента
func (r *Repository) GetByClientID(ctx context.Context, clientID uuid.UUID) (*domain.Anamnesis, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append([]string{"client_id"}, dataColumns...)
	columns = append(columns, "created_at", "updated_at")

	query, args, err := psqlbuilder.Select(columns...).
		From("anamnesis").
		Where(squirrel.Eq{"client_id": clientID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientID - build select query: %w", ErrBuildQuery, err)
	}

	var a domain.Anamnesis
	var pregnantWeeks sql.NullInt64
	var hairLossDegree, sleepSide sql.NullString

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ClientID,
		&a.Pregnant,
		&pregnantWeeks,
		&a.Breastfeeding,
		&a.OncologyTreatment,
		&a.ThyroidProblems,
		&a.RecentEyeProcedure,
		&a.EyeProblems,
		&a.ContactLenses,
		&a.OilySkin,
		&a.SkinSensitivity,
		&a.Allergies,
		&a.AllergyHenna,
		&a.AllergyLead,
		&a.AllergiesDetails,
		&a.HairLoss,
		&hairLossDegree,
		&sleepSide,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAnamnesisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientID - scan anamnesis: %w", ErrScanRow, err)
	}

	if pregnantWeeks.Valid {
		weeks := int(pregnantWeeks.Int64)
		a.PregnantWeeks = &weeks
	}
	if hairLossDegree.Valid {
		degree := domain.HairLossDegree(hairLossDegree.String)
		a.HairLossDegree = &degree
	}
	if sleepSide.Valid {
		side := domain.SleepSide(sleepSide.String)
		a.SleepSide = &side
	}

	return &a, nil
}

// Upsert создает анкету или перезаписывает существующую
func (r *Repository) Upsert(ctx context.Context, a *domain.Anamnesis) (*domain.Anamnesis, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updates := make([]string, 0, len(dataColumns)+1)
	for _, column := range dataColumns {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
	}
	updates = append(updates, "updated_at = NOW()")

	query, args, err := psqlbuilder.Insert("anamnesis").
		Columns(append([]string{"client_id"}, dataColumns...)...).
		Values(values(a)...).
		Suffix("ON CONFLICT (client_id) DO UPDATE SET " + strings.Join(updates, ", ") +
			" RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return a, nil
}

func values(a *domain.Anamnesis) []interface{} {
	var hairLossDegree, sleepSide *string
	if a.HairLossDegree != nil {
		v := string(*a.HairLossDegree)
		hairLossDegree = &v
	}
	if a.SleepSide != nil {
		v := string(*a.SleepSide)
		sleepSide = &v
	}

	return []interface{}{
		a.ClientID,
		a.Pregnant,
		a.PregnantWeeks,
		a.Breastfeeding,
		a.OncologyTreatment,
		a.ThyroidProblems,
		a.RecentEyeProcedure,
		a.EyeProblems,
		a.ContactLenses,
		a.OilySkin,
		a.SkinSensitivity,
		a.Allergies,
		a.AllergyHenna,
		a.AllergyLead,
		a.AllergiesDetails,
		a.HairLoss,
		hairLossDegree,
		sleepSide,
	}
}
