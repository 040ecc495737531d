package clients

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/clients/models"
)

const (
	maxRGLength         = 20
	maxProfessionLength = 100
	maxAddressLength    = 500
	maxHowFoundUsLength = 100
)

// toDomainClient валидирует карточку и приводит телефон и CPF к цифрам
func toDomainClient(req *models.UpdateClientRequest, now time.Time) (*domain.Client, error) {
	c := &domain.Client{
		FullName:  strings.TrimSpace(req.FullName),
		Phone:     domain.DigitsOnly(req.Phone),
		BirthDate: req.BirthDate,
	}

	if c.FullName == "" {
		return nil, fmt.Errorf("%w: fullName is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(c.FullName) > domain.MaxFullNameLength {
		return nil, fmt.Errorf("%w: fullName must be at most %d characters", ErrInvalidInput, domain.MaxFullNameLength)
	}

	if len(c.Phone) < domain.MinPhoneDigits || len(c.Phone) > domain.MaxPhoneDigits {
		return nil, fmt.Errorf("%w: phone must contain %d to %d digits",
			ErrInvalidInput, domain.MinPhoneDigits, domain.MaxPhoneDigits)
	}

	if cpf := optional(req.CPF); cpf != nil {
		digits := domain.DigitsOnly(*cpf)
		if len(digits) != domain.CPFDigits {
			return nil, fmt.Errorf("%w: cpf must contain %d digits", ErrInvalidInput, domain.CPFDigits)
		}
		c.CPF = &digits
	}

	if c.BirthDate != nil && c.BirthDate.After(now) {
		return nil, fmt.Errorf("%w: birthDate is in the future", ErrInvalidInput)
	}

	var err error
	if c.RG, err = limited("rg", req.RG, maxRGLength); err != nil {
		return nil, err
	}
	if c.Profession, err = limited("profession", req.Profession, maxProfessionLength); err != nil {
		return nil, err
	}
	if c.Address, err = limited("address", req.Address, maxAddressLength); err != nil {
		return nil, err
	}
	if c.HowFoundUs, err = limited("howFoundUs", req.HowFoundUs, maxHowFoundUsLength); err != nil {
		return nil, err
	}

	return c, nil
}

// toDomainAnamnesis валидирует анкету. Уточнения без основного ответа отбрасываются
func toDomainAnamnesis(req *models.AnamnesisRequest) (*domain.Anamnesis, error) {
	a := &domain.Anamnesis{
		Pregnant:           req.Pregnant,
		Breastfeeding:      req.Breastfeeding,
		OncologyTreatment:  req.OncologyTreatment,
		ThyroidProblems:    req.ThyroidProblems,
		RecentEyeProcedure: req.RecentEyeProcedure,
		EyeProblems:        req.EyeProblems,
		ContactLenses:      req.ContactLenses,
		OilySkin:           req.OilySkin,
		SkinSensitivity:    req.SkinSensitivity,
		Allergies:          req.Allergies,
		AllergyHenna:       req.AllergyHenna,
		AllergyLead:        req.AllergyLead,
		AllergiesDetails:   strings.TrimSpace(req.AllergiesDetails),
		HairLoss:           req.HairLoss,
	}

	if utf8.RuneCountInString(a.AllergiesDetails) > domain.MaxAllergiesDetailsSize {
		return nil, fmt.Errorf("%w: allergiesDetails must be at most %d characters",
			ErrInvalidInput, domain.MaxAllergiesDetailsSize)
	}

	if a.Pregnant && req.PregnantWeeks != nil {
		weeks := *req.PregnantWeeks
		if weeks < 1 || weeks > domain.MaxPregnantWeeks {
			return nil, fmt.Errorf("%w: pregnantWeeks must be in 1..%d", ErrInvalidInput, domain.MaxPregnantWeeks)
		}
		a.PregnantWeeks = &weeks
	}

	if degree := optional(req.HairLossDegree); a.HairLoss && degree != nil {
		parsed, err := domain.ParseHairLossDegree(*degree)
		if err != nil {
			return nil, fmt.Errorf("%w: hairLossDegree %q", ErrInvalidInput, *degree)
		}
		a.HairLossDegree = &parsed
	}

	if side := optional(req.SleepSide); side != nil {
		parsed, err := domain.ParseSleepSide(*side)
		if err != nil {
			return nil, fmt.Errorf("%w: sleepSide %q", ErrInvalidInput, *side)
		}
		a.SleepSide = &parsed
	}

	return a, nil
}

// optional обрезает пробелы, пустую строку считает отсутствующим значением
func optional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func limited(field string, v *string, limit int) (*string, error) {
	value := optional(v)
	if value != nil && utf8.RuneCountInString(*value) > limit {
		return nil, fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidInput, field, limit)
	}
	return value, nil
}
