package domain

import (
	"time"

	"github.com/google/uuid"
)

// HairLossDegree степень выпадения волос
type HairLossDegree string

const (
	HairLossLow     HairLossDegree = "pouco"
	HairLossRegular HairLossDegree = "regular"
	HairLossHigh    HairLossDegree = "bastante"
)

// SleepSide привычная поза сна
type SleepSide string

const (
	SleepOnBack  SleepSide = "nao"
	SleepRight   SleepSide = "direito"
	SleepLeft    SleepSide = "esquerdo"
	SleepOnBelly SleepSide = "brucos"
)

const (
	MaxPregnantWeeks        = 42
	MaxAllergiesDetailsSize = 2000
)

// Anamnesis анкета здоровья клиента. У клиента не более одной анкеты
type Anamnesis struct {
	ClientID uuid.UUID

	// Общее здоровье
	Pregnant          bool
	PregnantWeeks     *int
	Breastfeeding     bool
	OncologyTreatment bool
	ThyroidProblems   bool

	// Глаза и кожа
	RecentEyeProcedure bool
	EyeProblems        bool
	ContactLenses      bool
	OilySkin           bool
	SkinSensitivity    bool

	// Аллергии
	Allergies        bool
	AllergyHenna     bool
	AllergyLead      bool
	AllergiesDetails string

	// Брови и волосы
	HairLoss       bool
	HairLossDegree *HairLossDegree

	SleepSide *SleepSide

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParseHairLossDegree конвертирует строку в HairLossDegree с валидацией
func ParseHairLossDegree(s string) (HairLossDegree, error) {
	switch d := HairLossDegree(s); d {
	case HairLossLow, HairLossRegular, HairLossHigh:
		return d, nil
	default:
		return "", ErrInvalidAnamnesis
	}
}

// ParseSleepSide конвертирует строку в SleepSide с валидацией
func ParseSleepSide(s string) (SleepSide, error) {
	switch side := SleepSide(s); side {
	case SleepOnBack, SleepRight, SleepLeft, SleepOnBelly:
		return side, nil
	default:
		return "", ErrInvalidAnamnesis
	}
}
