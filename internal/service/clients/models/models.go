package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модели

// UpdateClientRequest новая карточка клиента. Пустые опциональные поля очищаются
type UpdateClientRequest struct {
	FullName   string
	Phone      string
	CPF        *string
	RG         *string
	BirthDate  *time.Time
	Profession *string
	Address    *string
	HowFoundUs *string
}

// AnamnesisRequest анкета клиента целиком
type AnamnesisRequest struct {
	Pregnant           bool    `json:"pregnant"`
	PregnantWeeks      *int    `json:"pregnantWeeks,omitempty"`
	Breastfeeding      bool    `json:"breastfeeding"`
	OncologyTreatment  bool    `json:"oncologyTreatment"`
	ThyroidProblems    bool    `json:"thyroidProblems"`
	RecentEyeProcedure bool    `json:"recentEyeProcedure"`
	EyeProblems        bool    `json:"eyeProblems"`
	ContactLenses      bool    `json:"contactLenses"`
	OilySkin           bool    `json:"oilySkin"`
	SkinSensitivity    bool    `json:"skinSensitivity"`
	Allergies          bool    `json:"allergies"`
	AllergyHenna       bool    `json:"allergyHenna"`
	AllergyLead        bool    `json:"allergyLead"`
	AllergiesDetails   string  `json:"allergiesDetails"`
	HairLoss           bool    `json:"hairLoss"`
	HairLossDegree     *string `json:"hairLossDegree,omitempty"` // pouco | regular | bastante
	SleepSide          *string `json:"sleepSide,omitempty"`      // nao | direito | esquerdo | brucos
}

// Response модели

// ClientResponse карточка клиента
type ClientResponse struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"fullName"`
	Phone      string    `json:"phone"`
	CPF        *string   `json:"cpf,omitempty"`
	RG         *string   `json:"rg,omitempty"`
	BirthDate  *string   `json:"birthDate,omitempty"` // "1990-05-17"
	Profession *string   `json:"profession,omitempty"`
	Address    *string   `json:"address,omitempty"`
	HowFoundUs *string   `json:"howFoundUs,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ClientListResponse справочник клиентов
type ClientListResponse struct {
	Clients []ClientResponse `json:"clients"`
}

// AnamnesisResponse анкета клиента.
// Filled = false, если анкета ещё не заполнялась: тогда все ответы пустые
type AnamnesisResponse struct {
	ClientID uuid.UUID `json:"clientId"`
	Filled   bool      `json:"filled"`
	AnamnesisRequest
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainClient конвертирует domain модель в DTO
func FromDomainClient(c *domain.Client) *ClientResponse {
	if c == nil {
		return nil
	}

	resp := &ClientResponse{
		ID:         c.ID,
		FullName:   c.FullName,
		Phone:      c.Phone,
		CPF:        c.CPF,
		RG:         c.RG,
		Profession: c.Profession,
		Address:    c.Address,
		HowFoundUs: c.HowFoundUs,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if c.BirthDate != nil {
		birthDate := c.BirthDate.Format(domain.DateFormat)
		resp.BirthDate = &birthDate
	}

	return resp
}

// FromDomainClientList конвертирует список domain моделей в DTO
func FromDomainClientList(clients []*domain.Client) []ClientResponse {
	resp := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		if dto := FromDomainClient(c); dto != nil {
			resp = append(resp, *dto)
		}
	}
	return resp
}

// EmptyAnamnesis ответ для клиента без анкеты
func EmptyAnamnesis(clientID uuid.UUID) *AnamnesisResponse {
	return &AnamnesisResponse{ClientID: clientID}
}

// FromDomainAnamnesis конвертирует domain модель в DTO
func FromDomainAnamnesis(a *domain.Anamnesis) *AnamnesisResponse {
	if a == nil {
		return nil
	}

	resp := &AnamnesisResponse{
		ClientID: a.ClientID,
		Filled:   true,
		AnamnesisRequest: AnamnesisRequest{
			Pregnant:           a.Pregnant,
			PregnantWeeks:      a.PregnantWeeks,
			Breastfeeding:      a.Breastfeeding,
			OncologyTreatment:  a.OncologyTreatment,
			ThyroidProblems:    a.ThyroidProblems,
			RecentEyeProcedure: a.RecentEyeProcedure,
			EyeProblems:        a.EyeProblems,
			ContactLenses:      a.ContactLenses,
			OilySkin:           a.OilySkin,
			SkinSensitivity:    a.SkinSensitivity,
			Allergies:          a.Allergies,
			AllergyHenna:       a.AllergyHenna,
			AllergyLead:        a.AllergyLead,
			AllergiesDetails:   a.AllergiesDetails,
			HairLoss:           a.HairLoss,
		},
	}
	if a.HairLossDegree != nil {
		degree := string(*a.HairLossDegree)
		resp.HairLossDegree = &degree
	}
	if a.SleepSide != nil {
		side := string(*a.SleepSide)
		resp.SleepSide = &side
	}
	if !a.UpdatedAt.IsZero() {
		updatedAt := a.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}
