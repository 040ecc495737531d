package update_client

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/clients/models"
)

var errInvalidBirthDate = errors.New("invalid birth date")

// UpdateClientRequest HTTP request model. Отсутствующие опциональные поля очищаются
type UpdateClientRequest struct {
	FullName   string  `json:"fullName"`
	Phone      string  `json:"phone"`
	CPF        *string `json:"cpf,omitempty"`
	RG         *string `json:"rg,omitempty"`
	BirthDate  *string `json:"birthDate,omitempty"` // "1990-05-17"
	Profession *string `json:"profession,omitempty"`
	Address    *string `json:"address,omitempty"`
	HowFoundUs *string `json:"howFoundUs,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateClientRequest) ToServiceRequest() (*models.UpdateClientRequest, error) {
	req := &models.UpdateClientRequest{
		FullName:   r.FullName,
		Phone:      r.Phone,
		CPF:        r.CPF,
		RG:         r.RG,
		Profession: r.Profession,
		Address:    r.Address,
		HowFoundUs: r.HowFoundUs,
	}

	if r.BirthDate != nil && *r.BirthDate != "" {
		birthDate, err := time.Parse(domain.DateFormat, *r.BirthDate)
		if err != nil {
			return nil, errInvalidBirthDate
		}
		req.BirthDate = &birthDate
	}

	return req, nil
}
