package get_business_hours

import (
	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
)

type CatalogService interface {
	BusinessHours() *models.BusinessHoursResponse
}
