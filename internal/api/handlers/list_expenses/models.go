package list_expenses

import (
	"fmt"
	"net/url"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/finance/models"
)

// ToServiceRequest разбирает query параметры from, to (YYYY-MM-DD, включительно)
func ToServiceRequest(query url.Values) (*models.PeriodRequest, error) {
	req := &models.PeriodRequest{}

	var err error
	if req.From, err = parseDate(query, "from"); err != nil {
		return nil, err
	}
	if req.To, err = parseDate(query, "to"); err != nil {
		return nil, err
	}

	return req, nil
}

func parseDate(query url.Values, key string) (*time.Time, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}

	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &date, nil
}
