package list_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

// ToServiceRequest разбирает query параметры date, from, to, status, includeCancelled
func ToServiceRequest(query url.Values) (*models.ListRequest, error) {
	req := &models.ListRequest{}

	var err error
	if req.Date, err = parseDate(query, "date"); err != nil {
		return nil, err
	}
	if req.From, err = parseDate(query, "from"); err != nil {
		return nil, err
	}
	if req.To, err = parseDate(query, "to"); err != nil {
		return nil, err
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("includeCancelled"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("includeCancelled: %w", err)
		}
		req.IncludeCancelled = include
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
