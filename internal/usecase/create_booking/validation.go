package create_booking

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// normalizeRequest валидирует запрос и приводит телефон и CPF к цифрам
func normalizeRequest(req *Request, now time.Time) error {
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return fmt.Errorf("%w: fullName is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.FullName) > domain.MaxFullNameLength {
		return fmt.Errorf("%w: fullName must be at most %d characters", ErrInvalidInput, domain.MaxFullNameLength)
	}

	req.Phone = domain.DigitsOnly(req.Phone)
	if len(req.Phone) < domain.MinPhoneDigits || len(req.Phone) > domain.MaxPhoneDigits {
		return fmt.Errorf("%w: phone must contain %d to %d digits",
			ErrInvalidInput, domain.MinPhoneDigits, domain.MaxPhoneDigits)
	}

	if req.CPF != nil {
		cpf := domain.DigitsOnly(*req.CPF)
		switch {
		case cpf == "":
			req.CPF = nil
		case len(cpf) != domain.CPFDigits:
			return fmt.Errorf("%w: cpf must contain %d digits", ErrInvalidInput, domain.CPFDigits)
		default:
			req.CPF = &cpf
		}
	}

	if req.BirthDate != nil && req.BirthDate.After(now) {
		return fmt.Errorf("%w: birthDate is in the future", ErrInvalidInput)
	}

	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что день попадает в окно записи [today+minAdvanceDays, today+maxAdvanceDays]
func validateDate(day, now time.Time, minAdvanceDays, maxAdvanceDays int) error {
	today := domain.StartOfDay(now.In(day.Location()))

	minDay := today.AddDate(0, 0, minAdvanceDays)
	if day.Before(minDay) {
		return fmt.Errorf("%w: booking opens from %s", ErrInvalidDate, minDay.Format(domain.DateFormat))
	}

	if maxAdvanceDays == 0 {
		return nil
	}

	if day.After(today.AddDate(0, 0, maxAdvanceDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxAdvanceDays)
	}

	return nil
}

// whatsAppLink формирует ссылку wa.me с готовым сообщением для подтверждения записи
func whatsAppLink(phone, clientName, serviceName string, start time.Time) string {
	if phone == "" {
		return ""
	}

	message := fmt.Sprintf(
		"Olá! Sou *%s*.\n\nAcabei de agendar:\n✨ *%s*\n📅 %s às %s\n\nGostaria de confirmar e receber o link para pagamento do sinal.",
		clientName, serviceName, start.Format("02/01"), start.Format(domain.TimeFormat),
	)

	link := url.URL{
		Scheme:   "https",
		Host:     "wa.me",
		Path:     "/" + phone,
		RawQuery: url.Values{"text": {message}}.Encode(),
	}
	return link.String()
}
