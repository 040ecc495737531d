package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Settings правила салона, общие для всех запросов
type Settings struct {
	Profile        domain.BusinessHoursProfile
	Location       *time.Location // Часовой пояс салона, в котором интерпретируются часы работы
	MinAdvanceDays int            // Запись возможна не раньше чем через столько дней (1 = с завтрашнего дня)
	MaxAdvanceDays int            // 0 = без ограничений
}

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID uuid.UUID // ID услуги
	Date      time.Time // Календарный день (время суток и часовой пояс игнорируются)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time   // Полночь запрошенного дня в часовом поясе салона
	ServiceID       uuid.UUID   // ID услуги
	ServiceName     string      // Название услуги
	DurationMinutes int         // Длительность услуги
	IsWorkingDay    bool        // false - салон в этот день закрыт
	Slots           []time.Time // Свободные времена начала по возрастанию. Пусто = всё занято
}
