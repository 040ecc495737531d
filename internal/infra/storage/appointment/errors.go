package appointment

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotNotAvailable возвращается, когда интервал уже занят активной записью
	ErrSlotNotAvailable = errors.New("appointment.repository: slot not available")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)

// Коды ошибок PostgreSQL, означающие конкурентную запись на тот же интервал
const (
	codeUniqueViolation      = pq.ErrorCode("23505")
	codeExclusionViolation   = pq.ErrorCode("23P01")
	codeSerializationFailure = pq.ErrorCode("40001")
	codeDeadlockDetected     = pq.ErrorCode("40P01")
)

// IsConflict возвращает true, если ошибка PostgreSQL вызвана конкурентной записью:
// нарушение ограничения на пересечение интервалов или сбой сериализации транзакции
func IsConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	switch pqErr.Code {
	case codeUniqueViolation, codeExclusionViolation, codeSerializationFailure, codeDeadlockDetected:
		return true
	default:
		return false
	}
}
