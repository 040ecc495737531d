package client

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("client.repository: client not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("client.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("client.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("client.repository: failed to scan row")
)

var (
	// ErrPhoneTaken возвращается, когда телефон уже принадлежит другому клиенту
	ErrPhoneTaken = errors.New("client.repository: phone belongs to another client")

	// ErrClientHasAppointments возвращается при удалении клиента, у которого есть записи
	ErrClientHasAppointments = errors.New("client.repository: client has appointments")
)

const (
	codeUniqueViolation     = pq.ErrorCode("23505")
	codeForeignKeyViolation = pq.ErrorCode("23503")
)

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
