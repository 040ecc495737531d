package anamnesis

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrAnamnesisNotFound возвращается, когда анкета клиента ещё не заполнена
	ErrAnamnesisNotFound = errors.New("anamnesis.repository: anamnesis not found")

	// ErrClientNotFound возвращается при сохранении анкеты несуществующего клиента
	ErrClientNotFound = errors.New("anamnesis.repository: client not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("anamnesis.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("anamnesis.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("anamnesis.repository: failed to scan row")
)

const codeForeignKeyViolation = pq.ErrorCode("23503")

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeForeignKeyViolation
}
