package client

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

type fakeResult struct {
	rows int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

// fakeExecutor запоминает последний запрос ExecContext
type fakeExecutor struct {
	query   string
	args    []interface{}
	rows    int64
	execErr error
}

func (f *fakeExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.query = query
	f.args = args
	if f.execErr != nil {
		return nil, f.execErr
	}
	return fakeResult{rows: f.rows}, nil
}

func (f *fakeExecutor) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name    string
		rows    int64
		execErr error
		wantErr error
	}{
		{"deleted", 1, nil, nil},
		{"unknown client", 0, nil, ErrClientNotFound},
		{"client with appointments", 0, &pq.Error{Code: "23503"}, ErrClientHasAppointments},
		{"driver failure", 0, errors.New("connection reset"), ErrExecQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeExecutor{rows: tt.rows, execErr: tt.execErr}
			id := uuid.New()

			err := NewRepository(db).Delete(context.Background(), id)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, "DELETE FROM clients WHERE id = $1", db.query)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c\\d`, escapeLike(`c\d`))
	assert.Equal(t, "Maria", escapeLike("Maria"))
}
