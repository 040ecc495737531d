package holdexpiry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeRepo struct {
	mu      sync.Mutex
	filters []domain.ExpiredHoldsFilter
	result  int64
	err     error
	calls   chan struct{}
}

func (r *fakeRepo) CancelExpiredHolds(ctx context.Context, filter domain.ExpiredHoldsFilter) (int64, error) {
	r.mu.Lock()
	r.filters = append(r.filters, filter)
	r.mu.Unlock()

	if r.calls != nil {
		select {
		case r.calls <- struct{}{}:
		default:
		}
	}
	return r.result, r.err
}

type fakeMetrics struct {
	observed []int64
}

func (m *fakeMetrics) ObserveHoldsExpired(count int64) {
	m.observed = append(m.observed, count)
}

func TestSweep(t *testing.T) {
	now := time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{result: 3}
	metrics := &fakeMetrics{}

	w := NewWorker(repo, 24*time.Hour, time.Minute, metrics, nopLogger{})
	w.timeProvider = fixedTime{now: now}

	assert.Equal(t, int64(3), w.Sweep(context.Background()))

	require.Len(t, repo.filters, 1)
	assert.Equal(t, now.Add(-24*time.Hour), repo.filters[0].CreatedBefore)
	assert.Nil(t, repo.filters[0].OverlapStart)
	assert.Nil(t, repo.filters[0].OverlapEnd)
	assert.Equal(t, []int64{3}, metrics.observed)
}

func TestSweep_RepositoryError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection reset")}
	metrics := &fakeMetrics{}

	w := NewWorker(repo, 24*time.Hour, time.Minute, metrics, nopLogger{})

	assert.Equal(t, int64(0), w.Sweep(context.Background()))
	assert.Empty(t, metrics.observed)
}

func TestNewWorker_Defaults(t *testing.T) {
	w := NewWorker(&fakeRepo{}, 0, 0, nil, nopLogger{})

	assert.Equal(t, domain.DefaultHoldExpiry, w.holdExpiry)
	assert.Equal(t, 10*time.Minute, w.interval)
	assert.NotPanics(t, func() { w.Sweep(context.Background()) })
}

func TestStartStop(t *testing.T) {
	repo := &fakeRepo{calls: make(chan struct{}, 1)}
	w := NewWorker(repo, time.Hour, time.Hour, nil, nopLogger{})

	w.Start(context.Background())

	select {
	case <-repo.calls:
	case <-time.After(time.Second):
		t.Fatal("first sweep did not run on start")
	}

	w.Stop()
	w.Stop()
}

func TestStart_ContextCancel(t *testing.T) {
	repo := &fakeRepo{calls: make(chan struct{}, 1)}
	w := NewWorker(repo, time.Hour, time.Hour, nil, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	<-repo.calls
	cancel()

	select {
	case <-w.done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
}
