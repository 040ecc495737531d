package availability

import (
	"math"
	"math/rand"
	"slices"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// 2025-10-20 понедельник
var monday = time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location())
}

func service(minutes int) domain.Service {
	return domain.Service{ID: uuid.New(), Name: "Design de sobrancelhas", DurationMinutes: minutes}
}

func appointment(start time.Time, minutes int, status domain.AppointmentStatus, createdAt time.Time) *domain.Appointment {
	return &domain.Appointment{
		ID:        uuid.New(),
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
		Status:    status,
		CreatedAt: createdAt,
	}
}

func labels(slots []time.Time) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Format(domain.TimeFormat)
	}
	return out
}

func TestComputeAvailableSlots_EmptyDay(t *testing.T) {
	now := at(monday, 0, 0).Add(-14 * time.Hour)

	slots := slices.Collect(ComputeAvailableSlots(monday, service(60), domain.DefaultBusinessHours(), nil, now))

	assert.Equal(t, []string{
		"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00",
		"13:30", "14:00", "14:30", "15:00", "15:30", "16:00",
	}, labels(slots))
}

func TestComputeAvailableSlots_LunchBoundaries(t *testing.T) {
	now := monday.Add(-time.Hour)
	profile := domain.DefaultBusinessHours()

	tests := []struct {
		name     string
		minutes  int
		included []string
		excluded []string
	}{
		{
			name:     "30 minutes ends exactly at lunch start",
			minutes:  30,
			included: []string{"11:30", "13:30"},
			excluded: []string{"12:00", "12:30", "13:00"},
		},
		{
			name:     "60 minutes would end inside lunch",
			minutes:  60,
			included: []string{"11:00", "13:30"},
			excluded: []string{"11:30", "12:00", "13:00"},
		},
		{
			name:     "240 minutes may not span lunch",
			minutes:  240,
			included: []string{"08:00"},
			excluded: []string{"08:30", "09:00", "11:00", "13:00", "13:30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labels(slices.Collect(ComputeAvailableSlots(monday, service(tt.minutes), profile, nil, now)))
			for _, s := range tt.included {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.excluded {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestComputeAvailableSlots_ConfirmedAppointmentBlocksExactStart(t *testing.T) {
	now := monday.Add(-time.Hour)
	appointments := []*domain.Appointment{
		appointment(at(monday, 9, 0), 60, domain.StatusConfirmed, now.Add(-72*time.Hour)),
	}

	got := labels(slices.Collect(ComputeAvailableSlots(monday, service(60), domain.DefaultBusinessHours(), appointments, now)))

	assert.NotContains(t, got, "09:00")
	assert.Contains(t, got, "08:30")
	assert.Contains(t, got, "09:30")
}

func TestComputeAvailableSlots_OverlapMode(t *testing.T) {
	now := monday.Add(-time.Hour)
	engine := NewEngine(Policy{Collision: CollisionOverlap})
	appointments := []*domain.Appointment{
		appointment(at(monday, 9, 0), 60, domain.StatusConfirmed, now.Add(-72*time.Hour)),
	}

	got := labels(slices.Collect(engine.ComputeAvailableSlots(monday, service(60), domain.DefaultBusinessHours(), appointments, now)))

	assert.Contains(t, got, "08:00")
	assert.NotContains(t, got, "08:30")
	assert.NotContains(t, got, "09:00")
	assert.NotContains(t, got, "09:30")
	assert.Contains(t, got, "10:00")
	assert.Equal(t, domain.DefaultHoldExpiry, engine.Policy().HoldExpiry)
}

func TestComputeAvailableSlots_PendingHoldExpiry(t *testing.T) {
	now := at(monday, 0, 0).Add(-6 * time.Hour)
	start := at(monday, 10, 0)

	tests := []struct {
		name    string
		age     time.Duration
		blocked bool
	}{
		{name: "created 1h ago", age: time.Hour, blocked: true},
		{name: "created 23h59m ago", age: 24*time.Hour - time.Minute, blocked: true},
		{name: "created exactly 24h ago", age: 24 * time.Hour, blocked: false},
		{name: "created 25h ago", age: 25 * time.Hour, blocked: false},
		{name: "created 30h ago", age: 30 * time.Hour, blocked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appointments := []*domain.Appointment{
				appointment(start, 60, domain.StatusPending, now.Add(-tt.age)),
			}

			got := labels(slices.Collect(ComputeAvailableSlots(monday, service(60), domain.DefaultBusinessHours(), appointments, now)))

			if tt.blocked {
				assert.NotContains(t, got, "10:00")
			} else {
				assert.Contains(t, got, "10:00")
			}
		})
	}
}

func TestComputeAvailableSlots_CancelledNeverBlocks(t *testing.T) {
	now := monday.Add(-time.Hour)
	appointments := []*domain.Appointment{
		appointment(at(monday, 10, 0), 60, domain.StatusCancelled, now.Add(-time.Minute)),
		appointment(at(monday, 14, 0), 60, domain.StatusCancelled, now.Add(-90*time.Hour)),
	}

	for _, engine := range []*Engine{NewEngine(DefaultPolicy()), NewEngine(Policy{Collision: CollisionOverlap})} {
		got := labels(slices.Collect(engine.ComputeAvailableSlots(monday, service(60), domain.DefaultBusinessHours(), appointments, now)))
		assert.Contains(t, got, "10:00")
		assert.Contains(t, got, "14:00")
	}
}

func TestComputeAvailableSlots_EmptyResults(t *testing.T) {
	profile := domain.DefaultBusinessHours()
	now := monday.Add(-time.Hour)

	zeroGranularity := domain.DefaultBusinessHours()
	zeroGranularity.SlotGranularityMinutes = 0

	tests := []struct {
		name    string
		date    time.Time
		service domain.Service
		profile domain.BusinessHoursProfile
		now     time.Time
	}{
		{name: "sunday is not a working day", date: monday.AddDate(0, 0, -1), service: service(60), profile: profile, now: now.AddDate(0, 0, -7)},
		{name: "past date", date: monday, service: service(60), profile: profile, now: monday.AddDate(0, 0, 1)},
		{name: "zero duration", date: monday, service: service(0), profile: profile, now: now},
		{name: "negative duration", date: monday, service: service(-30), profile: profile, now: now},
		{name: "longer than business day", date: monday, service: service(10 * 60), profile: profile, now: now},
		{name: "longer than a day", date: monday, service: service(24*60 + 1), profile: profile, now: now},
		{name: "duration overflowing time.Duration", date: monday, service: service(math.MaxInt), profile: profile, now: now},
		{name: "zero granularity", date: monday, service: service(30), profile: zeroGranularity, now: now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := slices.Collect(ComputeAvailableSlots(tt.date, tt.service, tt.profile, nil, tt.now))
			assert.Empty(t, slots)
		})
	}
}

func TestComputeAvailableSlots_TodayIsNotInThePast(t *testing.T) {
	now := at(monday, 15, 0)

	slots := slices.Collect(ComputeAvailableSlots(monday, service(30), domain.DefaultBusinessHours(), nil, now))

	assert.NotEmpty(t, slots)
}

func TestComputeAvailableSlots_TimeOfDayIgnored(t *testing.T) {
	now := monday.Add(-time.Hour)
	profile := domain.DefaultBusinessHours()

	fromMidnight := slices.Collect(ComputeAvailableSlots(monday, service(45), profile, nil, now))
	fromAfternoon := slices.Collect(ComputeAvailableSlots(at(monday, 15, 47), service(45), profile, nil, now))

	assert.Equal(t, fromMidnight, fromAfternoon)
}

func TestComputeAvailableSlots_RestartableAndIdempotent(t *testing.T) {
	now := monday.Add(-time.Hour)
	appointments := []*domain.Appointment{
		appointment(at(monday, 8, 0), 30, domain.StatusConfirmed, now.Add(-time.Hour)),
		appointment(at(monday, 14, 0), 30, domain.StatusPending, now.Add(-time.Hour)),
	}
	seq := ComputeAvailableSlots(monday, service(30), domain.DefaultBusinessHours(), appointments, now)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	third := slices.Collect(ComputeAvailableSlots(monday, service(30), domain.DefaultBusinessHours(), appointments, now))

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, first, third)

	// Прерванная итерация не влияет на следующую
	for range seq {
		break
	}
	assert.Equal(t, first, slices.Collect(seq))
}

func TestComputeAvailableSlots_Location(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	date := time.Date(2025, 10, 20, 0, 0, 0, 0, loc)
	now := time.Date(2025, 10, 19, 23, 0, 0, 0, time.UTC)

	slots := slices.Collect(ComputeAvailableSlots(date, service(60), domain.DefaultBusinessHours(), nil, now))

	require.NotEmpty(t, slots)
	assert.Equal(t, loc, slots[0].Location())
	assert.Equal(t, 8, slots[0].Hour())
	assert.Equal(t, time.Date(2025, 10, 20, 11, 0, 0, 0, time.UTC), slots[0].UTC())
}

func TestComputeAvailableSlots_CloseAtMidnight(t *testing.T) {
	now := monday.Add(-time.Hour)
	profile := domain.BusinessHoursProfile{
		OpenHour:               20,
		CloseHour:              24,
		WorkingDays:            []time.Weekday{time.Monday},
		LunchStart:             21,
		LunchEnd:               21.5,
		SlotGranularityMinutes: 30,
	}

	slots := slices.Collect(ComputeAvailableSlots(monday, service(60), profile, nil, now))

	assert.Equal(t, []string{"20:00", "21:30", "22:00", "22:30", "23:00"}, labels(slots))
	for _, s := range slots {
		assert.Equal(t, monday.Day(), s.Day())
	}
}

func TestComputeAvailableSlots_SpringForward(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	// 2025-03-30 01:00 GMT часы переводятся на 02:00 BST
	day := time.Date(2025, 3, 30, 0, 0, 0, 0, london)
	profile := domain.BusinessHoursProfile{
		OpenHour:               0,
		CloseHour:              5,
		WorkingDays:            []time.Weekday{time.Sunday},
		LunchStart:             4.5,
		LunchEnd:               5,
		SlotGranularityMinutes: 30,
	}

	slots := slices.Collect(ComputeAvailableSlots(day, service(30), profile, nil, day.AddDate(0, 0, -1)))

	assert.Equal(t, []string{"00:00", "00:30", "02:00", "02:30", "03:00", "03:30", "04:00"}, labels(slots))
	assertStrictlyIncreasing(t, slots)
}

func TestComputeAvailableSlots_FallBack(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	// 2025-10-26 02:00 BST часы переводятся на 01:00 GMT
	day := time.Date(2025, 10, 26, 0, 0, 0, 0, london)
	profile := domain.BusinessHoursProfile{
		OpenHour:               0,
		CloseHour:              5,
		WorkingDays:            []time.Weekday{time.Sunday},
		LunchStart:             4.5,
		LunchEnd:               5,
		SlotGranularityMinutes: 30,
	}

	slots := slices.Collect(ComputeAvailableSlots(day, service(30), profile, nil, day.AddDate(0, 0, -1)))

	require.NotEmpty(t, slots)
	assertStrictlyIncreasing(t, slots)
	for _, s := range slots {
		assert.Equal(t, 26, s.Day())
	}
}

func assertStrictlyIncreasing(t *testing.T, slots []time.Time) {
	t.Helper()
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].After(slots[i-1]), "slot %d (%s) is not after %s", i, slots[i], slots[i-1])
	}
}

func TestEngine_IsBookable(t *testing.T) {
	now := monday.Add(-time.Hour)
	engine := NewEngine(DefaultPolicy())
	profile := domain.DefaultBusinessHours()
	appointments := []*domain.Appointment{
		appointment(at(monday, 9, 0), 60, domain.StatusConfirmed, now.Add(-time.Hour)),
	}

	assert.True(t, engine.IsBookable(at(monday, 8, 0), service(60), profile, appointments, now))
	assert.True(t, engine.IsBookable(at(monday, 16, 0), service(60), profile, appointments, now))
	assert.False(t, engine.IsBookable(at(monday, 9, 0), service(60), profile, appointments, now))
	assert.False(t, engine.IsBookable(at(monday, 8, 15), service(60), profile, appointments, now))
	assert.False(t, engine.IsBookable(at(monday, 12, 0), service(60), profile, appointments, now))
	assert.False(t, engine.IsBookable(at(monday, 16, 30), service(60), profile, appointments, now))
}

func TestEngine_OverlapsBusy(t *testing.T) {
	now := monday.Add(-time.Hour)
	engine := NewEngine(DefaultPolicy())
	appointments := []*domain.Appointment{
		appointment(at(monday, 9, 30), 30, domain.StatusConfirmed, now.Add(-time.Hour)),
		appointment(at(monday, 14, 0), 60, domain.StatusPending, now.Add(-48*time.Hour)),
		appointment(at(monday, 15, 0), 60, domain.StatusCancelled, now.Add(-time.Hour)),
	}

	// 90-минутная услуга в 09:00 пересекается с записью на 09:30
	assert.True(t, engine.OverlapsBusy(at(monday, 9, 0), at(monday, 10, 30), appointments, now))
	assert.False(t, engine.OverlapsBusy(at(monday, 8, 30), at(monday, 9, 30), appointments, now))
	assert.False(t, engine.OverlapsBusy(at(monday, 10, 0), at(monday, 11, 0), appointments, now))
	// просроченный pending и отменённая запись не занимают время
	assert.False(t, engine.OverlapsBusy(at(monday, 14, 0), at(monday, 16, 0), appointments, now))
}

func TestParseCollisionMode(t *testing.T) {
	mode, err := ParseCollisionMode("overlap")
	require.NoError(t, err)
	assert.Equal(t, CollisionOverlap, mode)
	assert.Equal(t, "overlap", mode.String())

	mode, err = ParseCollisionMode("")
	require.NoError(t, err)
	assert.Equal(t, CollisionStart, mode)

	_, err = ParseCollisionMode("interval")
	assert.ErrorIs(t, err, ErrUnknownCollisionMode)
}

// TestComputeAvailableSlots_Invariants проверяет свойства результата на случайных входных данных
func TestComputeAvailableSlots_Invariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	profile := domain.DefaultBusinessHours()
	statuses := []domain.AppointmentStatus{domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled}
	holdExpiry := domain.DefaultHoldExpiry

	for i := 0; i < 300; i++ {
		date := monday.AddDate(0, 0, rnd.Intn(6))
		now := date.Add(-time.Duration(rnd.Intn(72)) * time.Hour)
		svc := service(15 * (1 + rnd.Intn(12)))
		mode := CollisionMode(rnd.Intn(2))
		engine := NewEngine(Policy{HoldExpiry: holdExpiry, Collision: mode})

		appointments := make([]*domain.Appointment, 0)
		for j := 0; j < rnd.Intn(8); j++ {
			start := at(date, 8, 0).Add(time.Duration(rnd.Intn(18)) * 30 * time.Minute)
			created := now.Add(-time.Duration(rnd.Intn(48)) * time.Hour)
			appointments = append(appointments, appointment(start, 30*(1+rnd.Intn(4)), statuses[rnd.Intn(len(statuses))], created))
		}

		seq := engine.ComputeAvailableSlots(date, svc, profile, appointments, now)
		slots := slices.Collect(seq)
		assert.Equal(t, slots, slices.Collect(seq))

		lunchStart, lunchEnd := profile.LunchStartAt(date), profile.LunchEndAt(date)
		for k, s := range slots {
			end := s.Add(svc.Duration())

			assert.False(t, s.Before(profile.OpenAt(date)))
			assert.False(t, end.After(profile.CloseAt(date)))
			assert.False(t, s.Before(lunchEnd) && lunchStart.Before(end), "slot %s intersects lunch", s)

			if k > 0 {
				assert.True(t, s.After(slots[k-1]))
			}

			for _, a := range appointments {
				if !a.IsEffectivelyBusy(now, holdExpiry) {
					continue
				}
				assert.False(t, a.StartTime.Equal(s), "slot %s taken by busy appointment", s)
				if mode == CollisionOverlap {
					assert.False(t, s.Before(a.EndTime) && a.StartTime.Before(end))
				}
			}
		}
	}
}
