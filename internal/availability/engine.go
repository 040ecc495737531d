// Package availability computes bookable appointment start times for a single-provider business.
//
// The engine is a pure transformation of (date, service, business hours, appointment snapshot, now)
// into a sequence of start times. It performs no I/O and keeps no state, so one Engine value
// may be shared by any number of goroutines.
package availability

import (
	"iter"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// CollisionMode defines how a candidate slot is tested against busy appointments
type CollisionMode int

const (
	// CollisionStart treats a candidate as taken only when a busy appointment starts at exactly the same instant
	CollisionStart CollisionMode = iota

	// CollisionOverlap treats a candidate as taken when [start, end) intersects a busy appointment's [start, end)
	CollisionOverlap
)

// String returns the config representation of the mode
func (m CollisionMode) String() string {
	switch m {
	case CollisionOverlap:
		return "overlap"
	default:
		return "start"
	}
}

// ParseCollisionMode parses "start" or "overlap"
func ParseCollisionMode(s string) (CollisionMode, error) {
	switch s {
	case "", "start":
		return CollisionStart, nil
	case "overlap":
		return CollisionOverlap, nil
	default:
		return CollisionStart, ErrUnknownCollisionMode
	}
}

// Policy holds the rules that decide whether an existing appointment blocks a candidate
type Policy struct {
	// HoldExpiry is how long a pending appointment keeps its slot after creation
	HoldExpiry time.Duration
	Collision  CollisionMode
}

// DefaultPolicy returns a 24h hold with exact start-time collisions
func DefaultPolicy() Policy {
	return Policy{
		HoldExpiry: domain.DefaultHoldExpiry,
		Collision:  CollisionStart,
	}
}

// Engine computes available slots under a fixed Policy
type Engine struct {
	policy Policy
}

// NewEngine создает движок доступности. Неположительный HoldExpiry заменяется значением по умолчанию
func NewEngine(policy Policy) *Engine {
	if policy.HoldExpiry <= 0 {
		policy.HoldExpiry = domain.DefaultHoldExpiry
	}
	return &Engine{policy: policy}
}

// Policy returns the engine policy
func (e *Engine) Policy() Policy {
	return e.policy
}

var defaultEngine = NewEngine(DefaultPolicy())

// ComputeAvailableSlots computes slots with the default policy
func ComputeAvailableSlots(
	date time.Time,
	service domain.Service,
	profile domain.BusinessHoursProfile,
	appointments []*domain.Appointment,
	now time.Time,
) iter.Seq[time.Time] {
	return defaultEngine.ComputeAvailableSlots(date, service, profile, appointments, now)
}

// ComputeAvailableSlots returns the bookable start times for service on the calendar day of date,
// in strictly increasing order. Every slot starts at or after opening, ends at or before closing,
// does not intersect the lunch blackout and is not taken by an effectively busy appointment.
//
// The sequence is recomputed from the captured arguments on every range, so it can be iterated
// any number of times. Hours are interpreted in date.Location().
//
// An empty sequence is produced for a non-working day, a day before the calendar day of now,
// a non-positive service duration or a non-positive slot granularity.
func (e *Engine) ComputeAvailableSlots(
	date time.Time,
	service domain.Service,
	profile domain.BusinessHoursProfile,
	appointments []*domain.Appointment,
	now time.Time,
) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		duration := service.Duration()
		if duration <= 0 || profile.SlotGranularityMinutes <= 0 {
			return
		}

		if !profile.IsWorkingDay(date) || isDayBefore(date, now) {
			return
		}

		busy := e.busyAppointments(appointments, now)

		openMinute := profile.OpenHour * 60
		closeMinute := profile.CloseHour * 60
		closeAt := profile.CloseAt(date)
		nextDay := domain.StartOfDay(date).AddDate(0, 0, 1)
		lunchStart := profile.LunchStartAt(date)
		lunchEnd := profile.LunchEndAt(date)

		var prev time.Time
		for minute := openMinute; minute < closeMinute; minute += profile.SlotGranularityMinutes {
			start := domain.AtMinuteOfDay(date, minute)
			// Повторяющееся "настенное" время при переводе часов не должно давать дубликатов
			if !prev.IsZero() && !start.After(prev) {
				continue
			}
			prev = start

			end := start.Add(duration)
			if end.After(closeAt) || end.After(nextDay) {
				continue
			}

			if intersects(start, end, lunchStart, lunchEnd) {
				continue
			}

			if e.collides(start, end, busy) {
				continue
			}

			if !yield(start) {
				return
			}
		}
	}
}

// IsBookable reports whether start is one of the slots ComputeAvailableSlots would produce
func (e *Engine) IsBookable(
	start time.Time,
	service domain.Service,
	profile domain.BusinessHoursProfile,
	appointments []*domain.Appointment,
	now time.Time,
) bool {
	for slot := range e.ComputeAvailableSlots(start, service, profile, appointments, now) {
		if slot.Equal(start) {
			return true
		}
		if slot.After(start) {
			return false
		}
	}
	return false
}

// OverlapsBusy reports whether [start, end) intersects any effectively busy appointment,
// independent of the collision mode. The write path uses it to keep confirmed bookings disjoint.
func (e *Engine) OverlapsBusy(start, end time.Time, appointments []*domain.Appointment, now time.Time) bool {
	for _, a := range e.busyAppointments(appointments, now) {
		if intersects(start, end, a.StartTime, appointmentEnd(a)) || a.StartTime.Equal(start) {
			return true
		}
	}
	return false
}

// busyAppointments отбирает записи, которые занимают слот в момент now
func (e *Engine) busyAppointments(appointments []*domain.Appointment, now time.Time) []*domain.Appointment {
	busy := make([]*domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a == nil {
			continue
		}
		if a.IsEffectivelyBusy(now, e.policy.HoldExpiry) {
			busy = append(busy, a)
		}
	}
	return busy
}

// collides проверяет кандидата на конфликт с занятыми записями согласно CollisionMode
func (e *Engine) collides(start, end time.Time, busy []*domain.Appointment) bool {
	for _, a := range busy {
		if a.StartTime.Equal(start) {
			return true
		}
		if e.policy.Collision == CollisionOverlap && intersects(start, end, a.StartTime, appointmentEnd(a)) {
			return true
		}
	}
	return false
}

// intersects проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd).
// Интервалы, которые только касаются границей, не пересекаются
func intersects(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// appointmentEnd возвращает конец записи; некорректный конец сводится к нулевой длительности
func appointmentEnd(a *domain.Appointment) time.Time {
	if a.EndTime.After(a.StartTime) {
		return a.EndTime
	}
	return a.StartTime
}

// isDayBefore проверяет, что календарный день date раньше календарного дня now (в локации date)
func isDayBefore(date, now time.Time) bool {
	return domain.StartOfDay(date).Before(domain.StartOfDay(now.In(date.Location())))
}
