package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// PatientInfo — данные пациента, которые ядро только передаёт хранилищу, не интерпретируя.
type PatientInfo struct {
	ID          string
	Name        string
	Email       string
	PhoneNumber string
	Description string
}

// Persister — хранилище записей на приём.
// Должно атомарно отказывать с ErrSlotTaken, если (doctorID, at) уже занят активной записью.
type Persister interface {
	PersistAppointment(ctx context.Context, doctorID string, at time.Time, patient PatientInfo) (string, error)
}

// PersistFunc позволяет использовать обычную функцию как Persister.
type PersistFunc func(ctx context.Context, doctorID string, at time.Time, patient PatientInfo) (string, error)

func (f PersistFunc) PersistAppointment(ctx context.Context, doctorID string, at time.Time, patient PatientInfo) (string, error) {
	return f(ctx, doctorID, at, patient)
}

// Locker — взаимное исключение, ограниченное ключом (идентификатором врача).
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(context.Context) error, err error)
}

// BookedLoader читает актуальные занятые слоты врача на календарный день at.
type BookedLoader func(ctx context.Context, doctorID string, at time.Time) (BookedSlots, error)

// Reservation — результат успешного бронирования.
type Reservation struct {
	AppointmentID string
	DoctorID      string
	At            time.Time
}

// Guard — единственная точка изменения BookedSlots.
type Guard struct {
	eval   *Evaluator
	store  Persister
	locker Locker
	load   BookedLoader
}

type GuardOption func(*Guard)

// WithBookedLoader — перед повторной проверкой занятые слоты перечитываются под блокировкой.
func WithBookedLoader(load BookedLoader) GuardOption {
	return func(g *Guard) { g.load = load }
}

func NewGuard(eval *Evaluator, store Persister, locker Locker, opts ...GuardOption) *Guard {
	if eval == nil {
		eval = &Evaluator{}
	}
	g := &Guard{eval: eval, store: store, locker: locker}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Reserve перепроверяет доступность на момент вызова (списку слотов, полученному ранее, не доверяет)
// и при успехе сохраняет запись и добавляет t в s.BookedSlots.
// Порядок: прошедшее время, день/часы/перерыв, сетка, затем под блокировкой занятость.
// Конфликты возвращаются как *ConflictError без обращения к хранилищу;
// ошибки хранилища, кроме ErrSlotTaken, пробрасываются без изменений.
func (g *Guard) Reserve(ctx context.Context, doctorID string, s *Schedule, t time.Time, patient PatientInfo) (Reservation, error) {
	loc := g.eval.LocationFor(s)
	local := t.In(loc)

	now := g.eval.now().In(loc)
	if DateOnly(local).Before(DateOnly(now)) || local.Before(now) {
		return Reservation{}, conflict(ReasonPastDate, local)
	}
	if err := g.eval.checkHours(s, local); err != nil {
		return Reservation{}, err
	}
	if !g.eval.OnGrid(s, local) {
		return Reservation{}, conflict(ReasonOffGrid, local)
	}

	if g.locker != nil {
		unlock, err := g.locker.Lock(ctx, lockKey(doctorID))
		if err != nil {
			return Reservation{}, fmt.Errorf("lock doctor %s: %w", doctorID, err)
		}
		// Отмена запроса не должна мешать снятию блокировки.
		defer func() { _ = unlock(context.WithoutCancel(ctx)) }()
	}

	if g.load != nil {
		booked, err := g.load(ctx, doctorID, local)
		if err != nil {
			return Reservation{}, fmt.Errorf("load booked slots: %w", err)
		}
		s.BookedSlots = booked
	}
	if err := g.eval.check(s, local); err != nil {
		return Reservation{}, err
	}

	id, err := g.store.PersistAppointment(ctx, doctorID, local.UTC(), patient)
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			s.Book(local)
			return Reservation{}, conflict(ReasonAlreadyBooked, local)
		}
		return Reservation{}, err
	}

	s.Book(local)
	return Reservation{AppointmentID: id, DoctorID: doctorID, At: local}, nil
}

func lockKey(doctorID string) string {
	return "schedule:doctor:" + doctorID
}
