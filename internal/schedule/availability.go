package schedule

import (
	"slices"
	"time"
)

// DefaultGranularity — шаг сетки слотов.
const DefaultGranularity = 30 * time.Minute

// Evaluator — чистая логика доступности поверх Schedule.
// Безопасен для одновременного использования: состояния не хранит.
type Evaluator struct {
	// Шаг сетки; <= 0 означает DefaultGranularity.
	Granularity time.Duration
	// Зона клиники для расписаний без TimeZone; nil — UTC.
	Location *time.Location
	// Источник текущего времени; nil — time.Now.
	Now func() time.Time
}

// NewEvaluator создаёт вычислитель с указанной зоной клиники и шагом.
func NewEvaluator(loc *time.Location, granularity time.Duration) *Evaluator {
	return &Evaluator{Granularity: granularity, Location: loc}
}

func (e *Evaluator) granularity() time.Duration {
	if e == nil || e.Granularity <= 0 {
		return DefaultGranularity
	}
	return e.Granularity
}

// Step — действующий шаг сетки.
func (e *Evaluator) Step() time.Duration {
	return e.granularity()
}

// CurrentTime — текущий момент по часам вычислителя.
func (e *Evaluator) CurrentTime() time.Time {
	return e.now()
}

// DayBounds возвращает [00:00, 00:00 следующего дня) календарного дня date в зоне расписания.
func (e *Evaluator) DayBounds(s *Schedule, date time.Time) (time.Time, time.Time) {
	day := DateOnly(inZone(date, e.LocationFor(s)))
	return day, day.AddDate(0, 0, 1)
}

func (e *Evaluator) now() time.Time {
	if e == nil || e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// LocationFor возвращает зону, в которой трактуются часы расписания.
func (e *Evaluator) LocationFor(s *Schedule) *time.Location {
	if s != nil && s.TimeZone != "" {
		if loc, err := time.LoadLocation(s.TimeZone); err == nil {
			return loc
		}
	}
	if e != nil && e.Location != nil {
		return e.Location
	}
	return time.UTC
}

// Check проверяет условия доступности и возвращает первое нарушенное как *ConflictError.
// Порядок: рабочий день, рабочие часы [start, end), перерывы [start, end), занятость.
func (e *Evaluator) Check(s *Schedule, t time.Time) error {
	return e.check(s, t.In(e.LocationFor(s)))
}

func (e *Evaluator) check(s *Schedule, local time.Time) error {
	if err := e.checkHours(s, local); err != nil {
		return err
	}
	if s.IsBooked(local) {
		return conflict(ReasonAlreadyBooked, local)
	}
	return nil
}

// checkHours — условия расписания без учёта занятости.
func (e *Evaluator) checkHours(s *Schedule, local time.Time) error {
	weekday := WeekdayOf(local)
	if !s.IsWorkingDay(weekday) {
		return conflict(ReasonNonWorkingDay, local)
	}

	tod := TimeOfDay(local)
	if tod < s.WorkingHours.Start || tod >= s.WorkingHours.End {
		return conflict(ReasonOutsideWorkingHours, local)
	}

	for _, b := range s.Breaks {
		if !slices.Contains(b.Days, weekday) {
			continue
		}
		if tod >= b.Start && tod < b.End {
			return conflict(ReasonOnBreak, local)
		}
	}
	return nil
}

// IsAvailable — все четыре условия выполнены.
func (e *Evaluator) IsAvailable(s *Schedule, t time.Time) bool {
	return e.Check(s, t) == nil
}

// EnumerateSlots возвращает все свободные слоты на календарный день date по возрастанию.
// Время внутри date игнорируется, берётся только день (в зоне расписания).
// Каждый вызов считает заново; результат конечен: не больше (end-start)/шаг элементов.
func (e *Evaluator) EnumerateSlots(s *Schedule, date time.Time) []time.Time {
	loc := e.LocationFor(s)
	day := DateOnly(inZone(date, loc))
	if !s.IsWorkingDay(WeekdayOf(day)) {
		return []time.Time{}
	}

	start := CombineDateAndTime(day, s.WorkingHours.Start)
	end := CombineDateAndTime(day, s.WorkingHours.End)
	if start.IsZero() || end.IsZero() {
		return []time.Time{}
	}

	step := e.granularity()
	slots := make([]time.Time, 0, int(end.Sub(start)/step)+1)
	for cur := start; cur.Before(end); cur = cur.Add(step) {
		if e.check(s, cur) == nil {
			slots = append(slots, cur)
		}
	}
	return slots
}

// IsDateSelectable — день рабочий и не раньше сегодняшнего.
// Свободные слоты не проверяются.
func (e *Evaluator) IsDateSelectable(s *Schedule, date time.Time) bool {
	loc := e.LocationFor(s)
	day := DateOnly(inZone(date, loc))
	if !s.IsWorkingDay(WeekdayOf(day)) {
		return false
	}
	today := DateOnly(e.now().In(loc))
	return !day.Before(today)
}

// OnGrid сообщает, лежит ли t на сетке слотов дня: кратен шагу от начала рабочих часов, без секунд.
func (e *Evaluator) OnGrid(s *Schedule, t time.Time) bool {
	local := t.In(e.LocationFor(s))
	if local.Second() != 0 || local.Nanosecond() != 0 {
		return false
	}
	start := CombineDateAndTime(local, s.WorkingHours.Start)
	if start.IsZero() {
		return false
	}
	return local.Sub(start)%e.granularity() == 0
}

// inZone переносит календарный день date в зону loc без сдвига числа:
// 2025-01-06 в любой зоне остаётся 2025-01-06 в зоне клиники.
func inZone(date time.Time, loc *time.Location) time.Time {
	if date.Location() == loc {
		return date
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), loc)
}
