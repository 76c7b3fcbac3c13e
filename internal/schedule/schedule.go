package schedule

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// WorkingHours — единое дневное окно приёма "HH:MM"–"HH:MM", одинаковое для всех рабочих дней.
type WorkingHours struct {
	Start string `json:"start" validate:"required,clock"`
	End   string `json:"end" validate:"required,clock"`
}

// Break — повторяющийся перерыв, действующий только в перечисленные дни недели.
type Break struct {
	Start string `json:"start" validate:"required,clock"`
	End   string `json:"end" validate:"required,clock"`
	Days  []int  `json:"days" validate:"dive,min=0,max=6"`
}

// Schedule описывает регулярную доступность врача.
// Дни недели кодируются как в time.Weekday: 0 = воскресенье ... 6 = суббота.
type Schedule struct {
	WorkingHours WorkingHours `json:"workingHours"`
	WorkingDays  []int        `json:"workingDays" validate:"dive,min=0,max=6"`
	Breaks       []Break      `json:"breaks" validate:"dive"`

	// IANA-имя часового пояса клиники. Пустое значение — пояс вычислителя по умолчанию.
	TimeZone string `json:"timeZone,omitempty" validate:"omitempty,timezone"`

	// Уже занятые слоты. Не сериализуется: всегда материализуется из хранилища записей.
	BookedSlots BookedSlots `json:"-"`
}

// DefaultSchedule — расписание, которое получает врач при создании профиля:
// пн–пт, 08:00–16:00, обед 12:00–13:00.
func DefaultSchedule() Schedule {
	weekdays := []int{1, 2, 3, 4, 5}
	return Schedule{
		WorkingHours: WorkingHours{Start: "08:00", End: "16:00"},
		WorkingDays:  slices.Clone(weekdays),
		Breaks: []Break{
			{Start: "12:00", End: "13:00", Days: slices.Clone(weekdays)},
		},
		BookedSlots: BookedSlots{},
	}
}

// IsWorkingDay сообщает, принимает ли врач в указанный день недели.
func (s *Schedule) IsWorkingDay(weekday int) bool {
	return slices.Contains(s.WorkingDays, weekday)
}

// Book отмечает слот занятым.
func (s *Schedule) Book(t time.Time) {
	if s.BookedSlots == nil {
		s.BookedSlots = BookedSlots{}
	}
	s.BookedSlots.Add(t)
}

// Release освобождает слот (отмена записи).
func (s *Schedule) Release(t time.Time) {
	s.BookedSlots.Remove(t)
}

// IsBooked — точное совпадение с уже занятым временем.
func (s *Schedule) IsBooked(t time.Time) bool {
	return s.BookedSlots.Contains(t)
}

// Clone возвращает глубокую копию, включая набор занятых слотов.
func (s Schedule) Clone() Schedule {
	out := s
	out.WorkingDays = slices.Clone(s.WorkingDays)
	out.Breaks = make([]Break, len(s.Breaks))
	for i, b := range s.Breaks {
		out.Breaks[i] = Break{Start: b.Start, End: b.End, Days: slices.Clone(b.Days)}
	}
	out.BookedSlots = s.BookedSlots.Clone()
	return out
}

// BookedSlots — множество абсолютных моментов времени с точностью до секунды.
type BookedSlots map[int64]struct{}

// NewBookedSlots собирает множество из списка меток времени; дубликаты схлопываются.
func NewBookedSlots(ts ...time.Time) BookedSlots {
	b := make(BookedSlots, len(ts))
	for _, t := range ts {
		b.Add(t)
	}
	return b
}

func (b BookedSlots) Add(t time.Time) {
	b[t.Unix()] = struct{}{}
}

func (b BookedSlots) Remove(t time.Time) {
	delete(b, t.Unix())
}

func (b BookedSlots) Contains(t time.Time) bool {
	_, ok := b[t.Unix()]
	return ok
}

func (b BookedSlots) Len() int {
	return len(b)
}

func (b BookedSlots) Clone() BookedSlots {
	out := make(BookedSlots, len(b))
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

// Times возвращает занятые моменты в UTC, по возрастанию.
func (b BookedSlots) Times() []time.Time {
	keys := make([]int64, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]time.Time, len(keys))
	for i, k := range keys {
		out[i] = time.Unix(k, 0).UTC()
	}
	return out
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func scheduleValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, _, ok := parseClock(fl.Field().String())
			return ok
		})
	})
	return validate
}

// Validate проверяет формат расписания при создании/изменении профиля врача.
// Вычислитель сам по себе этого не делает: некорректное расписание просто не даёт слотов.
func (s *Schedule) Validate() error {
	if err := scheduleValidator().Struct(s); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}
	if s.WorkingHours.Start >= s.WorkingHours.End {
		return fmt.Errorf("invalid schedule: working hours start %s must be before end %s",
			s.WorkingHours.Start, s.WorkingHours.End)
	}
	for i, b := range s.Breaks {
		if b.Start >= b.End {
			return fmt.Errorf("invalid schedule: break #%d start %s must be before end %s", i, b.Start, b.End)
		}
	}
	return nil
}
