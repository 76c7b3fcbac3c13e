package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Reason — причина, по которой слот нельзя забронировать.
type Reason string

const (
	ReasonNonWorkingDay       Reason = "non_working_day"
	ReasonOutsideWorkingHours Reason = "outside_working_hours"
	ReasonOnBreak             Reason = "on_break"
	ReasonAlreadyBooked       Reason = "already_booked"
	ReasonPastDate            Reason = "past_date"
	ReasonOffGrid             Reason = "off_grid"
)

// Сентинелы для errors.Is: ConflictError совпадает с сентинелом своей причины.
var (
	ErrNonWorkingDay       = &ConflictError{Reason: ReasonNonWorkingDay}
	ErrOutsideWorkingHours = &ConflictError{Reason: ReasonOutsideWorkingHours}
	ErrOnBreak             = &ConflictError{Reason: ReasonOnBreak}
	ErrAlreadyBooked       = &ConflictError{Reason: ReasonAlreadyBooked}
	ErrPastDate            = &ConflictError{Reason: ReasonPastDate}
	ErrOffGrid             = &ConflictError{Reason: ReasonOffGrid}
)

// ErrSlotTaken возвращает хранилище записей, когда уникальный индекс (врач, время) уже занят.
var ErrSlotTaken = errors.New("slot already taken in appointment store")

// ConflictError — ожидаемый, восстановимый отказ в бронировании.
type ConflictError struct {
	Reason Reason
	At     time.Time
}

func (e *ConflictError) Error() string {
	if e.At.IsZero() {
		return fmt.Sprintf("slot conflict: %s", e.Reason)
	}
	return fmt.Sprintf("slot conflict: %s at %s", e.Reason, e.At.Format(time.RFC3339))
}

func (e *ConflictError) Is(target error) bool {
	t, ok := target.(*ConflictError)
	if !ok {
		return false
	}
	return t.Reason == e.Reason
}

func conflict(reason Reason, at time.Time) *ConflictError {
	return &ConflictError{Reason: reason, At: at}
}

// ReasonOf достаёт причину конфликта из цепочки ошибок.
func ReasonOf(err error) (Reason, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Reason, true
	}
	return "", false
}
