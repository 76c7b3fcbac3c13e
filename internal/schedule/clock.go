package schedule

import (
	"fmt"
	"time"
)

// clockLayout — "HH:MM", 24 часа, с ведущими нулями.
// Одинаковая длина строк делает лексикографическое сравнение корректным.
const clockLayout = "15:04"

// WeekdayOf возвращает день недели 0–6 (0 = воскресенье) в той зоне, в которой задан t.
func WeekdayOf(t time.Time) int {
	return int(t.Weekday())
}

// TimeOfDay возвращает время суток "HH:MM" без какой-либо конвертации зоны.
func TimeOfDay(t time.Time) string {
	return t.Format(clockLayout)
}

// AddMinutes сдвигает момент на n минут.
func AddMinutes(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * time.Minute)
}

// CombineDateAndTime берёт календарный день из date и время "HH:MM".
// Некорректная строка времени — ошибка вызывающего; в этом случае возвращается нулевой time.Time.
func CombineDateAndTime(date time.Time, hhmm string) time.Time {
	h, m, ok := parseClock(hhmm)
	if !ok {
		return time.Time{}
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, 0, 0, date.Location())
}

// DateOnly обрезает время до полуночи, сохраняя зону.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func parseClock(s string) (hour, minute int, ok bool) {
	if len(s) != len(clockLayout) {
		return 0, 0, false
	}
	parsed, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, 0, false
	}
	return parsed.Hour(), parsed.Minute(), true
}

// ===== Форматирование слота для уведомлений =====

var enWeekdays = map[time.Weekday]string{
	time.Monday:    "Monday",
	time.Tuesday:   "Tuesday",
	time.Wednesday: "Wednesday",
	time.Thursday:  "Thursday",
	time.Friday:    "Friday",
	time.Saturday:  "Saturday",
	time.Sunday:    "Sunday",
}

// FormatSlot форматирует слот в строку вида "Monday, 06.01.2025, 09:00–09:30".
// Если loc != nil, время переводится в указанный часовой пояс.
func FormatSlot(start time.Time, length time.Duration, loc *time.Location) string {
	if loc != nil {
		start = start.In(loc)
	}
	end := start.Add(length)
	return fmt.Sprintf("%s, %s, %s–%s",
		enWeekdays[start.Weekday()],
		start.Format("02.01.2006"),
		start.Format(clockLayout),
		end.Format(clockLayout),
	)
}
