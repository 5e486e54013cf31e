package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Day день недели в сетке расписания: 0 = понедельник, 4 = пятница
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// DaysInWeek количество учебных дней в сетке (суббота и воскресенье не поддерживаются)
const DaysInWeek = 5

// MinutesPerDay верхняя граница для EndMinute
const MinutesPerDay = 24 * 60

// Weekdays все дни в порядке колонок сетки
var Weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

var dayShortNames = [DaysInWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri"}

var dayFullNames = [DaysInWeek]string{"monday", "tuesday", "wednesday", "thursday", "friday"}

var dayLabels = [DaysInWeek]string{"Пн", "Вт", "Ср", "Чт", "Пт"}

// Valid проверяет что день входит в рабочую неделю
func (d Day) Valid() bool {
	return d >= Monday && d <= Friday
}

func (d Day) String() string {
	if !d.Valid() {
		return "Day(" + strconv.Itoa(int(d)) + ")"
	}
	return dayShortNames[d]
}

// Label короткое название дня для пользователя
func (d Day) Label() string {
	if !d.Valid() {
		return "?"
	}
	return dayLabels[d]
}

// ParseDay разбирает день из "Wed", "wednesday", "Ср" или индекса "2"
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		d := Day(n)
		if !d.Valid() {
			return 0, fmt.Errorf("%w: day index %d out of range", ErrValidation, n)
		}
		return d, nil
	}

	lower := strings.ToLower(s)
	for i := 0; i < DaysInWeek; i++ {
		// "wed", "wedn", "wednesday"; "wedge" не день
		if len(lower) >= 3 && strings.HasPrefix(dayFullNames[i], lower) {
			return Day(i), nil
		}
		if lower == strings.ToLower(dayLabels[i]) {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown day %q", ErrValidation, s)
}
