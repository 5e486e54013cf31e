// Package conflict решает, пересекается ли лекция по времени с уже
// существующими. Все функции чистые и безопасны для вызова из любых горутин.
package conflict

import "github.com/Freeeeeet/timetable_builder/internal/model"

// Overlaps true если слоты в один день и их интервалы строго пересекаются.
// Касание концов (10:00-11:00 и 11:00-12:00) конфликтом не считается.
func Overlaps(a, b model.TimeSlot) bool {
	return a.Day == b.Day &&
		a.StartMinute < b.EndMinute &&
		b.StartMinute < a.EndMinute
}

// HasConflict проверяет кандидата против существующих лекций.
// Лекция с тем же id пропускается, поэтому функция подходит и для добавления,
// и для редактирования на месте.
func HasConflict(candidate model.Lecture, existing []model.Lecture) bool {
	for _, lecture := range existing {
		if collides(candidate, lecture) {
			return true
		}
	}
	return false
}

// Conflicting повторный проход для диагностики: все лекции, с которыми
// пересекается кандидат, в порядке existing.
func Conflicting(candidate model.Lecture, existing []model.Lecture) []model.Lecture {
	var out []model.Lecture
	for _, lecture := range existing {
		if collides(candidate, lecture) {
			out = append(out, lecture)
		}
	}
	return out
}

func collides(candidate, other model.Lecture) bool {
	if other.ID == candidate.ID {
		return false
	}
	for _, e := range other.TimeSlots {
		for _, c := range candidate.TimeSlots {
			if Overlaps(e, c) {
				return true
			}
		}
	}
	return false
}
