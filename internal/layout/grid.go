// Package layout проецирует недельные интервалы на сетку день/час.
package layout

import "github.com/Freeeeeet/timetable_builder/internal/model"

// Window видимое окно сетки в целых часах, [StartHour, EndHour)
type Window struct {
	StartHour int
	EndHour   int
}

// DefaultWindow 09:00–22:00: 13 строк по часу, 5 колонок
var DefaultWindow = Window{StartHour: 9, EndHour: 22}

// Rows количество часовых строк
func (w Window) Rows() int {
	return w.EndHour - w.StartHour
}

// HourLabels подписи строк: 9, 10, ... 21
func (w Window) HourLabels() []int {
	labels := make([]int, 0, w.Rows())
	for h := w.StartHour; h < w.EndHour; h++ {
		labels = append(labels, h)
	}
	return labels
}

func (w Window) bounds() (int, int) {
	return w.StartHour * 60, w.EndHour * 60
}

// GridCell положение слота в сетке. Проценты считаются от высоты всего окна.
type GridCell struct {
	DayColumn     int
	TopPercent    float64
	HeightPercent float64
	StartRow      int // первая задетая часовая строка
	EndRow        int // последняя задетая часовая строка, включительно
}

// Project возвращает ячейку для слота или false, если слот целиком вне окна.
// Частично видимый слот обрезается по границам окна, а не масштабируется.
func Project(slot model.TimeSlot, w Window) (GridCell, bool) {
	ws, we := w.bounds()
	if we <= ws || slot.EndMinute <= ws || slot.StartMinute >= we {
		return GridCell{}, false
	}

	start := max(slot.StartMinute, ws)
	end := min(slot.EndMinute, we)
	span := float64(we - ws)

	return GridCell{
		DayColumn:     int(slot.Day),
		TopPercent:    clampPercent(100 * float64(start-ws) / span),
		HeightPercent: clampPercent(100 * float64(end-start) / span),
		StartRow:      (start - ws) / 60,
		EndRow:        (end - ws - 1) / 60,
	}, true
}

// Placement видимый слот вместе с лекцией, которой он принадлежит
type Placement struct {
	Lecture model.Lecture
	Slot    model.TimeSlot
	Cell    GridCell
}

// ProjectLecture все видимые слоты лекции
func ProjectLecture(lecture model.Lecture, w Window) []Placement {
	var out []Placement
	for _, slot := range lecture.TimeSlots {
		if cell, ok := Project(slot, w); ok {
			out = append(out, Placement{Lecture: lecture, Slot: slot, Cell: cell})
		}
	}
	return out
}

// ProjectAll проекция всех лекций снимка в порядке отрисовки
func ProjectAll(lectures []model.Lecture, w Window) []Placement {
	var out []Placement
	for _, lecture := range lectures {
		out = append(out, ProjectLecture(lecture, w)...)
	}
	return out
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
