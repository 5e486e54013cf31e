package store

import (
	"errors"

	"github.com/Freeeeeet/timetable_builder/internal/model"
)

var (
	ErrNoTimetable = errors.New("no timetable selected")
	// ErrNotReady снимок ещё ни разу не загрузился, проверять конфликты не с чем
	ErrNotReady = errors.New("timetable is not loaded yet")
	// ErrSuperseded ответ пришёл для устаревшего выбора и был отброшен
	ErrSuperseded = errors.New("fetch superseded by a newer one")
)

// Outcome результат мутации. Conflict и Busy не ошибки, а решения для вызывающего.
type Outcome int

const (
	OutcomeCommitted Outcome = iota
	OutcomeConflict
	OutcomeBusy
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeConflict:
		return "conflict"
	case OutcomeBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Result что произошло с мутацией
type Result struct {
	Outcome Outcome
	// Lecture сохранённая сервером лекция (для add/replace при Committed)
	Lecture model.Lecture
	// Conflicts лекции, с которыми пересекается кандидат (при Conflict)
	Conflicts []model.Lecture
}
