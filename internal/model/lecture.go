package model

import (
	"fmt"
	"strconv"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const draftIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// DraftIDPrefix отличает локальные id черновиков от серверных
const DraftIDPrefix = "draft-"

// TimeSlot один еженедельный интервал занятия
type TimeSlot struct {
	Day         Day    `json:"day"`
	StartMinute int    `json:"start_minute"` // минуты от 00:00
	EndMinute   int    `json:"end_minute"`   // не включительно, <= 1440
	Place       string `json:"place"`
}

// Validate проверяет границы интервала
func (s TimeSlot) Validate() error {
	if !s.Day.Valid() {
		return fmt.Errorf("%w: unsupported day %d", ErrValidation, int(s.Day))
	}
	if s.StartMinute < 0 || s.EndMinute > MinutesPerDay {
		return fmt.Errorf("%w: slot %s is outside of the day", ErrValidation, s)
	}
	if s.StartMinute >= s.EndMinute {
		return fmt.Errorf("%w: slot %s must start before it ends", ErrValidation, s)
	}
	return nil
}

// Duration длительность в минутах
func (s TimeSlot) Duration() int {
	return s.EndMinute - s.StartMinute
}

func (s TimeSlot) String() string {
	return s.Day.String() + " " + FormatMinute(s.StartMinute) + "-" + FormatMinute(s.EndMinute)
}

// Lecture запись о курсе в расписании
type Lecture struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Instructor   string     `json:"instructor"`
	Department   string     `json:"department"`
	AcademicYear string     `json:"academic_year"`
	Credit       int        `json:"credit"`
	TimeSlots    []TimeSlot `json:"time_slots"`
	Remark       string     `json:"remark,omitempty"`
}

// Clone глубокая копия, чтобы снимок не делил слайсы с вызывающим кодом
func (l Lecture) Clone() Lecture {
	c := l
	if l.TimeSlots != nil {
		c.TimeSlots = append([]TimeSlot(nil), l.TimeSlots...)
	}
	return c
}

// Draft отбрасывает id и возвращает черновик с теми же данными
func (l Lecture) Draft() LectureDraft {
	return LectureDraft{
		Title:        l.Title,
		Instructor:   l.Instructor,
		Department:   l.Department,
		AcademicYear: l.AcademicYear,
		Credit:       l.Credit,
		TimeSlots:    append([]TimeSlot(nil), l.TimeSlots...),
		Remark:       l.Remark,
	}
}

// Validate проверяет лекцию так же, как черновик
func (l Lecture) Validate() error {
	return l.Draft().Validate()
}

// LectureDraft лекция до назначения серверного id
type LectureDraft struct {
	Title        string
	Instructor   string
	Department   string
	AcademicYear string
	Credit       int
	TimeSlots    []TimeSlot
	Remark       string
}

// Validate локальная проверка перед любым сетевым вызовом
func (d LectureDraft) Validate() error {
	if d.Credit < 0 {
		return fmt.Errorf("%w: credit must not be negative", ErrValidation)
	}
	if len(d.TimeSlots) == 0 {
		return fmt.Errorf("%w: at least one time slot is required", ErrValidation)
	}
	for i, slot := range d.TimeSlots {
		if err := slot.Validate(); err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
	}
	return nil
}

// WithID превращает черновик в лекцию с указанным id.
// Используется для перезаписи конфликтующей лекции.
func (d LectureDraft) WithID(id string) Lecture {
	return Lecture{
		ID:           id,
		Title:        d.Title,
		Instructor:   d.Instructor,
		Department:   d.Department,
		AcademicYear: d.AcademicYear,
		Credit:       d.Credit,
		TimeSlots:    append([]TimeSlot(nil), d.TimeSlots...),
		Remark:       d.Remark,
	}
}

// AsCandidate лекция с локальным id для проверки конфликтов до сохранения
func (d LectureDraft) AsCandidate() Lecture {
	return d.WithID(NewDraftID())
}

// NewDraftID генерирует локальный id для ещё не сохранённой лекции
func NewDraftID() string {
	id, err := gonanoid.Generate(draftIDAlphabet, 10)
	if err != nil {
		return DraftIDPrefix + "local"
	}
	return DraftIDPrefix + id
}

// FormatMinute 570 -> "09:30"
func FormatMinute(m int) string {
	return twoDigits(m/60) + ":" + twoDigits(m%60)
}

// ParseClock "9:30" -> 570
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: bad time %q", ErrValidation, s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || h == 24 && m != 0 {
		return 0, fmt.Errorf("%w: bad time %q", ErrValidation, s)
	}
	return h*60 + m, nil
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
