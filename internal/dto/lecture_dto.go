// Package dto описывает JSON-форму удалённого ресурса расписаний.
// День недели на проводе бывает и строкой ("2"), и числом (2); внутрь
// приложения он попадает только как model.Day.
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/timetable_builder/internal/model"
)

// WireDay индекс дня в JSON. Пишется строкой, читается из строки или числа.
type WireDay int

func (d WireDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(d)))
}

func (d *WireDay) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("day %q is not a number", s)
		}
		*d = WireDay(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("day: %w", err)
	}
	*d = WireDay(n)
	return nil
}

// ClassTime слот лекции в формате class_time_json
type ClassTime struct {
	Day         WireDay `json:"day"`
	Place       string  `json:"place"`
	StartMinute int     `json:"startMinute"`
	EndMinute   int     `json:"endMinute"`
}

// Lecture лекция в формате lecture_list
type Lecture struct {
	ID            string      `json:"_id,omitempty"`
	CourseTitle   string      `json:"course_title"`
	Instructor    string      `json:"instructor"`
	Credit        int         `json:"credit"`
	Department    string      `json:"department"`
	AcademicYear  string      `json:"academic_year"`
	ClassTimeJSON []ClassTime `json:"class_time_json"`
	Remark        string      `json:"remark,omitempty"`
}

// Table ответ GET /v1/tables/{id}
type Table struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title,omitempty"`
	Year        int       `json:"year,omitempty"`
	Semester    string    `json:"semester,omitempty"`
	LectureList []Lecture `json:"lecture_list"`
	UpdatedAt   string    `json:"updated_at,omitempty"`
}

// LoginRequest тело POST /v1/auth/login_local
type LoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// LoginResponse ответ POST /v1/auth/login_local
type LoginResponse struct {
	Token string `json:"token"`
}

// ErrorResponse тело ошибки сервера
type ErrorResponse struct {
	Message string `json:"message"`
}

// FromLecture модель -> провод
func FromLecture(l model.Lecture) Lecture {
	out := FromDraft(l.Draft())
	out.ID = l.ID
	return out
}

// FromDraft черновик -> провод, без id
func FromDraft(d model.LectureDraft) Lecture {
	times := make([]ClassTime, 0, len(d.TimeSlots))
	for _, s := range d.TimeSlots {
		times = append(times, ClassTime{
			Day:         WireDay(s.Day),
			Place:       s.Place,
			StartMinute: s.StartMinute,
			EndMinute:   s.EndMinute,
		})
	}
	return Lecture{
		CourseTitle:   d.Title,
		Instructor:    d.Instructor,
		Credit:        d.Credit,
		Department:    d.Department,
		AcademicYear:  d.AcademicYear,
		ClassTimeJSON: times,
		Remark:        d.Remark,
	}
}

// ToLecture провод -> модель. Слоты в неподдерживаемые дни (сб, вс)
// отбрасываются, их количество возвращается вторым значением.
func ToLecture(w Lecture) (model.Lecture, int) {
	slots := make([]model.TimeSlot, 0, len(w.ClassTimeJSON))
	dropped := 0
	for _, ct := range w.ClassTimeJSON {
		day := model.Day(ct.Day)
		if !day.Valid() {
			dropped++
			continue
		}
		slots = append(slots, model.TimeSlot{
			Day:         day,
			StartMinute: ct.StartMinute,
			EndMinute:   ct.EndMinute,
			Place:       ct.Place,
		})
	}
	return model.Lecture{
		ID:           w.ID,
		Title:        w.CourseTitle,
		Instructor:   w.Instructor,
		Department:   w.Department,
		AcademicYear: w.AcademicYear,
		Credit:       w.Credit,
		TimeSlots:    slots,
		Remark:       w.Remark,
	}, dropped
}

// ToDraft провод -> черновик (для входящих запросов на сервере)
func ToDraft(w Lecture) (model.LectureDraft, int) {
	l, dropped := ToLecture(w)
	return l.Draft(), dropped
}
