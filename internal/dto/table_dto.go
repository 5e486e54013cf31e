package dto

import (
	"time"

	"github.com/Freeeeeet/timetable_builder/internal/model"
)

// TableInfo элемент ответа GET /v1/tables
type TableInfo struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	Semester  string `json:"semester"`
	UpdatedAt string `json:"updated_at"`
}

// CreateTableRequest тело POST /v1/tables
type CreateTableRequest struct {
	Title    string `json:"title"`
	Year     int    `json:"year"`
	Semester string `json:"semester"`
}

func FromTimetable(t model.Timetable) TableInfo {
	return TableInfo{
		ID:        t.ID.String(),
		Title:     t.Title,
		Year:      t.Year,
		Semester:  t.Semester,
		UpdatedAt: t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// NewTable полный ответ GET /v1/tables/{id}
func NewTable(t model.Timetable, lectures []model.Lecture) Table {
	list := make([]Lecture, 0, len(lectures))
	for _, l := range lectures {
		list = append(list, FromLecture(l))
	}
	info := FromTimetable(t)
	return Table{
		ID:          info.ID,
		Title:       info.Title,
		Year:        info.Year,
		Semester:    info.Semester,
		LectureList: list,
		UpdatedAt:   info.UpdatedAt,
	}
}
