package model

import (
	"time"

	"github.com/google/uuid"
)

// User владелец расписаний на стороне сервера
type User struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	Nickname     string    `json:"nickname"`
	CreatedAt    time.Time `json:"created_at"`
}

// Timetable расписание пользователя на сервере
type Timetable struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Year      int       `json:"year"`
	Semester  string    `json:"semester"`
	UpdatedAt time.Time `json:"updated_at"`
}
