package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/timetable_builder/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TimetableRepository расписания и их лекции. Слоты лекции хранятся в jsonb.
type TimetableRepository struct {
	pool *pgxpool.Pool
}

func NewTimetableRepository(pool *pgxpool.Pool) *TimetableRepository {
	return &TimetableRepository{pool: pool}
}

// Create создаёт расписание; пустой ID генерируется
func (r *TimetableRepository) Create(ctx context.Context, t *model.Timetable) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	query := `
		INSERT INTO timetables (id, user_id, title, year, semester)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query, t.ID, t.UserID, t.Title, t.Year, t.Semester).Scan(&t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create timetable: %w", err)
	}
	return nil
}

// GetByID возвращает nil, nil если расписания нет
func (r *TimetableRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Timetable, error) {
	query := `
		SELECT id, user_id, title, year, semester, updated_at
		FROM timetables
		WHERE id = $1
	`

	var t model.Timetable
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.UserID, &t.Title, &t.Year, &t.Semester, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get timetable: %w", err)
	}
	return &t, nil
}

// ListByUser расписания пользователя, последние изменённые первыми
func (r *TimetableRepository) ListByUser(ctx context.Context, userID int64) ([]model.Timetable, error) {
	query := `
		SELECT id, user_id, title, year, semester, updated_at
		FROM timetables
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list timetables: %w", err)
	}
	defer rows.Close()

	timetables := make([]model.Timetable, 0)
	for rows.Next() {
		var t model.Timetable
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Year, &t.Semester, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan timetable: %w", err)
		}
		timetables = append(timetables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timetables: %w", err)
	}
	return timetables, nil
}

// ListLectures лекции расписания в порядке добавления
func (r *TimetableRepository) ListLectures(ctx context.Context, timetableID uuid.UUID) ([]model.Lecture, error) {
	query := `
		SELECT id, title, instructor, department, academic_year, credit, time_slots, remark
		FROM lectures
		WHERE timetable_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, timetableID)
	if err != nil {
		return nil, fmt.Errorf("list lectures: %w", err)
	}
	defer rows.Close()

	lectures := make([]model.Lecture, 0)
	for rows.Next() {
		var (
			l  model.Lecture
			id uuid.UUID
		)
		if err := rows.Scan(&id, &l.Title, &l.Instructor, &l.Department, &l.AcademicYear, &l.Credit, &l.TimeSlots, &l.Remark); err != nil {
			return nil, fmt.Errorf("scan lecture: %w", err)
		}
		l.ID = id.String()
		lectures = append(lectures, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lectures: %w", err)
	}
	return lectures, nil
}

// CreateLecture сохраняет черновик под новым uuid
func (r *TimetableRepository) CreateLecture(ctx context.Context, timetableID uuid.UUID, d model.LectureDraft) (model.Lecture, error) {
	lecture := d.WithID(uuid.NewString())

	query := `
		INSERT INTO lectures (id, timetable_id, title, instructor, department, academic_year, credit, time_slots, remark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		lecture.ID, timetableID, lecture.Title, lecture.Instructor, lecture.Department,
		lecture.AcademicYear, lecture.Credit, lecture.TimeSlots, lecture.Remark,
	)
	if err != nil {
		return model.Lecture{}, fmt.Errorf("create lecture: %w", err)
	}

	if err := r.touch(ctx, timetableID); err != nil {
		return model.Lecture{}, err
	}
	return lecture, nil
}

// ReplaceLecture полная замена полей лекции
func (r *TimetableRepository) ReplaceLecture(ctx context.Context, timetableID uuid.UUID, l model.Lecture) error {
	lectureID, err := uuid.Parse(l.ID)
	if err != nil {
		return ErrNotFound
	}

	query := `
		UPDATE lectures
		SET title = $1, instructor = $2, department = $3, academic_year = $4, credit = $5, time_slots = $6, remark = $7
		WHERE id = $8 AND timetable_id = $9
	`

	result, err := r.pool.Exec(ctx, query,
		l.Title, l.Instructor, l.Department, l.AcademicYear, l.Credit, l.TimeSlots, l.Remark,
		lectureID, timetableID,
	)
	if err != nil {
		return fmt.Errorf("replace lecture: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return r.touch(ctx, timetableID)
}

func (r *TimetableRepository) DeleteLecture(ctx context.Context, timetableID uuid.UUID, id string) error {
	lectureID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.pool.Exec(ctx, `DELETE FROM lectures WHERE id = $1 AND timetable_id = $2`, lectureID, timetableID)
	if err != nil {
		return fmt.Errorf("delete lecture: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return r.touch(ctx, timetableID)
}

func (r *TimetableRepository) touch(ctx context.Context, timetableID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `UPDATE timetables SET updated_at = now() WHERE id = $1`, timetableID); err != nil {
		return fmt.Errorf("touch timetable: %w", err)
	}
	return nil
}
