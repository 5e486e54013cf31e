package server

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/timetable_builder/internal/model"
	"github.com/Freeeeeet/timetable_builder/internal/repository"
	"github.com/google/uuid"
)

// memoryRepo хранилище в памяти с той же семантикой ошибок, что у pgx-репозиториев
type memoryRepo struct {
	mu         sync.Mutex
	users      map[string]*model.User
	nextUserID int64
	timetables map[uuid.UUID]*model.Timetable
	lectures   map[uuid.UUID][]model.Lecture
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:      make(map[string]*model.User),
		timetables: make(map[uuid.UUID]*model.Timetable),
		lectures:   make(map[uuid.UUID][]model.Lecture),
	}
}

func (r *memoryRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Login]; ok {
		return repository.ErrDuplicate
	}
	r.nextUserID++
	user.ID = r.nextUserID
	user.CreatedAt = time.Now()
	stored := *user
	r.users[user.Login] = &stored
	return nil
}

func (r *memoryRepo) GetByLogin(_ context.Context, login string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[login]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

// timetableRepo вторая половина memoryRepo: у интерфейсов совпадает имя Create
type timetableRepo struct{ *memoryRepo }

func (r timetableRepo) Create(_ context.Context, t *model.Timetable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.UpdatedAt = time.Now()
	stored := *t
	r.timetables[t.ID] = &stored
	return nil
}

func (r timetableRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Timetable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.timetables[id]
	if !ok {
		return nil, nil
	}
	out := *t
	return &out, nil
}

func (r timetableRepo) ListByUser(_ context.Context, userID int64) ([]model.Timetable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Timetable
	for _, t := range r.timetables {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r timetableRepo) ListLectures(_ context.Context, id uuid.UUID) ([]model.Lecture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Lecture, 0, len(r.lectures[id]))
	for _, l := range r.lectures[id] {
		out = append(out, l.Clone())
	}
	return out, nil
}

func (r timetableRepo) CreateLecture(_ context.Context, id uuid.UUID, d model.LectureDraft) (model.Lecture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := d.WithID(uuid.NewString())
	r.lectures[id] = append(r.lectures[id], l)
	return l, nil
}

func (r timetableRepo) ReplaceLecture(_ context.Context, id uuid.UUID, l model.Lecture) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.lectures[id] {
		if r.lectures[id][i].ID == l.ID {
			r.lectures[id][i] = l.Clone()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r timetableRepo) DeleteLecture(_ context.Context, id uuid.UUID, lectureID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.lectures[id]
	for i := range list {
		if list[i].ID == lectureID {
			r.lectures[id] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
