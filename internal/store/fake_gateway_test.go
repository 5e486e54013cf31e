package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/Freeeeeet/timetable_builder/internal/gateway"
	"github.com/Freeeeeet/timetable_builder/internal/model"
)

// fakeGateway удалённый ресурс в памяти. Через gates можно задержать вызов,
// пока тест не разрешит ему завершиться.
type fakeGateway struct {
	mu     sync.Mutex
	tables map[string][]model.Lecture
	nextID int

	fetchGates map[string]chan struct{} // id расписания -> ворота загрузки
	createGate chan struct{}
	started    chan string // сообщает о начале заблокированного вызова

	fetchErr  error
	createErr error

	fetchCalls  int
	createCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		tables:     make(map[string][]model.Lecture),
		fetchGates: make(map[string]chan struct{}),
		started:    make(chan string, 16),
	}
}

func (g *fakeGateway) seed(id string, lectures ...model.Lecture) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tables[id] = lectures
}

func (g *fakeGateway) FetchLectures(ctx context.Context, id string) ([]model.Lecture, error) {
	g.mu.Lock()
	g.fetchCalls++
	gate := g.fetchGates[id]
	g.mu.Unlock()

	if gate != nil {
		g.started <- "fetch:" + id
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	lectures, ok := g.tables[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	out := make([]model.Lecture, len(lectures))
	for i, l := range lectures {
		out[i] = l.Clone()
	}
	return out, nil
}

func (g *fakeGateway) CreateLecture(ctx context.Context, id string, draft model.LectureDraft) (model.Lecture, error) {
	g.mu.Lock()
	g.createCalls++
	gate := g.createGate
	g.mu.Unlock()

	if gate != nil {
		g.started <- "create"
		<-gate
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return model.Lecture{}, g.createErr
	}
	g.nextID++
	created := draft.WithID("srv-" + strconv.Itoa(g.nextID))
	g.tables[id] = append(g.tables[id], created)
	return created, nil
}

func (g *fakeGateway) ReplaceLecture(ctx context.Context, id string, lecture model.Lecture) (model.Lecture, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, l := range g.tables[id] {
		if l.ID == lecture.ID {
			g.tables[id][i] = lecture.Clone()
			return lecture, nil
		}
	}
	return model.Lecture{}, gateway.ErrNotFound
}

func (g *fakeGateway) DeleteLecture(ctx context.Context, id, lectureID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	lectures := g.tables[id]
	for i, l := range lectures {
		if l.ID == lectureID {
			g.tables[id] = append(lectures[:i:i], lectures[i+1:]...)
			return nil
		}
	}
	return gateway.ErrNotFound
}
