// Package store владеет снимком выбранного расписания и проводит все
// изменения через удалённый шлюз.
//
// Снимок заменяется целиком только после успешной загрузки. Одновременно
// выполняется не больше одной мутации: вторая сразу получает OutcomeBusy.
// Каждая загрузка помечается поколением; ответ устаревшего поколения
// отбрасывается, поэтому медленный ответ по старому id не затрёт новый.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Freeeeeet/timetable_builder/internal/conflict"
	"github.com/Freeeeeet/timetable_builder/internal/gateway"
	"github.com/Freeeeeet/timetable_builder/internal/model"
	"go.uber.org/zap"
)

// Gateway удалённый источник правды. Реализация не хранит состояние.
type Gateway interface {
	FetchLectures(ctx context.Context, timetableID string) ([]model.Lecture, error)
	CreateLecture(ctx context.Context, timetableID string, draft model.LectureDraft) (model.Lecture, error)
	ReplaceLecture(ctx context.Context, timetableID string, lecture model.Lecture) (model.Lecture, error)
	DeleteLecture(ctx context.Context, timetableID, lectureID string) error
}

type Option func(*Store)

// WithFetchTimeout загрузка дольше d переводит снимок в Failed(ErrTimeout)
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.fetchTimeout = d
	}
}

type Store struct {
	gateway      Gateway
	logger       *zap.Logger
	fetchTimeout time.Duration

	mu      sync.Mutex // только snap, gen, loaded, subs; не держится во время сетевых вызовов
	snap    model.Snapshot
	gen     uint64
	loaded  bool // для текущего id была хотя бы одна успешная загрузка
	subs    map[uint64]func(model.Snapshot)
	nextSub uint64
	pubSeq  uint64 // номер последней публикации, растёт под mu

	notifyMu  sync.Mutex // доставка подписчикам по одной публикации за раз
	delivered uint64     // номер последней доставленной публикации

	mutating atomic.Bool
}

func New(gw Gateway, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		gateway: gw,
		logger:  logger,
		snap:    model.Snapshot{Status: model.StatusIdle},
		subs:    make(map[uint64]func(model.Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot копия текущего состояния. Никогда не ждёт сетевых вызовов.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// TimetableID выбранное расписание
func (s *Store) TimetableID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.TimetableID
}

// TotalCredits сумма кредитов в текущем снимке
func (s *Store) TotalCredits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.TotalCredits()
}

// Busy выполняется ли сейчас мутация
func (s *Store) Busy() bool {
	return s.mutating.Load()
}

// Subscribe вызывает fn после изменений снимка. fn получает копию; вызовы
// не пересекаются и идут в порядке публикаций, устаревшая публикация, которую
// обогнала более новая, пропускается. fn может читать стор, но не менять его.
func (s *Store) Subscribe(fn func(model.Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// SelectTimetable переключает стор на другое расписание. Для того же id ничего не делает.
func (s *Store) SelectTimetable(ctx context.Context, id string) error {
	if id == "" {
		return ErrNoTimetable
	}

	s.mu.Lock()
	if s.snap.TimetableID == id {
		s.mu.Unlock()
		return nil
	}
	s.gen++
	gen := s.gen
	s.loaded = false
	s.snap = model.Snapshot{TimetableID: id, Status: model.StatusLoading}
	s.publishLocked()

	s.logger.Info("Timetable selected", zap.String("timetable_id", id))
	return s.fetch(ctx, id, gen)
}

// Refetch перечитывает текущее расписание, не меняя id
func (s *Store) Refetch(ctx context.Context) error {
	s.mu.Lock()
	id := s.snap.TimetableID
	if id == "" {
		s.mu.Unlock()
		return ErrNoTimetable
	}
	return s.startRefetchLocked(ctx, id)
}

// refetchFor перечитывает расписание id, если оно всё ещё выбрано
func (s *Store) refetchFor(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.snap.TimetableID != id {
		s.mu.Unlock()
		return ErrSuperseded
	}
	return s.startRefetchLocked(ctx, id)
}

// startRefetchLocked вызывается под s.mu и отпускает его
func (s *Store) startRefetchLocked(ctx context.Context, id string) error {
	s.gen++
	gen := s.gen
	s.snap.Status = model.StatusLoading
	s.snap.Err = nil
	s.publishLocked()
	return s.fetch(ctx, id, gen)
}

// publishLocked вызывается под s.mu, отпускает его и уведомляет подписчиков
func (s *Store) publishLocked() {
	s.pubSeq++
	seq := s.pubSeq
	snap := s.snap.Clone()
	subs := make([]func(model.Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if seq <= s.delivered {
		return
	}
	s.delivered = seq
	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) fetch(ctx context.Context, id string, gen uint64) error {
	fctx := ctx
	cancel := func() {}
	if s.fetchTimeout > 0 {
		fctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
	}
	lectures, err := s.gateway.FetchLectures(fctx, id)
	if err == nil {
		lectures, err = s.sanitize(id, lectures)
	}
	if err != nil && errors.Is(fctx.Err(), context.DeadlineExceeded) && !errors.Is(err, gateway.ErrTimeout) {
		err = fmt.Errorf("%w: %w", gateway.ErrTimeout, err)
	}
	cancel()

	s.mu.Lock()
	if gen != s.gen || s.snap.TimetableID != id {
		s.mu.Unlock()
		s.logger.Debug("Discarding stale fetch",
			zap.String("timetable_id", id),
			zap.Uint64("generation", gen))
		return ErrSuperseded
	}

	if err != nil {
		// лекции не трогаем: снимок меняется только на успешной загрузке
		s.snap.Status = model.StatusFailed
		s.snap.Err = err
		s.publishLocked()

		s.logger.Error("Failed to fetch lectures",
			zap.String("timetable_id", id),
			zap.Error(err))
		return err
	}

	s.loaded = true
	s.snap = model.Snapshot{
		TimetableID: id,
		Lectures:    lectures,
		Status:      model.StatusReady,
	}
	s.publishLocked()

	s.logger.Debug("Lectures fetched",
		zap.String("timetable_id", id),
		zap.Int("count", len(lectures)))
	return nil
}

// AddLecture проверяет черновик, ищет конфликты и сохраняет лекцию.
// При конфликте ничего не отправляет и возвращает OutcomeConflict:
// перезаписывать или нет, решает вызывающий.
func (s *Store) AddLecture(ctx context.Context, draft model.LectureDraft) (Result, error) {
	if err := draft.Validate(); err != nil {
		return Result{}, err
	}
	if !s.mutating.CompareAndSwap(false, true) {
		return Result{Outcome: OutcomeBusy}, nil
	}
	defer s.mutating.Store(false)

	snap, err := s.mutableSnapshot()
	if err != nil {
		return Result{}, err
	}

	candidate := draft.AsCandidate()
	if conflict.HasConflict(candidate, snap.Lectures) {
		return s.conflictResult(snap, candidate), nil
	}

	created, err := s.gateway.CreateLecture(ctx, snap.TimetableID, draft)
	if err != nil {
		s.logger.Error("Failed to create lecture",
			zap.String("timetable_id", snap.TimetableID),
			zap.String("title", draft.Title),
			zap.Error(err))
		return Result{}, err
	}

	s.logger.Info("Lecture created",
		zap.String("timetable_id", snap.TimetableID),
		zap.String("lecture_id", created.ID))
	s.resync(ctx, snap.TimetableID)

	return Result{Outcome: OutcomeCommitted, Lecture: created}, nil
}

// ReplaceLecture полная замена лекции по id. Конфликт с собственными
// прежними слотами не считается.
func (s *Store) ReplaceLecture(ctx context.Context, lecture model.Lecture) (Result, error) {
	if lecture.ID == "" {
		return Result{}, fmt.Errorf("%w: lecture id is required", model.ErrValidation)
	}
	if err := lecture.Validate(); err != nil {
		return Result{}, err
	}
	if !s.mutating.CompareAndSwap(false, true) {
		return Result{Outcome: OutcomeBusy}, nil
	}
	defer s.mutating.Store(false)

	snap, err := s.mutableSnapshot()
	if err != nil {
		return Result{}, err
	}

	if conflict.HasConflict(lecture, snap.Lectures) {
		return s.conflictResult(snap, lecture), nil
	}

	updated, err := s.gateway.ReplaceLecture(ctx, snap.TimetableID, lecture)
	if err != nil {
		s.logger.Error("Failed to replace lecture",
			zap.String("timetable_id", snap.TimetableID),
			zap.String("lecture_id", lecture.ID),
			zap.Error(err))
		return Result{}, err
	}

	s.logger.Info("Lecture replaced",
		zap.String("timetable_id", snap.TimetableID),
		zap.String("lecture_id", lecture.ID))
	s.resync(ctx, snap.TimetableID)

	return Result{Outcome: OutcomeCommitted, Lecture: updated}, nil
}

// RemoveLecture удаляет лекцию и перечитывает расписание
func (s *Store) RemoveLecture(ctx context.Context, lectureID string) (Result, error) {
	if lectureID == "" {
		return Result{}, fmt.Errorf("%w: lecture id is required", model.ErrValidation)
	}
	if !s.mutating.CompareAndSwap(false, true) {
		return Result{Outcome: OutcomeBusy}, nil
	}
	defer s.mutating.Store(false)

	id := s.TimetableID()
	if id == "" {
		return Result{}, ErrNoTimetable
	}

	if err := s.gateway.DeleteLecture(ctx, id, lectureID); err != nil {
		s.logger.Error("Failed to delete lecture",
			zap.String("timetable_id", id),
			zap.String("lecture_id", lectureID),
			zap.Error(err))
		return Result{}, err
	}

	s.logger.Info("Lecture deleted",
		zap.String("timetable_id", id),
		zap.String("lecture_id", lectureID))
	s.resync(ctx, id)

	return Result{Outcome: OutcomeCommitted}, nil
}

func (s *Store) mutableSnapshot() (model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.TimetableID == "" {
		return model.Snapshot{}, ErrNoTimetable
	}
	if !s.loaded {
		return model.Snapshot{}, ErrNotReady
	}
	return s.snap.Clone(), nil
}

func (s *Store) conflictResult(snap model.Snapshot, candidate model.Lecture) Result {
	conflicts := conflict.Conflicting(candidate, snap.Lectures)
	s.logger.Info("Lecture conflicts with existing ones",
		zap.String("timetable_id", snap.TimetableID),
		zap.String("title", candidate.Title),
		zap.Int("conflicts", len(conflicts)))
	return Result{Outcome: OutcomeConflict, Conflicts: conflicts}
}

// resync перечитывает расписание после успешной мутации. Мутация уже
// применена на сервере, поэтому ошибка загрузки видна только в снимке.
func (s *Store) resync(ctx context.Context, id string) {
	if err := s.refetchFor(ctx, id); err != nil && !errors.Is(err, ErrSuperseded) {
		s.logger.Warn("Refetch after mutation failed",
			zap.String("timetable_id", id),
			zap.Error(err))
	}
}

// sanitize проверяет ответ сервера перед тем, как он станет снимком:
// повторяющийся id ломает весь ответ, слот с неверными границами отбрасывается.
func (s *Store) sanitize(id string, lectures []model.Lecture) ([]model.Lecture, error) {
	seen := make(map[string]struct{}, len(lectures))
	out := make([]model.Lecture, 0, len(lectures))
	for _, l := range lectures {
		if _, dup := seen[l.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate lecture id %q", gateway.ErrServer, l.ID)
		}
		seen[l.ID] = struct{}{}

		valid := make([]model.TimeSlot, 0, len(l.TimeSlots))
		for _, slot := range l.TimeSlots {
			if err := slot.Validate(); err != nil {
				s.logger.Warn("Skipping invalid time slot",
					zap.String("timetable_id", id),
					zap.String("lecture_id", l.ID),
					zap.Error(err))
				continue
			}
			valid = append(valid, slot)
		}
		l.TimeSlots = valid
		out = append(out, l)
	}
	return out, nil
}
