package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Freeeeeet/timetable_builder/internal/store"
	"go.uber.org/zap"
)

// StoreSource отдаёт сторы, которые надо держать в актуальном состоянии
type StoreSource interface {
	LiveStores() []*store.Store
}

// Scheduler периодически перечитывает расписания, чтобы снимки
// видели правки, сделанные в другом месте
type Scheduler struct {
	source   StoreSource
	interval time.Duration
	logger   *zap.Logger

	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

func NewScheduler(source StoreSource, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		source:   source,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновую синхронизацию
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background sync", zap.Duration("interval", s.interval))
	go s.runSyncTask(ctx)
}

// Stop останавливает синхронизацию и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background sync")
		close(s.stopChan)
	})
	<-s.done
}

func (s *Scheduler) runSyncTask(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SyncOnce(ctx)
		case <-s.stopChan:
			s.logger.Info("Sync task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Sync task cancelled")
			return
		}
	}
}

// SyncOnce один проход по всем живым сторам. Сторы с идущей мутацией
// пропускаются: они перечитаются сами после её завершения.
func (s *Scheduler) SyncOnce(ctx context.Context) {
	stores := s.source.LiveStores()
	failed := 0
	for _, st := range stores {
		if st.Busy() {
			continue
		}
		if err := st.Refetch(ctx); err != nil && !errors.Is(err, store.ErrSuperseded) {
			failed++
			s.logger.Warn("Background refetch failed",
				zap.String("timetable_id", st.TimetableID()),
				zap.Error(err))
		}
	}
	s.logger.Debug("Background sync completed",
		zap.Int("stores", len(stores)),
		zap.Int("failed", failed))
}
