package state

import (
	"context"
	"sync"

	"github.com/Freeeeeet/timetable_builder/internal/gateway"
	"github.com/Freeeeeet/timetable_builder/internal/model"
	"github.com/Freeeeeet/timetable_builder/internal/store"
)

// StoreFactory создаёт стор сессии; credentials отдают токен этой сессии
type StoreFactory func(credentials gateway.CredentialProvider) *store.Store

// Pending черновик, ожидающий решения пользователя по конфликту
type Pending struct {
	Draft      model.LectureDraft
	ConflictID string // лекция, которую перезапишет черновик
}

// Session состояние одного чата
type Session struct {
	ChatID int64
	Store  *store.Store

	mu      sync.Mutex
	token   string
	pending *Pending
}

// Credential токен, полученный через /signin
func (s *Session) Credential(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *Session) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// SetPending запоминает черновик до ответа на клавиатуру конфликта
func (s *Session) SetPending(p Pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &p
}

// TakePending возвращает черновик и сбрасывает его. Повторное нажатие кнопки
// ничего не найдёт.
func (s *Session) TakePending() (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Pending{}, false
	}
	p := *s.pending
	s.pending = nil
	return p, true
}

// Manager управляет сессиями чатов
type Manager struct {
	mu           sync.RWMutex
	sessions     map[int64]*Session // chatID -> Session
	newStore     StoreFactory
	defaultToken string
}

// NewManager defaultToken выдаётся новым сессиям до /signin, может быть пустым
func NewManager(newStore StoreFactory, defaultToken string) *Manager {
	return &Manager{
		sessions:     make(map[int64]*Session),
		newStore:     newStore,
		defaultToken: defaultToken,
	}
}

// Get существующая сессия
func (sm *Manager) Get(chatID int64) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[chatID]
	return s, ok
}

// GetOrCreate сессия чата, создаётся при первом обращении
func (sm *Manager) GetOrCreate(chatID int64) *Session {
	if s, ok := sm.Get(chatID); ok {
		return s
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if s, ok := sm.sessions[chatID]; ok {
		return s
	}
	s := &Session{ChatID: chatID, token: sm.defaultToken}
	s.Store = sm.newStore(s)
	sm.sessions[chatID] = s
	return s
}

// Clear удаляет сессию вместе со стором
func (sm *Manager) Clear(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, chatID)
}

// LiveStores сторы сессий, у которых выбрано расписание
func (sm *Manager) LiveStores() []*store.Store {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	out := make([]*store.Store, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		if s.Store.TimetableID() != "" {
			out = append(out, s.Store)
		}
	}
	return out
}
