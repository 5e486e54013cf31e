package handlers

import (
	"context"

	"github.com/Freeeeeet/timetable_builder/internal/controller/state"
	"github.com/Freeeeeet/timetable_builder/internal/layout"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Authenticator обменивает логин и пароль на токен сессии
type Authenticator interface {
	SignIn(ctx context.Context, login, password string) (string, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	sessions         *state.Manager
	auth             Authenticator
	window           layout.Window
	defaultTimetable string
	logger           *zap.Logger
}

// NewHandlers defaultTimetable выбирается по /start, если задан
func NewHandlers(sessions *state.Manager, auth Authenticator, window layout.Window, defaultTimetable string, logger *zap.Logger) *Handlers {
	return &Handlers{
		sessions:         sessions,
		auth:             auth,
		window:           window,
		defaultTimetable: defaultTimetable,
		logger:           logger,
	}
}

// reply ответ на команду; отправляется одним из send* в middleware.go
type reply struct {
	text     string
	markup   models.ReplyMarkup
	file     []byte
	filename string
	photo    bool
}

func textReply(text string) reply {
	return reply{text: text}
}
