// Package server эталонный удалённый ресурс расписаний: JSON поверх HTTP,
// токен сессии в заголовке x-access-token.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/Freeeeeet/timetable_builder/internal/dto"
	"github.com/Freeeeeet/timetable_builder/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserRepository хранилище пользователей
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByLogin(ctx context.Context, login string) (*model.User, error)
}

// TimetableRepository хранилище расписаний и лекций
type TimetableRepository interface {
	Create(ctx context.Context, t *model.Timetable) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Timetable, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Timetable, error)
	ListLectures(ctx context.Context, timetableID uuid.UUID) ([]model.Lecture, error)
	CreateLecture(ctx context.Context, timetableID uuid.UUID, draft model.LectureDraft) (model.Lecture, error)
	ReplaceLecture(ctx context.Context, timetableID uuid.UUID, lecture model.Lecture) error
	DeleteLecture(ctx context.Context, timetableID uuid.UUID, lectureID string) error
}

type Server struct {
	echo       *echo.Echo
	users      UserRepository
	timetables TimetableRepository
	tokens     *Tokens
	logger     *zap.Logger
}

func New(users UserRepository, timetables TimetableRepository, tokens *Tokens, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:       e,
		users:      users,
		timetables: timetables,
		tokens:     tokens,
		logger:     logger,
	}
	e.HTTPErrorHandler = s.handleError
	e.Use(s.requestLogger)
	s.routes()
	return s
}

func (s *Server) routes() {
	v1 := s.echo.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/login_local", s.login)
	auth.POST("/register_local", s.register)

	tables := v1.Group("/tables", s.tokens.AuthMiddleware())
	tables.GET("", s.listTables)
	tables.POST("", s.createTable)
	tables.GET("/:tid", s.getTable)
	tables.POST("/:tid/lecture", s.createLecture)
	tables.PUT("/:tid/lecture/:lid", s.replaceLecture)
	tables.DELETE("/:tid/lecture/:lid", s.deleteLecture)
}

// Handler для http.Server и httptest
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start блокируется до Shutdown
func (s *Server) Start(addr string) error {
	s.logger.Info("Timetable server listening", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleError все ошибки отдаются как {"message": ...}
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	default:
		s.logger.Error("Request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, dto.ErrorResponse{Message: message})
	}
	if err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.logger.Debug("HTTP request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status))
		return nil
	}
}
